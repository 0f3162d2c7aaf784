package notation

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(*parser)
}

type fieldopt struct {
	f Field
}

func (o fieldopt) parseOption(p *parser) {
	p.field = o.f
}

// WithField selects the numeric field literals are built in and evaluation
// happens over. The default is Units, the dimensioned field.
func WithField(f Field) ParseOption {
	return fieldopt{f}
}
