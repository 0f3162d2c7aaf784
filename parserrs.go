package notation

import "strconv"

// ParseError is an error indicating input the parser could not accept. It
// records where in the line the parse stopped and accumulates the enclosing
// grammar productions as it propagates outward. It implements InputError.
type ParseError struct {
	// Msg describes what the parser wanted, prefixed with the productions it
	// was inside.
	Msg string
	// Line is the 1-based line number within a session. Parse sets it to 1;
	// multi-line drivers overwrite it.
	Line int
	// Offset is the byte offset of the offending input within the line.
	Offset int
	// Fragment is the rest of the line from the point of failure.
	Fragment string
}

func (err *ParseError) Error() string {
	pos := "line " + strconv.Itoa(err.Line) + ", offset " + strconv.Itoa(err.Offset)
	if err.Fragment == "" {
		return pos + ": " + err.Msg
	}
	return pos + ": " + err.Msg + " near " + strconv.Quote(err.Fragment)
}

func (err *ParseError) Pos() int {
	return err.Offset
}

// in prefixes the message with the production the error occurred inside.
func (err *ParseError) in(production string) *ParseError {
	err.Msg = production + ": " + err.Msg
	return err
}

// annotate adds production context to parse errors and passes every other
// error through.
func annotate(err error, production string) error {
	if pe, ok := err.(*ParseError); ok {
		return pe.in(production)
	}
	return err
}

// InputError is an error with position information. Every error resulting from
// unparseable input implements InputError.
type InputError interface {
	error
	// Pos returns the byte offset within the line of the token that caused
	// the error.
	Pos() int
}

var _ InputError = (*ParseError)(nil)
