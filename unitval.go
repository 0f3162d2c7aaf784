package notation

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

type unitField struct{}

func (unitField) FromFloat(v float64) Value { return UnitVal{Val: v} }

func (unitField) FromName(sym string) (Value, error) {
	scale, q, err := lookupUnit(sym)
	if err != nil {
		return nil, err
	}
	return UnitVal{Val: scale, Quantity: q}, nil
}

// UnitVal is a dimensioned value: a magnitude held in SI base units paired
// with the quantity it measures. Unit symbols are resolved on the way in and
// synthesized again on the way out; they are never stored.
type UnitVal struct {
	Val      float64
	Quantity Quantity
}

func (x UnitVal) Add(v Value) (Value, error) {
	y := v.(UnitVal)
	if x.Quantity != y.Quantity {
		return nil, &UnitError{Msg: "cannot add " + x.String() + " and " + y.String() + ": quantities differ"}
	}
	return UnitVal{x.Val + y.Val, x.Quantity}, nil
}

func (x UnitVal) Sub(v Value) (Value, error) {
	y := v.(UnitVal)
	if x.Quantity != y.Quantity {
		return nil, &UnitError{Msg: "cannot subtract " + y.String() + " from " + x.String() + ": quantities differ"}
	}
	return UnitVal{x.Val - y.Val, x.Quantity}, nil
}

func (x UnitVal) Mul(v Value) Value {
	y := v.(UnitVal)
	return UnitVal{x.Val * y.Val, x.Quantity.Add(y.Quantity)}
}

func (x UnitVal) Div(v Value) Value {
	y := v.(UnitVal)
	return UnitVal{x.Val / y.Val, x.Quantity.Sub(y.Quantity)}
}

// Pow raises the value to exp. Integer exponents scale the quantity;
// reciprocals of integers take roots; any other exponent demands a
// dimensionless base.
func (x UnitVal) Pow(exp Value) (Value, error) {
	e, err := exp.Scalar()
	if err != nil {
		return nil, err
	}
	if math.Mod(e, 1) == 0 {
		n := int(e)
		return UnitVal{math.Pow(x.Val, float64(n)), x.Quantity.Scale(n)}, nil
	}
	if n := 1 / e; math.Abs(n-math.Round(n)) < 1e-9 {
		return x.Root(int(math.Round(n)))
	}
	s, err := x.Scalar()
	if err != nil {
		return nil, err
	}
	return UnitVal{Val: math.Pow(s, e)}, nil
}

// Root takes the nth root. Every exponent of the quantity must divide evenly
// by n.
func (x UnitVal) Root(n int) (Value, error) {
	q, ok := x.Quantity.Root(n)
	if !ok {
		return nil, &UnitError{Msg: "cannot take root " + strconv.Itoa(n) + " of " + x.String()}
	}
	return UnitVal{math.Pow(x.Val, 1/float64(n)), q}, nil
}

func (x UnitVal) Fract() (float64, error) {
	s, err := x.Scalar()
	if err != nil {
		return 0, err
	}
	return math.Mod(s, 1), nil
}

func (x UnitVal) Scalar() (float64, error) {
	if !x.Quantity.IsZero() {
		return 0, &UnitError{Msg: "cannot use " + x.String() + " as a scalar"}
	}
	return x.Val, nil
}

func (x UnitVal) Sin() (Value, error) {
	s, err := x.Scalar()
	if err != nil {
		return nil, err
	}
	return UnitVal{Val: math.Sin(s)}, nil
}

func (x UnitVal) Cos() (Value, error) {
	s, err := x.Scalar()
	if err != nil {
		return nil, err
	}
	return UnitVal{Val: math.Cos(s)}, nil
}

func (x UnitVal) Tan() (Value, error) {
	s, err := x.Scalar()
	if err != nil {
		return nil, err
	}
	return UnitVal{Val: math.Tan(s)}, nil
}

// String renders the value with SI preferred units.
func (x UnitVal) String() string { return x.Format("SI") }

// Format renders the value with the preferred units of a system. When the
// system cannot express the quantity, the SI base dimensions are used
// directly.
func (x UnitVal) Format(system string) string {
	s, err := x.render(system)
	if err != nil {
		return formatFloat(x.Val) + " " + x.Quantity.String()
	}
	return s
}

func (x UnitVal) render(system string) (string, error) {
	if x.Quantity.IsZero() {
		return formatFloat(x.Val), nil
	}
	used, err := decompose(x.Quantity, system)
	if err != nil {
		return "", err
	}
	// Positive exponents first, then negatives, each run in name order.
	sort.Slice(used, func(i, j int) bool {
		pi, pj := used[i].Exp > 0, used[j].Exp > 0
		if pi != pj {
			return pi
		}
		return used[i].Unit.Name < used[j].Unit.Name
	})
	scale := 1.0
	positives := 0
	var b strings.Builder
	for _, u := range used {
		scale *= math.Pow(u.Unit.Scale, float64(u.Exp))
		if u.Exp > 0 {
			// Joined with * so the text reads back as multiplication.
			if positives > 0 {
				b.WriteByte('*')
			}
			positives++
		} else {
			// Each negative takes its own slash; division is
			// left-associative, so /m/s reads back as 1/(m s).
			b.WriteByte('/')
		}
		b.WriteString(u.Unit.Name)
		if e := absInt(u.Exp); e != 1 {
			b.WriteByte('^')
			b.WriteString(strconv.Itoa(e))
		}
	}
	name := b.String()
	val := x.Val / scale
	// A single positive unit can take a metric prefix. Grams are scaled so
	// that the kilogram is the base; prefixing kg again reads badly.
	if positives == 1 && used[0].Unit.Name != "kg" && val > 0 {
		ue := used[0].Exp
		// Log10 of an exact power of ten can come out a hair low, which
		// would drop a whole prefix step.
		lg := math.Log10(val)
		if r := math.Round(lg); math.Abs(lg-r) < 1e-9 {
			lg = r
		}
		pe := int(math.Floor(lg)) / ue / 3 * 3
		if pe > 12 {
			pe = 12
		}
		if pe < -12 {
			pe = -12
		}
		if pe != 0 {
			if p, ok := prefixByExp[pe]; ok {
				reduced := val / math.Pow(10, float64(pe*ue))
				return formatFloat(reduced) + " " + string(p) + name, nil
			}
		}
	}
	return formatFloat(val) + " " + name, nil
}

var _ Value = UnitVal{}
