package notation

import (
	"errors"
	"math"
	"strconv"
)

// Value is a single calculated quantity. The parser and evaluator manipulate
// values only through this capability set, so the numeric semantics of a
// session are fixed entirely by the Field that produced its literals. Values
// of different fields never mix.
type Value interface {
	// Add sums two values. Dimensioned values of different quantities do not
	// sum.
	Add(Value) (Value, error)
	// Sub subtracts a value, under the same condition as Add.
	Sub(Value) (Value, error)
	// Mul multiplies two values.
	Mul(Value) Value
	// Div divides by a value.
	Div(Value) Value
	// Pow raises the value to exp, which must coerce to a scalar.
	Pow(exp Value) (Value, error)
	// Root takes the nth root of the value.
	Root(n int) (Value, error)
	// Fract returns the fractional part of the value's scalar form.
	Fract() (float64, error)
	// Scalar coerces the value to a dimensionless float64.
	Scalar() (float64, error)
	// Sin, Cos, and Tan are the trigonometric functions on the value.
	Sin() (Value, error)
	Cos() (Value, error)
	Tan() (Value, error)
	// String renders the value in a form the parser accepts back.
	String() string
}

// Field constructs the values of one numeric domain.
type Field interface {
	// FromFloat makes a dimensionless value.
	FromFloat(float64) Value
	// FromName interprets a bare name as a literal of the field, if the field
	// has one by that name: a unit symbol for Units, i for Complexes. The
	// parser falls back to a variable reference when FromName fails.
	FromName(string) (Value, error)
}

// The available fields.
var (
	Reals     Field = realField{}
	Complexes Field = complexField{}
	Units     Field = unitField{}
)

// errNoSuchLiteral is the FromName failure for fields without a literal of
// the requested name.
var errNoSuchLiteral = errors.New("no such literal")

// ScalarError indicates a value that cannot be coerced to a plain scalar. It
// implements EvalError.
type ScalarError struct {
	// Val is the rendered value.
	Val string
}

func (err *ScalarError) Error() string {
	return "cannot use " + err.Val + " as a scalar"
}

type realField struct{}

func (realField) FromFloat(v float64) Value { return Real(v) }

func (realField) FromName(name string) (Value, error) {
	return nil, errNoSuchLiteral
}

// Real is a plain real number.
type Real float64

func (x Real) Add(v Value) (Value, error) { return x + v.(Real), nil }

func (x Real) Sub(v Value) (Value, error) { return x - v.(Real), nil }

func (x Real) Mul(v Value) Value { return x * v.(Real) }

func (x Real) Div(v Value) Value { return x / v.(Real) }

func (x Real) Pow(exp Value) (Value, error) {
	e, err := exp.Scalar()
	if err != nil {
		return nil, err
	}
	return Real(math.Pow(float64(x), e)), nil
}

func (x Real) Root(n int) (Value, error) {
	return Real(math.Pow(float64(x), 1/float64(n))), nil
}

func (x Real) Fract() (float64, error) {
	return math.Mod(float64(x), 1), nil
}

func (x Real) Scalar() (float64, error) { return float64(x), nil }

func (x Real) Sin() (Value, error) { return Real(math.Sin(float64(x))), nil }

func (x Real) Cos() (Value, error) { return Real(math.Cos(float64(x))), nil }

func (x Real) Tan() (Value, error) { return Real(math.Tan(float64(x))), nil }

func (x Real) String() string { return formatFloat(float64(x)) }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var (
	_ Value = Real(0)
	_ error = (*ScalarError)(nil)
)
