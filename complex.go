package notation

import (
	"math"
	"math/cmplx"
	"strconv"
)

type complexField struct{}

func (complexField) FromFloat(v float64) Value { return Complex(complex(v, 0)) }

func (complexField) FromName(name string) (Value, error) {
	if name == "i" {
		return Complex(complex(0, 1)), nil
	}
	return nil, errNoSuchLiteral
}

// Complex is a complex number. It coerces to a scalar only when its imaginary
// part is zero.
type Complex complex128

func (x Complex) Add(v Value) (Value, error) { return x + v.(Complex), nil }

func (x Complex) Sub(v Value) (Value, error) { return x - v.(Complex), nil }

func (x Complex) Mul(v Value) Value { return x * v.(Complex) }

func (x Complex) Div(v Value) Value { return x / v.(Complex) }

func (x Complex) Pow(exp Value) (Value, error) {
	return Complex(cmplx.Pow(complex128(x), complex128(exp.(Complex)))), nil
}

func (x Complex) Root(n int) (Value, error) {
	return Complex(cmplx.Pow(complex128(x), complex(1/float64(n), 0))), nil
}

func (x Complex) Fract() (float64, error) {
	s, err := x.Scalar()
	if err != nil {
		return 0, err
	}
	return math.Mod(s, 1), nil
}

func (x Complex) Scalar() (float64, error) {
	if imag(complex128(x)) != 0 {
		return 0, &ScalarError{Val: x.String()}
	}
	return real(complex128(x)), nil
}

func (x Complex) Sin() (Value, error) { return Complex(cmplx.Sin(complex128(x))), nil }

func (x Complex) Cos() (Value, error) { return Complex(cmplx.Cos(complex128(x))), nil }

func (x Complex) Tan() (Value, error) { return Complex(cmplx.Tan(complex128(x))), nil }

func (x Complex) String() string {
	if imag(complex128(x)) == 0 {
		return formatFloat(real(complex128(x)))
	}
	return strconv.FormatComplex(complex128(x), 'f', -1, 128)
}

var _ Value = Complex(0)
