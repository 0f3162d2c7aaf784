// Package notation evaluates notebook-style calculator input: algebraic and
// LaTeX-flavored lines are parsed into expression trees and evaluated against
// an accumulating session context, with physical units carried through the
// arithmetic.
//
// A line is either an expression or a definition. Definitions bind a variable
// or a function for the rest of the session:
//
//	a = 3
//	f(x, y) = x + y
//	f(a, 2) \cdot 1 km
//
// Numbers written next to names multiply them, so "2 km" is two kilometres,
// a dimensioned value. Arithmetic on dimensioned values checks quantities:
// adding metres to seconds is an error, and dividing newtons by kilograms
// yields an acceleration that prints as "1 m/s^2". The LaTeX forms \frac,
// \sqrt, \sum, and \prod are evaluated, along with \sin and friends:
//
//	\sum^{10}_{i=1}{i^2}
//
// Values belong to a Field selected at parse time: dimensioned values (the
// default), plain reals, or complex numbers.
package notation
