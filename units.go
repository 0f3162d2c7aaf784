package notation

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Dimension indices of a Quantity.
const (
	dimLength = iota
	dimTime
	dimMass
	dimCurrent
	dimTemperature
	dimAmount
	dimLuminosity
	numDims
)

// Quantity is a vector of integer exponents over the SI base dimensions. The
// zero Quantity is dimensionless.
type Quantity [numDims]int

func (q Quantity) IsZero() bool { return q == Quantity{} }

// Dim is the total absolute exponent, a rough measure of how much explaining
// a rendered unit has to do.
func (q Quantity) Dim() int {
	d := 0
	for _, e := range q {
		if e < 0 {
			e = -e
		}
		d += e
	}
	return d
}

func (q Quantity) Add(r Quantity) Quantity {
	for i := range q {
		q[i] += r[i]
	}
	return q
}

func (q Quantity) Sub(r Quantity) Quantity {
	for i := range q {
		q[i] -= r[i]
	}
	return q
}

// Scale multiplies every exponent by n.
func (q Quantity) Scale(n int) Quantity {
	for i := range q {
		q[i] *= n
	}
	return q
}

// Root divides every exponent by n. It reports false when any exponent does
// not divide evenly.
func (q Quantity) Root(n int) (Quantity, bool) {
	for i, e := range q {
		if e%n != 0 {
			return Quantity{}, false
		}
		q[i] = e / n
	}
	return q, true
}

// String renders the quantity in SI base units, for error messages and as the
// fallback when no decomposition exists.
func (q Quantity) String() string {
	names := [numDims]string{"m", "s", "kg", "A", "K", "mol", "cd"}
	if q.IsZero() {
		return "1"
	}
	var b strings.Builder
	for i, e := range q {
		if e == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(names[i])
		if e != 1 {
			b.WriteByte('^')
			b.WriteString(strconv.Itoa(e))
		}
	}
	return b.String()
}

// fitsWithin reports whether q raised to some integer power uses only
// exponents available in outer: every nonzero exponent of q must agree in
// sign with outer after orienting by the power, and must not exceed outer's
// magnitude. The returned power is the largest magnitude satisfying that.
func (q Quantity) fitsWithin(outer Quantity) (int, bool) {
	k := 0
	for i := range q {
		if q[i] == 0 || outer[i] == 0 {
			continue
		}
		r := outer[i] / q[i]
		if k == 0 || absInt(r) < absInt(k) {
			k = r
		}
	}
	if k == 0 {
		return 0, false
	}
	s := signInt(k)
	for i := range q {
		if q[i] == 0 {
			continue
		}
		if signInt(q[i]*s) != signInt(outer[i]) || absInt(q[i]) > absInt(outer[i]) {
			return 0, false
		}
	}
	return k, true
}

// Unit is a named unit: a scale to SI base units and the quantity it
// measures.
type Unit struct {
	Name     string
	Scale    float64
	Quantity Quantity
}

// unitTable is the registry of recognized unit symbols. It is never modified
// after initialization.
var unitTable = map[string]Unit{
	"Pa":  {"Pa", 1, Quantity{dimLength: -1, dimTime: -2, dimMass: 1}},
	"psi": {"psi", 6894.757, Quantity{dimLength: -1, dimTime: -2, dimMass: 1}},
	"bar": {"bar", 100000, Quantity{dimLength: -1, dimTime: -2, dimMass: 1}},
	"N":   {"N", 1, Quantity{dimLength: 1, dimTime: -2, dimMass: 1}},
	"lbf": {"lbf", 4.448222, Quantity{dimLength: 1, dimTime: -2, dimMass: 1}},
	"m":   {"m", 1, Quantity{dimLength: 1}},
	"ft":  {"ft", 0.3048, Quantity{dimLength: 1}},
	"in":  {"in", 0.0254, Quantity{dimLength: 1}},
	"s":   {"s", 1, Quantity{dimTime: 1}},
	"Hz":  {"Hz", 1, Quantity{dimTime: -1}},
	"kg":  {"kg", 1, Quantity{dimMass: 1}},
	"g":   {"g", 0.001, Quantity{dimMass: 1}},
	"lb":  {"lb", 0.4535924, Quantity{dimMass: 1}},
	"A":   {"A", 1, Quantity{dimCurrent: 1}},
	"K":   {"K", 1, Quantity{dimTemperature: 1}},
	"mol": {"mol", 1, Quantity{dimAmount: 1}},
	"cd":  {"cd", 1, Quantity{dimLuminosity: 1}},
}

// prefixTable maps metric prefixes to their powers of ten.
var prefixTable = map[byte]int{
	'p': -12,
	'n': -9,
	'u': -6,
	'm': -3,
	'k': 3,
	'M': 6,
	'G': 9,
	'T': 12,
}

// prefixByExp is the reverse of prefixTable.
var prefixByExp = func() map[int]byte {
	m := make(map[int]byte, len(prefixTable))
	for p, e := range prefixTable {
		m[e] = p
	}
	return m
}()

// systems are the preferred unit sets used when rendering.
var systems = map[string][]string{
	"SI": {"m", "s", "kg", "A", "K", "cd", "N", "Pa"},
	"US": {"ft", "s", "lb", "A", "K", "cd", "lbf"},
}

// lookupUnit resolves a unit symbol, possibly carrying a one-character metric
// prefix, to its SI scale and quantity. A bare symbol wins over a prefix+base
// reading, so mol is moles rather than a milli-prefixed nothing, and kg is
// registered whole so it never reads as a prefixed gram.
func lookupUnit(sym string) (float64, Quantity, error) {
	if u, ok := unitTable[sym]; ok {
		return u.Scale, u.Quantity, nil
	}
	if len(sym) > 1 {
		if exp, ok := prefixTable[sym[0]]; ok {
			if u, ok := unitTable[sym[1:]]; ok {
				return u.Scale * math.Pow(10, float64(exp)), u.Quantity, nil
			}
		}
	}
	return 0, Quantity{}, &UnitError{Msg: "unrecognized unit symbol " + strconv.Quote(sym)}
}

// unitPower is one chosen unit of a decomposition.
type unitPower struct {
	Unit Unit
	Exp  int
}

// decomposeBudget bounds the decomposition search. A quantity that five
// rounds cannot explain is not expressible in the chosen system.
const decomposeBudget = 5

// decompose expresses a quantity as integer powers of the system's preferred
// units, greedily taking the most explanatory compatible unit each round.
// Units are tried in name order, so ties resolve the same way every time.
func decompose(q Quantity, system string) ([]unitPower, error) {
	names, ok := systems[system]
	if !ok {
		return nil, &UnitError{Msg: "unknown unit system " + strconv.Quote(system)}
	}
	eligible := make([]string, len(names))
	copy(eligible, names)
	sort.Strings(eligible)
	var used []unitPower
	rem := q
	for round := 0; !rem.IsZero(); round++ {
		if round >= decomposeBudget {
			return nil, &UnitError{Msg: "cannot express " + q.String() + " in " + system + " units"}
		}
		best, bestK, bestScore := "", 0, 0
		for _, name := range eligible {
			u := unitTable[name]
			k, ok := u.Quantity.fitsWithin(rem)
			if !ok {
				continue
			}
			if score := u.Quantity.Dim(); score > bestScore {
				best, bestK, bestScore = name, k, score
			}
		}
		if best == "" {
			return nil, &UnitError{Msg: "cannot express " + q.String() + " in " + system + " units"}
		}
		u := unitTable[best]
		rem = rem.Sub(u.Quantity.Scale(bestK))
		used = append(used, unitPower{u, bestK})
	}
	return used, nil
}

// UnitError is a dimensional-analysis failure.
type UnitError struct {
	Msg string
}

func (err *UnitError) Error() string {
	return "unit error: " + err.Msg
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func signInt(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
