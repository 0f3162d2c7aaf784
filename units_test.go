package notation

import (
	"math"
	"testing"
)

func TestLookupUnit(t *testing.T) {
	cases := []struct {
		sym   string
		scale float64
		q     Quantity
		err   bool
	}{
		{"m", 1, Quantity{dimLength: 1}, false},
		{"km", 1000, Quantity{dimLength: 1}, false},
		{"mm", 0.001, Quantity{dimLength: 1}, false},
		{"s", 1, Quantity{dimTime: 1}, false},
		{"Hz", 1, Quantity{dimTime: -1}, false},
		{"kg", 1, Quantity{dimMass: 1}, false},
		{"g", 0.001, Quantity{dimMass: 1}, false},
		{"N", 1, Quantity{dimLength: 1, dimTime: -2, dimMass: 1}, false},
		{"kN", 1000, Quantity{dimLength: 1, dimTime: -2, dimMass: 1}, false},
		{"uA", 1e-6, Quantity{dimCurrent: 1}, false},
		{"ft", 0.3048, Quantity{dimLength: 1}, false},
		// Bare symbols win over prefix readings.
		{"mol", 1, Quantity{dimAmount: 1}, false},
		{"psi", 6894.757, Quantity{dimLength: -1, dimTime: -2, dimMass: 1}, false},

		{"", 0, Quantity{}, true},
		{"q", 0, Quantity{}, true},
		{"xyz", 0, Quantity{}, true},
		{"kq", 0, Quantity{}, true},
	}
	for _, c := range cases {
		scale, q, err := lookupUnit(c.sym)
		if c.err {
			if err == nil {
				t.Errorf("lookupUnit(%q) = %v, %v, expected an error", c.sym, scale, q)
			}
			continue
		}
		if err != nil {
			t.Errorf("lookupUnit(%q): unexpected error %v", c.sym, err)
			continue
		}
		if q != c.q {
			t.Errorf("lookupUnit(%q) gave quantity %v, want %v", c.sym, q, c.q)
		}
		if math.Abs(scale-c.scale) > c.scale*1e-12 {
			t.Errorf("lookupUnit(%q) gave scale %g, want %g", c.sym, scale, c.scale)
		}
	}
}

func TestQuantityOps(t *testing.T) {
	length := Quantity{dimLength: 1}
	accel := Quantity{dimLength: 1, dimTime: -2}
	if got := length.Add(Quantity{dimTime: -2}); got != accel {
		t.Errorf("add gave %v, want %v", got, accel)
	}
	if got := accel.Sub(accel); !got.IsZero() {
		t.Errorf("sub gave %v, want zero", got)
	}
	if got := length.Scale(3); got != (Quantity{dimLength: 3}) {
		t.Errorf("scale gave %v", got)
	}
	if got, ok := (Quantity{dimLength: 3}).Root(3); !ok || got != length {
		t.Errorf("root gave %v, %v", got, ok)
	}
	if _, ok := (Quantity{dimLength: 2}).Root(3); ok {
		t.Error("root of an uneven quantity succeeded")
	}
	if d := accel.Dim(); d != 3 {
		t.Errorf("dim gave %d, want 3", d)
	}
}

func TestFitsWithin(t *testing.T) {
	cases := []struct {
		name     string
		q, outer Quantity
		k        int
		ok       bool
	}{
		{"identity", Quantity{dimLength: 1}, Quantity{dimLength: 1}, 1, true},
		{"square", Quantity{dimLength: 1}, Quantity{dimLength: 2}, 2, true},
		{"inverse", Quantity{dimTime: 1}, Quantity{dimTime: -2}, -2, true},
		{"force-in-force", Quantity{dimLength: 1, dimTime: -2, dimMass: 1}, Quantity{dimLength: 1, dimTime: -2, dimMass: 1}, 1, true},
		{"force-in-energy", Quantity{dimLength: 1, dimTime: -2, dimMass: 1}, Quantity{dimLength: 2, dimTime: -2, dimMass: 1}, 1, true},
		{"force-in-accel", Quantity{dimLength: 1, dimTime: -2, dimMass: 1}, Quantity{dimLength: 1, dimTime: -2}, 0, false},
		{"disjoint", Quantity{dimCurrent: 1}, Quantity{dimLength: 1}, 0, false},
		{"mixed-signs", Quantity{dimLength: 1, dimTime: 1}, Quantity{dimLength: 2, dimTime: -1}, 0, false},
		{"too-big", Quantity{dimLength: 2}, Quantity{dimLength: 1}, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			k, ok := c.q.fitsWithin(c.outer)
			if k != c.k || ok != c.ok {
				t.Errorf("fitsWithin(%v, %v) = %d, %v, want %d, %v", c.q, c.outer, k, ok, c.k, c.ok)
			}
		})
	}
}

func TestDecompose(t *testing.T) {
	cases := []struct {
		name   string
		q      Quantity
		system string
		want   map[string]int
		err    bool
	}{
		{"length", Quantity{dimLength: 1}, "SI", map[string]int{"m": 1}, false},
		{"length-us", Quantity{dimLength: 1}, "US", map[string]int{"ft": 1}, false},
		{"accel", Quantity{dimLength: 1, dimTime: -2}, "SI", map[string]int{"m": 1, "s": -2}, false},
		{"pressure", Quantity{dimLength: -1, dimTime: -2, dimMass: 1}, "SI", map[string]int{"Pa": 1}, false},
		{"force", Quantity{dimLength: 1, dimTime: -2, dimMass: 1}, "SI", map[string]int{"N": 1}, false},
		{"energy", Quantity{dimLength: 2, dimTime: -2, dimMass: 1}, "SI", map[string]int{"N": 1, "m": 1}, false},
		{"inverse-area", Quantity{dimLength: -2}, "SI", map[string]int{"m": -2}, false},
		{"no-system", Quantity{dimLength: 1}, "Imperial", nil, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			used, err := decompose(c.q, c.system)
			if c.err {
				if err == nil {
					t.Fatalf("decompose(%v, %q) = %v, expected an error", c.q, c.system, used)
				}
				return
			}
			if err != nil {
				t.Fatalf("decompose(%v, %q): unexpected error %v", c.q, c.system, err)
			}
			got := make(map[string]int, len(used))
			for _, u := range used {
				got[u.Unit.Name] = u.Exp
			}
			if len(got) != len(c.want) {
				t.Fatalf("decompose(%v, %q) chose %v, want %v", c.q, c.system, got, c.want)
			}
			for name, exp := range c.want {
				if got[name] != exp {
					t.Errorf("decompose(%v, %q) chose %v, want %v", c.q, c.system, got, c.want)
					break
				}
			}
		})
	}
}
