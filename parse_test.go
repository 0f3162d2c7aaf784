package notation

import (
	"fmt"
	"reflect"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two trees are equal.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum:
		if n.val.String() != m.val.String() {
			return n, m
		}
	case nodeName:
		if n.name != m.name {
			return n, m
		}
	case nodeCall, nodeTex:
		if n.name != m.name || len(n.args) != len(m.args) {
			return n, m
		}
		if d, e := n.sup.diff(m.sup); d != nil || e != nil {
			return d, e
		}
		if d, e := n.sub.diff(m.sub); d != nil || e != nil {
			return d, e
		}
		for i := range n.args {
			if d, e := n.args[i].diff(m.args[i]); d != nil || e != nil {
				return d, e
			}
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	case nodeDefVar:
		if n.name != m.name {
			return n, m
		}
		return n.left.diff(m.left)
	case nodeDefFunc:
		if n.name != m.name || !reflect.DeepEqual(n.params, m.params) {
			return n, m
		}
		return n.left.diff(m.left)
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(x)", "x"},
		{"nested", "(((x)))", "x"},
		{"left-right", `\left( x \right)`, "(x)"},
		{"cdot", `2 \cdot 3`, "2 * 3"},
		{"space", `1 \ 2`, "1 2"},

		{"plus", "+x", "x"},
		{"add-assoc", "1 + 2 + 3", "(1 + 2) + 3"},
		{"sub-assoc", "1 - 2 - 3", "(1 - 2) - 3"},
		{"mul-assoc", "1 * 2 * 3", "(1 * 2) * 3"},
		{"pow-right", "2 ^ 3 ^ 4", "2 ^ (3 ^ 4)"},
		{"prec-mul", "1 + 2 * 3", "1 + (2 * 3)"},
		{"prec-pow", "1 * 2 ^ 3", "1 * (2 ^ 3)"},
		{"prec-mix", "1 + 2 * 3 ^ 4", "1 + (2 * (3 ^ 4))"},

		{"implicit", "2x", "2 * x"},
		{"implicit-num", "2 3", "2 * 3"},
		{"implicit-paren", "2(x + 1)", "2 * (x + 1)"},
		{"implicit-pow", "2x^2", "2 * x^2"},
		{"implicit-unit", "2 km", "2 * km"},
		{"implicit-cmd", `2\sqrt{9}`, `2 * \sqrt{9}`},

		{"frac-args", `\frac{1}{2}`, `\frac(1, 2)`},
		{"greedy", `\sin 2x`, `\sin{2 x}`},
		{"greedy-term", `\sin 2x + 1`, `\sin{2 x} + 1`},
		{"script-order", `\sum^{3}_{i=1}{i}`, `\sum_{i=1}^{3}{i}`},
		{"bare-script", `\sum_1^9{i}`, `\sum_{1}^{9}{i}`},

		{"def-spacing", "a=1+2", "a = 1 + 2"},
		{"def-func-spacing", "f(x,y)=x", "f( x , y ) = x"},
		{"def-nullary", "f()=1", "f( ) = 1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(c.a)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.a, err)
			}
			b, err := Parse(c.b)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.b, err)
			}
			if d, e := a.n.diff(b.n); d != nil || e != nil {
				t.Errorf("%q and %q parse differently:\n\t%v\n\t%v\nfirst differing nodes %v and %v", c.a, c.b, a.n, b.n, d, e)
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind nodeKind
	}{
		{"constant-e", "e", nodeNum},
		{"constant-pi", "pi", nodeNum},
		{"constant-tex-pi", `\pi`, nodeNum},
		{"unit", "km", nodeNum},
		{"unit-over-var", "m", nodeNum},
		{"variable", "x", nodeName},
		{"variable-long", "speed", nodeName},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if a.n.kind != c.kind {
				t.Errorf("%q parsed to %v, want %v", c.src, a.n.kind, c.kind)
			}
		})
	}
	// With the real field there are no unit literals, so unit symbols become
	// variables.
	a, err := Parse("km", WithField(Reals))
	if err != nil {
		t.Fatalf("km failed to parse: %v", err)
	}
	if a.n.kind != nodeName {
		t.Errorf("km parsed to %v under Reals, want %v", a.n.kind, nodeName)
	}
}

func TestParseDefs(t *testing.T) {
	a, err := Parse("a = 1 + 2")
	if err != nil {
		t.Fatal(err)
	}
	if a.n.kind != nodeDefVar || a.n.name != "a" || a.n.left.kind != nodeAdd {
		t.Errorf("wrong tree for variable definition: %v", a.n)
	}
	a, err = Parse("f(x, y) = x + y")
	if err != nil {
		t.Fatal(err)
	}
	if a.n.kind != nodeDefFunc || a.n.name != "f" || !reflect.DeepEqual(a.n.params, []string{"x", "y"}) {
		t.Errorf("wrong tree for function definition: %v", a.n)
	}
	// A definition inside a brace group does not commit the line.
	a, err = Parse(`\sum_{i=1}^{3}{i}`)
	if err != nil {
		t.Fatal(err)
	}
	if a.n.kind != nodeTex {
		t.Errorf("wrong root for reduction: %v", a.n.kind)
	}
	if a.n.sub == nil || a.n.sub.kind != nodeDefVar || a.n.sub.name != "i" {
		t.Errorf("wrong subscript for reduction: %v", a.n.sub)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"trailing-op", "2 +"},
		{"leading-op", "* 2"},
		{"unclosed-paren", "(1"},
		{"stray-close", "1)"},
		{"bare-brace", "{1}"},
		{"unclosed-call", "f(x"},
		{"bad-sep", "f(x; y)"},
		{"invalid-char", "1 @ 2"},
		{"lone-backslash", `\`},
		{"unknown-trailer", "1 2 x ("},

		{"def-no-name", "= 1"},
		{"def-bad-name", "2 = 1"},
		{"def-junk-left", "a b = 2"},
		{"def-expr-param", "f(2x) = x"},
		{"def-empty-rhs", "a = "},
		{"def-trailing", "f(x) y = x"},

		{"script-dup-sup", `\sum^{1}^{2}_{i=1}{i}`},
		{"script-dup-sub", `\sum_{i=1}_{j=2}^{3}{i}`},
		{"script-bad-char", `\sum_+{i}`},
		{"script-unclosed", `\sum_{i=1`},
		{"cmd-no-params", `\foo`},
		{"cmd-unclosed-arg", `\frac{1}{2`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(c.src)
			if err == nil {
				t.Fatalf("%q parsed to %v, expected an error", c.src, a)
			}
			pe, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("%q gave %#v, not *ParseError", c.src, err)
			}
			if pe.Offset < 0 || pe.Offset > len(c.src) {
				t.Errorf("%q gave offset %d outside the line", c.src, pe.Offset)
			}
			if pe.Line != 1 {
				t.Errorf("%q gave line %d, want 1", c.src, pe.Line)
			}
		})
	}
}

func TestTopLevelEq(t *testing.T) {
	cases := []struct {
		src string
		k   int
	}{
		{"a = 1", 2},
		{"a + b", -1},
		{`\sum_{i=1}^{3}{i}`, -1},
		{`a = \sum_{i=1}^{3}{i}`, 2},
		{"{x=1} = 2", 6},
	}
	for _, c := range cases {
		if k := topLevelEq(c.src); k != c.k {
			t.Errorf("topLevelEq(%q) = %d, want %d", c.src, k, c.k)
		}
	}
}
