package notation

import (
	"errors"
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of a line.
type node struct {
	kind nodeKind

	name   string   // variable, function, or command name
	val    Value    // literal for nodeNum
	args   []*node  // call or command arguments
	params []string // parameter names of a function definition

	// LaTeX scripts, each given at most once.
	sup *node
	sub *node

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // literal value
	nodeName // variable reference

	nodeCall // call name with args
	nodeTex  // LaTeX command name with args and optional scripts

	nodeAdd
	nodeSub
	nodeMul
	nodeDiv
	nodePow

	nodeDefVar  // bind name to the value of left
	nodeDefFunc // bind name to a function of params with body left
)

var nodeKindNames = [...]string{
	nodeNone:    "None",
	nodeNum:     "Num",
	nodeName:    "Name",
	nodeCall:    "Call",
	nodeTex:     "Tex",
	nodeAdd:     "Add",
	nodeSub:     "Sub",
	nodeMul:     "Mul",
	nodeDiv:     "Div",
	nodePow:     "Pow",
	nodeDefVar:  "DefVar",
	nodeDefFunc: "DefFunc",
}

func (k nodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "nodeKind(" + strconv.Itoa(int(k)) + ")"
}

// setScript records a superscript or subscript.
func (n *node) setScript(op string, script *node) error {
	switch op {
	case "^":
		if n.sup != nil {
			return errors.New("superscript already set")
		}
		n.sup = script
	case "_":
		if n.sub != nil {
			return errors.New("subscript already set")
		}
		n.sub = script
	default:
		panic("notation: bad script operator " + strconv.Quote(op))
	}
	return nil
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteString("$$")
	case nodeNum:
		b.WriteString(n.val.String())
	case nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		b.WriteByte('(')
		for i, a := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b)
		}
		b.WriteByte(')')
	case nodeTex:
		b.WriteByte('\\')
		b.WriteString(n.name)
		if n.sup != nil {
			b.WriteString("^{")
			n.sup.fmt(b)
			b.WriteByte('}')
		}
		if n.sub != nil {
			b.WriteString("_{")
			n.sub.fmt(b)
			b.WriteByte('}')
		}
		for _, a := range n.args {
			b.WriteByte('{')
			a.fmt(b)
			b.WriteByte('}')
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		b.WriteByte('(')
		n.left.fmt(b)
		switch n.kind {
		case nodeAdd:
			b.WriteString(" + ")
		case nodeSub:
			b.WriteString(" - ")
		case nodeMul:
			b.WriteString(" * ")
		case nodeDiv:
			b.WriteString(" / ")
		case nodePow:
			b.WriteString(" ^ ")
		}
		n.right.fmt(b)
		b.WriteByte(')')
	case nodeDefVar:
		b.WriteString(n.name)
		b.WriteString(" = ")
		n.left.fmt(b)
	case nodeDefFunc:
		b.WriteString(n.name)
		b.WriteByte('(')
		for i, p := range n.params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p)
		}
		b.WriteString(") = ")
		n.left.fmt(b)
	default:
		panic("notation: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}
