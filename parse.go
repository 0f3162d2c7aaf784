package notation

import (
	"math"
	"strconv"
	"unicode"
)

// Grammar, in descending precedence:
//
//	Line      = Def | Expr
//	Def       = name '=' Expr | name '(' [name {',' name}] ')' '=' Expr
//	Expr      = Term {('+' | '-') Term}
//	Term      = Factor {('*' | '/') Factor}
//	Factor    = Component ['^' Factor]
//	Component = num [Factor] | name | Call | Latex | ('+' | '-') Factor | '(' Expr ')'
//	Call      = name '(' [Expr {',' Expr}] ')'
//	Latex     = '\' name {('^' | '_') Script} Params
//
// A top-level '=' outside brace groups commits the line to being a
// definition; a malformed left side is then a hard error rather than a cue to
// reparse the line as an expression. A number directly followed by a
// parenthesis, name, call, or command multiplies it implicitly. '^' is
// right-associative; the other binary operators group to the left.

// Expr is a parsed line that can be evaluated against a context.
type Expr struct {
	// n is the root node of the line.
	n *node
	// field built the line's literals and is carried into evaluation.
	field Field
}

func (e *Expr) String() string { return e.n.String() }

// parser holds the parse-time configuration.
type parser struct {
	field Field
}

// Parse parses one line of notation. The whole line must parse: trailing
// input the grammar cannot reach is an error.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	p := parser{field: Units}
	for _, opt := range opts {
		opt.parseOption(&p)
	}
	n, err := p.parseLine(src, 0)
	if err != nil {
		return nil, err
	}
	return &Expr{n: n, field: p.field}, nil
}

// parseLine parses a definition or an expression. It is the entry point both
// for whole lines and for reduction subscripts, which may be definitions.
func (p *parser) parseLine(src string, off int) (*node, error) {
	if k := topLevelEq(src); k >= 0 {
		return p.parseDef(src, off, k)
	}
	lx := lexAt(src, off)
	n, err := p.parseExpr(lx)
	if err != nil {
		return nil, err
	}
	return n, expectEOF(lx)
}

// topLevelEq finds a '=' outside any brace group, the marker that commits the
// line to being a definition.
func topLevelEq(src string) int {
	depth := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '=':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseDef parses a committed definition whose top-level '=' is at src[eq].
func (p *parser) parseDef(src string, off, eq int) (*node, error) {
	lx := lexAt(src[:eq], off)
	tok, err := lx.next()
	if err != nil {
		return nil, annotate(err, "in definition")
	}
	if tok.kind != tokenIdent {
		return nil, lx.errorAt(tok.pos, "definition must begin with a name, found "+tok.describe())
	}
	n := &node{kind: nodeDefVar, name: tok.text}
	tok, err = lx.next()
	if err != nil {
		return nil, annotate(err, "in definition")
	}
	switch {
	case tok.kind == tokenEOF:
		// Variable definition.
	case tok.kind == tokenOpen && tok.text == "(":
		n.kind = nodeDefFunc
		n.params, err = parseParams(lx)
		if err != nil {
			return nil, annotate(err, "in definition of "+n.name)
		}
		end, err := lx.next()
		if err != nil {
			return nil, annotate(err, "in definition of "+n.name)
		}
		if end.kind != tokenEOF {
			return nil, lx.errorAt(end.pos, "unexpected "+end.describe()+" after parameter list")
		}
	default:
		return nil, lx.errorAt(tok.pos, "unexpected "+tok.describe()+" on left side of definition")
	}
	rx := lexAt(src[eq+1:], off+eq+1)
	body, err := p.parseExpr(rx)
	if err != nil {
		return nil, annotate(err, "in definition of "+n.name)
	}
	if err := expectEOF(rx); err != nil {
		return nil, annotate(err, "in definition of "+n.name)
	}
	n.left = body
	return n, nil
}

// parseParams parses the parameter list of a function definition, after the
// open parenthesis. Parameters must be bare names; the '=' already committed
// the line, so anything else is a hard failure.
func parseParams(lx *lexer) ([]string, error) {
	tok, err := lx.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenClose && tok.text == ")" {
		return nil, nil
	}
	var params []string
	for {
		if tok.kind != tokenIdent {
			return nil, lx.errorAt(tok.pos, "function parameters must be plain names, found "+tok.describe())
		}
		params = append(params, tok.text)
		sep, err := lx.next()
		if err != nil {
			return nil, err
		}
		switch {
		case sep.kind == tokenSep:
			tok, err = lx.next()
			if err != nil {
				return nil, err
			}
		case sep.kind == tokenClose && sep.text == ")":
			return params, nil
		default:
			return nil, lx.errorAt(sep.pos, `expected "," or ")" in parameter list, found `+sep.describe())
		}
	}
}

func expectEOF(lx *lexer) error {
	tok, err := lx.next()
	if err != nil {
		return err
	}
	if tok.kind != tokenEOF {
		return lx.errorAt(tok.pos, "unexpected "+tok.describe()+" after expression")
	}
	return nil
}

func (p *parser) parseExpr(lx *lexer) (*node, error) {
	n, err := p.parseTerm(lx)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenOp || (tok.text != "+" && tok.text != "-") {
			lx.push(tok)
			return n, nil
		}
		rhs, err := p.parseTerm(lx)
		if err != nil {
			return nil, err
		}
		kind := nodeAdd
		if tok.text == "-" {
			kind = nodeSub
		}
		n = &node{kind: kind, left: n, right: rhs}
	}
}

func (p *parser) parseTerm(lx *lexer) (*node, error) {
	n, err := p.parseFactor(lx)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenOp || (tok.text != "*" && tok.text != "/") {
			lx.push(tok)
			return n, nil
		}
		rhs, err := p.parseFactor(lx)
		if err != nil {
			return nil, err
		}
		kind := nodeMul
		if tok.text == "/" {
			kind = nodeDiv
		}
		n = &node{kind: kind, left: n, right: rhs}
	}
}

func (p *parser) parseFactor(lx *lexer) (*node, error) {
	n, err := p.parseComponent(lx)
	if err != nil {
		return nil, err
	}
	tok, err := lx.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenOp && tok.text == "^" {
		// Right-associative.
		rhs, err := p.parseFactor(lx)
		if err != nil {
			return nil, annotate(err, "in exponent")
		}
		return &node{kind: nodePow, left: n, right: rhs}, nil
	}
	lx.push(tok)
	return n, nil
}

func (p *parser) parseComponent(lx *lexer) (*node, error) {
	tok, err := lx.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			panic("notation: unparseable number token " + strconv.Quote(tok.text))
		}
		n := &node{kind: nodeNum, val: p.field.FromFloat(v)}
		nx, err := lx.next()
		if err != nil {
			return nil, err
		}
		lx.push(nx)
		if startsComponent(nx) {
			// Implicit multiplication: 2 km, 3(x + 1), 4\sqrt{2}.
			rhs, err := p.parseFactor(lx)
			if err != nil {
				return nil, err
			}
			return &node{kind: nodeMul, left: n, right: rhs}, nil
		}
		return n, nil
	case tokenIdent:
		nx, err := lx.next()
		if err != nil {
			return nil, err
		}
		if nx.kind == tokenOpen && nx.text == "(" {
			args, err := p.parseArgs(lx)
			if err != nil {
				return nil, annotate(err, "in arguments of "+tok.text)
			}
			return &node{kind: nodeCall, name: tok.text, args: args}, nil
		}
		lx.push(nx)
		return p.resolveName(tok.text), nil
	case tokenOp:
		if tok.text == "+" || tok.text == "-" {
			rhs, err := p.parseFactor(lx)
			if err != nil {
				return nil, err
			}
			if tok.text == "+" {
				return rhs, nil
			}
			neg := &node{kind: nodeNum, val: p.field.FromFloat(-1)}
			return &node{kind: nodeMul, left: neg, right: rhs}, nil
		}
		return nil, lx.errorAt(tok.pos, "unexpected operator "+strconv.Quote(tok.text))
	case tokenOpen:
		if tok.text != "(" {
			return nil, lx.errorAt(tok.pos, "unexpected "+tok.describe())
		}
		n, err := p.parseExpr(lx)
		if err != nil {
			return nil, annotate(err, "in parentheses")
		}
		end, err := lx.next()
		if err != nil {
			return nil, err
		}
		if end.kind != tokenClose || end.text != ")" {
			return nil, lx.errorAt(end.pos, `expected ")", found `+end.describe())
		}
		return n, nil
	case tokenCommand:
		return p.parseLatex(lx, tok)
	case tokenEOF:
		return nil, lx.errorAt(tok.pos, "expected expression, found end of line")
	default:
		return nil, lx.errorAt(tok.pos, "expected expression, found "+tok.describe())
	}
}

// startsComponent reports whether a token can begin a component, which
// directly after a number means an implicit multiplication.
func startsComponent(tok lexToken) bool {
	switch tok.kind {
	case tokenNum, tokenIdent, tokenCommand:
		return true
	case tokenOpen:
		return tok.text == "("
	}
	return false
}

// parseArgs parses a call's argument list, after the open parenthesis.
func (p *parser) parseArgs(lx *lexer) ([]*node, error) {
	tok, err := lx.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenClose && tok.text == ")" {
		return nil, nil
	}
	lx.push(tok)
	var args []*node
	for {
		a, err := p.parseExpr(lx)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		end, err := lx.next()
		if err != nil {
			return nil, err
		}
		switch {
		case end.kind == tokenSep:
			// Next argument.
		case end.kind == tokenClose && end.text == ")":
			return args, nil
		default:
			return nil, lx.errorAt(end.pos, `expected "," or ")", found `+end.describe())
		}
	}
}

// resolveName reads a bare name as, in order of preference, a known constant,
// a literal of the field, or a variable reference. A variable that collides
// with a unit symbol is read as the unit; the shadowing is deliberate.
func (p *parser) resolveName(name string) *node {
	if v, ok := constant(name); ok {
		return &node{kind: nodeNum, val: p.field.FromFloat(v)}
	}
	if v, err := p.field.FromName(name); err == nil {
		return &node{kind: nodeNum, val: v}
	}
	return &node{kind: nodeName, name: name}
}

func constant(name string) (float64, bool) {
	switch name {
	case "e":
		return math.E, true
	case "pi":
		return math.Pi, true
	}
	return 0, false
}

// parseLatex parses a \command: optional ^ and _ scripts, each at most once
// in either order, then parameters. Parameters are a parenthesized argument
// list, one or more brace groups, or, failing both, the next term taken
// greedily. A command with no scripts and no parameters must be a known
// constant, like \pi.
func (p *parser) parseLatex(lx *lexer, cmd lexToken) (*node, error) {
	n := &node{kind: nodeTex, name: cmd.text}
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenOp || (tok.text != "^" && tok.text != "_") {
			lx.push(tok)
			break
		}
		script, err := p.parseScript(lx, tok.text == "_")
		if err != nil {
			return nil, annotate(err, "in script of \\"+cmd.text)
		}
		if err := n.setScript(tok.text, script); err != nil {
			return nil, lx.errorAt(tok.pos, err.Error()+" on \\"+cmd.text)
		}
	}
	tok, err := lx.next()
	if err != nil {
		return nil, err
	}
	switch {
	case tok.kind == tokenOpen && tok.text == "(":
		args, err := p.parseArgs(lx)
		if err != nil {
			return nil, annotate(err, "in arguments of \\"+cmd.text)
		}
		n.args = args
	case tok.kind == tokenOpen && tok.text == "{":
		lx.push(tok)
		for {
			open, err := lx.next()
			if err != nil {
				return nil, err
			}
			if open.kind != tokenOpen || open.text != "{" {
				lx.push(open)
				break
			}
			a, err := p.parseExpr(lx)
			if err != nil {
				return nil, annotate(err, "in argument of \\"+cmd.text)
			}
			end, err := lx.next()
			if err != nil {
				return nil, err
			}
			if end.kind != tokenClose || end.text != "}" {
				return nil, lx.errorAt(end.pos, `expected "}", found `+end.describe())
			}
			n.args = append(n.args, a)
		}
	default:
		lx.push(tok)
	}
	if len(n.args) == 0 {
		if n.sup == nil && n.sub == nil {
			if v, ok := constant(cmd.text); ok {
				return &node{kind: nodeNum, val: p.field.FromFloat(v)}, nil
			}
		}
		// No delimited parameters: the next term is the sole parameter,
		// taken greedily, as in \sin 2x.
		a, err := p.parseTerm(lx)
		if err != nil {
			return nil, annotate(err, "in argument of \\"+cmd.text)
		}
		n.args = []*node{a}
	}
	return n, nil
}

// parseScript parses one script body: a braced group or a single bare
// alphanumeric rune. Subscripts admit definitions, for reduction bounds like
// \sum_{i=1}.
func (p *parser) parseScript(lx *lexer, allowDef bool) (*node, error) {
	if lx.peekRune() == '{' {
		if _, err := lx.next(); err != nil {
			return nil, err
		}
		if allowDef {
			inner, off, err := lx.group()
			if err != nil {
				return nil, err
			}
			return p.parseLine(inner, off)
		}
		n, err := p.parseExpr(lx)
		if err != nil {
			return nil, err
		}
		end, err := lx.next()
		if err != nil {
			return nil, err
		}
		if end.kind != tokenClose || end.text != "}" {
			return nil, lx.errorAt(end.pos, `expected "}", found `+end.describe())
		}
		return n, nil
	}
	r, pos, err := lx.takeRune()
	if err != nil {
		return nil, err
	}
	switch {
	case '0' <= r && r <= '9':
		return &node{kind: nodeNum, val: p.field.FromFloat(float64(r - '0'))}, nil
	case unicode.IsLetter(r):
		return p.resolveName(string(r)), nil
	}
	return nil, lx.errorAt(pos, "invalid script character "+strconv.QuoteRune(r))
}
