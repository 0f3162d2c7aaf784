package notation

import (
	"strconv"
)

// Context is the accumulated state of a session: the variables and functions
// defined by earlier lines. Bindings are write-once; redefining a name is an
// error. Variables and functions live in separate namespaces. It is not safe
// to use a Context concurrently.
type Context struct {
	vars  map[string]Value
	funcs map[string]function
}

// function is a user-defined function. The body is stored unevaluated and
// runs once per call.
type function struct {
	params []string
	body   *node
}

// NewContext creates an empty session context.
func NewContext() *Context {
	return &Context{
		vars:  make(map[string]Value),
		funcs: make(map[string]function),
	}
}

// Clone copies a context. The evaluator clones contexts so that function
// calls and reduction bounds cannot leak bindings back into the session.
func (ctx *Context) Clone() *Context {
	n := &Context{
		vars:  make(map[string]Value, len(ctx.vars)),
		funcs: make(map[string]function, len(ctx.funcs)),
	}
	for k, v := range ctx.vars {
		n.vars[k] = v
	}
	for k, v := range ctx.funcs {
		n.funcs[k] = v
	}
	return n
}

// Lookup returns the value bound to a variable, if any.
func (ctx *Context) Lookup(name string) (Value, bool) {
	v, ok := ctx.vars[name]
	return v, ok
}

// Eval evaluates the expression against ctx, extending it in place when the
// line is a definition. The result is nil exactly when the line defines a
// function, which produces no value.
func (e *Expr) Eval(ctx *Context) (Value, error) {
	ev := &evaluator{field: e.field, ctx: ctx}
	return ev.evalRoot(e.n)
}

// EvalString is a shortcut to parse and evaluate a single line against ctx.
func EvalString(src string, ctx *Context, opts ...ParseOption) (Value, error) {
	e, err := Parse(src, opts...)
	if err != nil {
		return nil, err
	}
	return e.Eval(ctx)
}

// evaluator is the state of one top-level evaluation: the context in effect
// and the name currently being defined, if any. The defining guard is what
// rejects a = a + 1; it does not catch cycles across separate definitions,
// which write-once bindings keep from arising anyway.
type evaluator struct {
	field    Field
	ctx      *Context
	defining string
}

// evalRoot evaluates a line, which unlike an inner node may be a definition.
func (ev *evaluator) evalRoot(n *node) (Value, error) {
	switch n.kind {
	case nodeDefVar:
		if ev.defining != "" {
			return nil, &NestedDefError{Outer: ev.defining, Inner: n.name}
		}
		ev.defining = n.name
		v, err := ev.eval(n.left)
		ev.defining = ""
		if err != nil {
			return nil, err
		}
		// The binding commits only after the right side evaluates, so a
		// failing definition leaves the session unchanged.
		if _, ok := ev.ctx.vars[n.name]; ok {
			return nil, &RedefinedError{Name: n.name}
		}
		ev.ctx.vars[n.name] = v
		return v, nil
	case nodeDefFunc:
		if ev.defining != "" {
			return nil, &NestedDefError{Outer: ev.defining, Inner: n.name}
		}
		if _, ok := ev.ctx.funcs[n.name]; ok {
			return nil, &RedefinedError{Name: n.name, Func: true}
		}
		ev.ctx.funcs[n.name] = function{params: n.params, body: n.left}
		return nil, nil
	default:
		return ev.eval(n)
	}
}

func (ev *evaluator) eval(n *node) (Value, error) {
	switch n.kind {
	case nodeNum:
		return n.val, nil
	case nodeName:
		if n.name == ev.defining {
			return nil, &RecursionError{Name: n.name}
		}
		v, ok := ev.ctx.vars[n.name]
		if !ok {
			return nil, &NameError{Name: n.name}
		}
		return v, nil
	case nodeCall:
		return ev.call(n)
	case nodeTex:
		return ev.latex(n)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		l, err := ev.eval(n.left)
		if err != nil {
			return nil, err
		}
		r, err := ev.eval(n.right)
		if err != nil {
			return nil, err
		}
		switch n.kind {
		case nodeAdd:
			return l.Add(r)
		case nodeSub:
			return l.Sub(r)
		case nodeMul:
			return l.Mul(r), nil
		case nodeDiv:
			return l.Div(r), nil
		default:
			return l.Pow(r)
		}
	case nodeDefVar, nodeDefFunc:
		return nil, &NestedDefError{Outer: ev.defining, Inner: n.name}
	default:
		panic("notation: invalid AST node " + n.kind.String())
	}
}

// call evaluates a function call. Built-ins win over user functions.
// Arguments evaluate in the caller's context; the body sees them bound in a
// clone.
func (ev *evaluator) call(n *node) (Value, error) {
	if fn, ok := builtins[n.name]; ok {
		if len(n.args) != 1 {
			return nil, &ArityError{Func: n.name, Want: 1, Got: len(n.args)}
		}
		v, err := ev.eval(n.args[0])
		if err != nil {
			return nil, err
		}
		return fn(v)
	}
	if n.name == ev.defining {
		return nil, &RecursionError{Name: n.name, Func: true}
	}
	fn, ok := ev.ctx.funcs[n.name]
	if !ok {
		return nil, &NameError{Name: n.name, Func: true}
	}
	if len(n.args) != len(fn.params) {
		return nil, &ArityError{Func: n.name, Want: len(fn.params), Got: len(n.args)}
	}
	scope := ev.ctx.Clone()
	for i, param := range fn.params {
		v, err := ev.eval(n.args[i])
		if err != nil {
			return nil, err
		}
		scope.vars[param] = v
	}
	sub := &evaluator{field: ev.field, ctx: scope, defining: ev.defining}
	return sub.eval(fn.body)
}

// latex dispatches a LaTeX command node.
func (ev *evaluator) latex(n *node) (Value, error) {
	switch n.name {
	case "frac":
		if n.sup != nil || n.sub != nil {
			return nil, &CommandError{Name: n.name, Msg: "does not take scripts"}
		}
		if len(n.args) != 2 {
			return nil, &CommandError{Name: n.name, Msg: "expects a numerator and a denominator"}
		}
		num, err := ev.eval(n.args[0])
		if err != nil {
			return nil, err
		}
		den, err := ev.eval(n.args[1])
		if err != nil {
			return nil, err
		}
		return num.Div(den), nil
	case "sqrt":
		if n.sup != nil || n.sub != nil {
			return nil, &CommandError{Name: n.name, Msg: "does not take scripts"}
		}
		if len(n.args) != 1 {
			return nil, &CommandError{Name: n.name, Msg: "expects one parameter"}
		}
		v, err := ev.eval(n.args[0])
		if err != nil {
			return nil, err
		}
		return v.Root(2)
	case "sum":
		return ev.reduce(n, func(a, b float64) float64 { return a + b }, 0)
	case "prod":
		return ev.reduce(n, func(a, b float64) float64 { return a * b }, 1)
	}
	if n.sup != nil || n.sub != nil {
		return nil, &CommandError{Name: n.name, Msg: "does not take scripts"}
	}
	fn, ok := builtins[n.name]
	if !ok {
		return nil, &CommandError{Name: n.name, Msg: "is not a known command"}
	}
	if len(n.args) != 1 {
		return nil, &ArityError{Func: n.name, Want: 1, Got: len(n.args)}
	}
	v, err := ev.eval(n.args[0])
	if err != nil {
		return nil, err
	}
	return fn(v)
}

// reduce evaluates \sum or \prod. The superscript is the inclusive upper
// bound; the subscript, usually a definition like i=1, binds the loop
// variable to the lower bound in a cloned context; the single parameter is
// folded with op starting from identity.
func (ev *evaluator) reduce(n *node, op func(a, b float64) float64, identity float64) (Value, error) {
	if len(n.args) != 1 || n.sup == nil || n.sub == nil {
		return nil, &CommandError{Name: n.name, Msg: "expects a parameter, a subscript, and a superscript"}
	}
	ub, err := ev.eval(n.sup)
	if err != nil {
		return nil, err
	}
	scope := ev.ctx.Clone()
	sub := &evaluator{field: ev.field, ctx: scope, defining: ev.defining}
	lb, err := sub.evalRoot(n.sub)
	if err != nil {
		return nil, err
	}
	// A function definition in the subscript yields no value to bound on.
	if lb == nil {
		return nil, &CommandError{Name: n.name, Msg: "subscript must be a variable definition or expression"}
	}
	var bound string
	if n.sub.kind == nodeDefVar {
		bound = n.sub.name
	}
	for _, b := range [2]Value{lb, ub} {
		f, err := b.Fract()
		if err != nil {
			return nil, err
		}
		if f != 0 {
			return nil, &CommandError{Name: n.name, Msg: "bounds must be integers"}
		}
	}
	lo, err := lb.Scalar()
	if err != nil {
		return nil, err
	}
	hi, err := ub.Scalar()
	if err != nil {
		return nil, err
	}
	acc := identity
	for i := int(lo); i <= int(hi); i++ {
		if bound != "" {
			scope.vars[bound] = ev.field.FromFloat(float64(i))
		}
		v, err := sub.eval(n.args[0])
		if err != nil {
			return nil, err
		}
		s, err := v.Scalar()
		if err != nil {
			return nil, err
		}
		acc = op(acc, s)
	}
	return ev.field.FromFloat(acc), nil
}

// EvalError is an error from evaluating a well-formed line. Every error
// resulting from evaluation rather than parsing implements EvalError.
type EvalError interface {
	error
	evalError()
}

// NameError is an error from a reference to a name with no binding in the
// context.
type NameError struct {
	// Name is the name that was missing.
	Name string
	// Func indicates the name was called rather than referenced.
	Func bool
}

func (err *NameError) Error() string {
	if err.Func {
		return "undefined function: " + strconv.Quote(err.Name)
	}
	return "undefined variable: " + strconv.Quote(err.Name)
}

// RedefinedError is an error from a definition of a name the session already
// binds.
type RedefinedError struct {
	// Name is the name being redefined.
	Name string
	// Func indicates the binding is a function.
	Func bool
}

func (err *RedefinedError) Error() string {
	kind := "variable"
	if err.Func {
		kind = "function"
	}
	return kind + " " + strconv.Quote(err.Name) + " is already defined"
}

// RecursionError is an error from a definition whose right side refers to the
// name being defined.
type RecursionError struct {
	// Name is the name being defined.
	Name string
	// Func indicates the reference was a call.
	Func bool
}

func (err *RecursionError) Error() string {
	return strconv.Quote(err.Name) + " cannot be defined in terms of itself"
}

// NestedDefError is an error from a definition inside another definition's
// right side.
type NestedDefError struct {
	// Outer is the name whose definition was in progress, if any.
	Outer string
	// Inner is the name the nested definition tried to bind.
	Inner string
}

func (err *NestedDefError) Error() string {
	if err.Outer == "" {
		return "cannot define " + strconv.Quote(err.Inner) + " here"
	}
	return "cannot define " + strconv.Quote(err.Inner) + " while defining " + strconv.Quote(err.Outer)
}

// ArityError is an error from a call with the wrong number of arguments.
type ArityError struct {
	// Func is the function that was called.
	Func string
	// Want and Got are the expected and actual argument counts.
	Want, Got int
}

func (err *ArityError) Error() string {
	return "function " + strconv.Quote(err.Func) + " takes " + strconv.Itoa(err.Want) + " arguments, not " + strconv.Itoa(err.Got)
}

// CommandError is an error from a malformed or unknown LaTeX command.
type CommandError struct {
	// Name is the command, without the backslash.
	Name string
	// Msg completes the sentence beginning with the command name.
	Msg string
}

func (err *CommandError) Error() string {
	return "\\" + err.Name + " " + err.Msg
}

func (*NameError) evalError()      {}
func (*RedefinedError) evalError() {}
func (*RecursionError) evalError() {}
func (*NestedDefError) evalError() {}
func (*ArityError) evalError()     {}
func (*CommandError) evalError()   {}
func (*ScalarError) evalError()    {}
func (*UnitError) evalError()      {}

var (
	_ EvalError = (*NameError)(nil)
	_ EvalError = (*RedefinedError)(nil)
	_ EvalError = (*RecursionError)(nil)
	_ EvalError = (*NestedDefError)(nil)
	_ EvalError = (*ArityError)(nil)
	_ EvalError = (*CommandError)(nil)
	_ EvalError = (*ScalarError)(nil)
	_ EvalError = (*UnitError)(nil)
)
