package notation

// builtins are the built-in unary functions. They are reachable both as plain
// calls, sin(x), and as commands, \sin{x}, and are tried before user
// functions, so a definition cannot shadow them.
var builtins = map[string]func(Value) (Value, error){
	"sin": Value.Sin,
	"cos": Value.Cos,
	"tan": Value.Tan,
}
