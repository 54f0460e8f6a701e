package kaleido

// Expr is the closed set of expression nodes. Consumers dispatch with a type
// switch over the variants below; the tree is strictly owned, no node is ever
// shared between parents.
type Expr interface{}

// NumberExpr is a numeric literal such as "1.0".
type NumberExpr struct {
	Value float64
}

// VariableExpr references a variable by name.
type VariableExpr struct {
	Name string
}

// BinaryExpr applies a single-character infix operator to two operands.
type BinaryExpr struct {
	Op  rune
	LHS Expr
	RHS Expr
}

// CallExpr calls a function by name. Argument order is significant: arguments
// bind to parameters by position.
type CallExpr struct {
	Callee string
	Args   []Expr
}

// Prototype is a function signature: its name and parameter names. The
// parameter count is the function's arity; the parser does not enforce name
// uniqueness.
type Prototype struct {
	Name   string
	Params []string
}

// Function is a prototype together with its body expression. A function whose
// prototype has an empty name and no parameters wraps an anonymous top-level
// expression.
type Function struct {
	Proto *Prototype
	Body  Expr
}

// IsAnonymous reports whether the function wraps a top-level expression.
func (f *Function) IsAnonymous() bool {
	return f.Proto.Name == ""
}
