package kaleido

import "fmt"

// SyntaxError reports an unexpected or missing token. The message names the
// construct or character the parser was looking for.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Msg
}

func syntaxErrorf(format string, args ...interface{}) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...)}
}

// UnknownVariableError reports a reference to a name absent from the current
// function's local scope.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable name '%s'", e.Name)
}

// UnknownFunctionError reports a call to a function that was never declared.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function referenced '%s'", e.Name)
}

// ArityError reports a call whose argument count does not match the callee's
// declared parameter count.
type ArityError struct {
	Callee string
	Want   int
	Got    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("incorrect number of arguments passed to '%s': want %d, got %d", e.Callee, e.Want, e.Got)
}

// InvalidOperatorError reports a binary operator outside the lowering's known
// set.
type InvalidOperatorError struct {
	Op rune
}

func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("invalid binary operator '%c'", e.Op)
}

// RedefinedError reports a definition for a function that already has a body.
type RedefinedError struct {
	Name string
}

func (e *RedefinedError) Error() string {
	return fmt.Sprintf("function '%s' cannot be redefined", e.Name)
}
