package kaleido

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// anonFuncName is the internal name anonymous top-level expressions are
// lowered under. Callers are expected to Discard the result before lowering
// the next one.
const anonFuncName = "__anon_expr"

// ValueLookup maps names to IR values. It backs the per-function local scope:
// a fresh one is built for every function body and thrown away afterwards.
type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

func (l *ValueLookup) Get(id string) (value.Value, bool) {
	val, ok := l.vals[id]
	return val, ok
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

// Builder lowers AST nodes into an LLVM module. A Builder is one compilation
// session: its function table persists across constructs, while the local
// value table is scoped to the function body currently being lowered. The
// language has a single value type, so everything is a double.
type Builder struct {
	mod    *ir.Module
	block  *ir.Block
	funcs  map[string]*ir.Func
	values *ValueLookup
}

func NewBuilder() *Builder {
	builder := &Builder{
		mod:   ir.NewModule(),
		funcs: make(map[string]*ir.Func),
	}

	defineBuiltins(builder)
	return builder
}

// Module returns the module holding everything lowered so far.
func (b *Builder) Module() *ir.Module {
	return b.mod
}

// Declare lowers a prototype into a declaration-only function taking and
// returning doubles. Parameter names are attached for readability only; the
// count is what matters, it fixes the function's arity. Declaring an already
// known name returns the existing function.
func (b *Builder) Declare(proto *Prototype) (*ir.Func, error) {
	if f, ok := b.funcs[proto.Name]; ok {
		return f, nil
	}

	params := make([]*ir.Param, len(proto.Params))
	for i, name := range proto.Params {
		params[i] = ir.NewParam(name, types.Double)
	}

	f := b.mod.NewFunc(proto.Name, types.Double, params...)
	b.funcs[proto.Name] = f

	return f, nil
}

// Define lowers a function definition. An existing declaration-only function
// of the same name (an extern) is completed in place; a function that already
// has a body cannot be redefined. If lowering the body fails the function is
// discarded entirely, leaving nothing partial behind.
func (b *Builder) Define(fn *Function) (*ir.Func, error) {
	proto := fn.Proto
	if fn.IsAnonymous() {
		proto = &Prototype{Name: anonFuncName}
	}

	f, err := b.Declare(proto)
	if err != nil {
		return nil, err
	}

	if len(f.Blocks) != 0 {
		return nil, &RedefinedError{Name: proto.Name}
	}

	b.block = f.NewBlock("entry")

	// Parameters are bound by position, using the names the declaration
	// carries.
	b.values = NewValueLookup()
	for _, param := range f.Params {
		b.values.Set(param.Name(), param)
	}

	ret, err := b.expr(fn.Body)
	if err != nil {
		b.Discard(f)
		return nil, err
	}

	b.block.NewRet(ret)
	b.block = nil

	return f, nil
}

// Discard removes a lowered function from the session, so that for example
// the anonymous expression slot can be lowered again.
func (b *Builder) Discard(f *ir.Func) {
	delete(b.funcs, f.Name())

	for i, mf := range b.mod.Funcs {
		if mf == f {
			b.mod.Funcs = append(b.mod.Funcs[:i], b.mod.Funcs[i+1:]...)
			break
		}
	}
}

func (b *Builder) expr(e Expr) (value.Value, error) {
	switch e := e.(type) {
	case *NumberExpr:
		return constant.NewFloat(types.Double, e.Value), nil
	case *VariableExpr:
		v, ok := b.values.Get(e.Name)
		if !ok {
			return nil, &UnknownVariableError{Name: e.Name}
		}

		return v, nil
	case *BinaryExpr:
		return b.binary(e)
	case *CallExpr:
		return b.call(e)
	default:
		return nil, fmt.Errorf("cannot lower expression of type %T", e)
	}
}

func (b *Builder) binary(e *BinaryExpr) (value.Value, error) {
	l, err := b.expr(e.LHS)
	if err != nil {
		return nil, err
	}

	r, err := b.expr(e.RHS)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case '+':
		return b.block.NewFAdd(l, r), nil
	case '-':
		return b.block.NewFSub(l, r), nil
	case '*':
		return b.block.NewFMul(l, r), nil
	case '<':
		// The comparison yields an i1; widen it back to double so the
		// result is usable as a value.
		cmp := b.block.NewFCmp(enum.FPredULT, l, r)
		return b.block.NewUIToFP(cmp, types.Double), nil
	default:
		return nil, &InvalidOperatorError{Op: e.Op}
	}
}

func (b *Builder) call(e *CallExpr) (value.Value, error) {
	callee, ok := b.funcs[e.Callee]
	if !ok {
		return nil, &UnknownFunctionError{Name: e.Callee}
	}

	if len(callee.Params) != len(e.Args) {
		return nil, &ArityError{
			Callee: e.Callee,
			Want:   len(callee.Params),
			Got:    len(e.Args),
		}
	}

	args := make([]value.Value, 0, len(e.Args))
	for _, arg := range e.Args {
		v, err := b.expr(arg)
		if err != nil {
			return nil, err
		}

		args = append(args, v)
	}

	return b.block.NewCall(callee, args...), nil
}
