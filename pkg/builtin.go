package kaleido

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

func defineBuiltins(b *Builder) {
	defineBuiltinFunc(b, "printd", builtinPrintd)
}

type funcDefinition = func(mod *ir.Module) *ir.Func

func defineBuiltinFunc(b *Builder, name string, definition funcDefinition) {
	f := definition(b.mod)
	f.SetName(name)
	b.funcs[name] = f
}

// builtinPrintd prints a double through printf and returns 0, giving sessions
// a way to observe values from the language itself.
func builtinPrintd(mod *ir.Module) *ir.Func {
	f := mod.NewFunc("", types.Double, ir.NewParam("x", types.Double))
	b := f.NewBlock("")

	printf := mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	printf.Sig.Variadic = true

	zero := constant.NewInt(types.I32, 0)

	format := constant.NewCharArrayFromString("%f\n\x00")
	formatGlob := mod.NewGlobalDef("._printf_fmt", format)

	fmtAddr := constant.NewGetElementPtr(types.NewArray(4, types.I8), formatGlob, zero, zero)

	b.NewCall(printf, fmtAddr, f.Params[0])

	b.NewRet(constant.NewFloat(types.Double, 0))

	return f
}
