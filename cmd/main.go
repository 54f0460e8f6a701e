package main

import (
	"fmt"
	"os"

	"github.com/llir/llvm/ir"
	"go.kaleido.dev/pkg"
)

func main() {
	c := kaleido.NewCompiler()

	mod, compileErrs, err := compile(c)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for _, e := range compileErrs {
		fmt.Fprintln(os.Stderr, "error:", e)
	}

	fmt.Print(mod)

	if len(compileErrs) != 0 {
		os.Exit(1)
	}
}

func compile(c *kaleido.Compiler) (*ir.Module, []error, error) {
	if len(os.Args) > 1 {
		return c.CompileFile(os.Args[1])
	}

	mod, errs := c.Compile(os.Stdin)
	return mod, errs, nil
}
