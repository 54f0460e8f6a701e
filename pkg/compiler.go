package kaleido

import (
	"io"
	"os"

	"github.com/llir/llvm/ir"
)

// Compiler wires the full pipeline: characters through the lexer, tokens
// through the parser, top-level constructs through the builder. One Compiler
// call is one compilation session with its own function table.
type Compiler struct{}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// CompileFile compiles the named file. The error return covers I/O only;
// compilation problems come back in the slice.
func (c *Compiler) CompileFile(filename string) (*ir.Module, []error, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	mod, errs := c.Compile(f)
	return mod, errs, nil
}

// Compile reads top-level constructs until end of input and lowers each one.
// A failed construct is recorded and skipped past, then compilation continues
// with the rest of the input. Anonymous top-level expressions are lowered to
// validate them and then discarded, since no execution backend is attached.
func (c *Compiler) Compile(reader io.Reader) (*ir.Module, []error) {
	lexer := NewLexer(reader)
	parser := NewParser(lexer)
	builder := NewBuilder()

	var errs []error
	for {
		switch tok := parser.Peek(); {
		case tok.Typ == TokenEOF:
			return builder.Module(), errs
		case tok.isPunct(';'):
			// Top-level semicolons separate constructs.
			parser.Skip()
		case tok.Typ == TokenDef:
			fn, err := parser.ParseDefinition()
			if err != nil {
				errs = append(errs, err)
				parser.Skip() // Error recovery
				continue
			}

			if _, err := builder.Define(fn); err != nil {
				errs = append(errs, err)
			}
		case tok.Typ == TokenExtern:
			proto, err := parser.ParseExtern()
			if err != nil {
				errs = append(errs, err)
				parser.Skip() // Error recovery
				continue
			}

			if _, err := builder.Declare(proto); err != nil {
				errs = append(errs, err)
			}
		default:
			fn, err := parser.ParseTopLevelExpr()
			if err != nil {
				errs = append(errs, err)
				parser.Skip() // Error recovery
				continue
			}

			f, err := builder.Define(fn)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			builder.Discard(f)
		}
	}
}
