package kaleido

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompile(t *testing.T) {
	src := `
# exercise every top-level construct
def foo(a b) a*b + a
extern sin(x)
def twice(v) foo(v, 1)
twice(10);
1+2 < 4;
`

	mod, errs := NewCompiler().Compile(strings.NewReader(src))
	assert.Empty(t, errs)

	got := mod.String()
	assert.Contains(t, got, "define double @foo(double %a, double %b)")
	assert.Contains(t, got, "declare double @sin(double %x)")
	assert.Contains(t, got, "define double @twice(double %v)")

	// Anonymous expressions are validated and discarded.
	assert.NotContains(t, got, anonFuncName)
}

func TestCompileRecoversAfterError(t *testing.T) {
	src := "def 1() 2\ndef ok(x) x\nok(3)"

	mod, errs := NewCompiler().Compile(strings.NewReader(src))

	// The bad definition fails twice on the way past it; the rest of the
	// input still compiles.
	assert.Len(t, errs, 2)
	for _, err := range errs {
		var syntaxErr *SyntaxError
		assert.ErrorAs(t, err, &syntaxErr)
	}

	assert.Contains(t, mod.String(), "define double @ok")
}

func TestCompileReportsRedefinition(t *testing.T) {
	src := "def f(a) a\ndef f(a) a+1"

	mod, errs := NewCompiler().Compile(strings.NewReader(src))

	assert.Len(t, errs, 1)

	var redef *RedefinedError
	assert.ErrorAs(t, errs[0], &redef)

	// The first definition survives.
	assert.Equal(t, 1, countFuncs(mod, "f"))
}

func TestCompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avg.k")
	err := os.WriteFile(path, []byte("def avg(a b) (a+b)*0.5"), 0o644)
	assert.NoError(t, err)

	mod, errs, err := NewCompiler().CompileFile(path)
	assert.NoError(t, err)
	assert.Empty(t, errs)
	assert.Contains(t, mod.String(), "define double @avg")

	_, _, err = NewCompiler().CompileFile(filepath.Join(t.TempDir(), "missing.k"))
	assert.Error(t, err)
}
