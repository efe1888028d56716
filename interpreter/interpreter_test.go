package interpreter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nilan/lexer"
	"nilan/parser"
	"nilan/resolver"
)

// run scans, parses, resolves, and evaluates source, returning everything
// written to stdout and any runtime error. Scan/parse/resolve failures fail
// the test outright: these tests exercise the evaluator, not the front end.
func run(t *testing.T, source string) (string, error) {
	t.Helper()

	tokens, scanErr := lexer.New(source).Scan()
	require.NoError(t, scanErr)

	stmts, parseErrs := parser.Make(tokens).Parse()
	require.Empty(t, parseErrs)

	r := resolver.New()
	require.NoError(t, r.Resolve(stmts))

	var out bytes.Buffer
	interp := New(r.Locals, &out)
	err := interp.Interpret(stmts)
	return out.String(), err
}

func TestArithmeticPrecedence(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3 - 4 / 5;`)
	require.NoError(t, err)
	assert.Equal(t, "6.2\n", out)
}

func TestBlockScopingShadowsThenRestores(t *testing.T) {
	out, err := run(t, `var a=5; {var a=10; print a;} print a;`)
	require.NoError(t, err)
	assert.Equal(t, "10\n5\n", out)
}

func TestRecursiveFunction(t *testing.T) {
	out, err := run(t, `fun f(n){ if (n==0) return 1; return n*f(n-1);} print f(5);`)
	require.NoError(t, err)
	assert.Equal(t, "120\n", out)
}

func TestClosuresShareMutableState(t *testing.T) {
	out, err := run(t, `fun mk(){var i=0; fun c(){i=i+1; return i;} return c;} var c=mk(); print c(); print c();`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

func TestClassFieldsAndMethods(t *testing.T) {
	out, err := run(t, `class Cake{ taste(){print "The "+this.flavor+" cake is delicious!";}} var c=Cake(); c.flavor="German chocolate"; c.taste();`)
	require.NoError(t, err)
	assert.Equal(t, "The German chocolate cake is delicious!\n", out)
}

func TestSuperInvokesParentMethod(t *testing.T) {
	out, err := run(t, `class A{cook(){print "fry";}} class B<A{cook(){super.cook(); print "glaze";}} B().cook();`)
	require.NoError(t, err)
	assert.Equal(t, "fry\nglaze\n", out)
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print a;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'a'.")
	assert.Contains(t, err.Error(), "[line 1]")
}

func TestShortCircuitAndNeverEvaluatesRight(t *testing.T) {
	out, err := run(t, `fun boom(){ print "boom"; return true; } print false and boom();`)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

func TestShortCircuitOrNeverEvaluatesRight(t *testing.T) {
	out, err := run(t, `fun boom(){ print "boom"; return true; } print true or boom();`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestForLoopDesugarsAndIterates(t *testing.T) {
	out, err := run(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestBoundMethodsAreDistinctPerFetch(t *testing.T) {
	out, err := run(t, `
		class Box { get() { return this; } }
		var b = Box();
		var m1 = b.get;
		var m2 = b.get;
		print m1 == m2;
	`)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, `fun f(a, b) { return a + b; } f(1);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 2 arguments but got 1.")
}

func TestStringConcatenationOnly(t *testing.T) {
	out, err := run(t, `print "a" + "b";`)
	require.NoError(t, err)
	assert.Equal(t, "ab\n", out)
}

func TestAddingNumberAndStringIsRuntimeError(t *testing.T) {
	_, err := run(t, `print 1 + "a";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operands must be two numbers or two strings.")
}
