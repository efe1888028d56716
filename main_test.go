package main

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// capture runs source through a fresh Session end-to-end (scan, parse,
// resolve, evaluate) and snapshots both its stdout and its exit code, so
// a regression in any stage of the pipeline shows up here even if the
// per-package unit tests still pass.
func capture(t *testing.T, name, source string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := NewSession(&out).Run(source, &errOut)

	report := fmt.Sprintf("exit=%d\nstdout:\n%sstderr:\n%s", code, out.String(), errOut.String())
	snaps.MatchSnapshot(t, name, report)
}

func TestEndToEndArithmeticAndPrint(t *testing.T) {
	capture(t, "arithmetic", `print 1 + 2 * 3 - 4 / 2;`)
}

func TestEndToEndClosures(t *testing.T) {
	capture(t, "closures", `
		fun mk() { var i = 0; fun c() { i = i + 1; return i; } return c; }
		var c = mk();
		print c();
		print c();
	`)
}

func TestEndToEndClassesAndInheritance(t *testing.T) {
	capture(t, "classes", `
		class Pastry { describe() { print "a " + this.kind + " pastry"; } }
		class Croissant < Pastry {
			init() { this.kind = "croissant"; }
			describe() { super.describe(); print "flaky"; }
		}
		Croissant().describe();
	`)
}

func TestEndToEndForLoop(t *testing.T) {
	capture(t, "for-loop", `for (var i = 0; i < 3; i = i + 1) print i;`)
}

func TestEndToEndUndefinedVariableIsRuntimeError(t *testing.T) {
	capture(t, "undefined-variable", `print a;`)
}

func TestEndToEndSelfInheritanceIsStaticError(t *testing.T) {
	capture(t, "self-inheritance", `class X < X {}`)
}

func TestEndToEndUnterminatedStringIsStaticError(t *testing.T) {
	capture(t, "unterminated-string", "print \"never closes;")
}

func TestEndToEndArityMismatchIsRuntimeError(t *testing.T) {
	capture(t, "arity-mismatch", `fun f(a, b) { return a + b; } print f(1);`)
}
