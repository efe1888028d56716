package vm

import (
	"bytes"
	"testing"

	"nilan/compiler"
	"nilan/lexer"
)

func run(t *testing.T, source string) (any, string) {
	t.Helper()
	tokens, err := lexer.New(source).Scan()
	if err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	chunk, err := compiler.Compile(tokens)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	var out bytes.Buffer
	result, err := New(false, &out).Run(chunk)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	return result, out.String()
}

func TestRunArithmeticPrecedence(t *testing.T) {
	result, out := run(t, "1 + 2 * 3")
	if result != float64(7) {
		t.Errorf("wrong result - got: %v, want: 7", result)
	}
	if out != "7\n" {
		t.Errorf("wrong output - got: %q", out)
	}
}

func TestRunGrouping(t *testing.T) {
	result, _ := run(t, "(1 + 2) * 3")
	if result != float64(9) {
		t.Errorf("wrong result - got: %v, want: 9", result)
	}
}

func TestRunComparisonAndEquality(t *testing.T) {
	result, _ := run(t, "1 < 2")
	if result != true {
		t.Errorf("wrong result - got: %v, want: true", result)
	}

	result, _ = run(t, "1 == 1")
	if result != true {
		t.Errorf("wrong result for 1 == 1 - got: %v, want: true", result)
	}
}

func TestRunNotEqual(t *testing.T) {
	result, _ := run(t, "1 != 1")
	if result != false {
		t.Errorf("wrong result - got: %v, want: false", result)
	}
}

func TestRunGreaterEqual(t *testing.T) {
	result, _ := run(t, "2 >= 2")
	if result != true {
		t.Errorf("wrong result - got: %v, want: true", result)
	}
}

func TestRunNegateAndNot(t *testing.T) {
	result, _ := run(t, "!(-1 < 0)")
	if result != false {
		t.Errorf("wrong result - got: %v, want: false", result)
	}
}

func TestRunNilIsFalsy(t *testing.T) {
	result, _ := run(t, "!nil")
	if result != true {
		t.Errorf("wrong result - got: %v, want: true", result)
	}
}

func TestRunAddingNonNumbersIsRuntimeError(t *testing.T) {
	tokens, err := lexer.New("true + 1").Scan()
	if err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	chunk, err := compiler.Compile(tokens)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if _, err := New(false, &bytes.Buffer{}).Run(chunk); err == nil {
		t.Fatal("expected a runtime error adding a bool and a number")
	}
}

func TestRunDebugTraceWritesToOut(t *testing.T) {
	tokens, err := lexer.New("1 + 2").Scan()
	if err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	chunk, err := compiler.Compile(tokens)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	var out bytes.Buffer
	if _, err := New(true, &out).Run(chunk); err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if out.Len() == 0 {
		t.Fatal("expected debug trace output to be non-empty")
	}
}
