package interpreter

import (
	"testing"

	"nilan/token"
)

func ident(name string) token.Token {
	return token.Token{TokenType: token.IDENTIFIER, Lexeme: name, Line: 1}
}

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("a", float64(1))

	value, err := env.Get(ident("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != float64(1) {
		t.Errorf("wrong value - got: %v, want: 1", value)
	}
}

func TestEnvironmentGetSearchesEnclosing(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", float64(1))
	inner := NewEnvironment(outer)

	value, err := inner.Get(ident("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != float64(1) {
		t.Errorf("wrong value - got: %v, want: 1", value)
	}
}

func TestEnvironmentGetUndefinedIsError(t *testing.T) {
	env := NewEnvironment(nil)
	if _, err := env.Get(ident("missing")); err == nil {
		t.Fatal("expected an undefined variable error")
	}
}

func TestEnvironmentAssignUpdatesFirstDefiningScope(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", float64(1))
	inner := NewEnvironment(outer)

	if err := inner.Assign(ident("a"), float64(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, _ := outer.Get(ident("a"))
	if value != float64(2) {
		t.Errorf("assignment from inner scope should mutate outer scope - got: %v", value)
	}
}

func TestEnvironmentAssignUndefinedIsError(t *testing.T) {
	env := NewEnvironment(nil)
	if err := env.Assign(ident("missing"), float64(1)); err == nil {
		t.Fatal("expected an undefined variable error")
	}
}

func TestEnvironmentGetAtAssignAt(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", float64(1))
	middle := NewEnvironment(global)
	inner := NewEnvironment(middle)

	if got := inner.GetAt(2, "a"); got != float64(1) {
		t.Fatalf("GetAt(2, a) - got: %v, want: 1", got)
	}

	inner.AssignAt(2, "a", float64(99))
	if got := global.values["a"]; got != float64(99) {
		t.Errorf("AssignAt should write directly into the ancestor scope - got: %v", got)
	}
}

func TestEnvironmentSharedByReference(t *testing.T) {
	// Two environments referencing the same enclosing scope both observe a
	// mutation made through either one - closures over a shared binding.
	outer := NewEnvironment(nil)
	outer.Define("count", float64(0))

	closureA := NewEnvironment(outer)
	closureB := NewEnvironment(outer)

	closureA.Assign(ident("count"), float64(1))
	value, _ := closureB.Get(ident("count"))
	if value != float64(1) {
		t.Errorf("expected shared mutation to be visible - got: %v", value)
	}
}
