package interpreter

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"nilan/token"
)

// Environment is one link in the scope chain: a flat binding table plus a
// pointer to the enclosing scope. Environments are always handled as
// pointers, so a captured closure and the scope it was captured from share
// the same underlying bindings — interior mutability for free, safe here
// because evaluation is single-threaded.
type Environment struct {
	enclosing *Environment
	values    map[string]any
}

// NewEnvironment constructs a scope. enclosing is nil for the global scope.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		enclosing: enclosing,
		values:    make(map[string]any),
	}
}

// Define unconditionally (re-)binds name in this scope, the scope it was
// called on — never a parent. Used for `var`, function/class declarations,
// and parameter binding.
func (env *Environment) Define(name string, value any) {
	env.values[name] = value
}

// Get searches this scope, then the enclosing chain, for name.
func (env *Environment) Get(name token.Token) (any, error) {
	if value, ok := env.values[name.Lexeme]; ok {
		return value, nil
	}
	if env.enclosing != nil {
		return env.enclosing.Get(name)
	}
	return nil, NewRuntimeError(name.Line, fmt.Sprintf("Undefined variable '%s'.", name.Lexeme))
}

// Assign updates name in the first scope (searching outward) that already
// binds it. Assigning to an undefined name is a runtime error: assignment
// never implicitly declares.
func (env *Environment) Assign(name token.Token, value any) error {
	if _, ok := env.values[name.Lexeme]; ok {
		env.values[name.Lexeme] = value
		return nil
	}
	if env.enclosing != nil {
		return env.enclosing.Assign(name, value)
	}
	return NewRuntimeError(name.Line, fmt.Sprintf("Undefined variable '%s'.", name.Lexeme))
}

// ancestor walks exactly depth enclosing links, for use with a resolver-
// computed depth that bypasses dynamic name search entirely.
func (env *Environment) ancestor(depth int) *Environment {
	e := env
	for i := 0; i < depth; i++ {
		e = e.enclosing
	}
	return e
}

// GetAt reads name from the scope exactly depth links out, per the
// resolver's side-table. The binding is assumed present: the resolver only
// ever records a depth where it found the name declared.
func (env *Environment) GetAt(depth int, name string) any {
	return env.ancestor(depth).values[name]
}

// AssignAt writes value into the scope exactly depth links out.
func (env *Environment) AssignAt(depth int, name string, value any) {
	env.ancestor(depth).values[name] = value
}

// Names returns this scope's own bound names (not its ancestors') in
// sorted order, for the REPL's `:env` inspector.
func (env *Environment) Names() []string {
	names := maps.Keys(env.values)
	slices.Sort(names)
	return names
}
