package interpreter

import (
	"nilan/ast"
)

// Callable is any value that can appear as the callee of a Call
// expression: user-defined functions and methods, classes (construction),
// and native builtins.
type Callable interface {
	Arity() int
	Call(interp *Interpreter, args []any) (any, error)
	String() string
}

// UserFn is a function or method value: an AST body plus the environment
// it closed over at definition time. Two Bind calls on the same method
// produce two distinct UserFn values — callable equality is by identity
// (Go pointer identity), so bound methods are never interchangeable even
// when fetched from the same instance twice.
type UserFn struct {
	Declaration   ast.FunctionStmt
	Closure       *Environment
	IsInitializer bool
}

func (fn *UserFn) Arity() int {
	return len(fn.Declaration.Params)
}

func (fn *UserFn) String() string {
	return "<fn " + fn.Declaration.Name.Lexeme + ">"
}

// Bind returns a fresh UserFn whose closure is a new scope, enclosing the
// original closure, with `this` bound to instance. Used when a method is
// fetched off an instance (Get) or resolved via `super`.
func (fn *UserFn) Bind(instance *Instance) *UserFn {
	env := NewEnvironment(fn.Closure)
	env.Define("this", instance)
	return &UserFn{Declaration: fn.Declaration, Closure: env, IsInitializer: fn.IsInitializer}
}

func (fn *UserFn) Call(interp *Interpreter, args []any) (result any, err error) {
	env := NewEnvironment(fn.Closure)
	for i, param := range fn.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	defer func() {
		if r := recover(); r != nil {
			if ret, ok := r.(returnSignal); ok {
				if fn.IsInitializer {
					result = fn.Closure.GetAt(0, "this")
				} else {
					result = ret.value
				}
				return
			}
			panic(r)
		}
	}()

	interp.executeBlock(fn.Declaration.Body, env)

	if fn.IsInitializer {
		return fn.Closure.GetAt(0, "this"), nil
	}
	return nil, nil
}

// returnSignal is the non-error control-flow payload a `return` statement
// panics with. It unwinds through nested blocks and loops until UserFn.Call
// recovers it; it must never reach the top-level Interpret recover, which
// only expects RuntimeError.
type returnSignal struct {
	value any
}

// ClassDef is a class value: its name, optional superclass, and its own
// (non-inherited) methods.
type ClassDef struct {
	Name       string
	Superclass *ClassDef
	Methods    map[string]*UserFn
}

func (c *ClassDef) String() string {
	return c.Name
}

// FindMethod looks up name among this class's own methods, then walks the
// superclass chain.
func (c *ClassDef) FindMethod(name string) (*UserFn, bool) {
	if fn, ok := c.Methods[name]; ok {
		return fn, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Arity is the arity of `init` if the class (or an ancestor) defines one,
// else 0: calling a class with no initializer takes no arguments.
func (c *ClassDef) Arity() int {
	if initializer, ok := c.FindMethod("init"); ok {
		return initializer.Arity()
	}
	return 0
}

func (c *ClassDef) Call(interp *Interpreter, args []any) (any, error) {
	instance := &Instance{Class: c, Fields: make(map[string]any)}
	if initializer, ok := c.FindMethod("init"); ok {
		if _, err := initializer.Bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a live object: a reference to its class and its own field
// table. Equality between instances is identity (Go pointer comparison).
type Instance struct {
	Class  *ClassDef
	Fields map[string]any
}

func (i *Instance) String() string {
	return i.Class.Name + " instance"
}

// Get looks up name first among the instance's own fields, then as a bound
// method on the class. ok is false if neither is found.
func (i *Instance) Get(name string) (any, bool) {
	if value, ok := i.Fields[name]; ok {
		return value, true
	}
	if method, ok := i.Class.FindMethod(name); ok {
		return method.Bind(i), true
	}
	return nil, false
}

func (i *Instance) Set(name string, value any) {
	i.Fields[name] = value
}

// NativeFn wraps a Go function as a Callable, for builtins like clock.
type NativeFn struct {
	NameValue string
	ArityValue int
	Fn        func(interp *Interpreter, args []any) (any, error)
}

func (n *NativeFn) Arity() int      { return n.ArityValue }
func (n *NativeFn) String() string  { return "<native fn>" }
func (n *NativeFn) Call(interp *Interpreter, args []any) (any, error) {
	return n.Fn(interp, args)
}
