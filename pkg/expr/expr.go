package expr

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// cel-go shares registry state across environment construction and program
// planning, so both are serialized behind one lock.
var mu sync.Mutex

// Environment compiles match expressions against a fixed set of declared
// variables, with this module's CEL library (strings, lists, glob)
// preloaded. It is safe for concurrent use.
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates an [Environment] with the given declarations.
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	mu.Lock()
	defer mu.Unlock()

	env, err := cel.NewEnv(append(opts, cel.Lib(&lib{}))...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &Environment{env: env}, nil
}

// MustNewEnvironment creates an [Environment] and panics on error.
func MustNewEnvironment(opts ...cel.EnvOption) *Environment {
	env, err := NewEnvironment(opts...)
	if err != nil {
		panic(err)
	}

	return env
}

// Compile type-checks an expression and returns the planned program.
//
//nolint:ireturn // cel.Program is an interface by cel-go's design.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	mu.Lock()
	defer mu.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return program, nil
}
