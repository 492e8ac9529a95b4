package expr

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	exprlang "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var (
	// ErrSyntax reports a malformed expression.
	ErrSyntax = errors.New("expr: malformed expression")
	// ErrEvaluation reports a runtime failure while evaluating a well formed
	// expression.
	ErrEvaluation = errors.New("expr: evaluation failed")
)

// Pseudo references available to every expression.
const (
	ThisRef   = "this"
	ParentRef = "parent"
)

// Kind is the result type the caller expects.
type Kind uint8

const (
	KindAny Kind = iota
	KindString
	KindBool
	KindNumber
)

// Env is the data an expression is evaluated against: the top-level
// attributes plus the objects of the current render frame and its parent.
type Env struct {
	Attributes map[string]any
	This       any
	Parent     any
}

// Evaluator evaluates expressions against an Env. Absent variables and
// properties of absent objects yield nil; malformed expressions fail with
// ErrSyntax.
type Evaluator interface {
	Evaluate(env Env, expression string, kind Kind) (any, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(env Env, expression string, kind Kind) (any, error)

// Evaluate calls the underlying function.
func (fn EvaluatorFunc) Evaluate(env Env, expression string, kind Kind) (any, error) {
	return fn(env, expression, kind)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for compile diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithFunction exposes a helper function to every expression.
func WithFunction(name string, fn func(params ...any) (any, error)) Option {
	return func(e *Engine) {
		name = strings.TrimSpace(name)
		if name == "" || fn == nil {
			return
		}
		e.options = append(e.options, exprlang.Function(name, fn))
	}
}

// Engine is the expr-lang backed Evaluator. Compiled programs are cached by
// source and the engine is safe for concurrent use.
type Engine struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
	options  []exprlang.Option
	logger   *slog.Logger
}

var _ Evaluator = (*Engine)(nil)

// New constructs an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		programs: make(map[string]*vm.Program),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

var (
	sharedOnce sync.Once
	shared     *Engine
)

// Default returns the process wide engine used when a render model has no
// evaluator of its own.
func Default() *Engine {
	sharedOnce.Do(func() {
		shared = New()
	})
	return shared
}

// Evaluate compiles (or reuses) the program for expression and runs it.
func (e *Engine) Evaluate(env Env, expression string, kind Kind) (any, error) {
	source, ok := Strip(expression)
	if !ok {
		return nil, fmt.Errorf("%w: %q is empty", ErrSyntax, expression)
	}
	program, err := e.program(source)
	if err != nil {
		return nil, err
	}
	out, err := exprlang.Run(program, env.vars())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrEvaluation, source, err)
	}
	return Coerce(out, kind), nil
}

// Compile validates expression without running it, priming the cache.
func (e *Engine) Compile(expression string) error {
	source, ok := Strip(expression)
	if !ok {
		return fmt.Errorf("%w: %q is empty", ErrSyntax, expression)
	}
	_, err := e.program(source)
	return err
}

func (e *Engine) program(source string) (*vm.Program, error) {
	e.mu.RLock()
	program, ok := e.programs[source]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	options := append([]exprlang.Option{
		exprlang.AllowUndefinedVariables(),
		exprlang.Function(memberFunc, member),
		exprlang.Patch(memberPatcher{}),
	}, e.options...)
	program, err := exprlang.Compile(source, options...)
	if err != nil {
		e.logger.Debug("expression rejected", slog.String("expression", source), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, source, err)
	}

	e.mu.Lock()
	e.programs[source] = program
	e.mu.Unlock()
	return program, nil
}

func (env Env) vars() map[string]any {
	vars := make(map[string]any, len(env.Attributes)+2)
	for k, v := range env.Attributes {
		vars[k] = v
	}
	vars[ThisRef] = env.This
	vars[ParentRef] = env.Parent
	return vars
}

// Strip removes an optional ${...} wrapper and surrounding whitespace. It
// reports false for an empty expression.
func Strip(expression string) (string, bool) {
	src := strings.TrimSpace(expression)
	switch {
	case strings.HasPrefix(src, "${") && strings.HasSuffix(src, "}"):
		src = strings.TrimSpace(src[2 : len(src)-1])
	case strings.HasPrefix(src, "$") && !strings.HasPrefix(src, "$env"):
		src = strings.TrimSpace(src[1:])
	}
	return src, src != ""
}

// IsExpression reports whether raw is written as an expression: a '$'
// prefix marks one.
func IsExpression(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), "$")
}
