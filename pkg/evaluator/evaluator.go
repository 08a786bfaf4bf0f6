// Package evaluator implements the FEEL expression evaluation engine.
//
// The evaluator receives a parsed Abstract Syntax Tree (AST) from the
// parser and evaluates it against a variable-binding scope, producing a
// types.Value. Evaluation is single-threaded, synchronous, and
// stack-recursive; each call is pure with respect to its inputs, so
// independent concurrent calls on independent expression/scope pairs
// need no coordination.
//
// # Example
//
//	ev := evaluator.New()
//	result, err := ev.Eval(ctx, expr, evaluator.NewScope(bindings))
//	if err != nil {
//	    log.Fatal(err)
//	}
package evaluator

import (
	"log/slog"

	"github.com/sandrolain/gofeel/pkg/functions"
	"github.com/sandrolain/gofeel/pkg/types"
)

// Evaluator evaluates FEEL expressions against variable bindings.
type Evaluator struct {
	opts     EvalOptions
	logger   *slog.Logger
	registry *functions.Registry
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// MaxDepth limits expression nesting depth during evaluation.
	// Exceeding it fails with a TooDeep error instead of risking
	// unbounded stack growth.
	MaxDepth int
	// Registry supplies built-in function definitions. Defaults to
	// functions.Default(). A shared registry must be fully populated
	// before first use and read-only thereafter.
	Registry *functions.Registry
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging. Evaluation correctness never
	// depends on it.
	Logger *slog.Logger
}

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		MaxDepth: 200,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Registry == nil {
		options.Registry = functions.Default()
	}

	return &Evaluator{
		opts:     options,
		logger:   options.Logger,
		registry: options.Registry,
	}
}

// Registry returns the function registry in use.
func (e *Evaluator) Registry() *functions.Registry {
	return e.registry
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithMaxDepth sets the maximum recursion depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithRegistry attaches a function registry.
func WithRegistry(r *functions.Registry) EvalOption {
	return func(opts *EvalOptions) {
		opts.Registry = r
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// newEvalError builds a structured evaluator error at a node position.
func newEvalError(code types.ErrorCode, message string, node *types.ASTNode) *types.Error {
	position := -1
	if node != nil {
		position = node.Position
	}
	return types.NewError(code, message, position)
}
