// Package gofeel provides a Go implementation of FEEL, the Friendly
// Enough Expression Language defined by the OMG DMN 1.5 standard.
//
// FEEL is the expression language used inside DMN decision tables and
// literal expressions. GoFEEL evaluates textual FEEL expressions against
// a variable-binding context and returns a JSON-compatible result, for
// use inside a business-rule/decision engine. The pipeline is strictly
// one-directional per call: text → tokens → AST → value.
//
// # Quick Start
//
//	// Simple evaluation
//	result, err := gofeel.Evaluate("x + 1", map[string]any{"x": 5})
//
//	// Compile once, evaluate many times
//	expr, err := gofeel.Compile("price * quantity")
//	result1, _ := gofeel.EvaluateExpression(ctx, expr, row1)
//	result2, _ := gofeel.EvaluateExpression(ctx, expr, row2)
//
// # Numbers
//
// FEEL numbers are decimal-exact. Results cross the API boundary as
// json.Number so no binary floating-point drift is introduced for
// values exactly representable in source text.
//
// # Conformance
//
// The engine tracks the DMN TCK expression-level cases; the suite under
// tests/conformance exercises them level by level.
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/sandrolain/gofeel/pkg/parser
//   - Evaluator: github.com/sandrolain/gofeel/pkg/evaluator
//   - Functions: github.com/sandrolain/gofeel/pkg/functions
//   - Types: github.com/sandrolain/gofeel/pkg/types
package gofeel

import (
	"context"
	"fmt"

	"github.com/sandrolain/gofeel/pkg/evaluator"
	"github.com/sandrolain/gofeel/pkg/parser"
	"github.com/sandrolain/gofeel/pkg/types"
)

// Version returns the current version of GoFEEL.
func Version() string {
	return "v0.1.0-dev"
}

// Compile compiles a FEEL expression for repeated evaluation.
//
// The compiled expression can be evaluated multiple times against
// different variable bindings. It is safe for concurrent use.
func Compile(expression string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Compile(expression, opts...)
}

// MustCompile is like Compile but panics if the expression cannot be
// compiled. It simplifies safe initialization of global variables.
func MustCompile(expression string) *types.Expression {
	expr, err := Compile(expression)
	if err != nil {
		panic(fmt.Sprintf("gofeel: Compile(%q): %v", expression, err))
	}
	return expr
}

// Evaluate compiles and evaluates an expression in a single call.
// vars supplies the variable bindings; nil means an empty context.
//
// For repeated evaluations of the same expression, use Compile and
// EvaluateExpression instead.
func Evaluate(expression string, vars map[string]any, opts ...evaluator.EvalOption) (any, error) {
	return EvaluateWithContext(context.Background(), expression, vars, opts...)
}

// EvaluateWithContext is Evaluate with a caller-supplied context for
// cancellation. The engine imposes no timeout of its own.
func EvaluateWithContext(ctx context.Context, expression string, vars map[string]any, opts ...evaluator.EvalOption) (any, error) {
	expr, err := Compile(expression)
	if err != nil {
		return nil, err
	}

	return EvaluateExpression(ctx, expr, vars, opts...)
}

// EvaluateExpression evaluates a compiled expression against vars and
// returns the JSON-compatible result.
func EvaluateExpression(ctx context.Context, expr *types.Expression, vars map[string]any, opts ...evaluator.EvalOption) (any, error) {
	scope, err := buildScope(vars)
	if err != nil {
		return nil, err
	}

	ev := evaluator.New(opts...)
	result, err := ev.Eval(ctx, expr, scope)
	if err != nil {
		return nil, err
	}

	return result.ToAny(), nil
}

// buildScope converts a JSON-compatible binding map into a root scope.
func buildScope(vars map[string]any) (*evaluator.Scope, error) {
	bindings := make(map[string]types.Value, len(vars))
	for name, raw := range vars {
		value, err := types.FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", name, err)
		}
		bindings[name] = value
	}
	return evaluator.NewScope(bindings), nil
}
