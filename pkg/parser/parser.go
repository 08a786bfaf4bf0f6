// Package parser implements the FEEL lexer and parser.
//
// The parser uses a hand-written recursive descent approach with Pratt's
// "Top Down Operator Precedence" algorithm to implement the DMN-mandated
// operator precedence, including right-associative exponentiation.
//
// # Architecture
//
//   - Lexer: tokenizes the input expression into a stream of tokens,
//     ending with an explicit end-of-input sentinel
//   - Parser: builds an Abstract Syntax Tree (AST) from tokens
//
// # Example
//
//	expr, err := parser.Parse("price * quantity")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast := expr.AST()
package parser

import (
	"github.com/sandrolain/gofeel/pkg/types"
)

// Parse parses a FEEL expression and returns the compiled Expression.
//
// The function tokenizes the input, builds an AST, and validates the
// syntax. If parsing fails, it returns a structured *types.Error with
// position information.
func Parse(source string) (*types.Expression, error) {
	p := NewParser(source)
	return p.Parse()
}

// Compile is an alias for Parse, provided for API consistency.
func Compile(source string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(source, opts...)
	return p.Parse()
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits expression nesting depth so adversarially nested
	// input fails with a structured error instead of overflowing the
	// host stack.
	MaxDepth int
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
