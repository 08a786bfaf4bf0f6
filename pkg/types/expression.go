// Package types defines the core type system for GoFEEL.
//
// This package contains type definitions for:
//   - Expression: Compiled FEEL expressions
//   - ASTNode: Abstract Syntax Tree nodes
//   - Value: The closed tagged union of FEEL runtime values
//   - Error types: Structured errors with codes and stages
package types

// Expression represents a compiled FEEL expression.
//
// An Expression can be evaluated multiple times against different
// variable bindings by passing it to the evaluator. It is safe for
// concurrent use by multiple goroutines.
type Expression struct {
	ast    *ASTNode
	source string
	arena  *NodeArena // keeps arena-allocated nodes alive
}

// NewExpression creates a new Expression from an AST.
// The arena, if non-nil, owns the memory backing the AST nodes.
func NewExpression(ast *ASTNode, source string, arena *NodeArena) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
		arena:  arena,
	}
}

// AST returns the Abstract Syntax Tree of the expression.
func (e *Expression) AST() *ASTNode {
	return e.ast
}

// Source returns the original source text of the expression.
func (e *Expression) Source() string {
	return e.source
}

// String returns a string representation of the expression.
func (e *Expression) String() string {
	return e.source
}
