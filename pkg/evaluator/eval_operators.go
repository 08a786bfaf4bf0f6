package evaluator

import (
	"context"
	"fmt"

	"github.com/sandrolain/gofeel/pkg/types"
)

// evalBinary evaluates a binary operator expression.
func (e *Evaluator) evalBinary(ctx context.Context, node *types.ASTNode, scope *Scope, depth int) (types.Value, error) {
	op := node.Value

	// and/or short-circuit: the right operand must not be evaluated once
	// the left already determines the result.
	switch op {
	case "and":
		return e.evalAnd(ctx, node, scope, depth)
	case "or":
		return e.evalOr(ctx, node, scope, depth)
	}

	left, err := e.evalNode(ctx, node.LHS, scope, depth+1)
	if err != nil {
		return types.Value{}, err
	}

	right, err := e.evalNode(ctx, node.RHS, scope, depth+1)
	if err != nil {
		return types.Value{}, err
	}

	switch op {
	case "+":
		return e.opAdd(left, right, node)
	case "-":
		return e.opArithmetic(left, right, node, subNumbers)
	case "*":
		return e.opArithmetic(left, right, node, mulNumbers)
	case "/":
		return e.opDivide(left, right, node)
	case "**":
		return e.opPower(left, right, node)
	case "=":
		return e.opEqual(left, right, node, false)
	case "!=":
		return e.opEqual(left, right, node, true)
	case "<", "<=", ">", ">=":
		return e.opCompare(op, left, right, node)
	default:
		return types.Value{}, fmt.Errorf("unsupported binary operator: %s", op)
	}
}

// evalAnd evaluates logical conjunction with short-circuiting.
func (e *Evaluator) evalAnd(ctx context.Context, node *types.ASTNode, scope *Scope, depth int) (types.Value, error) {
	left, err := e.evalNode(ctx, node.LHS, scope, depth+1)
	if err != nil {
		return types.Value{}, err
	}
	if left.Kind() != types.KindBoolean {
		return types.Value{}, newEvalError(types.ErrTypeMismatch,
			fmt.Sprintf("Operator 'and' requires booleans, got %s", left.Kind()), node)
	}
	if !left.Boolean() {
		return types.NewBoolean(false), nil
	}

	right, err := e.evalNode(ctx, node.RHS, scope, depth+1)
	if err != nil {
		return types.Value{}, err
	}
	if right.Kind() != types.KindBoolean {
		return types.Value{}, newEvalError(types.ErrTypeMismatch,
			fmt.Sprintf("Operator 'and' requires booleans, got %s", right.Kind()), node)
	}
	return types.NewBoolean(right.Boolean()), nil
}

// evalOr evaluates logical disjunction with short-circuiting.
func (e *Evaluator) evalOr(ctx context.Context, node *types.ASTNode, scope *Scope, depth int) (types.Value, error) {
	left, err := e.evalNode(ctx, node.LHS, scope, depth+1)
	if err != nil {
		return types.Value{}, err
	}
	if left.Kind() != types.KindBoolean {
		return types.Value{}, newEvalError(types.ErrTypeMismatch,
			fmt.Sprintf("Operator 'or' requires booleans, got %s", left.Kind()), node)
	}
	if left.Boolean() {
		return types.NewBoolean(true), nil
	}

	right, err := e.evalNode(ctx, node.RHS, scope, depth+1)
	if err != nil {
		return types.Value{}, err
	}
	if right.Kind() != types.KindBoolean {
		return types.Value{}, newEvalError(types.ErrTypeMismatch,
			fmt.Sprintf("Operator 'or' requires booleans, got %s", right.Kind()), node)
	}
	return types.NewBoolean(right.Boolean()), nil
}

// opAdd adds numbers or concatenates strings. There is no implicit
// coercion between the two.
func (e *Evaluator) opAdd(left, right types.Value, node *types.ASTNode) (types.Value, error) {
	if left.Kind() == types.KindString && right.Kind() == types.KindString {
		return types.NewString(left.Str() + right.Str()), nil
	}
	return e.opArithmetic(left, right, node, addNumbers)
}

// opArithmetic applies a numeric operation after checking both operands
// are numbers.
func (e *Evaluator) opArithmetic(left, right types.Value, node *types.ASTNode, op numericOp) (types.Value, error) {
	if left.Kind() != types.KindNumber || right.Kind() != types.KindNumber {
		return types.Value{}, newEvalError(types.ErrTypeMismatch,
			fmt.Sprintf("Operator %q requires numbers, got %s and %s", node.Value, left.Kind(), right.Kind()), node)
	}
	result, err := op(left.Number(), right.Number())
	if err != nil {
		return types.Value{}, newEvalError(types.ErrNumericOverflow, err.Error(), node)
	}
	return types.NewNumber(result), nil
}

// opDivide divides two numbers, rejecting a zero divisor.
func (e *Evaluator) opDivide(left, right types.Value, node *types.ASTNode) (types.Value, error) {
	if left.Kind() != types.KindNumber || right.Kind() != types.KindNumber {
		return types.Value{}, newEvalError(types.ErrTypeMismatch,
			fmt.Sprintf("Operator \"/\" requires numbers, got %s and %s", left.Kind(), right.Kind()), node)
	}
	if right.Number().IsZero() {
		return types.Value{}, newEvalError(types.ErrDivisionByZero, "Division by zero", node)
	}
	result, err := divNumbers(left.Number(), right.Number())
	if err != nil {
		return types.Value{}, newEvalError(types.ErrNumericOverflow, err.Error(), node)
	}
	return types.NewNumber(result), nil
}

// opPower raises a number to a number.
func (e *Evaluator) opPower(left, right types.Value, node *types.ASTNode) (types.Value, error) {
	if left.Kind() != types.KindNumber || right.Kind() != types.KindNumber {
		return types.Value{}, newEvalError(types.ErrTypeMismatch,
			fmt.Sprintf("Operator \"**\" requires numbers, got %s and %s", left.Kind(), right.Kind()), node)
	}
	result, err := powNumbers(left.Number(), right.Number())
	if err != nil {
		return types.Value{}, newEvalError(types.ErrNumericOverflow, err.Error(), node)
	}
	return types.NewNumber(result), nil
}

// opEqual compares two values for (in)equality. Operands of different
// kinds cannot be compared: there is no implicit coercion.
func (e *Evaluator) opEqual(left, right types.Value, node *types.ASTNode, negate bool) (types.Value, error) {
	if left.Kind() != right.Kind() {
		return types.Value{}, newEvalError(types.ErrTypeMismatch,
			fmt.Sprintf("Cannot compare %s with %s", left.Kind(), right.Kind()), node)
	}
	eq := left.Equal(right)
	if negate {
		eq = !eq
	}
	return types.NewBoolean(eq), nil
}

// opCompare applies an ordering operator. Numbers order numerically,
// strings lexicographically; everything else is a type mismatch.
func (e *Evaluator) opCompare(op string, left, right types.Value, node *types.ASTNode) (types.Value, error) {
	var cmp int
	switch {
	case left.Kind() == types.KindNumber && right.Kind() == types.KindNumber:
		cmp = left.Number().Cmp(right.Number())
	case left.Kind() == types.KindString && right.Kind() == types.KindString:
		switch {
		case left.Str() < right.Str():
			cmp = -1
		case left.Str() > right.Str():
			cmp = 1
		}
	default:
		return types.Value{}, newEvalError(types.ErrTypeMismatch,
			fmt.Sprintf("Operator %q cannot order %s and %s", op, left.Kind(), right.Kind()), node)
	}

	switch op {
	case "<":
		return types.NewBoolean(cmp < 0), nil
	case "<=":
		return types.NewBoolean(cmp <= 0), nil
	case ">":
		return types.NewBoolean(cmp > 0), nil
	default:
		return types.NewBoolean(cmp >= 0), nil
	}
}
