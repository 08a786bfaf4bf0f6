package evaluator

import (
	"context"
	"fmt"

	"github.com/sandrolain/gofeel/pkg/types"
)

// Eval evaluates a compiled expression against a scope.
// The context is threaded for caller-side cancellation only; the
// evaluator itself imposes no timeout.
func (e *Evaluator) Eval(ctx context.Context, expr *types.Expression, scope *Scope) (types.Value, error) {
	if expr == nil || expr.AST() == nil {
		return types.Value{}, fmt.Errorf("invalid expression")
	}
	if scope == nil {
		scope = NewScope(nil)
	}

	return e.evalNode(ctx, expr.AST(), scope, 0)
}

// evalNode evaluates an AST node in the given scope. depth tracks
// expression nesting and bounds recursion independent of host stack
// limits.
func (e *Evaluator) evalNode(ctx context.Context, node *types.ASTNode, scope *Scope, depth int) (types.Value, error) {
	select {
	case <-ctx.Done():
		return types.Value{}, ctx.Err()
	default:
	}

	if depth > e.opts.MaxDepth {
		return types.Value{}, newEvalError(types.ErrTooDeep, "maximum evaluation depth exceeded", node)
	}

	if e.opts.Debug {
		e.logger.Debug("evaluating node",
			"type", node.Type,
			"value", node.Value,
			"depth", depth)
	}

	switch node.Type {
	case types.NodeNumber:
		return types.NewNumber(node.Number), nil
	case types.NodeString:
		return types.NewString(node.Value), nil
	case types.NodeBoolean:
		return types.NewBoolean(node.Boolean), nil
	case types.NodeNull:
		return types.NewNull(), nil
	case types.NodeName:
		return e.evalName(node, scope)
	case types.NodePath:
		return e.evalPath(ctx, node, scope, depth)
	case types.NodeUnary:
		return e.evalUnary(ctx, node, scope, depth)
	case types.NodeBinary:
		return e.evalBinary(ctx, node, scope, depth)
	case types.NodeList:
		return e.evalList(ctx, node, scope, depth)
	case types.NodeContext:
		return e.evalContext(ctx, node, scope, depth)
	case types.NodeCondition:
		return e.evalCondition(ctx, node, scope, depth)
	case types.NodeFunction:
		return e.evalFunction(ctx, node, scope, depth)
	default:
		return types.Value{}, fmt.Errorf("unsupported node type: %s", node.Type)
	}
}

// evalName resolves a variable reference, innermost scope first.
func (e *Evaluator) evalName(node *types.ASTNode, scope *Scope) (types.Value, error) {
	value, ok := scope.Lookup(node.Value)
	if !ok {
		return types.Value{}, newEvalError(types.ErrUnboundVariable, fmt.Sprintf("Unbound variable: %s", node.Value), node)
	}
	return value, nil
}

// evalPath evaluates a context member access (expr.name).
// A missing key and a null base both yield null; any other base kind is
// a type mismatch.
func (e *Evaluator) evalPath(ctx context.Context, node *types.ASTNode, scope *Scope, depth int) (types.Value, error) {
	base, err := e.evalNode(ctx, node.LHS, scope, depth+1)
	if err != nil {
		return types.Value{}, err
	}

	switch base.Kind() {
	case types.KindNull:
		return types.NewNull(), nil
	case types.KindContext:
		if value, ok := base.Context().Get(node.Value); ok {
			return value, nil
		}
		return types.NewNull(), nil
	default:
		return types.Value{}, newEvalError(types.ErrTypeMismatch,
			fmt.Sprintf("Cannot access member %q of %s value", node.Value, base.Kind()), node)
	}
}

// evalUnary evaluates a prefix sign operator. Only numbers can be signed.
func (e *Evaluator) evalUnary(ctx context.Context, node *types.ASTNode, scope *Scope, depth int) (types.Value, error) {
	operand, err := e.evalNode(ctx, node.LHS, scope, depth+1)
	if err != nil {
		return types.Value{}, err
	}

	if operand.Kind() != types.KindNumber {
		return types.Value{}, newEvalError(types.ErrTypeMismatch,
			fmt.Sprintf("Unary %s requires a number, got %s", node.Value, operand.Kind()), node)
	}

	if node.Value == "-" {
		return types.NewNumber(operand.Number().Neg()), nil
	}
	return operand, nil
}

// evalList evaluates a list literal, elements in declared order.
func (e *Evaluator) evalList(ctx context.Context, node *types.ASTNode, scope *Scope, depth int) (types.Value, error) {
	items := make([]types.Value, len(node.Expressions))
	for i, expr := range node.Expressions {
		value, err := e.evalNode(ctx, expr, scope, depth+1)
		if err != nil {
			return types.Value{}, err
		}
		items[i] = value
	}
	return types.NewList(items), nil
}

// evalContext evaluates a context literal. Entries evaluate in declared
// order; a repeated key overwrites the previous binding (last-wins).
func (e *Evaluator) evalContext(ctx context.Context, node *types.ASTNode, scope *Scope, depth int) (types.Value, error) {
	result := types.NewContextValue()
	for _, pair := range node.Pairs {
		value, err := e.evalNode(ctx, pair.Expr, scope, depth+1)
		if err != nil {
			return types.Value{}, err
		}
		result.Set(pair.Key, value)
	}
	return types.NewContext(result), nil
}

// evalCondition evaluates if/then/else. Only boolean true selects the
// then-branch; false, null, and every non-boolean condition select the
// else-branch, matching FEEL semantics. Only the taken branch is
// evaluated.
func (e *Evaluator) evalCondition(ctx context.Context, node *types.ASTNode, scope *Scope, depth int) (types.Value, error) {
	condition, err := e.evalNode(ctx, node.LHS, scope, depth+1)
	if err != nil {
		return types.Value{}, err
	}

	if condition.Kind() == types.KindBoolean && condition.Boolean() {
		return e.evalNode(ctx, node.RHS, scope, depth+1)
	}
	return e.evalNode(ctx, node.Expressions[0], scope, depth+1)
}

// evalFunction resolves a call against the registry, binds arguments
// into a fresh child scope, and invokes the definition with the bound
// argument list in declared parameter order.
func (e *Evaluator) evalFunction(ctx context.Context, node *types.ASTNode, scope *Scope, depth int) (types.Value, error) {
	def, ok := e.registry.Resolve(node.Value)
	if !ok {
		return types.Value{}, newEvalError(types.ErrUnknownFunction, fmt.Sprintf("Unknown function: %s", node.Value), node)
	}

	vars := make(map[string]types.Value, len(def.Params))

	switch {
	case len(node.NamedArgs) > 0:
		if !def.NamedAllowed {
			return types.Value{}, newEvalError(types.ErrArityMismatch,
				fmt.Sprintf("Function %s does not accept named arguments", def.Name), node)
		}
		for _, arg := range node.NamedArgs {
			if paramIndex(def.Params, arg.Name) < 0 {
				return types.Value{}, newEvalError(types.ErrUnknownParameterName,
					fmt.Sprintf("Function %s has no parameter %q", def.Name, arg.Name), node)
			}
			value, err := e.evalNode(ctx, arg.Expr, scope, depth+1)
			if err != nil {
				return types.Value{}, err
			}
			vars[arg.Name] = value
		}
	default:
		if len(node.Arguments) > 0 && !def.PositionalAllowed {
			return types.Value{}, newEvalError(types.ErrArityMismatch,
				fmt.Sprintf("Function %s does not accept positional arguments", def.Name), node)
		}
		if len(node.Arguments) != len(def.Params) {
			return types.Value{}, newEvalError(types.ErrArityMismatch,
				fmt.Sprintf("Function %s expects %d arguments, got %d", def.Name, len(def.Params), len(node.Arguments)), node)
		}
		for i, expr := range node.Arguments {
			value, err := e.evalNode(ctx, expr, scope, depth+1)
			if err != nil {
				return types.Value{}, err
			}
			vars[def.Params[i]] = value
		}
	}

	// Bind arguments into a fresh child scope shadowing the caller's,
	// then hand the definition its arguments in declared parameter
	// order. Parameters left unbound by a named call arrive as null.
	callScope := scope.Child(vars)
	bound := make([]types.Value, len(def.Params))
	for i, name := range def.Params {
		if value, ok := callScope.LookupLocal(name); ok {
			bound[i] = value
		} else {
			bound[i] = types.NewNull()
		}
	}

	result, err := def.Invoke(ctx, bound)
	if err != nil {
		return types.Value{}, err
	}
	return result, nil
}

func paramIndex(params []string, name string) int {
	for i, p := range params {
		if p == name {
			return i
		}
	}
	return -1
}
