package evaluator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/gofeel/pkg/evaluator"
	"github.com/sandrolain/gofeel/pkg/parser"
	"github.com/sandrolain/gofeel/pkg/types"
)

func eval(t *testing.T, source string, vars map[string]types.Value, opts ...evaluator.EvalOption) types.Value {
	t.Helper()

	expr, err := parser.Parse(source)
	require.NoError(t, err, "parse %q", source)

	ev := evaluator.New(opts...)
	result, err := ev.Eval(context.Background(), expr, evaluator.NewScope(vars))
	require.NoError(t, err, "eval %q", source)

	return result
}

func evalErrorCode(t *testing.T, source string, vars map[string]types.Value, opts ...evaluator.EvalOption) types.ErrorCode {
	t.Helper()

	expr, err := parser.Parse(source)
	require.NoError(t, err, "parse %q", source)

	ev := evaluator.New(opts...)
	_, err = ev.Eval(context.Background(), expr, evaluator.NewScope(vars))
	require.Error(t, err, "eval %q", source)

	var engineErr *types.Error
	require.ErrorAs(t, err, &engineErr, "eval %q", source)
	return engineErr.Code
}

func num(s string) types.Value {
	return types.NewNumber(decimal.RequireFromString(s))
}

func assertNumber(t *testing.T, got types.Value, want string) {
	t.Helper()
	require.Equal(t, types.KindNumber, got.Kind())
	assert.True(t, got.Number().Equal(decimal.RequireFromString(want)),
		"got %s, want %s", got.Number(), want)
}

func TestEvalLiterals(t *testing.T) {
	assertNumber(t, eval(t, "42", nil), "42")
	assertNumber(t, eval(t, "3.14", nil), "3.14")
	assert.Equal(t, "hello", eval(t, `"hello"`, nil).Str())
	assert.True(t, eval(t, "true", nil).Boolean())
	assert.False(t, eval(t, "false", nil).Boolean())
	assert.True(t, eval(t, "null", nil).IsNull())
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"10 - 5", "5"},
		{"10-5", "5"},
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"3.14 + 1", "4.14"},
		{"0.1 + 0.2", "0.3"},
		{"6 / 3", "2"},
		{"7 / 2", "3.5"},
		{"2 ** 10", "1024"},
		{"2 ** 3 ** 2", "512"},
		{"-2 ** 2", "4"},
		{"2 ** -2", "0.25"},
		{"10 - 5 - 2", "3"},
		{"- 5 + 3", "-2"},
	}

	for _, test := range tests {
		t.Run(test.source, func(t *testing.T) {
			assertNumber(t, eval(t, test.source, nil), test.want)
		})
	}
}

func TestEvalDecimalExactness(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3; a float64 engine yields
	// 0.30000000000000004.
	result := eval(t, "0.1 + 0.2", nil)
	assert.Equal(t, "0.3", result.Number().String())
}

func TestEvalDivision(t *testing.T) {
	// Non-terminating quotients round half-even to 34 significant digits.
	result := eval(t, "1 / 3", nil)
	assert.Equal(t, "0.3333333333333333333333333333333333", result.Number().String())

	// A discarded half rounds to the even last digit.
	tie := eval(t, "10000000000000000000000000000000001 / 2", nil)
	assert.Equal(t, "5000000000000000000000000000000000", tie.Number().String())

	assert.Equal(t, types.ErrDivisionByZero, evalErrorCode(t, "1 / 0", nil))
	assert.Equal(t, types.ErrDivisionByZero, evalErrorCode(t, "0 / 0", nil))
}

func TestEvalPower(t *testing.T) {
	assertNumber(t, eval(t, "9 ** 0.5", nil), "3")
	assertNumber(t, eval(t, "10 ** 0", nil), "1")
	assertNumber(t, eval(t, "10 ** -1", nil), "0.1")

	// Zero to a negative power and a negative base with a fractional
	// exponent have no numeric result.
	assert.Equal(t, types.ErrNumericOverflow, evalErrorCode(t, "0 ** -1", nil))
	assert.Equal(t, types.ErrNumericOverflow, evalErrorCode(t, "(-8) ** 0.5", nil))

	// Integer exponents past int64 overflow instead of wrapping.
	assert.Equal(t, types.ErrNumericOverflow,
		evalErrorCode(t, "2 ** 18446744073709551617", nil))
}

func TestEvalStringConcatenation(t *testing.T) {
	result := eval(t, `"foo" + "bar"`, nil)
	assert.Equal(t, types.KindString, result.Kind())
	assert.Equal(t, "foobar", result.Str())
}

func TestEvalTypeMismatch(t *testing.T) {
	tests := []string{
		`1 + "a"`,
		`"a" - "b"`,
		`1 < "a"`,
		`true > false`,
		`1 = "1"`,
		`-"a"`,
		`true + true`,
	}

	for _, source := range tests {
		t.Run(source, func(t *testing.T) {
			assert.Equal(t, types.ErrTypeMismatch, evalErrorCode(t, source, nil))
		})
	}
}

func TestEvalComparison(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"1 < 2", true},
		{"2 <= 2", true},
		{"3 > 4", false},
		{"4 >= 4", true},
		{"1 = 1", true},
		{"1 = 2", false},
		{"1 != 2", true},
		{`"a" < "b"`, true},
		{`"abc" = "abc"`, true},
		{"1.0 = 1", true},
		{"true = true", true},
		{"null = null", true},
		{"[1, 2] = [1, 2]", true},
		{"[1, 2] = [2, 1]", false},
		{"{a: 1} = {a: 1}", true},
		{"{a: 1} = {a: 2}", false},
	}

	for _, test := range tests {
		t.Run(test.source, func(t *testing.T) {
			result := eval(t, test.source, nil)
			require.Equal(t, types.KindBoolean, result.Kind())
			assert.Equal(t, test.want, result.Boolean())
		})
	}
}

func TestEvalLogicShortCircuit(t *testing.T) {
	// The right operand would fail if evaluated; short-circuiting must
	// skip it entirely.
	assert.False(t, eval(t, "false and (1 / 0 = 0)", nil).Boolean())
	assert.True(t, eval(t, "true or (1 / 0 = 0)", nil).Boolean())

	// Without short-circuit the division error surfaces.
	assert.Equal(t, types.ErrDivisionByZero, evalErrorCode(t, "true and (1 / 0 = 0)", nil))

	// Non-boolean operands are type errors, not truthy values.
	assert.Equal(t, types.ErrTypeMismatch, evalErrorCode(t, "1 and true", nil))
	assert.Equal(t, types.ErrTypeMismatch, evalErrorCode(t, "false or 1", nil))
}

func TestEvalConditional(t *testing.T) {
	assertNumber(t, eval(t, "if true then 1 else 2", nil), "1")
	assertNumber(t, eval(t, "if false then 1 else 2", nil), "2")

	// Only boolean true selects the then-branch; null and non-boolean
	// conditions select the else-branch.
	assertNumber(t, eval(t, "if null then 1 else 2", nil), "2")
	assertNumber(t, eval(t, `if "yes" then 1 else 2`, nil), "2")

	// Only the taken branch is evaluated.
	assertNumber(t, eval(t, "if true then 1 else 1 / 0", nil), "1")
	assertNumber(t, eval(t, "if false then 1 / 0 else 2", nil), "2")
}

func TestEvalVariables(t *testing.T) {
	vars := map[string]types.Value{"x": num("5")}
	assertNumber(t, eval(t, "x + 1", vars), "6")

	assert.Equal(t, types.ErrUnboundVariable, evalErrorCode(t, "y + 1", nil))
}

func TestEvalMemberAccess(t *testing.T) {
	inner := types.NewContextValue()
	inner.Set("name", types.NewString("Ada"))
	outer := types.NewContextValue()
	outer.Set("customer", types.NewContext(inner))
	vars := map[string]types.Value{"order": types.NewContext(outer)}

	assert.Equal(t, "Ada", eval(t, "order.customer.name", vars).Str())

	// Missing key and null base both yield null.
	assert.True(t, eval(t, "order.missing", vars).IsNull())
	assert.True(t, eval(t, "order.missing.deeper", vars).IsNull())
	assert.True(t, eval(t, "null.anything", nil).IsNull())

	// Any other base kind is a type error.
	assert.Equal(t, types.ErrTypeMismatch, evalErrorCode(t, "(1).anything", nil))
}

func TestEvalListLiteral(t *testing.T) {
	result := eval(t, "[1, 2 + 3, \"x\"]", nil)
	require.Equal(t, types.KindList, result.Kind())
	require.Len(t, result.List(), 3)
	assertNumber(t, result.List()[1], "5")
	assert.Equal(t, "x", result.List()[2].Str())
}

func TestEvalContextLiteral(t *testing.T) {
	result := eval(t, "{a: 1, b: a + 1}", map[string]types.Value{"a": num("10")})
	require.Equal(t, types.KindContext, result.Kind())

	// Context entries see the outer scope, not each other.
	b, ok := result.Context().Get("b")
	require.True(t, ok)
	assertNumber(t, b, "11")
}

func TestEvalContextDuplicateKeyLastWins(t *testing.T) {
	result := eval(t, "{a: 1, b: 2, a: 3}", nil)
	require.Equal(t, types.KindContext, result.Kind())

	a, ok := result.Context().Get("a")
	require.True(t, ok)
	assertNumber(t, a, "3")

	// The key keeps its first position and is not duplicated.
	assert.Equal(t, []string{"a", "b"}, result.Context().Keys)
}

func TestEvalTooDeep(t *testing.T) {
	source := "1"
	for i := 0; i < 30; i++ {
		source = "(" + source + " + 1)"
	}

	code := evalErrorCode(t, source, nil, evaluator.WithMaxDepth(10))
	assert.Equal(t, types.ErrTooDeep, code)

	// The same expression succeeds with the default budget.
	assertNumber(t, eval(t, source, nil), "31")
}

func TestEvalContextCancellation(t *testing.T) {
	expr, err := parser.Parse("1 + 2")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev := evaluator.New()
	_, err = ev.Eval(ctx, expr, evaluator.NewScope(nil))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEvalDeterminism(t *testing.T) {
	vars := map[string]types.Value{"x": num("7")}
	first := eval(t, "{a: x * 2, b: [x, x ** 2]}", vars)
	for i := 0; i < 5; i++ {
		again := eval(t, "{a: x * 2, b: [x, x ** 2]}", vars)
		assert.True(t, first.Equal(again), "run %d differed: %s vs %s", i, first, again)
	}
}
