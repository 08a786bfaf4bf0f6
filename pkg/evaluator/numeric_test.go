package evaluator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddSubMulExact(t *testing.T) {
	sum, err := addNumbers(d("0.1"), d("0.2"))
	require.NoError(t, err)
	assert.Equal(t, "0.3", sum.String())

	diff, err := subNumbers(d("10"), d("5"))
	require.NoError(t, err)
	assert.Equal(t, "5", diff.String())

	prod, err := mulNumbers(d("1.5"), d("2.5"))
	require.NoError(t, err)
	assert.Equal(t, "3.75", prod.String())
}

func TestDivRoundsHalfEven(t *testing.T) {
	tests := []struct {
		l, r, want string
	}{
		{"1", "3", "0.3333333333333333333333333333333333"},
		// The precision counts significant digits, not decimal
		// places: large quotients keep 34 digits total.
		{"1000000", "3", "333333.3333333333333333333333333333"},
		// Above the halfway point rounds away from zero.
		{"2", "3", "0.6666666666666666666666666666666667"},
		{"-2", "3", "-0.6666666666666666666666666666666667"},
		// The leading-digit estimate for 95/3 is one position low
		// and has to be corrected before rounding.
		{"95", "3", "31.66666666666666666666666666666667"},
		// Exact ties go to the even neighbour: the 35-digit
		// dividends leave a discarded half after an even and an
		// odd last digit respectively.
		{"10000000000000000000000000000000001", "2", "5000000000000000000000000000000000"},
		{"10000000000000000000000000000000003", "2", "5000000000000000000000000000000002"},
		// Short exact quotients need no rounding at all, however
		// far from the decimal point their digits sit.
		{"1", "4000000000000000000000000000000000", "2.5e-34"},
		{"1", "4", "0.25"},
		{"6", "3", "2"},
		{"0", "7", "0"},
	}

	for _, test := range tests {
		q, err := divNumbers(d(test.l), d(test.r))
		require.NoError(t, err, "%s / %s", test.l, test.r)
		assert.True(t, q.Equal(d(test.want)), "%s / %s = %s, want %s",
			test.l, test.r, q, test.want)
	}
}

func TestPowIntegerExponentExact(t *testing.T) {
	tests := []struct {
		base, exp, want string
	}{
		{"2", "10", "1024"},
		{"2", "0", "1"},
		{"10", "-1", "0.1"},
		{"-2", "3", "-8"},
		{"0.5", "2", "0.25"},
	}

	for _, test := range tests {
		got, err := powNumbers(d(test.base), d(test.exp))
		require.NoError(t, err, "%s ** %s", test.base, test.exp)
		assert.True(t, got.Equal(d(test.want)), "%s ** %s = %s, want %s",
			test.base, test.exp, got, test.want)
	}
}

func TestPowFractionalExponent(t *testing.T) {
	got, err := powNumbers(d("9"), d("0.5"))
	require.NoError(t, err)
	assert.True(t, got.Equal(d("3")), "got %s", got)
}

func TestPowOutOfRange(t *testing.T) {
	_, err := powNumbers(d("0"), d("-1"))
	assert.ErrorIs(t, err, errNumberOutOfRange)

	_, err = powNumbers(d("-8"), d("0.5"))
	assert.ErrorIs(t, err, errNumberOutOfRange)

	_, err = powNumbers(d("2"), d("20000"))
	assert.ErrorIs(t, err, errNumberOutOfRange)

	// Integer exponents beyond int64 must be rejected, not truncated
	// to their low 64 bits: 2**64+1 would otherwise wrap to 1.
	_, err = powNumbers(d("2"), d("18446744073709551617"))
	assert.ErrorIs(t, err, errNumberOutOfRange)

	_, err = powNumbers(d("2"), d("-18446744073709551617"))
	assert.ErrorIs(t, err, errNumberOutOfRange)
}
