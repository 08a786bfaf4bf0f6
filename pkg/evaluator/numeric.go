package evaluator

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// FEEL numbers are decimal-exact: literals parse straight into decimals
// and arithmetic stays in decimal space, so values exactly representable
// in source text never pick up binary floating-point drift.
//
// Division rounds half-even to 34 significant decimal digits, the DMN
// recommendation (IEEE 754-2008 decimal128).
const divisionPrecision = 34

// maxIntegerExponent bounds '**' with integer exponents; beyond it the
// exact result would have more digits than any caller can use.
const maxIntegerExponent = 10_000

// resultExponentLimit bounds the decimal exponent of any arithmetic
// result; beyond it the value is reported as a numeric overflow.
const resultExponentLimit = 100_000

var errNumberOutOfRange = errors.New("number out of range")

// numericOp is a binary operation over decimals that may overflow.
type numericOp func(l, r decimal.Decimal) (decimal.Decimal, error)

func addNumbers(l, r decimal.Decimal) (decimal.Decimal, error) {
	return checkRange(l.Add(r))
}

func subNumbers(l, r decimal.Decimal) (decimal.Decimal, error) {
	return checkRange(l.Sub(r))
}

func mulNumbers(l, r decimal.Decimal) (decimal.Decimal, error) {
	return checkRange(l.Mul(r))
}

// divNumbers divides with half-even rounding at divisionPrecision
// significant digits. The caller has already rejected a zero divisor.
//
// shopspring's DivRound counts decimal places and breaks ties away from
// zero, so the quotient is built from an exact integer QuoRem instead:
// truncate at the scale that keeps divisionPrecision significant digits,
// then weigh the discarded remainder against half an ulp, sending exact
// ties to the even neighbour.
func divNumbers(l, r decimal.Decimal) (decimal.Decimal, error) {
	if l.IsZero() {
		return decimal.New(0, 0), nil
	}

	// Leading-digit position of the quotient, estimated from the
	// operands. The estimate can be one position low; the recompute
	// below corrects for that.
	mag := int32(l.NumDigits()) + l.Exponent() - int32(r.NumDigits()) - r.Exponent()
	places := divisionPrecision - mag

	q, rem := l.QuoRem(r, places)
	if int32(q.NumDigits()) > divisionPrecision {
		places--
		q, rem = l.QuoRem(r, places)
	}
	if rem.IsZero() {
		return checkRange(q)
	}

	ulp := decimal.New(1, -places)
	half := rem.Abs().Shift(1).Cmp(r.Abs().Mul(ulp))
	roundAway := half > 0
	if half == 0 {
		roundAway = !q.Shift(places).Mod(decimal.NewFromInt(2)).IsZero()
	}
	if roundAway {
		if q.Sign() < 0 {
			q = q.Sub(ulp)
		} else {
			q = q.Add(ulp)
		}
	}
	return checkRange(q)
}

// powNumbers implements '**'.
//
// Integer exponents are computed exactly in decimal space. Non-integer
// exponents fall back to binary float64 exponentiation and convert back,
// so fractional powers carry float64 precision (about 15 significant
// digits); this is the documented rounding convention for the engine.
// A negative base with a fractional exponent has no real result and is
// reported as out of range.
func powNumbers(base, exp decimal.Decimal) (decimal.Decimal, error) {
	if exp.IsInteger() {
		// The bound is checked in decimal space: IntPart wraps for
		// exponents outside int64.
		if exp.Abs().Cmp(decimal.NewFromInt(maxIntegerExponent)) > 0 {
			return decimal.Decimal{}, errNumberOutOfRange
		}
		ip := exp.IntPart()
		if base.IsZero() && ip < 0 {
			return decimal.Decimal{}, errNumberOutOfRange
		}
		result, err := base.PowInt32(int32(ip))
		if err != nil {
			return decimal.Decimal{}, errNumberOutOfRange
		}
		return checkRange(result)
	}

	bf, _ := base.Float64()
	ef, _ := exp.Float64()
	if bf < 0 {
		return decimal.Decimal{}, errNumberOutOfRange
	}
	r := math.Pow(bf, ef)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return decimal.Decimal{}, errNumberOutOfRange
	}
	return decimal.NewFromFloat(r), nil
}

// checkRange rejects results whose decimal exponent left the supported
// range; shifting such values further would silently lose magnitude.
func checkRange(d decimal.Decimal) (decimal.Decimal, error) {
	exp := int64(d.Exponent())
	if exp > resultExponentLimit || exp < -resultExponentLimit {
		return decimal.Decimal{}, errNumberOutOfRange
	}
	return d, nil
}
