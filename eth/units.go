package eth

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// EtherBase is the exponent that turns an amount in ether into wei.
const EtherBase = 18

// maxValueDigits is the number of decimal digits in 2^256-1.
const maxValueDigits = 78

// ToSmallestUnit converts amount * 10^base into an exact integer amount of wei.
//
// amount can be a decimal string ("1.5", "2e3"), any integer type, *big.Int,
// decimal.Decimal or float64. Floats go through their shortest decimal
// representation. Negative amounts, negative bases and results with a
// fractional part are rejected with KindInvalidAmount, and so are results
// that do not fit a 256-bit transaction value.
func ToSmallestUnit(amount any, base int) (*big.Int, error) {
	if base < 0 || base > math.MaxInt32 {
		return nil, newError(KindInvalidAmount, fmt.Sprintf("base must be a non-negative exponent, got %d", base))
	}

	d, err := parseDecimal(amount)
	if err != nil {
		return nil, err
	}
	if d.Sign() < 0 {
		return nil, newError(KindInvalidAmount, fmt.Sprintf("amount must not be negative, got %s", d.String()))
	}

	if d.IsZero() {
		return new(big.Int), nil
	}

	// digits left of the decimal point once scaled, checked before the
	// exponent is materialised
	if int64(d.NumDigits())+int64(d.Exponent())+int64(base) > maxValueDigits {
		return nil, newError(KindInvalidAmount,
			fmt.Sprintf("%s x 10^%d exceeds the maximum transaction value", d.String(), base))
	}

	scaled := d.Shift(int32(base))
	if !scaled.IsInteger() {
		return nil, newError(KindInvalidAmount,
			fmt.Sprintf("%s x 10^%d is not a whole number of smallest units", d.String(), base))
	}
	wei := scaled.BigInt()
	if _, overflow := uint256.FromBig(wei); overflow {
		return nil, newError(KindInvalidAmount,
			fmt.Sprintf("%s x 10^%d exceeds the maximum transaction value", d.String(), base))
	}
	return wei, nil
}

// FromSmallestUnit renders wei as a decimal amount in units of 10^base.
func FromSmallestUnit(wei *big.Int, base int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, int32(-base)).String()
}

func parseDecimal(amount any) (decimal.Decimal, error) {
	switch v := amount.(type) {
	case nil:
		return decimal.Zero, newError(KindInvalidAmount, "amount is required")
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Zero, newError(KindInvalidAmount, "amount is required")
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, wrapError(KindInvalidAmount, fmt.Sprintf("amount %q is not a number", v), err)
		}
		return d, nil
	case decimal.Decimal:
		return v, nil
	case *big.Int:
		if v == nil {
			return decimal.Zero, newError(KindInvalidAmount, "amount is required")
		}
		return decimal.NewFromBigInt(v, 0), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(v)), 0), nil
	case uint32:
		return decimal.NewFromInt(int64(v)), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, newError(KindInvalidAmount, fmt.Sprintf("amount %v is not a number", v))
		}
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Zero, newError(KindInvalidAmount, fmt.Sprintf("unsupported amount type %T", amount))
	}
}
