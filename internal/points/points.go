package points

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidValuePerUnit = errors.New("invalid value per unit")
)

// ParseAmount validates a raw point amount. Points are whole units; every
// ledger operation requires a strictly positive amount.
func ParseAmount(raw int64) (int64, error) {
	if raw <= 0 {
		return 0, ErrInvalidAmount
	}
	return raw, nil
}

// ParseValuePerUnit parses the hub's per-unit valuation. At most six decimal
// places, strictly positive.
func ParseValuePerUnit(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil || value.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidValuePerUnit
	}
	if value.Exponent() < -6 {
		return decimal.Zero, ErrInvalidValuePerUnit
	}
	return value, nil
}

// FormatValue renders the monetary value of a point amount at the given
// per-unit rate, rounded bank-style to two places.
func FormatValue(amount int64, perUnit decimal.Decimal) string {
	return decimal.NewFromInt(amount).Mul(perUnit).RoundBank(2).StringFixedBank(2)
}
