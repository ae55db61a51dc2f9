package auction

import (
	"auction-marketplace/internal/auctionerrors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// amounts are stored as numeric(10,2)
const (
	amountScale     = 2
	maxAmountDigits = 10
)

var maxAmount = decimal.New(1, maxAmountDigits-amountScale)

// ParseAmount parses a user-entered money amount. It rejects anything that
// is not a non-negative number with at most two decimal places that fits
// the stored precision.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("service: %w - missing amount", auctionerrors.ErrInvalidAmount)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("service: %w - %q is not a number", auctionerrors.ErrInvalidAmount, raw)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("service: %w - negative amount %s", auctionerrors.ErrInvalidAmount, raw)
	}
	if !amount.Equal(amount.Truncate(amountScale)) {
		return decimal.Zero, fmt.Errorf("service: %w - more than %d decimal places in %s", auctionerrors.ErrInvalidAmount, amountScale, raw)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, fmt.Errorf("service: %w - amount %s too large", auctionerrors.ErrInvalidAmount, raw)
	}
	return amount, nil
}
