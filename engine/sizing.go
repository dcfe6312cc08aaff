package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/brokerd/instrument"
)

// ResolveSize converts the caller's size or totalInvestment into a
// concrete trade size against the reference price. Exactly one of the two
// must be set. A supplied size passes through unchanged; totalInvestment
// buys fractional units of a currency but only whole units of an equity.
func ResolveSize(class instrument.Classification, size, totalInvestment *decimal.Decimal, refPrice decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case size != nil && totalInvestment != nil:
		return decimal.Zero, fmt.Errorf("size and totalInvestment are mutually exclusive: %w", ErrInvalidRequest)
	case size == nil && totalInvestment == nil:
		return decimal.Zero, fmt.Errorf("one of size or totalInvestment is required: %w", ErrInvalidRequest)
	}

	if size != nil {
		if !size.IsPositive() {
			return decimal.Zero, fmt.Errorf("size must be positive, got %s: %w", size, ErrInvalidRequest)
		}
		return *size, nil
	}

	if !totalInvestment.IsPositive() {
		return decimal.Zero, fmt.Errorf("totalInvestment must be positive, got %s: %w", totalInvestment, ErrInvalidRequest)
	}
	if refPrice.IsZero() {
		return decimal.Zero, fmt.Errorf("cannot size against a zero reference price: %w", ErrInternal)
	}

	switch class {
	case instrument.Currency:
		return totalInvestment.Div(refPrice), nil
	case instrument.Equity:
		return totalInvestment.Div(refPrice).Floor(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown classification %q: %w", class, ErrInvalidRequest)
	}
}
