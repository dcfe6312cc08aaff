package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/brokerd/instrument"
)

func d(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	assert.NoError(t, err)
	return v
}

func dp(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	v := d(t, s)
	return &v
}

func TestResolveSizePassThrough(t *testing.T) {
	t.Parallel()

	size, err := ResolveSize(instrument.Equity, dp(t, "7.5"), nil, d(t, "100"))
	assert.NoError(t, err)
	assert.True(t, size.Equal(d(t, "7.5")))
}

func TestResolveSizeEquityWholeUnits(t *testing.T) {
	t.Parallel()

	// 2599 / 260 = 9.996..., equities floor to whole units.
	size, err := ResolveSize(instrument.Equity, nil, dp(t, "2599"), d(t, "260"))
	assert.NoError(t, err)
	assert.True(t, size.Equal(d(t, "9")), "got %s", size)

	// Exact multiples round-trip: n*price / price == n.
	size, err = ResolveSize(instrument.Equity, nil, dp(t, "2600"), d(t, "260"))
	assert.NoError(t, err)
	assert.True(t, size.Equal(d(t, "10")), "got %s", size)
}

func TestResolveSizeCurrencyFractional(t *testing.T) {
	t.Parallel()

	size, err := ResolveSize(instrument.Currency, nil, dp(t, "10"), d(t, "4"))
	assert.NoError(t, err)
	assert.True(t, size.Equal(d(t, "2.5")), "got %s", size)
}

func TestResolveSizeZeroPrice(t *testing.T) {
	t.Parallel()

	_, err := ResolveSize(instrument.Equity, nil, dp(t, "100"), decimal.Zero)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestResolveSizeExclusivity(t *testing.T) {
	t.Parallel()

	_, err := ResolveSize(instrument.Equity, dp(t, "1"), dp(t, "100"), d(t, "10"))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = ResolveSize(instrument.Equity, nil, nil, d(t, "10"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestResolveSizeNonPositive(t *testing.T) {
	t.Parallel()

	_, err := ResolveSize(instrument.Equity, dp(t, "0"), nil, d(t, "10"))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = ResolveSize(instrument.Equity, dp(t, "-3"), nil, d(t, "10"))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = ResolveSize(instrument.Currency, nil, dp(t, "-100"), d(t, "10"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
