// Package instrument holds the tradable-instrument catalog: what an
// instrument is (currency vs. equity) and its most recent quote. The
// catalog is read-only from the order engine's point of view; writes
// only happen through ops tooling (seeding, market-data import).
package instrument

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Classification constrains which order sides an instrument accepts:
// currencies take CASH_IN/CASH_OUT, equities take BUY/SELL.
type Classification string

const (
	Currency Classification = "CURRENCY"
	Equity   Classification = "EQUITY"
)

// Valid reports whether c is a known classification.
func (c Classification) Valid() bool {
	return c == Currency || c == Equity
}

type Instrument struct {
	ID     int64
	Ticker string
	Name   string
	Class  Classification
}

// Quote is the latest market observation for an instrument.
type Quote struct {
	InstrumentID  int64
	Close         decimal.Decimal
	PreviousClose decimal.Decimal
	Date          time.Time
}

// ErrNotFound is returned when an instrument id does not exist in the
// catalog.
var ErrNotFound = errors.New("instrument not found")

// Page bounds list/search results.
type Page struct {
	Limit  int
	Offset int
}

// Catalog resolves instruments and their latest quotes.
type Catalog interface {
	// Get returns the instrument and its most recent quote.
	// A missing instrument is ErrNotFound; a missing quote is a zero Quote.
	Get(ctx context.Context, id int64) (Instrument, Quote, error)

	// List returns instruments ordered by name, plus the total count.
	List(ctx context.Context, page Page) ([]Instrument, int, error)

	// Search matches ticker or name case-insensitively, ordered by name,
	// plus the total match count.
	Search(ctx context.Context, query string, page Page) ([]Instrument, int, error)
}
