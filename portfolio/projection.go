// Package portfolio derives an account's balance and holdings from its
// order history. Nothing here is stored: every read folds over the
// ledger's FILLED orders, so the result is always consistent with the
// ledger as of the moment it is computed.
package portfolio

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/brokerd/instrument"
	"github.com/rustyeddy/brokerd/ledger"
)

// Balance is the account's signed cash position: CASH_IN and SELL
// proceeds add, CASH_OUT and BUY cost subtract, each weighted price x size.
type Balance struct {
	Value    decimal.Decimal
	Currency string
}

// Holding is an equity position with nonzero quantity. DailyYield is nil
// when it cannot be computed (no previous close, or quantity zero).
type Holding struct {
	InstrumentID int64
	Ticker       string
	Name         string
	Quantity     decimal.Decimal
	CurrentValue decimal.Decimal
	DailyYield   *decimal.Decimal
}

// Projector computes Balance and Holdings from the ledger.
type Projector struct {
	store    ledger.Store
	catalog  instrument.Catalog
	currency string
}

func NewProjector(store ledger.Store, catalog instrument.Catalog, currency string) *Projector {
	return &Projector{store: store, catalog: catalog, currency: currency}
}

// Balance folds the account's FILLED orders into its cash balance. An
// account with no history has balance zero.
func (p *Projector) Balance(ctx context.Context, accountID int64) (Balance, error) {
	orders, err := p.store.ListFilled(ctx, accountID)
	if err != nil {
		return Balance{}, fmt.Errorf("balance for account %d: %w", accountID, err)
	}

	value := decimal.Zero
	for _, o := range orders {
		switch o.Side {
		case ledger.CashIn, ledger.Sell:
			value = value.Add(o.Notional())
		case ledger.CashOut, ledger.Buy:
			value = value.Sub(o.Notional())
		}
	}
	return Balance{Value: value, Currency: p.currency}, nil
}

// Holdings returns every equity position with nonzero quantity, largest
// position first.
func (p *Projector) Holdings(ctx context.Context, accountID int64) ([]Holding, error) {
	orders, err := p.store.ListFilled(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("holdings for account %d: %w", accountID, err)
	}

	quantities := make(map[int64]decimal.Decimal)
	for _, o := range orders {
		switch o.Side {
		case ledger.Buy:
			quantities[o.InstrumentID] = quantities[o.InstrumentID].Add(o.Size)
		case ledger.Sell:
			quantities[o.InstrumentID] = quantities[o.InstrumentID].Sub(o.Size)
		}
	}

	var out []Holding
	for instID, qty := range quantities {
		if qty.IsZero() {
			continue
		}
		h, err := p.value(ctx, instID, qty)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Quantity.GreaterThan(out[j].Quantity)
	})
	return out, nil
}

// Holding computes the account's position in one instrument. The second
// return is false when the instrument was never held or the position has
// been fully sold down.
func (p *Projector) Holding(ctx context.Context, accountID, instrumentID int64) (Holding, bool, error) {
	orders, err := p.store.ListFilledByInstrument(ctx, accountID, instrumentID)
	if err != nil {
		return Holding{}, false, fmt.Errorf("holding for account %d instrument %d: %w",
			accountID, instrumentID, err)
	}

	qty := decimal.Zero
	for _, o := range orders {
		switch o.Side {
		case ledger.Buy:
			qty = qty.Add(o.Size)
		case ledger.Sell:
			qty = qty.Sub(o.Size)
		}
	}
	if qty.IsZero() {
		return Holding{}, false, nil
	}

	h, err := p.value(ctx, instrumentID, qty)
	if err != nil {
		return Holding{}, false, err
	}
	return h, true, nil
}

func (p *Projector) value(ctx context.Context, instrumentID int64, qty decimal.Decimal) (Holding, error) {
	inst, quote, err := p.catalog.Get(ctx, instrumentID)
	if err != nil {
		return Holding{}, fmt.Errorf("value holding %d: %w", instrumentID, err)
	}
	return Holding{
		InstrumentID: inst.ID,
		Ticker:       inst.Ticker,
		Name:         inst.Name,
		Quantity:     qty,
		CurrentValue: qty.Mul(quote.Close),
		DailyYield:   dailyYield(quote, qty),
	}, nil
}

var hundred = decimal.NewFromInt(100)

// dailyYield is (close/previousClose - 1) x 100, rounded to two decimal
// places. Undefined when previousClose is zero or the position is empty.
func dailyYield(q instrument.Quote, qty decimal.Decimal) *decimal.Decimal {
	if q.PreviousClose.IsZero() || qty.IsZero() {
		return nil
	}
	y := q.Close.Div(q.PreviousClose).Sub(decimal.New(1, 0)).Mul(hundred).Round(2)
	return &y
}
