// Package ledger persists the append-only order history. An order is
// written exactly once, with its terminal status already decided, and is
// never updated or deleted afterwards: balances and holdings are always
// re-derived from this history, never stored.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	CashIn  Side = "CASH_IN"
	CashOut Side = "CASH_OUT"
	Buy     Side = "BUY"
	Sell    Side = "SELL"
)

func (s Side) Valid() bool {
	switch s {
	case CashIn, CashOut, Buy, Sell:
		return true
	}
	return false
}

// IsCash reports whether the side moves cash rather than equity units.
func (s Side) IsCash() bool { return s == CashIn || s == CashOut }

type Type string

const (
	Market Type = "MARKET"
	Limit  Type = "LIMIT"
)

func (t Type) Valid() bool { return t == Market || t == Limit }

// Status is the terminal state decided at admission. NEW marks a resting
// limit order; nothing in this system revisits it later.
type Status string

const (
	StatusNew      Status = "NEW"
	StatusFilled   Status = "FILLED"
	StatusRejected Status = "REJECTED"
)

type Order struct {
	ID           string
	AccountID    int64
	InstrumentID int64
	Side         Side
	Type         Type
	Size         decimal.Decimal
	Price        decimal.Decimal
	Status       Status
	CreatedAt    time.Time
}

// Notional is the cash value of the order, price x size.
func (o Order) Notional() decimal.Decimal {
	return o.Price.Mul(o.Size)
}

// Validate checks the record invariants before it is appended.
func (o Order) Validate() error {
	if !o.Side.Valid() {
		return fmt.Errorf("order: invalid side %q", o.Side)
	}
	if !o.Type.Valid() {
		return fmt.Errorf("order: invalid type %q", o.Type)
	}
	if !o.Size.IsPositive() {
		return fmt.Errorf("order: size must be positive, got %s", o.Size)
	}
	if !o.Price.IsPositive() {
		return fmt.Errorf("order: price must be positive, got %s", o.Price)
	}
	return nil
}

// Store is the append-only order history for all accounts.
type Store interface {
	// Append persists the order and returns it with its assigned id and
	// creation time.
	Append(ctx context.Context, o Order) (Order, error)

	// ListByAccount returns every order for the account, oldest first.
	ListByAccount(ctx context.Context, accountID int64) ([]Order, error)

	// ListFilled returns the account's FILLED orders, oldest first. These
	// are the only records that contribute to balances and holdings.
	ListFilled(ctx context.Context, accountID int64) ([]Order, error)

	// ListFilledByInstrument narrows ListFilled to one instrument.
	ListFilledByInstrument(ctx context.Context, accountID, instrumentID int64) ([]Order, error)
}
