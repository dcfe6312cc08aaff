package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/rustyeddy/brokerd/pkg/id"
)

// Memory is an in-memory Store for tests and simulations. Same append-only
// contract as SQLite, no durability.
type Memory struct {
	mu     sync.Mutex
	orders []Order
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(ctx context.Context, o Order) (Order, error) {
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	if o.ID == "" {
		o.ID = id.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
	return o, nil
}

func (m *Memory) ListByAccount(ctx context.Context, accountID int64) ([]Order, error) {
	return m.list(func(o Order) bool { return o.AccountID == accountID })
}

func (m *Memory) ListFilled(ctx context.Context, accountID int64) ([]Order, error) {
	return m.list(func(o Order) bool {
		return o.AccountID == accountID && o.Status == StatusFilled
	})
}

func (m *Memory) ListFilledByInstrument(ctx context.Context, accountID, instrumentID int64) ([]Order, error) {
	return m.list(func(o Order) bool {
		return o.AccountID == accountID && o.InstrumentID == instrumentID && o.Status == StatusFilled
	})
}

func (m *Memory) list(keep func(Order) bool) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Order
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out, nil
}
