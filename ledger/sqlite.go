package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/brokerd/pkg/id"
)

// SQLite is the Store backed by the shared SQLite database.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) (*SQLite, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Append(ctx context.Context, o Order) (Order, error) {
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	if o.ID == "" {
		o.ID = id.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders
		(id, account_id, instrument_id, side, type, size, price, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.AccountID, o.InstrumentID, string(o.Side), string(o.Type),
		o.Size.String(), o.Price.String(), string(o.Status), o.CreatedAt,
	)
	if err != nil {
		return Order{}, fmt.Errorf("append order: %w", err)
	}
	return o, nil
}

const selectOrder = `
	SELECT id, account_id, instrument_id, side, type, size, price, status, created_at
	FROM orders`

func (s *SQLite) ListByAccount(ctx context.Context, accountID int64) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx, selectOrder+`
		WHERE account_id = ?
		ORDER BY id ASC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list orders for account %d: %w", accountID, err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (s *SQLite) ListFilled(ctx context.Context, accountID int64) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx, selectOrder+`
		WHERE account_id = ? AND status = ?
		ORDER BY id ASC`, accountID, string(StatusFilled))
	if err != nil {
		return nil, fmt.Errorf("list filled orders for account %d: %w", accountID, err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (s *SQLite) ListFilledByInstrument(ctx context.Context, accountID, instrumentID int64) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx, selectOrder+`
		WHERE account_id = ? AND instrument_id = ? AND status = ?
		ORDER BY id ASC`, accountID, instrumentID, string(StatusFilled))
	if err != nil {
		return nil, fmt.Errorf("list filled orders for account %d instrument %d: %w",
			accountID, instrumentID, err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func scanOrders(rows *sql.Rows) ([]Order, error) {
	var out []Order
	for rows.Next() {
		var (
			o           Order
			side, typ   string
			size, price string
			status      string
		)
		if err := rows.Scan(&o.ID, &o.AccountID, &o.InstrumentID, &side, &typ,
			&size, &price, &status, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Side, o.Type, o.Status = Side(side), Type(typ), Status(status)

		var err error
		if o.Size, err = decimal.NewFromString(size); err != nil {
			return nil, fmt.Errorf("order %s size %q: %w", o.ID, size, err)
		}
		if o.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("order %s price %q: %w", o.ID, price, err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
