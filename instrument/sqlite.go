package instrument

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// SQLite is a Catalog backed by the shared SQLite database.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) (*SQLite, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("create instrument schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (c *SQLite) Get(ctx context.Context, id int64) (Instrument, Quote, error) {
	var (
		inst  Instrument
		class string
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT id, ticker, name, class FROM instruments WHERE id = ?`, id).
		Scan(&inst.ID, &inst.Ticker, &inst.Name, &class)
	if err == sql.ErrNoRows {
		return Instrument{}, Quote{}, fmt.Errorf("instrument %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Instrument{}, Quote{}, fmt.Errorf("get instrument %d: %w", id, err)
	}
	inst.Class = Classification(class)

	q, err := c.latestQuote(ctx, id)
	if err != nil {
		return Instrument{}, Quote{}, err
	}
	return inst, q, nil
}

// latestQuote returns the newest market observation, or a zero Quote
// when the instrument has never been quoted.
func (c *SQLite) latestQuote(ctx context.Context, id int64) (Quote, error) {
	var (
		closeStr, prevStr string
		date              time.Time
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT close, previous_close, date
		FROM marketdata
		WHERE instrument_id = ?
		ORDER BY date DESC
		LIMIT 1`, id).Scan(&closeStr, &prevStr, &date)
	if err == sql.ErrNoRows {
		return Quote{InstrumentID: id}, nil
	}
	if err != nil {
		return Quote{}, fmt.Errorf("latest quote for instrument %d: %w", id, err)
	}

	q := Quote{InstrumentID: id, Date: date}
	if q.Close, err = decimal.NewFromString(closeStr); err != nil {
		return Quote{}, fmt.Errorf("instrument %d close %q: %w", id, closeStr, err)
	}
	if q.PreviousClose, err = decimal.NewFromString(prevStr); err != nil {
		return Quote{}, fmt.Errorf("instrument %d previous close %q: %w", id, prevStr, err)
	}
	return q, nil
}

func (c *SQLite) List(ctx context.Context, page Page) ([]Instrument, int, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, ticker, name, class, COUNT(*) OVER()
		FROM instruments
		ORDER BY name ASC
		LIMIT ? OFFSET ?`, normalize(page.Limit), page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list instruments: %w", err)
	}
	defer rows.Close()
	return scanInstruments(rows)
}

func (c *SQLite) Search(ctx context.Context, query string, page Page) ([]Instrument, int, error) {
	pattern := "%" + query + "%"
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, ticker, name, class, COUNT(*) OVER()
		FROM instruments
		WHERE ticker LIKE ? COLLATE NOCASE OR name LIKE ? COLLATE NOCASE
		ORDER BY name ASC
		LIMIT ? OFFSET ?`, pattern, pattern, normalize(page.Limit), page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search instruments %q: %w", query, err)
	}
	defer rows.Close()
	return scanInstruments(rows)
}

// AddInstrument inserts a catalog entry and returns its assigned id.
// Ops tooling only; the order engine never writes the catalog.
func (c *SQLite) AddInstrument(ctx context.Context, ticker, name string, class Classification) (int64, error) {
	if !class.Valid() {
		return 0, fmt.Errorf("add instrument %s: unknown classification %q", ticker, class)
	}
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO instruments (ticker, name, class) VALUES (?, ?, ?)`,
		ticker, name, string(class))
	if err != nil {
		return 0, fmt.Errorf("add instrument %s: %w", ticker, err)
	}
	return res.LastInsertId()
}

// AddQuote records a market observation for an instrument.
func (c *SQLite) AddQuote(ctx context.Context, q Quote) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO marketdata (instrument_id, close, previous_close, date) VALUES (?, ?, ?, ?)`,
		q.InstrumentID, q.Close.String(), q.PreviousClose.String(), q.Date)
	if err != nil {
		return fmt.Errorf("add quote for instrument %d: %w", q.InstrumentID, err)
	}
	return nil
}

func scanInstruments(rows *sql.Rows) ([]Instrument, int, error) {
	var (
		out   []Instrument
		count int
	)
	for rows.Next() {
		var (
			inst  Instrument
			class string
		)
		if err := rows.Scan(&inst.ID, &inst.Ticker, &inst.Name, &class, &count); err != nil {
			return nil, 0, err
		}
		inst.Class = Classification(class)
		out = append(out, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, count, nil
}

func normalize(limit int) int {
	if limit <= 0 {
		return 10
	}
	return limit
}
