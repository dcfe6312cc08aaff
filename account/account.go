// Package account knows which accounts exist. Provisioning beyond a
// bare insert is out of scope; the HTTP layer only needs an existence
// check before handing a submission to the engine.
package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Account struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}

type Store interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, email string) (Account, error)
}

const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL
);
`

type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) (*SQLite, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("create account schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("account %d exists: %w", id, err)
	}
	return true, nil
}

func (s *SQLite) Create(ctx context.Context, email string) (Account, error) {
	a := Account{Email: email, CreatedAt: time.Now().UTC()}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (email, created_at) VALUES (?, ?)`, a.Email, a.CreatedAt)
	if err != nil {
		return Account{}, fmt.Errorf("create account %s: %w", email, err)
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return Account{}, fmt.Errorf("create account %s: %w", email, err)
	}
	return a, nil
}
