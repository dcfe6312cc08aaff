package instrument

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *SQLite {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c, err := NewSQLite(db)
	require.NoError(t, err)
	return c
}

func TestSQLiteGetReturnsLatestQuote(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)
	ctx := context.Background()

	id, err := c.AddInstrument(ctx, "DYCA", "Dycasa S.A.", Equity)
	require.NoError(t, err)

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	latest := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.AddQuote(ctx, Quote{
		InstrumentID: id,
		Close:        decimal.RequireFromString("250"), PreviousClose: decimal.RequireFromString("245"),
		Date: old,
	}))
	require.NoError(t, c.AddQuote(ctx, Quote{
		InstrumentID: id,
		Close:        decimal.RequireFromString("260"), PreviousClose: decimal.RequireFromString("250"),
		Date: latest,
	}))

	inst, q, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "DYCA", inst.Ticker)
	assert.Equal(t, Equity, inst.Class)
	assert.True(t, q.Close.Equal(decimal.RequireFromString("260")), "got %s", q.Close)
	assert.True(t, q.PreviousClose.Equal(decimal.RequireFromString("250")))
}

func TestSQLiteGetWithoutQuote(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)
	ctx := context.Background()

	id, err := c.AddInstrument(ctx, "ARS", "Pesos", Currency)
	require.NoError(t, err)

	inst, q, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, Currency, inst.Class)
	assert.True(t, q.Close.IsZero())
}

func TestSQLiteGetUnknownInstrument(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)

	_, _, err := c.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteListPaginates(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)
	ctx := context.Background()

	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		_, err := c.AddInstrument(ctx, name[:2], name, Equity)
		require.NoError(t, err)
	}

	insts, count, err := c.List(ctx, Page{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, insts, 2)
	assert.Equal(t, "Alpha", insts[0].Name)

	insts, count, err = c.List(ctx, Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, insts, 1)
	assert.Equal(t, "Gamma", insts[0].Name)
}

func TestSQLiteSearchMatchesTickerAndName(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)
	ctx := context.Background()

	_, err := c.AddInstrument(ctx, "DYCA", "Dycasa S.A.", Equity)
	require.NoError(t, err)
	_, err = c.AddInstrument(ctx, "MOLA", "Molinos Agro S.A.", Equity)
	require.NoError(t, err)

	insts, count, err := c.Search(ctx, "dyca", Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, insts, 1)
	assert.Equal(t, "DYCA", insts[0].Ticker)

	insts, count, err = c.Search(ctx, "molinos", Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, insts, 1)
	assert.Equal(t, "MOLA", insts[0].Ticker)
}
