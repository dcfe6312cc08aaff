// Full-stack scenario tests: real SQLite ledger and catalog, the real
// engine, driven the way the HTTP layer drives them.
package blackbox

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

	"github.com/rustyeddy/brokerd/account"
	"github.com/rustyeddy/brokerd/engine"
	"github.com/rustyeddy/brokerd/instrument"
	"github.com/rustyeddy/brokerd/ledger"
	"github.com/rustyeddy/brokerd/portfolio"
)

type stack struct {
	eng    *engine.Engine
	proj   *portfolio.Projector
	acctID int64
	pesoID int64
	dycaID int64
}

func newStack(t *testing.T) *stack {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "brokerd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := ledger.NewSQLite(db)
	require.NoError(t, err)
	catalog, err := instrument.NewSQLite(db)
	require.NoError(t, err)
	accounts, err := account.NewSQLite(db)
	require.NoError(t, err)

	ctx := context.Background()
	acct, err := accounts.Create(ctx, "scenario@example.com")
	require.NoError(t, err)

	pesoID, err := catalog.AddInstrument(ctx, "ARS", "Pesos", instrument.Currency)
	require.NoError(t, err)
	require.NoError(t, catalog.AddQuote(ctx, instrument.Quote{
		InstrumentID: pesoID,
		Close:        decimal.NewFromInt(1), PreviousClose: decimal.NewFromInt(1),
		Date: time.Now().UTC(),
	}))

	dycaID, err := catalog.AddInstrument(ctx, "DYCA", "Dycasa S.A.", instrument.Equity)
	require.NoError(t, err)
	require.NoError(t, catalog.AddQuote(ctx, instrument.Quote{
		InstrumentID: dycaID,
		Close:        decimal.NewFromInt(260), PreviousClose: decimal.NewFromInt(252),
		Date: time.Now().UTC(),
	}))

	proj := portfolio.NewProjector(store, catalog, "ARS")
	return &stack{
		eng:    engine.New(catalog, store, proj),
		proj:   proj,
		acctID: acct.ID,
		pesoID: pesoID,
		dycaID: dycaID,
	}
}

func (s *stack) submit(t *testing.T, sub engine.Submission) ledger.Order {
	t.Helper()
	sub.AccountID = s.acctID
	o, err := s.eng.Submit(context.Background(), sub)
	require.NoError(t, err)
	return o
}

func sz(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestFundTradeAndWithdraw(t *testing.T) {
	t.Parallel()
	s := newStack(t)
	ctx := context.Background()

	// Deposit 10000 pesos.
	o := s.submit(t, engine.Submission{
		InstrumentID: s.pesoID, Side: ledger.CashIn, Type: ledger.Market, Size: sz(10000),
	})
	assert.Equal(t, ledger.StatusFilled, o.Status)

	// Invest 2600 in DYCA at 260: 10 shares.
	o = s.submit(t, engine.Submission{
		InstrumentID: s.dycaID, Side: ledger.Buy, Type: ledger.Market, TotalInvestment: sz(2600),
	})
	assert.Equal(t, ledger.StatusFilled, o.Status)
	assert.True(t, o.Size.Equal(decimal.NewFromInt(10)))

	b, err := s.proj.Balance(ctx, s.acctID)
	require.NoError(t, err)
	assert.True(t, b.Value.Equal(decimal.NewFromInt(7400)), "got %s", b.Value)

	holdings, err := s.proj.Holdings(ctx, s.acctID)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.True(t, holdings[0].Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, holdings[0].CurrentValue.Equal(decimal.NewFromInt(2600)))
	require.NotNil(t, holdings[0].DailyYield)
	// 260 vs 252 is +3.17% after rounding.
	assert.True(t, holdings[0].DailyYield.Equal(decimal.RequireFromString("3.17")),
		"got %s", holdings[0].DailyYield)

	// Sell half, withdraw everything.
	o = s.submit(t, engine.Submission{
		InstrumentID: s.dycaID, Side: ledger.Sell, Type: ledger.Market, Size: sz(5),
	})
	assert.Equal(t, ledger.StatusFilled, o.Status)

	b, err = s.proj.Balance(ctx, s.acctID)
	require.NoError(t, err)
	assert.True(t, b.Value.Equal(decimal.NewFromInt(8700)), "got %s", b.Value)

	o = s.submit(t, engine.Submission{
		InstrumentID: s.pesoID, Side: ledger.CashOut, Type: ledger.Market, Size: sz(8700),
	})
	assert.Equal(t, ledger.StatusFilled, o.Status)

	b, err = s.proj.Balance(ctx, s.acctID)
	require.NoError(t, err)
	assert.True(t, b.Value.IsZero())
}

func TestLimitOrderLifecycleStopsAtNew(t *testing.T) {
	t.Parallel()
	s := newStack(t)
	ctx := context.Background()

	s.submit(t, engine.Submission{
		InstrumentID: s.pesoID, Side: ledger.CashIn, Type: ledger.Market, Size: sz(2600),
	})

	price := decimal.NewFromInt(260)
	o := s.submit(t, engine.Submission{
		InstrumentID: s.dycaID, Side: ledger.Buy, Type: ledger.Limit, Size: sz(10), Price: &price,
	})
	assert.Equal(t, ledger.StatusNew, o.Status)

	// The resting order neither spends the balance nor creates a holding.
	b, err := s.proj.Balance(ctx, s.acctID)
	require.NoError(t, err)
	assert.True(t, b.Value.Equal(decimal.NewFromInt(2600)))

	holdings, err := s.proj.Holdings(ctx, s.acctID)
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func TestRejectionLeavesLedgerConsistent(t *testing.T) {
	t.Parallel()
	s := newStack(t)
	ctx := context.Background()

	s.submit(t, engine.Submission{
		InstrumentID: s.pesoID, Side: ledger.CashIn, Type: ledger.Market, Size: sz(100),
	})

	o := s.submit(t, engine.Submission{
		InstrumentID: s.dycaID, Side: ledger.Buy, Type: ledger.Market, Size: sz(1),
	})
	assert.Equal(t, ledger.StatusRejected, o.Status)

	b, err := s.proj.Balance(ctx, s.acctID)
	require.NoError(t, err)
	assert.True(t, b.Value.Equal(decimal.NewFromInt(100)))
}
