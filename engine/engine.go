// Package engine admits orders against an account's projected state.
//
// Admission is a single synchronous pass: resolve the instrument, check
// the side is legal for its classification, resolve the trade size,
// re-derive the account's balance or holding from the ledger, decide the
// terminal status, and append the order. The read-decide-append sequence
// holds a per-account lock so concurrent submissions for the same account
// serialize; different accounts never contend.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/brokerd/instrument"
	"github.com/rustyeddy/brokerd/ledger"
	"github.com/rustyeddy/brokerd/portfolio"
)

// Submission is one order request. Exactly one of Size or TotalInvestment
// must be set. Price is required for LIMIT orders and ignored otherwise.
type Submission struct {
	AccountID       int64
	InstrumentID    int64
	Side            ledger.Side
	Type            ledger.Type
	Size            *decimal.Decimal
	TotalInvestment *decimal.Decimal
	Price           *decimal.Decimal
}

type Engine struct {
	catalog   instrument.Catalog
	store     ledger.Store
	projector *portfolio.Projector
	locks     *accountLocks
}

func New(catalog instrument.Catalog, store ledger.Store, projector *portfolio.Projector) *Engine {
	return &Engine{
		catalog:   catalog,
		store:     store,
		projector: projector,
		locks:     newAccountLocks(),
	}
}

// admission maps each legal (side, type) pair to the status granted when
// the account check passes and when it fails. Pairs missing from the
// table are invalid submissions. A passing LIMIT order rests as NEW and
// is never revisited; there is no matching engine behind it.
var admission = map[decisionKey]decision{
	{ledger.CashIn, ledger.Market}:  {pass: ledger.StatusFilled, fail: ledger.StatusFilled},
	{ledger.CashOut, ledger.Market}: {pass: ledger.StatusFilled, fail: ledger.StatusRejected},
	{ledger.Buy, ledger.Market}:     {pass: ledger.StatusFilled, fail: ledger.StatusRejected},
	{ledger.Buy, ledger.Limit}:      {pass: ledger.StatusNew, fail: ledger.StatusRejected},
	{ledger.Sell, ledger.Market}:    {pass: ledger.StatusFilled, fail: ledger.StatusRejected},
	{ledger.Sell, ledger.Limit}:     {pass: ledger.StatusNew, fail: ledger.StatusRejected},
}

type decisionKey struct {
	Side ledger.Side
	Type ledger.Type
}

type decision struct {
	pass, fail ledger.Status
}

// legalClass is the instrument classification each side requires.
var legalClass = map[ledger.Side]instrument.Classification{
	ledger.CashIn:  instrument.Currency,
	ledger.CashOut: instrument.Currency,
	ledger.Buy:     instrument.Equity,
	ledger.Sell:    instrument.Equity,
}

// Submit runs one admission pass and returns the appended order,
// including its assigned id and decided status. A REJECTED order is a
// successful return, not an error.
func (e *Engine) Submit(ctx context.Context, sub Submission) (ledger.Order, error) {
	rule, ok := admission[decisionKey{sub.Side, sub.Type}]
	if !ok {
		return ledger.Order{}, fmt.Errorf("unsupported side/type combination %s/%s: %w",
			sub.Side, sub.Type, ErrInvalidRequest)
	}

	inst, quote, err := e.catalog.Get(ctx, sub.InstrumentID)
	if err != nil {
		if errors.Is(err, instrument.ErrNotFound) {
			return ledger.Order{}, fmt.Errorf("instrument %d: %w", sub.InstrumentID, ErrNotFound)
		}
		return ledger.Order{}, fmt.Errorf("resolve instrument %d: %v: %w", sub.InstrumentID, err, ErrInternal)
	}

	if legalClass[sub.Side] != inst.Class {
		return ledger.Order{}, fmt.Errorf("side %s is not legal for %s instrument %d: %w",
			sub.Side, inst.Class, inst.ID, ErrInvalidRequest)
	}

	refPrice, err := e.referencePrice(sub, quote)
	if err != nil {
		return ledger.Order{}, err
	}

	size, err := ResolveSize(inst.Class, sub.Size, sub.TotalInvestment, refPrice)
	if err != nil {
		return ledger.Order{}, err
	}
	if !size.IsPositive() {
		// Flooring a totalInvestment below one share lands here.
		return ledger.Order{}, fmt.Errorf("resolved size %s is not positive: %w", size, ErrInvalidRequest)
	}

	// Everything between the projection read and the append must be
	// serialized per account, or two concurrent spends can both observe
	// a sufficient balance.
	lock := e.locks.get(sub.AccountID)
	lock.Lock()
	defer lock.Unlock()

	pass, err := e.check(ctx, sub, size, refPrice)
	if err != nil {
		return ledger.Order{}, err
	}

	status := rule.fail
	if pass {
		status = rule.pass
	}

	order, err := e.store.Append(ctx, ledger.Order{
		AccountID:    sub.AccountID,
		InstrumentID: sub.InstrumentID,
		Side:         sub.Side,
		Type:         sub.Type,
		Size:         size,
		Price:        refPrice,
		Status:       status,
	})
	if err != nil {
		return ledger.Order{}, fmt.Errorf("append order: %v: %w", err, ErrInternal)
	}
	return order, nil
}

// referencePrice picks the price the order executes or rests at: the
// latest close for MARKET orders, the submitted limit price for LIMIT.
func (e *Engine) referencePrice(sub Submission, quote instrument.Quote) (decimal.Decimal, error) {
	if sub.Type == ledger.Limit {
		if sub.Price == nil || !sub.Price.IsPositive() {
			return decimal.Zero, fmt.Errorf("limit orders require a positive price: %w", ErrInvalidRequest)
		}
		return *sub.Price, nil
	}
	if !quote.Close.IsPositive() {
		return decimal.Zero, fmt.Errorf("no usable quote for instrument %d: %w",
			sub.InstrumentID, ErrInternal)
	}
	return quote.Close, nil
}

// check derives the state the decision depends on: the balance for
// spends, the holding for sells. CASH_IN needs neither.
func (e *Engine) check(ctx context.Context, sub Submission, size, refPrice decimal.Decimal) (bool, error) {
	switch sub.Side {
	case ledger.CashIn:
		return true, nil

	case ledger.CashOut, ledger.Buy:
		balance, err := e.projector.Balance(ctx, sub.AccountID)
		if err != nil {
			return false, fmt.Errorf("derive balance: %v: %w", err, ErrInternal)
		}
		return balance.Value.GreaterThanOrEqual(size.Mul(refPrice)), nil

	case ledger.Sell:
		holding, held, err := e.projector.Holding(ctx, sub.AccountID, sub.InstrumentID)
		if err != nil {
			return false, fmt.Errorf("derive holding: %v: %w", err, ErrInternal)
		}
		if !held {
			return false, fmt.Errorf("instrument %d not held by account %d: %w",
				sub.InstrumentID, sub.AccountID, ErrNotFound)
		}
		return holding.Quantity.GreaterThanOrEqual(size), nil

	default:
		return false, fmt.Errorf("unsupported side %s: %w", sub.Side, ErrInvalidRequest)
	}
}
