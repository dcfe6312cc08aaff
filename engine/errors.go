package engine

import "errors"

// The three error kinds the engine surfaces. Callers classify with
// errors.Is; the HTTP layer maps them to status codes. A REJECTED order
// is not an error, it is a normal terminal status.
var (
	// ErrInvalidRequest covers malformed or contradictory input: unknown
	// side or type, an illegal side for the instrument's classification,
	// non-positive sizes and prices, or both/neither of size and
	// totalInvestment supplied.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound covers an unknown instrument or a SELL against an
	// instrument the account does not hold.
	ErrNotFound = errors.New("not found")

	// ErrInternal covers storage failures and a zero reference price
	// during equity sizing. The ledger is never partially written.
	ErrInternal = errors.New("internal error")
)
