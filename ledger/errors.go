package ledger

import "errors"

// Ledger errors are deterministic functions of state and arguments; they
// never block and never poison the ledger -- the caller maps them to a vote
// or a client-facing result.
var (
	ErrInsufficientFunds = errors.New("ledger: insufficient available points")
	ErrUnderflow         = errors.New("ledger: underflow releasing or consuming locked points")
)
