package engine

import "coffeeledger/ledger"

// Engine is a replica's transaction engine: one Ledger, one PendingTable,
// and the address this replica identifies itself as when it acts as
// coordinator. A replica runs exactly one Engine, shared by every
// connection handler in its worker pool.
type Engine struct {
	Self    string
	Ledger  *ledger.Ledger
	Pending *PendingTable

	// OnDecided, if set, is called once per coordinated transaction with
	// its final verdict -- the hook an optional audit sink attaches to,
	// never on the vote path itself.
	OnDecided func(tx *Transaction, verdict Verdict)
}

func New(self string, l *ledger.Ledger) *Engine {
	return &Engine{Self: self, Ledger: l, Pending: NewPendingTable()}
}
