package engine

// Vote answers a Prepare this replica received as a participant (or is
// evaluating locally as coordinator, which also votes on its own ledger).
func (e *Engine) Vote(tx *Transaction) Vote {
	return e.Pending.Vote(tx, e.Ledger)
}

// Finalize applies a coordinator's verdict for a transaction this replica
// already voted on.
func (e *Engine) Finalize(tx *Transaction, verdict Verdict) {
	e.Pending.Finalize(tx, verdict, e.Ledger)
}
