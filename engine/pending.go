package engine

import (
	"github.com/viney-shih/go-lock"

	"coffeeledger/ledger"
)

// inflight remembers what a vote tentatively did to the ledger so a later
// Finalize can either leave it (Commit) or reverse it (Rollback). Add never
// mutates at vote time -- it cannot fail and needs no undo -- so its record
// carries a nil undo and is applied only on Commit.
type inflight struct {
	action Action
	tx     *Transaction
	undo   func()
}

// PendingTable is the participant-side half of the protocol: which
// transaction currently holds the active reservation for each client, and
// which voted-but-not-yet-finalized transactions are in flight. One
// instance is shared by a replica's Engine across every peer connection.
//
// The single exclusive latch is deliberate: Vote and Finalize both need to
// observe and mutate holders and inflight atomically with the Ledger call
// they wrap, and contention here is bounded by the worker pool size, same
// as the Ledger's own latch.
type PendingTable struct {
	latch    lock.Mutex
	holders  map[uint16]*Transaction
	inflight map[Key]*inflight
}

func NewPendingTable() *PendingTable {
	return &PendingTable{
		latch:    lock.NewCASMutex(),
		holders:  make(map[uint16]*Transaction),
		inflight: make(map[Key]*inflight),
	}
}

// HolderFor reports the transaction currently holding a client's active
// reservation, if any.
func (p *PendingTable) HolderFor(clientID uint16) (*Transaction, bool) {
	p.latch.Lock()
	defer p.latch.Unlock()
	h, ok := p.holders[clientID]
	return h, ok
}

// Vote applies tx's tentative effect to l and returns this participant's
// single answer. The effect of Lock/Free/Consume is applied immediately,
// because the wire protocol allows exactly one vote per transaction with no
// retraction -- voting Proceed IS the reservation, not a promise of one.
func (p *PendingTable) Vote(tx *Transaction, l *ledger.Ledger) Vote {
	p.latch.Lock()
	defer p.latch.Unlock()

	switch tx.Action {
	case ActLock:
		return p.voteLock(tx, l)
	case ActFree:
		return p.voteRelease(tx, l, false)
	case ActConsume:
		return p.voteRelease(tx, l, true)
	case ActAdd:
		p.inflight[tx.Key()] = &inflight{action: ActAdd, tx: tx}
		return Proceed
	default:
		return Abort
	}
}

func (p *PendingTable) voteLock(tx *Transaction, l *ledger.Ledger) Vote {
	if holder, ok := p.holders[tx.ClientID]; ok && !tx.OlderThan(holder) {
		// A not-older transaction loses to the existing holder outright.
		// An older one below evicts it; the evicted holder's own vote, if
		// already cast as Proceed, cannot be retracted here -- see
		// DESIGN.md for the accepted race window this leaves open.
		return Abort
	}

	if err := l.TryLock(tx.ClientID, tx.Points); err != nil {
		return Abort
	}

	p.holders[tx.ClientID] = tx
	clientID, points := tx.ClientID, tx.Points
	p.inflight[tx.Key()] = &inflight{
		action: ActLock,
		tx:     tx,
		undo: func() {
			p.latch.Lock()
			defer p.latch.Unlock()
			if p.holders[clientID] == tx {
				delete(p.holders, clientID)
			}
			_ = l.Unlock(clientID, points)
		},
	}
	return Proceed
}

// voteRelease backs both Free (consume=false) and Consume (consume=true):
// both require an active holder placed by the same coordinator for the
// exact amount being released, since the wire format carries no reference
// back to the original Lock's timestamp.
func (p *PendingTable) voteRelease(tx *Transaction, l *ledger.Ledger, consume bool) Vote {
	holder, ok := p.holders[tx.ClientID]
	if !ok || holder.Coordinator != tx.Coordinator || holder.Points != tx.Points {
		return Abort
	}

	var err error
	if consume {
		err = l.Consume(tx.ClientID, tx.Points)
	} else {
		err = l.Unlock(tx.ClientID, tx.Points)
	}
	if err != nil {
		return Abort
	}

	delete(p.holders, tx.ClientID)
	clientID, points := tx.ClientID, tx.Points
	action := ActFree
	if consume {
		action = ActConsume
	}
	p.inflight[tx.Key()] = &inflight{
		action: action,
		tx:     tx,
		undo: func() {
			p.latch.Lock()
			defer p.latch.Unlock()
			if consume {
				l.Restore(clientID, points)
			} else {
				_ = l.TryLock(clientID, points)
			}
			if _, held := p.holders[clientID]; !held {
				p.holders[clientID] = holder
			}
		},
	}
	return Proceed
}

// Finalize applies verdict to a previously voted transaction. Unknown keys
// are silent no-ops: a duplicate or late Finalize for a transaction this
// replica never voted on (or already finalized) has nothing left to do.
func (p *PendingTable) Finalize(tx *Transaction, verdict Verdict, l *ledger.Ledger) {
	p.latch.Lock()
	rec, ok := p.inflight[tx.Key()]
	if ok {
		delete(p.inflight, tx.Key())
	}
	p.latch.Unlock()
	if !ok {
		return
	}

	if verdict == Commit {
		if rec.action == ActAdd {
			l.Add(tx.ClientID, tx.Points)
		}
		return
	}
	if rec.undo != nil {
		rec.undo()
	}
}
