// Package ledger holds the per-replica authoritative point balances: the
// only mutable shared state inside a replica. Every mutating call takes the
// same exclusive latch, on the assumption that contention is bounded by the
// worker-pool size rather than by per-entry striping.
package ledger

import (
	"github.com/viney-shih/go-lock"
)

type ClientID = uint16

// Entry is one client's point balance. available and locked are both
// representable as unsigned so the zero value is the correct "new client"
// state; the lock discipline below is what actually forbids them going
// negative in the way the signed arithmetic would otherwise allow.
type Entry struct {
	Available uint64
	Locked    uint64
}

type Ledger struct {
	latch   lock.Mutex
	entries map[ClientID]*Entry
}

func New() *Ledger {
	return &Ledger{
		latch:   lock.NewCASMutex(),
		entries: make(map[ClientID]*Entry),
	}
}

func (l *Ledger) entry(id ClientID) *Entry {
	e, ok := l.entries[id]
	if !ok {
		e = &Entry{}
		l.entries[id] = e
	}
	return e
}

// TryLock reserves n points for id: available -= n, locked += n. Fails
// without side effects when available < n.
func (l *Ledger) TryLock(id ClientID, n uint64) error {
	l.latch.Lock()
	defer l.latch.Unlock()
	e := l.entry(id)
	if e.Available < n {
		return ErrInsufficientFunds
	}
	e.Available -= n
	e.Locked += n
	return nil
}

// Unlock reverses a prior TryLock: locked -= n, available += n.
func (l *Ledger) Unlock(id ClientID, n uint64) error {
	l.latch.Lock()
	defer l.latch.Unlock()
	e := l.entry(id)
	if e.Locked < n {
		return ErrUnderflow
	}
	e.Locked -= n
	e.Available += n
	return nil
}

// Consume drains n points from locked, with no change to available -- the
// terminal step of a redemption that was already reserved by TryLock.
func (l *Ledger) Consume(id ClientID, n uint64) error {
	l.latch.Lock()
	defer l.latch.Unlock()
	e := l.entry(id)
	if e.Locked < n {
		return ErrUnderflow
	}
	e.Locked -= n
	return nil
}

// Add credits n points unconditionally, creating the client entry if absent.
func (l *Ledger) Add(id ClientID, n uint64) {
	l.latch.Lock()
	defer l.latch.Unlock()
	e := l.entry(id)
	e.Available += n
}

// Restore credits n points back into locked, unconditionally. This is the
// inverse of Consume, used only to undo a tentatively-applied Consume when
// a two-phase commit round aborts after the vote already drained it.
func (l *Ledger) Restore(id ClientID, n uint64) {
	l.latch.Lock()
	defer l.latch.Unlock()
	e := l.entry(id)
	e.Locked += n
}

// Get returns a copy of a client's entry, or the zero entry if unknown.
func (l *Ledger) Get(id ClientID) Entry {
	l.latch.Lock()
	defer l.latch.Unlock()
	if e, ok := l.entries[id]; ok {
		return *e
	}
	return Entry{}
}

// Snapshot copies every known entry. Used only by best-effort audit sinks;
// never on the commit path.
func (l *Ledger) Snapshot() map[ClientID]Entry {
	l.latch.Lock()
	defer l.latch.Unlock()
	out := make(map[ClientID]Entry, len(l.entries))
	for id, e := range l.entries {
		out[id] = *e
	}
	return out
}
