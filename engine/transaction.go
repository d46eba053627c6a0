// Package engine implements the two-phase commit protocol that ties a
// replica's Ledger to its peers: timestamp-ordered transactions, the
// coordinator role (triggered by a local client message) and the
// participant role (triggered by a peer's Prepare), sharing one Ledger and
// one PendingTable per replica.
package engine

import (
	"errors"
	"time"

	"coffeeledger/orders"
)

// Action is the effect a Transaction has on the ledger, derived from a
// (Message kind, Order action) pair.
type Action uint8

const (
	ActLock Action = iota + 1
	ActFree
	ActAdd
	ActConsume
)

func (a Action) String() string {
	switch a {
	case ActLock:
		return "Lock"
	case ActFree:
		return "Free"
	case ActAdd:
		return "Add"
	case ActConsume:
		return "Consume"
	default:
		return "Unknown"
	}
}

// ErrInvalidMessage covers a (message, order action) pair with no defined
// transaction action -- LockOrder/FreeOrder against a FillPoints order.
var ErrInvalidMessage = errors.New("engine: invalid message/action combination")

// deriveAction implements the table in the data model: LockOrder and
// FreeOrder only make sense against a redemption (UsePoints); CommitOrder
// maps a cash top-up to Add and a redemption to Consume.
func deriveAction(kind orders.MessageKind, action orders.ActionKind) (Action, error) {
	switch kind {
	case orders.LockOrder:
		if action != orders.UsePoints {
			return 0, ErrInvalidMessage
		}
		return ActLock, nil
	case orders.FreeOrder:
		if action != orders.UsePoints {
			return 0, ErrInvalidMessage
		}
		return ActFree, nil
	case orders.CommitOrder:
		if action == orders.FillPoints {
			return ActAdd, nil
		}
		return ActConsume, nil
	default:
		return 0, ErrInvalidMessage
	}
}

// Key identifies a Transaction for the PendingTable: the same client can
// have concurrently in-flight transactions from different coordinators, or
// from the same coordinator at different instants.
type Key struct {
	ClientID    uint16
	Coordinator string
	Timestamp   uint64
}

// Transaction is the unit of distributed agreement: a coordinator's wall
// clock reading plus the action it wants applied to one client's balance.
type Transaction struct {
	Coordinator string `json:"coordinator"`
	Timestamp   uint64 `json:"timestamp"`
	ClientID    uint16 `json:"client_id"`
	Action      Action `json:"action"`
	Points      uint64 `json:"points"`
}

// New constructs a Transaction acting as coordinator for msg, stamping it
// with the current wall-clock time. Invalid message/action combinations
// are rejected here and never reach the wire.
func New(coordinator string, msg orders.Message) (*Transaction, error) {
	action, err := deriveAction(msg.Kind, msg.Order.Action)
	if err != nil {
		return nil, err
	}
	return &Transaction{
		Coordinator: coordinator,
		Timestamp:   nowMillis(),
		ClientID:    msg.Order.ClientID,
		Action:      action,
		Points:      uint64(msg.Order.Points),
	}, nil
}

func nowMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}

// Key returns the identity this transaction is tracked under in a
// participant's PendingTable.
func (t *Transaction) Key() Key {
	return Key{ClientID: t.ClientID, Coordinator: t.Coordinator, Timestamp: t.Timestamp}
}

// OlderThan is the strict total order over transactions: lower timestamp
// wins, ties broken by the lexicographically smaller coordinator address.
// Exactly one of a.OlderThan(b) or b.OlderThan(a) holds for any a != b.
func (t *Transaction) OlderThan(other *Transaction) bool {
	if t.Timestamp == other.Timestamp {
		return t.Coordinator < other.Coordinator
	}
	return t.Timestamp < other.Timestamp
}
