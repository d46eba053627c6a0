package engine

import "errors"

var (
	// ErrMissingPendingLock names the case of a Free or Consume transaction
	// that finds no active reservation for its client. PendingTable.Vote
	// answers that case with an Abort vote and does not return this value.
	ErrMissingPendingLock = errors.New("engine: no matching pending lock")

	// ErrOrderingConflict names the case of a Lock transaction that arrives
	// for a client that already has an active, not-older reservation in
	// place. PendingTable.Vote answers that case with an Abort vote and does
	// not return this value.
	ErrOrderingConflict = errors.New("engine: younger transaction loses ordering conflict")

	// ErrPeerTimeout and ErrPeerDisconnected name a peer that did not return
	// a vote byte within the prepare deadline. They are never put on the
	// wire; PeerClient.Prepare reports those cases as the Timeout and
	// Disconnected votes and does not return these values.
	ErrPeerTimeout      = errors.New("engine: peer vote timed out")
	ErrPeerDisconnected = errors.New("engine: peer connection lost during prepare")
)
