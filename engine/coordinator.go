package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"coffeeledger/configs"
	"coffeeledger/orders"
)

// PeerClient is the coordinator's view of one other replica. Implementations
// live in the replica server package, which owns the actual TCP connection,
// framing, and deadline handling; PeerClient.Prepare never returns a network
// error -- a dial failure, a short read, or a missed deadline all collapse
// into Timeout or Disconnected so the coordinator's tally logic stays pure.
type PeerClient interface {
	Address() string
	Prepare(ctx context.Context, tx *Transaction) Vote
	Finalize(ctx context.Context, tx *Transaction, verdict Verdict)
}

// Coordinate drives one full two-phase commit round for a client message:
// derive a Transaction, collect every peer's vote (and this replica's own),
// decide, and finalize everyone. The boolean result reports whether the
// round committed; a non-nil error means the message itself was invalid and
// never reached a vote.
func (e *Engine) Coordinate(ctx context.Context, msg orders.Message, peers []PeerClient) (bool, error) {
	tx, err := New(e.Self, msg)
	if err != nil {
		return false, err
	}

	votes := make([]Vote, len(peers)+1)
	votes[0] = e.Vote(tx)

	prepareCtx, cancel := context.WithTimeout(ctx, configs.PrepareTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(prepareCtx)
	for i, peer := range peers {
		i, peer := i, peer
		g.Go(func() error {
			votes[i+1] = peer.Prepare(gctx, tx)
			return nil
		})
	}
	_ = g.Wait() // Prepare never returns an error; votes are read directly.

	verdict := decide(votes)

	finalizeCtx, cancel2 := context.WithTimeout(ctx, configs.CommitTimeout)
	defer cancel2()

	e.Finalize(tx, verdict)
	var fg errgroup.Group
	for _, peer := range peers {
		peer := peer
		fg.Go(func() error {
			peer.Finalize(finalizeCtx, tx, verdict)
			return nil
		})
	}
	_ = fg.Wait()

	if e.OnDecided != nil {
		e.OnDecided(tx, verdict)
	}

	return verdict == Commit, nil
}
