package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"coffeeledger/ledger"
	"coffeeledger/orders"
)

type fakePeer struct {
	addr        string
	vote        Vote
	finalized   []Verdict
	remoteEng   *Engine
	preparedTxs []*Transaction
}

func newFakePeer(addr string, remote *Engine) *fakePeer {
	return &fakePeer{addr: addr, vote: Proceed, remoteEng: remote}
}

func (f *fakePeer) Address() string { return f.addr }

func (f *fakePeer) Prepare(ctx context.Context, tx *Transaction) Vote {
	f.preparedTxs = append(f.preparedTxs, tx)
	if f.remoteEng != nil {
		return f.remoteEng.Vote(tx)
	}
	return f.vote
}

func (f *fakePeer) Finalize(ctx context.Context, tx *Transaction, verdict Verdict) {
	f.finalized = append(f.finalized, verdict)
	if f.remoteEng != nil {
		f.remoteEng.Finalize(tx, verdict)
	}
}

func lockMsg(clientID uint16, points uint32) orders.Message {
	return orders.Message{Kind: orders.LockOrder, Order: orders.Order{ClientID: clientID, Action: orders.UsePoints, Points: points}}
}

func TestCoordinateCommitsWhenAllPeersProceed(t *testing.T) {
	local := New("local:9000", ledger.New())
	local.Ledger.Add(1, 100)

	remoteLedger := ledger.New()
	remoteLedger.Add(1, 100)
	remote := New("remote:9001", remoteLedger)

	peer := newFakePeer("remote:9001", remote)
	committed, err := local.Coordinate(context.Background(), lockMsg(1, 30), []PeerClient{peer})
	require.NoError(t, err)
	require.True(t, committed)

	require.Equal(t, uint64(70), local.Ledger.Get(1).Available)
	require.Equal(t, uint64(70), remote.Ledger.Get(1).Available)
	require.Equal(t, []Verdict{Commit}, peer.finalized)
}

func TestCoordinateAbortsWhenAnyPeerAborts(t *testing.T) {
	local := New("local:9000", ledger.New())
	local.Ledger.Add(1, 100)

	peer := newFakePeer("remote:9001", nil)
	peer.vote = Abort

	committed, err := local.Coordinate(context.Background(), lockMsg(1, 30), []PeerClient{peer})
	require.NoError(t, err)
	require.False(t, committed)

	// Local's tentative lock must have been undone.
	require.Equal(t, uint64(100), local.Ledger.Get(1).Available)
	require.Equal(t, uint64(0), local.Ledger.Get(1).Locked)
	require.Equal(t, []Verdict{Rollback}, peer.finalized)
}

func TestCoordinateAbortsOnPeerDisconnected(t *testing.T) {
	local := New("local:9000", ledger.New())
	local.Ledger.Add(1, 100)

	peer := newFakePeer("remote:9001", nil)
	peer.vote = Disconnected

	committed, err := local.Coordinate(context.Background(), lockMsg(1, 30), []PeerClient{peer})
	require.NoError(t, err)
	require.False(t, committed)
	require.Equal(t, []Verdict{Rollback}, peer.finalized)
}

func TestCoordinateCallsOnDecided(t *testing.T) {
	local := New("local:9000", ledger.New())
	local.Ledger.Add(1, 100)

	var gotVerdict Verdict
	var calls int
	local.OnDecided = func(tx *Transaction, verdict Verdict) {
		calls++
		gotVerdict = verdict
	}

	peer := newFakePeer("remote:9001", nil)
	_, err := local.Coordinate(context.Background(), lockMsg(1, 30), []PeerClient{peer})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Equal(t, Commit, gotVerdict)
}

func TestCoordinateRejectsInvalidMessage(t *testing.T) {
	local := New("local:9000", ledger.New())
	msg := orders.Message{Kind: orders.LockOrder, Order: orders.Order{Action: orders.FillPoints, Points: 1}}
	_, err := local.Coordinate(context.Background(), msg, nil)
	require.ErrorIs(t, err, ErrInvalidMessage)
}
