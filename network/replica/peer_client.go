package replica

import (
	"bufio"
	"context"
	"net"
	"time"

	"coffeeledger/configs"
	"coffeeledger/engine"
)

// remotePeer is the coordinator's handle on one other replica for a single
// transaction: it dials fresh for Prepare and keeps the same connection
// open through Finalize, then closes it -- one connection per
// transaction-peer pair, never a long-lived cache.
type remotePeer struct {
	addr string
	conn net.Conn
	w    *bufio.Writer
	r    *bufio.Reader
}

// NewRemotePeer adapts a peer address into an engine.PeerClient.
func NewRemotePeer(addr string) engine.PeerClient {
	return &remotePeer{addr: addr}
}

func (p *remotePeer) Address() string { return p.addr }

func (p *remotePeer) Prepare(ctx context.Context, tx *engine.Transaction) engine.Vote {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(configs.PrepareTimeout)
	}

	conn, err := net.DialTimeout("tcp", p.addr, time.Until(deadline))
	if err != nil {
		return engine.Disconnected
	}
	p.conn = conn
	p.w = bufio.NewWriter(conn)
	p.r = bufio.NewReader(conn)

	if err := conn.SetDeadline(deadline); err != nil {
		return engine.Disconnected
	}
	if _, err := p.w.Write([]byte{configs.ServerConnection}); err != nil {
		return engine.Disconnected
	}
	if err := writeFrame(p.w, peerFrame{Kind: kindPrepare, Transaction: tx}); err != nil {
		return engine.Disconnected
	}

	voteByte, err := p.r.ReadByte()
	if err != nil {
		if ctxDeadlineExceeded(ctx) {
			return engine.Timeout
		}
		return engine.Disconnected
	}
	return decodeVote(voteByte)
}

func (p *remotePeer) Finalize(ctx context.Context, tx *engine.Transaction, verdict engine.Verdict) {
	defer func() {
		if p.conn != nil {
			_ = p.conn.Close()
		}
	}()
	if p.conn == nil {
		// Prepare never reached a live connection; nothing to finalize.
		return
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(configs.CommitTimeout)
	}
	if err := p.conn.SetDeadline(deadline); err != nil {
		return
	}
	if err := writeFrame(p.w, peerFrame{Kind: kindFinalize, Transaction: tx}); err != nil {
		return
	}
	if err := p.w.WriteByte(encodeVerdict(verdict)); err != nil {
		return
	}
	_ = p.w.Flush()
}

func ctxDeadlineExceeded(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return ctx.Err() == context.DeadlineExceeded
	default:
		return false
	}
}
