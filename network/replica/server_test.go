package replica

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coffeeledger/configs"
	"coffeeledger/engine"
	"coffeeledger/ledger"
	"coffeeledger/orders"
)

func startReplica(t *testing.T, self string, addrs []string) *Server {
	t.Helper()
	l := ledger.New()
	l.Add(1, 100)
	eng := engine.New(self, l)
	dir := NewDirectory(self, addrs)
	srv := Listen(self, eng, dir, 2, 8)
	go srv.Serve()
	t.Cleanup(srv.Close)
	return srv
}

func sendOrder(t *testing.T, addr string, msg orders.Message) byte {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte{configs.ClientConnection})
	require.NoError(t, err)
	buf := msg.Encode()
	_, err = conn.Write(buf[:])
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	ack := make([]byte, 1)
	_, err = io.ReadFull(conn, ack)
	require.NoError(t, err)
	return ack[0]
}

func TestReplicaCommitsAcrossTwoNodes(t *testing.T) {
	addrA := "127.0.0.1:19321"
	addrB := "127.0.0.1:19322"

	srvA := startReplica(t, addrA, []string{addrA, addrB})
	srvB := startReplica(t, addrB, []string{addrA, addrB})
	_ = srvB

	msg := orders.Message{Kind: orders.LockOrder, Order: orders.Order{ClientID: 1, Action: orders.UsePoints, Points: 30}}
	ack := sendOrder(t, addrA, msg)
	require.Equal(t, ackCommitted, ack)

	require.Equal(t, uint64(70), srvA.Engine.Ledger.Get(1).Available)
	require.Equal(t, uint64(70), srvB.Engine.Ledger.Get(1).Available)
}

func TestReplicaAbortsWhenPeerLacksFunds(t *testing.T) {
	addrA := "127.0.0.1:19323"
	addrB := "127.0.0.1:19324"

	srvA := startReplica(t, addrA, []string{addrA, addrB})
	srvB := startReplica(t, addrB, []string{addrA, addrB})
	// Drain srvB's funds so it cannot honor the lock.
	require.NoError(t, srvB.Engine.Ledger.TryLock(1, 100))

	msg := orders.Message{Kind: orders.LockOrder, Order: orders.Order{ClientID: 1, Action: orders.UsePoints, Points: 30}}
	ack := sendOrder(t, addrA, msg)
	require.Equal(t, ackAborted, ack)

	require.Equal(t, uint64(100), srvA.Engine.Ledger.Get(1).Available)
}
