package replica

import (
	"context"
	"io"
	"net"

	"coffeeledger/configs"
	"coffeeledger/engine"
	"coffeeledger/orders"
)

// ackCommitted and ackAborted are the single-byte replies a coffee maker
// reads after every order it sends.
const (
	ackCommitted byte = 1
	ackAborted   byte = 0
)

// handleClient serves one persistent coffee-maker connection: each 9-byte
// Message read triggers a full coordinator round, answered with one ack
// byte before the next Message is read.
func (s *Server) handleClient(conn net.Conn) {
	defer conn.Close()
	buf := make([]byte, orders.MessageSize)

	for {
		if _, err := io.ReadFull(conn, buf); err != nil {
			if err != io.EOF {
				configs.Warn("replica: client read failed: %s", err.Error())
			}
			return
		}

		msg, err := orders.DecodeMessage(buf)
		if err != nil {
			configs.Warn("replica: malformed client message: %s", err.Error())
			return
		}

		committed, err := s.Engine.Coordinate(context.Background(), msg, s.peerClients())
		ack := ackAborted
		if err == nil && committed {
			ack = ackCommitted
		}
		if err != nil {
			configs.Warn("replica: coordinate failed: %s", err.Error())
		}
		if _, err := conn.Write([]byte{ack}); err != nil {
			return
		}
	}
}

func (s *Server) peerClients() []engine.PeerClient {
	addrs := s.Directory.Addresses()
	clients := make([]engine.PeerClient, len(addrs))
	for i, addr := range addrs {
		clients[i] = NewRemotePeer(addr)
	}
	return clients
}
