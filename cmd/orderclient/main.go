// Command orderclient is a reference coffee-maker client: it connects to a
// replica's client port and sends one order, printing whether the replica
// committed or aborted it. It exists so the replica server has a runnable
// counterpart to exercise end-to-end, mirroring the wire contract
// PointStorage::new/send uses against its local server.
package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"coffeeledger/bootstrap"
	"coffeeledger/configs"
	"coffeeledger/orders"
)

const readTimeout = 1000 * time.Millisecond

func main() {
	var (
		addr   string
		kind   string
		client int
		action string
		points int
	)
	flag.StringVar(&addr, "addr", "127.0.0.1:7420", "replica address to connect to")
	flag.StringVar(&kind, "kind", "lock", "order kind: lock, free, or commit")
	flag.IntVar(&client, "client", 1, "client id")
	flag.StringVar(&action, "action", "use", "action: use (spend points) or fill (add points)")
	flag.IntVar(&points, "points", 10, "points to use or fill")
	flag.Parse()

	msg, err := buildMessage(kind, action, client, points)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ack, err := send(addr, msg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "orderclient:", err)
		os.Exit(1)
	}
	if ack == 0 {
		fmt.Println("aborted")
		os.Exit(1)
	}
	fmt.Println("committed")
}

func buildMessage(kind, action string, client, points int) (orders.Message, error) {
	var messageKind orders.MessageKind
	switch kind {
	case "lock":
		messageKind = orders.LockOrder
	case "free":
		messageKind = orders.FreeOrder
	case "commit":
		messageKind = orders.CommitOrder
	default:
		return orders.Message{}, fmt.Errorf("unknown kind %q", kind)
	}

	var actionKind orders.ActionKind
	switch action {
	case "use":
		actionKind = orders.UsePoints
	case "fill":
		actionKind = orders.FillPoints
	default:
		return orders.Message{}, fmt.Errorf("unknown action %q", action)
	}

	return orders.Message{
		Kind: messageKind,
		Order: orders.Order{
			ClientID: uint16(client),
			Action:   actionKind,
			Points:   uint32(points),
		},
	}, nil
}

func send(addr string, msg orders.Message) (byte, error) {
	conn, err := net.Dial("tcp", bootstrap.NormalizeAddr(addr))
	if err != nil {
		return 0, fmt.Errorf("could not connect to local server: %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(readTimeout)); err != nil {
		return 0, err
	}
	if _, err := conn.Write([]byte{configs.ClientConnection}); err != nil {
		return 0, fmt.Errorf("could not write to local server: %w", err)
	}

	buf := msg.Encode()
	if _, err := conn.Write(buf[:]); err != nil {
		return 0, fmt.Errorf("could not write to local server: %w", err)
	}

	ack := make([]byte, 1)
	if _, err := io.ReadFull(conn, ack); err != nil {
		return 0, fmt.Errorf("could not read from local server: %w", err)
	}
	return ack[0], nil
}
