// Package orders defines the fixed-size wire records a coffee maker
// exchanges with its local replica: an Order (a client action) and a
// Message (an Order wrapped with the verb the replica should apply).
package orders

import (
	"encoding/binary"
	"errors"
)

// ActionKind distinguishes a cash top-up from a point redemption.
type ActionKind uint8

const (
	// UsePoints is a redemption: the client wants to spend points.
	UsePoints ActionKind = 1
	// FillPoints is a cash purchase: the client earns points.
	FillPoints ActionKind = 2
)

func (a ActionKind) String() string {
	switch a {
	case UsePoints:
		return "UsePoints"
	case FillPoints:
		return "FillPoints"
	default:
		return "Unknown"
	}
}

// OrderSize is the fixed wire length of an Order: tag(1) + reserved(1) +
// client_id(2 BE) + points(4 BE) = 8 bytes.
const OrderSize = 8

// ErrInvalidOrder is returned when an 8-byte buffer does not hold a
// recognized action tag.
var ErrInvalidOrder = errors.New("orders: invalid order encoding")

// Order is an immutable client action: add or spend Points for ClientID.
type Order struct {
	ClientID uint16
	Action   ActionKind
	Points   uint32
}

// Encode serializes o into its fixed 8-byte wire form.
func (o Order) Encode() [OrderSize]byte {
	var buf [OrderSize]byte
	buf[0] = byte(o.Action)
	// buf[1] is reserved, left zero.
	binary.BigEndian.PutUint16(buf[2:4], o.ClientID)
	binary.BigEndian.PutUint32(buf[4:8], o.Points)
	return buf
}

// DecodeOrder is the inverse of Encode. A buffer shorter than OrderSize is
// always invalid -- the wire format is fixed-size, never length-prefixed.
// The decoder only ever reads buf[0:8]; a longer buffer (e.g. a Message's
// remaining bytes) is fine, extra bytes are simply ignored.
func DecodeOrder(buf []byte) (Order, error) {
	if len(buf) < OrderSize {
		return Order{}, ErrInvalidOrder
	}
	action := ActionKind(buf[0])
	if action != UsePoints && action != FillPoints {
		return Order{}, ErrInvalidOrder
	}
	return Order{
		Action:   action,
		ClientID: binary.BigEndian.Uint16(buf[2:4]),
		Points:   binary.BigEndian.Uint32(buf[4:8]),
	}, nil
}
