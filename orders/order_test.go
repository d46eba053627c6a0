package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderRoundTrip(t *testing.T) {
	cases := []Order{
		{ClientID: 1, Action: UsePoints, Points: 123},
		{ClientID: 50, Action: UsePoints, Points: 123},
		{ClientID: 30, Action: FillPoints, Points: 999999},
		{ClientID: 0, Action: FillPoints, Points: 0},
	}
	for _, want := range cases {
		buf := want.Encode()
		got, err := DecodeOrder(buf[:])
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDecodeOrderShortBuffer(t *testing.T) {
	_, err := DecodeOrder([]byte{1, 0, 0})
	require.ErrorIs(t, err, ErrInvalidOrder)
}

func TestDecodeOrderInvalidTag(t *testing.T) {
	buf := Order{ClientID: 1, Action: UsePoints, Points: 1}.Encode()
	buf[0] = 99
	_, err := DecodeOrder(buf[:])
	require.ErrorIs(t, err, ErrInvalidOrder)
}

func TestMessageRoundTrip(t *testing.T) {
	cases := []Message{
		{Kind: LockOrder, Order: Order{ClientID: 1, Action: UsePoints, Points: 123}},
		{Kind: FreeOrder, Order: Order{ClientID: 50, Action: UsePoints, Points: 123}},
		{Kind: CommitOrder, Order: Order{ClientID: 30, Action: UsePoints, Points: 30}},
		{Kind: CommitOrder, Order: Order{ClientID: 30, Action: FillPoints, Points: 30}},
	}
	for _, want := range cases {
		buf := want.Encode()
		got, err := DecodeMessage(buf[:])
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDecodeMessageShortBuffer(t *testing.T) {
	_, err := DecodeMessage([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidMessage)
}
