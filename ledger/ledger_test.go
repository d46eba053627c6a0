package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTryLockAndConsume(t *testing.T) {
	l := New()
	l.Add(1, 100)
	require.NoError(t, l.TryLock(1, 30))
	e := l.Get(1)
	require.Equal(t, uint64(70), e.Available)
	require.Equal(t, uint64(30), e.Locked)

	require.NoError(t, l.Consume(1, 30))
	e = l.Get(1)
	require.Equal(t, uint64(70), e.Available)
	require.Equal(t, uint64(0), e.Locked)
}

func TestTryLockInsufficientFunds(t *testing.T) {
	l := New()
	l.Add(1, 10)
	err := l.TryLock(1, 50)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	e := l.Get(1)
	require.Equal(t, uint64(10), e.Available)
	require.Equal(t, uint64(0), e.Locked)
}

func TestUnlockAfterLock(t *testing.T) {
	l := New()
	l.Add(1, 100)
	require.NoError(t, l.TryLock(1, 40))
	require.NoError(t, l.Unlock(1, 40))
	e := l.Get(1)
	require.Equal(t, uint64(100), e.Available)
	require.Equal(t, uint64(0), e.Locked)
}

func TestUnderflow(t *testing.T) {
	l := New()
	l.Add(1, 10)
	require.NoError(t, l.TryLock(1, 10))
	require.ErrorIs(t, l.Unlock(1, 20), ErrUnderflow)
	require.ErrorIs(t, l.Consume(1, 20), ErrUnderflow)
}

func TestAddCreatesEntry(t *testing.T) {
	l := New()
	l.Add(42, 25)
	e := l.Get(42)
	require.Equal(t, uint64(25), e.Available)
}

func TestSnapshotIsACopy(t *testing.T) {
	l := New()
	l.Add(1, 5)
	snap := l.Snapshot()
	l.Add(1, 5)
	require.Equal(t, uint64(5), snap[1].Available)
	require.Equal(t, uint64(10), l.Get(1).Available)
}
