package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLock_SingleOwner(t *testing.T) {
	s, mr := newTestStore(t, 0)
	ctx := context.Background()

	a := s.NewLock("test:lock", "a", time.Minute)
	b := s.NewLock("test:lock", "b", time.Minute)

	ok, err := a.TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.TryAcquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = a.TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "owner reacquires")

	owner, err := mr.Get("test:lock")
	require.NoError(t, err)
	assert.Equal(t, "a", owner)
}

func TestLock_ReleaseOnlyByOwner(t *testing.T) {
	s, mr := newTestStore(t, 0)
	ctx := context.Background()

	a := s.NewLock("test:lock", "a", time.Minute)
	b := s.NewLock("test:lock", "b", time.Minute)

	_, err := a.TryAcquire(ctx)
	require.NoError(t, err)

	require.NoError(t, b.Release(ctx))
	assert.True(t, mr.Exists("test:lock"))

	require.NoError(t, a.Release(ctx))
	assert.False(t, mr.Exists("test:lock"))

	ok, err := b.TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLock_ExpiresAfterTTL(t *testing.T) {
	s, mr := newTestStore(t, 0)
	ctx := context.Background()

	a := s.NewLock("test:lock", "a", time.Second)
	b := s.NewLock("test:lock", "b", time.Second)

	_, err := a.TryAcquire(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	ok, err := b.TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	extended, err := a.Extend(ctx)
	require.NoError(t, err)
	assert.False(t, extended)
}
