package store

import (
	"context"
	"fmt"
	"time"
)

const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

const extendScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
else
	return 0
end
`

// Lock is a mutex in Redis held by at most one owner. It expires after ttl
// unless the owner extends it, so a crashed owner frees it eventually.
type Lock struct {
	store *Store
	key   string
	owner string
	ttl   time.Duration
}

// NewLock returns a lock on key for owner. owner must be unique per process.
func (s *Store) NewLock(key, owner string, ttl time.Duration) *Lock {
	return &Lock{
		store: s,
		key:   key,
		owner: owner,
		ttl:   ttl,
	}
}

// TryAcquire takes the lock without blocking. Holding it already counts as
// success and refreshes the ttl.
func (l *Lock) TryAcquire(ctx context.Context) (bool, error) {
	ok, err := l.store.rdb.SetNX(ctx, l.key, l.owner, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}
	if ok {
		l.store.logger.Debug("Acquired lock", "key", l.key, "owner", l.owner)
		return true, nil
	}

	extended, err := l.Extend(ctx)
	if err != nil {
		return false, err
	}
	return extended, nil
}

// Extend resets the ttl if the lock is still ours
func (l *Lock) Extend(ctx context.Context) (bool, error) {
	n, err := l.store.rdb.Eval(ctx, extendScript, []string{l.key}, l.owner, l.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to extend lock %s: %w", l.key, err)
	}
	return n == 1, nil
}

// Release frees the lock if it is still ours
func (l *Lock) Release(ctx context.Context) error {
	n, err := l.store.rdb.Eval(ctx, releaseScript, []string{l.key}, l.owner).Int()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.key, err)
	}
	if n == 1 {
		l.store.logger.Debug("Released lock", "key", l.key, "owner", l.owner)
	}
	return nil
}
