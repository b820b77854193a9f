package mq

import (
	"context"
	"errors"
	"time"

	"github.com/RustMQ/rusted-iron/internal/domain"
	"github.com/RustMQ/rusted-iron/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
)

// RunLeaseSweeper releases expired reservations every interval until ctx is
// done. A reservation expires message_timeout seconds after it was taken or
// last touched. Leases are never swept unless this loop is started. When
// several processes run the loop, the one holding the sweeper lock sweeps.
func (e *Engine) RunLeaseSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lock := e.store.NewLock(store.SweeperLockKey, xid.New().String(), 3*interval)
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil {
			e.logger.Warn("Failed to release sweeper lock", "error", err)
		}
	}()

	e.logger.Info("Lease sweeper started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Lease sweeper stopped")
			return
		case <-ticker.C:
			held, err := lock.TryAcquire(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					e.logger.Error("Sweeper lock failed", "error", err)
				}
				continue
			}
			if !held {
				continue
			}
			if _, err := e.SweepExpired(ctx); err != nil && !errors.Is(err, context.Canceled) {
				e.logger.Error("Lease sweep failed", "error", err)
			}
		}
	}
}

// SweepExpired releases every reservation older than its queue's
// message_timeout and returns how many messages went back to unreserved.
func (e *Engine) SweepExpired(ctx context.Context) (int, error) {
	names, err := e.store.Client().SMembers(ctx, store.QueuesKey).Result()
	if err != nil {
		return 0, err
	}

	released := 0
	for _, name := range names {
		info, err := e.queues.Get(ctx, name)
		if domain.IsNotFound(err) {
			continue
		}
		if err != nil {
			return released, err
		}

		n, err := e.sweepQueue(ctx, info)
		released += n
		if err != nil {
			return released, err
		}
	}
	return released, nil
}

func (e *Engine) sweepQueue(ctx context.Context, info domain.QueueInfo) (int, error) {
	ids, err := e.store.Client().ZRange(ctx, store.ReservedKey(info.Name), 0, -1).Result()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	timeout := time.Duration(info.MessageTimeout) * time.Second
	now := e.now()
	released := 0

	for _, id := range ids {
		fields, err := e.store.Client().HGetAll(ctx, store.MessageKey(info.Name, id)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return released, err
		}
		at, ok := reservedAt(fields)
		if !ok || now.Sub(at) < timeout {
			continue
		}

		ok, err = e.Release(ctx, info.Name, id, fields[store.FieldReservationID])
		if errors.Is(err, domain.ErrReservationMismatch) || domain.IsNotFound(err) {
			// touched, released or deleted since we looked
			continue
		}
		if err != nil {
			return released, err
		}
		if ok {
			released++
			e.logger.Debug("Released expired reservation",
				"queue", info.Name,
				"message_id", id,
				"reserved_at", at,
			)
		}
	}
	return released, nil
}
