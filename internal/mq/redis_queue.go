package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/RustMQ/rusted-iron/internal/domain"
	"github.com/RustMQ/rusted-iron/internal/store"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
)

// Engine implements the message lifecycle of a queue on Redis.
//
// Each queue keeps two sorted sets, unreserved and reserved, scored by a
// per-queue sequence counter. A message is a member of exactly one of them;
// every transition removes and inserts in the same MULTI block.
type Engine struct {
	store  *store.Store
	queues QueueLookup
	logger *slog.Logger

	newID    func() string
	newToken func() string
	now      func() time.Time
}

// NewEngine creates a reservation engine
func NewEngine(s *store.Store, queues QueueLookup, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:    s,
		queues:   queues,
		logger:   logger.With("component", "reservation_engine"),
		newID:    func() string { return uuid.New().String() },
		newToken: func() string { return xid.New().String() },
		now:      time.Now,
	}
}

// Enqueue stores msg at the tail of queue and returns its id. Push queues
// additionally broadcast the message on the queue channel once it is stored.
func (e *Engine) Enqueue(ctx context.Context, queue string, msg domain.Message) (string, error) {
	info, err := e.queues.Get(ctx, queue)
	if err != nil {
		return "", err
	}

	msg.ID = e.newID()
	if msg.SourceMsgID == "" {
		msg.SourceMsgID = e.newToken()
	}
	msg.ReservationID = ""
	msg.ReservedCount = 0
	msg.State = domain.MessageStateUnreserved

	queueKey := store.QueueKey(queue)
	counterKey := store.CounterKey(queue)
	msgKey := store.MessageKey(queue, msg.ID)

	err = e.store.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, queueKey).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("queue %s: %w", queue, domain.ErrQueueNotFound)
		}

		seq, err := tx.Get(ctx, counterKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, msgKey, encodeMessage(msg)...)
			pipe.ZAdd(ctx, store.UnreservedKey(queue), redis.Z{Score: float64(seq), Member: msg.ID})
			pipe.Incr(ctx, counterKey)
			pipe.HIncrBy(ctx, queueKey, store.FieldSize, 1)
			pipe.HIncrBy(ctx, queueKey, store.FieldTotalMessages, 1)
			return nil
		})
		return err
	}, counterKey, queueKey)
	if err != nil {
		return "", fmt.Errorf("enqueue on %s: %w", queue, err)
	}

	e.logger.Debug("Message enqueued",
		"queue", queue,
		"message_id", msg.ID,
	)

	if info.Type.IsPush() {
		event := domain.PushEvent{QueueInfo: info, Msg: msg}
		if err := e.store.Publish(ctx, store.ChannelKey(queue), event); err != nil {
			// the message is stored; only the push notification is lost
			e.logger.Warn("Failed to broadcast push message",
				"queue", queue,
				"message_id", msg.ID,
				"error", err,
			)
		}
	}

	return msg.ID, nil
}

// EnqueueBatch enqueues msgs in order and returns their ids
func (e *Engine) EnqueueBatch(ctx context.Context, queue string, msgs []domain.Message) ([]string, error) {
	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		id, err := e.Enqueue(ctx, queue, m)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Get returns one message
func (e *Engine) Get(ctx context.Context, queue, id string) (domain.Message, error) {
	fields, err := e.store.Client().HGetAll(ctx, store.MessageKey(queue, id)).Result()
	if err != nil {
		return domain.Message{}, fmt.Errorf("get message %s: %w", id, err)
	}
	msg, ok := decodeMessage(fields)
	if !ok {
		return domain.Message{}, fmt.Errorf("message %s: %w", id, domain.ErrMessageNotFound)
	}
	return msg, nil
}

// Peek returns up to n of the oldest unreserved messages without changing them
func (e *Engine) Peek(ctx context.Context, queue string, n int) ([]domain.Message, error) {
	if err := e.ensureQueue(ctx, queue); err != nil {
		return nil, err
	}

	ids, err := e.store.Client().ZRangeByScore(ctx, store.UnreservedKey(queue), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   "+inf",
		Count: int64(clampBatch(n)),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("peek on %s: %w", queue, err)
	}
	return e.hydrate(ctx, queue, ids)
}

// Reserve moves up to n of the oldest unreserved messages to the reserved set
// and hands each one out with a fresh reservation token. When autoDelete is
// set the returned messages are deleted right away.
func (e *Engine) Reserve(ctx context.Context, queue string, n int, autoDelete bool) ([]domain.Message, error) {
	if err := e.ensureQueue(ctx, queue); err != nil {
		return nil, err
	}

	unreservedKey := store.UnreservedKey(queue)
	reservedKey := store.ReservedKey(queue)

	var selected []redis.Z
	err := e.store.Watch(ctx, func(tx *redis.Tx) error {
		candidates, err := tx.ZRangeByScoreWithScores(ctx, unreservedKey, &redis.ZRangeBy{
			Min:   "-inf",
			Max:   "+inf",
			Count: int64(clampBatch(n)),
		}).Result()
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			selected = nil
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, z := range candidates {
				pipe.ZRem(ctx, unreservedKey, z.Member)
				pipe.ZAdd(ctx, reservedKey, z)
			}
			return nil
		})
		if err != nil {
			return err
		}
		selected = candidates
		return nil
	}, unreservedKey, reservedKey)
	if err != nil {
		return nil, fmt.Errorf("reserve on %s: %w", queue, err)
	}

	won := make([]string, 0, len(selected))
	for _, z := range selected {
		id, _ := z.Member.(string)
		ok, err := e.claim(ctx, queue, id)
		if err != nil {
			return nil, err
		}
		if ok {
			won = append(won, id)
		}
	}

	msgs, err := e.hydrate(ctx, queue, won)
	if err != nil {
		return nil, err
	}

	if autoDelete {
		for _, m := range msgs {
			if err := e.Delete(ctx, queue, m.ID); err != nil && !domain.IsNotFound(err) {
				return nil, err
			}
		}
	}

	e.logger.Debug("Messages reserved",
		"queue", queue,
		"requested", n,
		"reserved", len(msgs),
		"auto_delete", autoDelete,
	)
	return msgs, nil
}

// claim sets a reservation token on a message that holds none. The first
// writer wins; a message deleted in the meantime is skipped.
func (e *Engine) claim(ctx context.Context, queue, id string) (bool, error) {
	msgKey := store.MessageKey(queue, id)
	token := e.newToken()
	claimed := false

	err := e.store.Watch(ctx, func(tx *redis.Tx) error {
		vals, err := tx.HMGet(ctx, msgKey, store.FieldID, store.FieldReservationID).Result()
		if err != nil {
			return err
		}
		if vals[0] == nil {
			claimed = false
			return nil
		}
		if current, _ := vals[1].(string); current != "" {
			claimed = false
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, msgKey,
				store.FieldReservationID, token,
				store.FieldReservedAt, e.now().Unix(),
			)
			pipe.HIncrBy(ctx, msgKey, store.FieldReservedCount, 1)
			return nil
		})
		if err != nil {
			return err
		}
		claimed = true
		return nil
	}, msgKey)
	if err != nil {
		return false, fmt.Errorf("claim message %s: %w", id, err)
	}
	return claimed, nil
}

// Touch renews the reservation of a message and returns the new token.
// The presented token must match the current one.
func (e *Engine) Touch(ctx context.Context, queue, id, token string) (string, error) {
	msgKey := store.MessageKey(queue, id)
	next := e.newToken()

	err := e.store.Watch(ctx, func(tx *redis.Tx) error {
		if err := checkOwner(ctx, tx, msgKey, id, token); err != nil {
			return err
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, msgKey,
				store.FieldReservationID, next,
				store.FieldReservedAt, e.now().Unix(),
			)
			return nil
		})
		return err
	}, msgKey)
	if err != nil {
		return "", fmt.Errorf("touch message %s: %w", id, err)
	}
	return next, nil
}

// Release puts a reserved message back into the unreserved set at the score it
// held, so it keeps its place in line. It returns false when the message is
// not reserved, and ErrReservationMismatch when the token is not the current one.
func (e *Engine) Release(ctx context.Context, queue, id, token string) (bool, error) {
	msgKey := store.MessageKey(queue, id)
	reservedKey := store.ReservedKey(queue)
	released := false

	err := e.store.Watch(ctx, func(tx *redis.Tx) error {
		if err := checkOwner(ctx, tx, msgKey, id, token); err != nil {
			return err
		}

		score, err := tx.ZScore(ctx, reservedKey, id).Result()
		if errors.Is(err, redis.Nil) {
			released = false
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.ZRem(ctx, reservedKey, id)
			pipe.ZAdd(ctx, store.UnreservedKey(queue), redis.Z{Score: score, Member: id})
			pipe.HDel(ctx, msgKey, store.FieldReservationID, store.FieldReservedAt)
			return nil
		})
		if err != nil {
			return err
		}
		released = true
		return nil
	}, msgKey, reservedKey)
	if err != nil {
		return false, fmt.Errorf("release message %s: %w", id, err)
	}
	return released, nil
}

func checkOwner(ctx context.Context, tx *redis.Tx, msgKey, id, token string) error {
	vals, err := tx.HMGet(ctx, msgKey, store.FieldID, store.FieldReservationID).Result()
	if err != nil {
		return err
	}
	if vals[0] == nil {
		return fmt.Errorf("message %s: %w", id, domain.ErrMessageNotFound)
	}
	current, _ := vals[1].(string)
	if token == "" || current != token {
		return domain.ErrReservationMismatch
	}
	return nil
}

// Delete removes a message from both sets together with its delivery statuses
func (e *Engine) Delete(ctx context.Context, queue, id string) error {
	msgKey := store.MessageKey(queue, id)

	err := e.store.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, msgKey).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("message %s: %w", id, domain.ErrMessageNotFound)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.ZRem(ctx, store.UnreservedKey(queue), id)
			pipe.ZRem(ctx, store.ReservedKey(queue), id)
			pipe.Del(ctx, msgKey)
			pipe.HIncrBy(ctx, store.QueueKey(queue), store.FieldSize, -1)
			return nil
		})
		return err
	}, msgKey)
	if err != nil {
		return fmt.Errorf("delete message %s: %w", id, err)
	}

	if _, err := e.store.DeleteMatching(ctx, store.DeliveryPattern(queue, id), nil); err != nil {
		e.logger.Warn("Failed to delete delivery statuses",
			"queue", queue,
			"message_id", id,
			"error", err,
		)
	}
	return nil
}

// DeleteBatch deletes every listed message that exists and returns how many were removed
func (e *Engine) DeleteBatch(ctx context.Context, queue string, ids []string) (int, error) {
	deleted := 0
	for _, id := range ids {
		err := e.Delete(ctx, queue, id)
		if domain.IsNotFound(err) {
			continue
		}
		if err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// Clear removes every message of a queue. Set members, their hashes and the
// size counter are dropped in one transaction; an enqueue or release that
// commits meanwhile makes the clear retry. The sequence counter is kept, so
// messages enqueued afterwards still sort after everything seen before.
func (e *Engine) Clear(ctx context.Context, queue string) error {
	queueKey := store.QueueKey(queue)
	unreservedKey := store.UnreservedKey(queue)
	reservedKey := store.ReservedKey(queue)

	var ids []string
	err := e.store.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, queueKey).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("queue %s: %w", queue, domain.ErrQueueNotFound)
		}

		unreserved, err := tx.ZRange(ctx, unreservedKey, 0, -1).Result()
		if err != nil {
			return err
		}
		reserved, err := tx.ZRange(ctx, reservedKey, 0, -1).Result()
		if err != nil {
			return err
		}
		ids = append(unreserved, reserved...)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for start := 0; start < len(ids); start += clearChunk {
				end := min(start+clearChunk, len(ids))
				keys := make([]string, 0, end-start)
				for _, id := range ids[start:end] {
					keys = append(keys, store.MessageKey(queue, id))
				}
				pipe.Del(ctx, keys...)
			}
			pipe.Del(ctx, unreservedKey, reservedKey)
			pipe.HSet(ctx, queueKey, store.FieldSize, 0)
			return nil
		})
		return err
	}, store.CounterKey(queue), queueKey, unreservedKey, reservedKey)
	if err != nil {
		return fmt.Errorf("clear %s: %w", queue, err)
	}

	statuses, err := e.deleteStatuses(ctx, queue, ids)
	if err != nil {
		e.logger.Warn("Failed to delete delivery statuses",
			"queue", queue,
			"error", err,
		)
	}

	e.logger.Info("Queue cleared",
		"queue", queue,
		"messages_removed", len(ids),
		"statuses_removed", statuses,
	)
	return nil
}

// deleteStatuses removes the delivery status hashes of the given messages
func (e *Engine) deleteStatuses(ctx context.Context, queue string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	removed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		removed[id] = struct{}{}
	}

	prefix := store.MessageKey(queue, "")
	return e.store.DeleteMatching(ctx, store.MessagesPattern(queue), func(k string) bool {
		id, _, ok := strings.Cut(strings.TrimPrefix(k, prefix), store.DeliverySeparator)
		if !ok {
			return true
		}
		_, gone := removed[id]
		return !gone
	})
}

func (e *Engine) ensureQueue(ctx context.Context, queue string) error {
	n, err := e.store.Client().Exists(ctx, store.QueueKey(queue)).Result()
	if err != nil {
		return fmt.Errorf("lookup queue %s: %w", queue, err)
	}
	if n == 0 {
		return fmt.Errorf("queue %s: %w", queue, domain.ErrQueueNotFound)
	}
	return nil
}

// hydrate loads the hashes of ids in order, skipping messages deleted meanwhile
func (e *Engine) hydrate(ctx context.Context, queue string, ids []string) ([]domain.Message, error) {
	if len(ids) == 0 {
		return []domain.Message{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err := e.store.Client().Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, store.MessageKey(queue, id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load messages of %s: %w", queue, err)
	}

	msgs := make([]domain.Message, 0, len(ids))
	for _, cmd := range cmds {
		if msg, ok := decodeMessage(cmd.Val()); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

// reservedAt returns when the current reservation of a message was taken
func reservedAt(fields map[string]string) (time.Time, bool) {
	sec, err := strconv.ParseInt(fields[store.FieldReservedAt], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(sec, 0), true
}
