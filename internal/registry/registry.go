package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/RustMQ/rusted-iron/internal/domain"
	"github.com/RustMQ/rusted-iron/internal/store"
	"github.com/RustMQ/rusted-iron/pkg/utils"
	"github.com/redis/go-redis/v9"
)

// Registry creates, validates, patches and deletes queue configurations.
// Every mutation runs as an optimistic transaction on the queue's
// configuration hash, so concurrent API processes never lose updates.
type Registry struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a queue registry
func New(s *store.Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:  s,
		logger: logger.With("component", "queue_registry"),
	}
}

// Create fills defaults, validates and persists a new queue. A queue without
// a type and without push settings is a pull queue. Subscribers are keyed by
// name; a repeated name keeps the last entry. A configured error queue is
// created as a pull queue before the queue itself, so a failure leaves no
// half-created push queue behind.
func (r *Registry) Create(ctx context.Context, info domain.QueueInfo) (domain.QueueInfo, error) {
	info = info.Clone()
	if info.Type == "" && info.Push == nil {
		info.Type = domain.QueueTypePull
	}
	if info.Push != nil {
		info.Push.Subscribers = domain.MergeSubscribers(nil, info.Push.Subscribers)
	}
	info.ApplyDefaults()
	info.Size = 0
	info.TotalMessages = 0
	info.CreatedAt = utils.NowUTC()

	if err := info.Validate(); err != nil {
		return domain.QueueInfo{}, err
	}
	if err := info.CheckInvariant(); err != nil {
		return domain.QueueInfo{}, err
	}
	if info.Push != nil && info.Push.ErrorQueue == info.Name {
		return domain.QueueInfo{}, &domain.ConfigurationError{
			Kind:    domain.KindInvalid,
			Queue:   info.Name,
			Message: "error queue must differ from the queue itself",
		}
	}

	value, err := json.Marshal(info)
	if err != nil {
		return domain.QueueInfo{}, fmt.Errorf("failed to marshal queue info: %w", err)
	}

	if info.Push != nil && info.Push.ErrorQueue != "" {
		if err := r.ensurePullQueue(ctx, info.Push.ErrorQueue, info.ProjectID); err != nil {
			return domain.QueueInfo{}, err
		}
	}

	key := store.QueueKey(info.Name)
	err = r.store.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return domain.ErrQueueExists
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key,
				store.FieldName, info.Name,
				store.FieldValue, value,
				store.FieldCreatedAt, utils.FormatTimestamp(info.CreatedAt),
				store.FieldSize, 0,
				store.FieldTotalMessages, 0,
			)
			pipe.Set(ctx, store.CounterKey(info.Name), 0, 0)
			pipe.SAdd(ctx, store.QueuesKey, info.Name)
			if info.ProjectID != "" {
				pipe.SAdd(ctx, store.ProjectsKey, info.ProjectID)
			}
			return nil
		})
		return err
	}, key)
	if err != nil {
		return domain.QueueInfo{}, fmt.Errorf("create queue %s: %w", info.Name, err)
	}

	r.logger.Info("Queue created",
		"queue", info.Name,
		"type", info.Type,
		"project_id", info.ProjectID,
	)

	return info, nil
}

// ensurePullQueue creates name as a pull queue unless it already exists
func (r *Registry) ensurePullQueue(ctx context.Context, name, projectID string) error {
	_, err := r.Create(ctx, domain.QueueInfo{
		Name:      name,
		ProjectID: projectID,
		Type:      domain.QueueTypePull,
	})
	if err != nil && !errors.Is(err, domain.ErrQueueExists) {
		return fmt.Errorf("ensure error queue %s: %w", name, err)
	}
	return nil
}

// Get returns the configuration and counters of a queue
func (r *Registry) Get(ctx context.Context, name string) (domain.QueueInfo, error) {
	fields, err := r.store.Client().HGetAll(ctx, store.QueueKey(name)).Result()
	if err != nil {
		return domain.QueueInfo{}, fmt.Errorf("get queue %s: %w", name, err)
	}
	return decodeQueue(name, fields)
}

func decodeQueue(name string, fields map[string]string) (domain.QueueInfo, error) {
	raw, ok := fields[store.FieldValue]
	if !ok {
		return domain.QueueInfo{}, fmt.Errorf("queue %s: %w", name, domain.ErrQueueNotFound)
	}

	var info domain.QueueInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return domain.QueueInfo{}, fmt.Errorf("failed to unmarshal queue %s: %w", name, err)
	}

	// counters live in their own hash fields so HINCRBY can update them
	if v, err := strconv.ParseInt(fields[store.FieldSize], 10, 64); err == nil {
		info.Size = v
	}
	if v, err := strconv.ParseInt(fields[store.FieldTotalMessages], 10, 64); err == nil {
		info.TotalMessages = v
	}
	if t, err := utils.ParseTimestamp(fields[store.FieldCreatedAt]); err == nil {
		info.CreatedAt = t
	}
	return info, nil
}

// update applies fn to the stored configuration of name inside a transaction
func (r *Registry) update(ctx context.Context, name string, fn func(*domain.QueueInfo) error) (domain.QueueInfo, error) {
	key := store.QueueKey(name)
	var result domain.QueueInfo

	err := r.store.Watch(ctx, func(tx *redis.Tx) error {
		fields, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		info, err := decodeQueue(name, fields)
		if err != nil {
			return err
		}
		if err := fn(&info); err != nil {
			return err
		}
		if err := info.Validate(); err != nil {
			return err
		}
		if err := info.CheckInvariant(); err != nil {
			return err
		}

		value, err := json.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to marshal queue info: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, store.FieldValue, value)
			if info.ProjectID != "" {
				pipe.SAdd(ctx, store.ProjectsKey, info.ProjectID)
			}
			return nil
		})
		if err != nil {
			return err
		}
		result = info
		return nil
	}, key)
	if err != nil {
		return domain.QueueInfo{}, fmt.Errorf("update queue %s: %w", name, err)
	}
	return result, nil
}

// Patch merges the present fields of patch into the stored configuration.
// The queue type cannot change. Subscribers in the patch are merged by name.
// An error queue named by the patch is created when missing, also when it is
// already configured, so repeating a patch whose error queue creation failed
// completes it.
func (r *Registry) Patch(ctx context.Context, name string, patch domain.QueuePatch) (domain.QueueInfo, error) {
	info, err := r.update(ctx, name, func(q *domain.QueueInfo) error {
		merged, err := patch.Apply(*q)
		if err != nil {
			return err
		}
		if merged.Push != nil && merged.Push.ErrorQueue == name {
			return &domain.ConfigurationError{
				Kind:    domain.KindInvalid,
				Queue:   name,
				Message: "error queue must differ from the queue itself",
			}
		}
		*q = merged
		return nil
	})
	if err != nil {
		return domain.QueueInfo{}, err
	}

	r.logger.Info("Queue patched", "queue", name)

	if errorQueue := patch.ErrorQueueName(); errorQueue != "" {
		if err := r.ensurePullQueue(ctx, errorQueue, info.ProjectID); err != nil {
			return domain.QueueInfo{}, err
		}
	}
	return info, nil
}

// UpdateSubscribers merges additions into the subscriber set by name
func (r *Registry) UpdateSubscribers(ctx context.Context, name string, additions []domain.Subscriber) (domain.QueueInfo, error) {
	return r.update(ctx, name, func(q *domain.QueueInfo) error {
		if !q.Type.IsPush() || q.Push == nil {
			return domain.NewTypeError(name, "subscribers require a push queue")
		}
		q.Push.Subscribers = domain.MergeSubscribers(q.Push.Subscribers, additions)
		return nil
	})
}

// ReplaceSubscribers replaces the whole subscriber set
func (r *Registry) ReplaceSubscribers(ctx context.Context, name string, subscribers []domain.Subscriber) (domain.QueueInfo, error) {
	return r.update(ctx, name, func(q *domain.QueueInfo) error {
		if !q.Type.IsPush() || q.Push == nil {
			return domain.NewTypeError(name, "subscribers require a push queue")
		}
		if len(subscribers) == 0 {
			return domain.NewSubscriberError(name, "subscriber set cannot be empty")
		}
		q.Push.Subscribers = domain.MergeSubscribers(nil, subscribers)
		return nil
	})
}

// DeleteSubscribers removes the named subscribers. It returns false and
// leaves the queue untouched when the removal would leave no subscriber.
func (r *Registry) DeleteSubscribers(ctx context.Context, name string, targets []string) (bool, error) {
	_, err := r.update(ctx, name, func(q *domain.QueueInfo) error {
		if !q.Type.IsPush() || q.Push == nil {
			return domain.NewTypeError(name, "subscribers require a push queue")
		}
		kept := domain.RemoveSubscribers(q.Push.Subscribers, targets)
		if len(kept) == 0 {
			return errWouldEmpty
		}
		q.Push.Subscribers = kept
		return nil
	})
	if errors.Is(err, errWouldEmpty) {
		r.logger.Warn("Refused to remove every subscriber", "queue", name)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var errWouldEmpty = errors.New("removal would leave no subscribers")

// Delete removes the queue configuration, its messages, delivery statuses
// and counters. Deleting a missing queue is not an error.
func (r *Registry) Delete(ctx context.Context, name string) error {
	removed, err := r.store.DeleteMatching(ctx, store.QueuePattern(name), nil)
	if err != nil {
		return fmt.Errorf("delete queue %s: %w", name, err)
	}

	client := r.store.Client()
	if err := client.Del(ctx, store.QueueKey(name)).Err(); err != nil {
		return fmt.Errorf("delete queue %s: %w", name, err)
	}
	if err := client.SRem(ctx, store.QueuesKey, name).Err(); err != nil {
		return fmt.Errorf("delete queue %s: %w", name, err)
	}

	r.logger.Info("Queue deleted", "queue", name, "keys_removed", removed)
	return nil
}

// List returns every registered queue sorted by name
func (r *Registry) List(ctx context.Context) ([]domain.QueueLite, error) {
	names, err := r.store.Client().SMembers(ctx, store.QueuesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list queues: %w", err)
	}
	sort.Strings(names)

	queues := make([]domain.QueueLite, 0, len(names))
	for _, n := range names {
		queues = append(queues, domain.QueueLite{Name: n})
	}
	return queues, nil
}

// Exists reports whether a queue is registered
func (r *Registry) Exists(ctx context.Context, name string) (bool, error) {
	n, err := r.store.Client().Exists(ctx, store.QueueKey(name)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
