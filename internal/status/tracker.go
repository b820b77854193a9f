package status

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/RustMQ/rusted-iron/internal/domain"
	"github.com/RustMQ/rusted-iron/internal/store"
	"github.com/redis/go-redis/v9"
)

const (
	fieldSubscriberName   = "subscriber_name"
	fieldRetriesRemaining = "retries_remaining"
	fieldTries            = "tries"
	fieldStatusCode       = "status_code"
	fieldURL              = "url"
	fieldMsg              = "msg"
)

// Tracker keeps the latest push outcome of each message per subscriber.
// Statuses are overwritten on every attempt and go away with their message.
type Tracker struct {
	store  *store.Store
	logger *slog.Logger
}

// NewTracker creates a delivery status tracker
func NewTracker(s *store.Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		store:  s,
		logger: logger.With("component", "status_tracker"),
	}
}

// Record upserts the status of msgID for the subscriber at st.URL
func (t *Tracker) Record(ctx context.Context, queue, msgID string, st domain.PushStatus) error {
	key := store.DeliveryKey(queue, msgID, st.URL)
	err := t.store.Client().HSet(ctx, key,
		fieldSubscriberName, st.SubscriberName,
		fieldRetriesRemaining, st.RetriesRemaining,
		fieldTries, st.Tries,
		fieldStatusCode, st.StatusCode,
		fieldURL, st.URL,
		fieldMsg, st.Msg,
	).Err()
	if err != nil {
		return fmt.Errorf("record push status of %s: %w", msgID, err)
	}

	t.logger.Debug("Push status recorded",
		"queue", queue,
		"message_id", msgID,
		"subscriber", st.SubscriberName,
		"status_code", st.StatusCode,
		"tries", st.Tries,
	)
	return nil
}

// List returns every recorded status of a message, ordered by subscriber name
func (t *Tracker) List(ctx context.Context, queue, msgID string) ([]domain.PushStatus, error) {
	keys, err := t.store.ScanKeys(ctx, store.DeliveryPattern(queue, msgID))
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		n, err := t.store.Client().Exists(ctx, store.MessageKey(queue, msgID)).Result()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("message %s: %w", msgID, domain.ErrMessageNotFound)
		}
		return []domain.PushStatus{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(keys))
	_, err = t.store.Client().Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, k := range keys {
			cmds[i] = pipe.HGetAll(ctx, k)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list push statuses of %s: %w", msgID, err)
	}

	statuses := make([]domain.PushStatus, 0, len(keys))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		statuses = append(statuses, decodeStatus(fields))
	}

	sort.Slice(statuses, func(i, j int) bool {
		if statuses[i].SubscriberName != statuses[j].SubscriberName {
			return statuses[i].SubscriberName < statuses[j].SubscriberName
		}
		return statuses[i].URL < statuses[j].URL
	})
	return statuses, nil
}

func decodeStatus(fields map[string]string) domain.PushStatus {
	st := domain.PushStatus{
		SubscriberName: fields[fieldSubscriberName],
		URL:            fields[fieldURL],
		Msg:            fields[fieldMsg],
	}
	st.RetriesRemaining, _ = strconv.Atoi(fields[fieldRetriesRemaining])
	st.Tries, _ = strconv.Atoi(fields[fieldTries])
	st.StatusCode, _ = strconv.Atoi(fields[fieldStatusCode])
	return st
}
