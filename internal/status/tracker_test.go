package status

import (
	"context"
	"testing"

	"github.com/RustMQ/rusted-iron/internal/domain"
	"github.com/RustMQ/rusted-iron/internal/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTracker(t *testing.T) (*Tracker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewTracker(store.NewFromClient(client, nil, 5), nil), mr
}

func TestTracker_RecordOverwrites(t *testing.T) {
	tracker, mr := setupTracker(t)
	ctx := context.Background()
	mr.HSet(store.MessageKey("hooks", "m1"), store.FieldID, "m1")

	first := domain.PushStatus{
		SubscriberName:   "a",
		URL:              "http://a.example.com/hook",
		StatusCode:       500,
		Tries:            1,
		RetriesRemaining: 2,
		Msg:              "payload",
	}
	require.NoError(t, tracker.Record(ctx, "hooks", "m1", first))

	second := first
	second.StatusCode = 200
	second.Tries = 2
	second.RetriesRemaining = 1
	require.NoError(t, tracker.Record(ctx, "hooks", "m1", second))

	statuses, err := tracker.List(ctx, "hooks", "m1")
	require.NoError(t, err)
	require.Len(t, statuses, 1, "only the latest attempt is kept")
	assert.Equal(t, second, statuses[0])
	assert.True(t, statuses[0].Succeeded())
}

func TestTracker_ListPerSubscriber(t *testing.T) {
	tracker, mr := setupTracker(t)
	ctx := context.Background()
	mr.HSet(store.MessageKey("hooks", "m1"), store.FieldID, "m1")

	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, tracker.Record(ctx, "hooks", "m1", domain.PushStatus{
			SubscriberName: name,
			URL:            "http://" + name + ".example.com/hook",
			StatusCode:     202,
			Tries:          1,
		}))
	}
	require.NoError(t, tracker.Record(ctx, "hooks", "m2", domain.PushStatus{
		SubscriberName: "a",
		URL:            "http://a.example.com/hook",
	}))

	statuses, err := tracker.List(ctx, "hooks", "m1")

	require.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.Equal(t, "a", statuses[0].SubscriberName)
	assert.Equal(t, "b", statuses[1].SubscriberName)
	assert.Equal(t, "c", statuses[2].SubscriberName)
}

func TestTracker_List_NoStatuses(t *testing.T) {
	tracker, mr := setupTracker(t)
	ctx := context.Background()

	_, err := tracker.List(ctx, "hooks", "missing")
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)

	mr.HSet(store.MessageKey("hooks", "m1"), store.FieldID, "m1")
	statuses, err := tracker.List(ctx, "hooks", "m1")
	require.NoError(t, err)
	assert.Empty(t, statuses)
}
