package pusher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RustMQ/rusted-iron/internal/domain"
	"github.com/RustMQ/rusted-iron/internal/mq"
	"github.com/RustMQ/rusted-iron/internal/pusher"
	"github.com/RustMQ/rusted-iron/internal/registry"
	"github.com/RustMQ/rusted-iron/internal/status"
	"github.com/RustMQ/rusted-iron/internal/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPusher_Run_DeliversAndDeadLetters(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s := store.NewFromClient(client, nil, 10)
	reg := registry.New(s, nil)
	engine := mq.NewEngine(s, reg, nil)
	tracker := status.NewTracker(s, nil)

	var okHits atomic.Int32
	okServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		okHits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(okServer.Close)
	failServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(failServer.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := reg.Create(ctx, domain.QueueInfo{
		Name: "good",
		Type: domain.QueueTypeUnicast,
		Push: &domain.PushConfig{Subscribers: []domain.Subscriber{{Name: "ok", URL: okServer.URL}}},
	})
	require.NoError(t, err)
	_, err = reg.Create(ctx, domain.QueueInfo{
		Name: "bad",
		Type: domain.QueueTypeMulticast,
		Push: &domain.PushConfig{
			Retries:      2,
			RetriesDelay: 1,
			ErrorQueue:   "dead",
			Subscribers:  []domain.Subscriber{{Name: "fail", URL: failServer.URL}},
		},
	})
	require.NoError(t, err)

	p, err := pusher.New(s,
		pusher.WithGateway(pusher.NewHTTPGateway(pusher.HTTPGatewayConfig{Timeout: time.Second}, nil)),
		pusher.WithRecorder(tracker),
		pusher.WithEnqueuer(engine),
		pusher.WithSleeper(func(ctx context.Context, d time.Duration) error { return ctx.Err() }),
		pusher.WithWorkers(4),
	)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// wait until the subscription is live
	require.Eventually(t, func() bool {
		n, _ := client.PubSubNumPat(ctx).Result()
		return n > 0
	}, 2*time.Second, 10*time.Millisecond)

	goodID, err := engine.Enqueue(ctx, "good", domain.Message{Body: "hello"})
	require.NoError(t, err)
	_, err = engine.Enqueue(ctx, "bad", domain.Message{Body: "doomed"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		dead, err := engine.Peek(ctx, "dead", 10)
		return err == nil && len(dead) == 1
	}, 3*time.Second, 20*time.Millisecond)

	dead, err := engine.Peek(ctx, "dead", 10)
	require.NoError(t, err)
	assert.Equal(t, "doomed", dead[0].Body)

	require.Eventually(t, func() bool {
		statuses, err := tracker.List(ctx, "good", goodID)
		return err == nil && len(statuses) == 1
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, int32(1), okHits.Load())

	statuses, err := tracker.List(ctx, "good", goodID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, statuses[0].StatusCode)
	assert.Equal(t, "ok", statuses[0].SubscriberName)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("pusher did not stop")
	}
}
