package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RustMQ/rusted-iron/internal/config"
	"github.com/RustMQ/rusted-iron/internal/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Redis:  config.RedisConfig{MaxTxRetries: 5},
		Push:   config.PushConfig{Enabled: true, Workers: 2, HTTPTimeout: time.Second},
		Lease:  config.LeaseConfig{SweepInterval: 10 * time.Millisecond},
	}
}

func setupApp(t *testing.T) *App {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a := NewWithStore(testConfig(), store.NewFromClient(client, logger, 5), logger)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestApp_RouterServesHealth(t *testing.T) {
	a := setupApp(t)

	w := httptest.NewRecorder()
	a.Router().Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApp_Pusher(t *testing.T) {
	a := setupApp(t)

	p, err := a.Pusher()

	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestApp_RunServer_StopsOnCancel(t *testing.T) {
	a := setupApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunServer(ctx, true) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestApp_RunPusher_StopsOnCancel(t *testing.T) {
	a := setupApp(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.NoError(t, a.RunPusher(ctx))
}

func TestNew_UnreachableStore(t *testing.T) {
	cfg := testConfig()
	cfg.Redis.URL = "redis://127.0.0.1:1/0"

	_, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Error(t, err)
}
