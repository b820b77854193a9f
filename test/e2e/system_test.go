// Package e2e exercises a running ironq server over HTTP.
//
// The tests are skipped unless E2E_API_URL points at the server, for example
// E2E_API_URL=http://localhost:8080. The push test also needs E2E_PUSH=1 and
// a server that can reach this process on localhost.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RustMQ/rusted-iron/internal/domain"
	"github.com/RustMQ/rusted-iron/pkg/client"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	maxWaitDuration = 30 * time.Second
	pollInterval    = 250 * time.Millisecond
)

type rawClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newRawClient(t *testing.T) *rawClient {
	t.Helper()

	base := os.Getenv("E2E_API_URL")
	if base == "" {
		t.Skip("E2E_API_URL not set")
	}
	return &rawClient{
		t:    t,
		base: base,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *rawClient) do(method, path string, body any, out any) int {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func queueName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

func TestHealth(t *testing.T) {
	c := newRawClient(t)

	var out map[string]string
	status := c.do(http.MethodGet, "/health", nil, &out)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", out["status"])
}

func TestPullQueueLifecycle(t *testing.T) {
	c := newRawClient(t)
	api := client.New(client.Config{BaseURL: c.base}, nil)
	ctx := context.Background()
	name := queueName("e2e-pull")
	t.Cleanup(func() { _ = api.DeleteQueue(ctx, name) })

	_, err := api.CreateQueue(ctx, domain.QueueInfo{Name: name})
	require.NoError(t, err)

	ids, err := api.Enqueue(ctx, name, "one", "two", "three")
	require.NoError(t, err)
	require.Len(t, ids, 3)

	reserved, err := api.Reserve(ctx, name, 2, false)
	require.NoError(t, err)
	require.Len(t, reserved, 2)
	assert.Equal(t, "one", reserved[0].Body)
	assert.Equal(t, "two", reserved[1].Body)

	first := reserved[0]
	require.NoError(t, api.Release(ctx, name, first.ID, first.ReservationID))

	again, err := api.Reserve(ctx, name, 1, false)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, first.ID, again[0].ID)
	assert.Equal(t, 2, again[0].ReservedCount)

	require.NoError(t, api.DeleteMessage(ctx, name, first.ID))

	info, err := api.GetQueue(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Size)
	assert.Equal(t, int64(3), info.TotalMessages)
}

func TestPushQueueDelivery(t *testing.T) {
	c := newRawClient(t)
	if os.Getenv("E2E_PUSH") != "1" {
		t.Skip("E2E_PUSH not set")
	}

	var hits atomic.Int32
	subscriber := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer subscriber.Close()

	name := queueName("e2e-push")
	path := "/api/v1/queues/" + name
	t.Cleanup(func() { c.do(http.MethodDelete, path, nil, nil) })

	status := c.do(http.MethodPut, path, map[string]any{"queue": map[string]any{
		"type": "unicast",
		"push": map[string]any{
			"retries":       1,
			"retries_delay": 1,
			"subscribers":   []map[string]string{{"name": "local", "url": subscriber.URL}},
		},
	}}, nil)
	require.Equal(t, http.StatusCreated, status)

	var enq struct {
		IDs []string `json:"ids"`
	}
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, path+"/messages", map[string]any{
		"messages": []map[string]any{{"body": "ping"}},
	}, &enq))
	require.Len(t, enq.IDs, 1)

	require.Eventually(t, func() bool {
		var out struct {
			Subscribers []struct {
				StatusCode int `json:"status_code"`
			} `json:"subscribers"`
		}
		if c.do(http.MethodGet, path+"/messages/"+enq.IDs[0]+"/subscribers", nil, &out) != http.StatusOK {
			return false
		}
		return len(out.Subscribers) == 1 && out.Subscribers[0].StatusCode == http.StatusOK
	}, maxWaitDuration, pollInterval)

	assert.Equal(t, int32(1), hits.Load())
}
