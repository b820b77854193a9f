// Package client is a Go client for the ironq HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/RustMQ/rusted-iron/internal/api/dto"
	"github.com/RustMQ/rusted-iron/internal/domain"
)

// Client talks to an ironq server
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config configures the client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Title      string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ironq: %d %s: %s", e.StatusCode, e.Title, e.Message)
}

// IsNotFound reports whether err is a 404 answer
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// New creates a client
func New(config Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/") + "/api/v1",
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.With("component", "ironq_client"),
	}
}

func (c *Client) queuePath(queue string, parts ...string) string {
	p := "/queues/" + url.PathEscape(queue)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// do sends body as JSON and decodes a 2xx answer into out
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Title = errResp.Error
			apiErr.Message = errResp.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// CreateQueue creates a queue named info.Name
func (c *Client) CreateQueue(ctx context.Context, info domain.QueueInfo) (domain.QueueInfo, error) {
	var resp dto.QueueResponse
	err := c.do(ctx, http.MethodPut, c.queuePath(info.Name), dto.QueueRequest{Queue: info}, &resp)
	return resp.Queue, err
}

// GetQueue returns a queue with its counters
func (c *Client) GetQueue(ctx context.Context, queue string) (domain.QueueInfo, error) {
	var resp dto.QueueResponse
	err := c.do(ctx, http.MethodGet, c.queuePath(queue), nil, &resp)
	return resp.Queue, err
}

// DeleteQueue removes a queue and its messages
func (c *Client) DeleteQueue(ctx context.Context, queue string) error {
	return c.do(ctx, http.MethodDelete, c.queuePath(queue), nil, nil)
}

// ListQueues returns the queue names
func (c *Client) ListQueues(ctx context.Context) ([]string, error) {
	var resp dto.QueueListResponse
	if err := c.do(ctx, http.MethodGet, "/queues", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Queues))
	for _, q := range resp.Queues {
		names = append(names, q.Name)
	}
	return names, nil
}

// Enqueue stores bodies as messages and returns their ids in order
func (c *Client) Enqueue(ctx context.Context, queue string, bodies ...string) ([]string, error) {
	req := dto.EnqueueRequest{Messages: make([]dto.MessageInput, 0, len(bodies))}
	for _, b := range bodies {
		req.Messages = append(req.Messages, dto.MessageInput{Body: b})
	}

	var resp dto.EnqueueResponse
	if err := c.do(ctx, http.MethodPost, c.queuePath(queue, "messages"), req, &resp); err != nil {
		return nil, err
	}
	return resp.IDs, nil
}

// Peek returns up to n messages without reserving them
func (c *Client) Peek(ctx context.Context, queue string, n int) ([]domain.Message, error) {
	var resp dto.MessageListResponse
	path := c.queuePath(queue, "messages") + "?n=" + strconv.Itoa(n)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// Reserve leases up to n messages. With autoDelete the server deletes them
// as it hands them out.
func (c *Client) Reserve(ctx context.Context, queue string, n int, autoDelete bool) ([]domain.Message, error) {
	var resp dto.MessageListResponse
	req := dto.ReserveRequest{N: n, Delete: autoDelete}
	if err := c.do(ctx, http.MethodPost, c.queuePath(queue, "reservations"), req, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// Touch extends a reservation and returns the new reservation id
func (c *Client) Touch(ctx context.Context, queue, id, reservationID string) (string, error) {
	var resp dto.TouchResponse
	req := dto.ReservationRequest{ReservationID: reservationID}
	if err := c.do(ctx, http.MethodPost, c.queuePath(queue, "messages", id, "touch"), req, &resp); err != nil {
		return "", err
	}
	return resp.ReservationID, nil
}

// Release returns a reserved message to the queue
func (c *Client) Release(ctx context.Context, queue, id, reservationID string) error {
	req := dto.ReservationRequest{ReservationID: reservationID}
	return c.do(ctx, http.MethodPost, c.queuePath(queue, "messages", id, "release"), req, nil)
}

// DeleteMessage removes a message
func (c *Client) DeleteMessage(ctx context.Context, queue, id string) error {
	return c.do(ctx, http.MethodDelete, c.queuePath(queue, "messages", id), nil, nil)
}

// PushStatuses returns the delivery status per subscriber of a pushed message
func (c *Client) PushStatuses(ctx context.Context, queue, id string) ([]domain.PushStatus, error) {
	var resp dto.PushStatusListResponse
	if err := c.do(ctx, http.MethodGet, c.queuePath(queue, "messages", id, "subscribers"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Subscribers, nil
}

// Handler processes one reserved message. Returning nil deletes the message;
// an error releases it back to the queue.
type Handler func(ctx context.Context, msg domain.Message) error

// ConsumeOptions tunes Consume
type ConsumeOptions struct {
	BatchSize    int
	PollInterval time.Duration
}

// Consume reserves batches from queue and runs handler on each message until
// ctx is done.
func (c *Client) Consume(ctx context.Context, queue string, handler Handler, opts ConsumeOptions) error {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 100 * time.Millisecond
	}

	c.logger.Info("Starting consumer",
		"queue", queue,
		"batch_size", opts.BatchSize,
	)

	for {
		if err := ctx.Err(); err != nil {
			c.logger.Info("Consumer stopped", "queue", queue)
			return nil
		}

		msgs, err := c.Reserve(ctx, queue, opts.BatchSize, false)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if IsNotFound(err) {
				return err
			}
			c.logger.Error("Failed to reserve messages", "queue", queue, "error", err)
			if !wait(ctx, opts.PollInterval) {
				return nil
			}
			continue
		}

		if len(msgs) == 0 {
			if !wait(ctx, opts.PollInterval) {
				return nil
			}
			continue
		}

		for _, msg := range msgs {
			if err := handler(ctx, msg); err != nil {
				c.logger.Warn("Handler error",
					"queue", queue,
					"message_id", msg.ID,
					"error", err,
				)
				if relErr := c.Release(ctx, queue, msg.ID, msg.ReservationID); relErr != nil {
					c.logger.Error("Failed to release message",
						"message_id", msg.ID,
						"error", relErr,
					)
				}
				continue
			}
			if delErr := c.DeleteMessage(ctx, queue, msg.ID); delErr != nil {
				c.logger.Error("Failed to delete message",
					"message_id", msg.ID,
					"error", delErr,
				)
			}
		}
	}
}

func wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
