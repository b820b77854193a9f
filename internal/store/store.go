package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/RustMQ/rusted-iron/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Config configures the Redis connection
type Config struct {
	URL string

	// PoolSize is the maximum number of socket connections
	PoolSize int

	// MaxTxRetries bounds the optimistic transaction retries on a watched key conflict
	MaxTxRetries int
}

// Store wraps the Redis client with the transaction, scan and pub/sub
// primitives the queue engines are built on.
type Store struct {
	rdb        redis.UniversalClient
	logger     *slog.Logger
	maxRetries int
}

// New connects to Redis and verifies the connection
func New(config Config, logger *slog.Logger) (*Store, error) {
	if config.PoolSize == 0 {
		config.PoolSize = 10
	}

	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.PoolSize = config.PoolSize

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	s := NewFromClient(client, logger, config.MaxTxRetries)
	s.logger.Info("Connected to Redis",
		"addr", opts.Addr,
		"db", opts.DB,
		"pool_size", opts.PoolSize,
	)
	return s, nil
}

// NewFromClient wraps an existing client
func NewFromClient(client redis.UniversalClient, logger *slog.Logger, maxTxRetries int) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if maxTxRetries <= 0 {
		maxTxRetries = 10
	}
	return &Store{
		rdb:        client,
		logger:     logger.With("component", "store"),
		maxRetries: maxTxRetries,
	}
}

// Client returns the underlying Redis client
func (s *Store) Client() redis.UniversalClient {
	return s.rdb
}

// Watch runs fn in an optimistic transaction over keys. When a watched key is
// modified before the transaction commits, fn is run again, up to the
// configured bound; after that domain.ErrStoreConflict is returned.
func (s *Store) Watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		err := s.rdb.Watch(ctx, fn, keys...)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		s.logger.Debug("Transaction conflict, retrying",
			"keys", keys,
			"attempt", attempt,
		)
	}
	return fmt.Errorf("%w: gave up after %d attempts on %v", domain.ErrStoreConflict, s.maxRetries, keys)
}

// ScanKeys returns every key matching pattern
func (s *Store) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", pattern, err)
	}
	return keys, nil
}

// DeleteMatching deletes every key matching pattern for which skip returns false.
// It returns the number of keys removed.
func (s *Store) DeleteMatching(ctx context.Context, pattern string, skip func(key string) bool) (int64, error) {
	keys, err := s.ScanKeys(ctx, pattern)
	if err != nil {
		return 0, err
	}

	doomed := keys[:0]
	for _, k := range keys {
		if skip != nil && skip(k) {
			continue
		}
		doomed = append(doomed, k)
	}
	if len(doomed) == 0 {
		return 0, nil
	}

	var removed int64
	for start := 0; start < len(doomed); start += 500 {
		end := min(start+500, len(doomed))
		n, err := s.rdb.Del(ctx, doomed[start:end]...).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to delete keys matching %s: %w", pattern, err)
		}
		removed += n
	}
	return removed, nil
}

// Publish serializes payload as JSON and broadcasts it on channel
func (s *Store) Publish(ctx context.Context, channel string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := s.rdb.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish on %s: %w", channel, err)
	}
	return nil
}

// PSubscribe subscribes to every channel matching pattern
func (s *Store) PSubscribe(ctx context.Context, pattern string) *redis.PubSub {
	return s.rdb.PSubscribe(ctx, pattern)
}

// Ping checks that Redis is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Store) Close() error {
	if err := s.rdb.Close(); err != nil {
		s.logger.Error("Failed to close Redis client", "error", err)
		return err
	}
	return nil
}
