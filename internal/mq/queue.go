package mq

import (
	"context"

	"github.com/RustMQ/rusted-iron/internal/domain"
)

// QueueLookup resolves queue configuration for the engine.
// The queue registry implements it; tests substitute a fake.
type QueueLookup interface {
	Get(ctx context.Context, name string) (domain.QueueInfo, error)
}

// Default and maximum number of messages returned by peek and reserve
const (
	DefaultBatch = 1
	MaxBatch     = 100
)

func clampBatch(n int) int {
	if n <= 0 {
		return DefaultBatch
	}
	if n > MaxBatch {
		return MaxBatch
	}
	return n
}

// clearChunk bounds the number of keys passed to one DEL during Clear
const clearChunk = 500
