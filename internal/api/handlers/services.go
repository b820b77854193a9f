package handlers

import (
	"context"

	"github.com/RustMQ/rusted-iron/internal/domain"
)

// QueueService is the queue registry as seen by the HTTP layer
type QueueService interface {
	Create(ctx context.Context, info domain.QueueInfo) (domain.QueueInfo, error)
	Get(ctx context.Context, name string) (domain.QueueInfo, error)
	Patch(ctx context.Context, name string, patch domain.QueuePatch) (domain.QueueInfo, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]domain.QueueLite, error)
	UpdateSubscribers(ctx context.Context, name string, additions []domain.Subscriber) (domain.QueueInfo, error)
	ReplaceSubscribers(ctx context.Context, name string, subscribers []domain.Subscriber) (domain.QueueInfo, error)
	DeleteSubscribers(ctx context.Context, name string, targets []string) (bool, error)
}

// MessageService is the reservation engine as seen by the HTTP layer
type MessageService interface {
	Enqueue(ctx context.Context, queue string, msg domain.Message) (string, error)
	EnqueueBatch(ctx context.Context, queue string, msgs []domain.Message) ([]string, error)
	Get(ctx context.Context, queue, id string) (domain.Message, error)
	Peek(ctx context.Context, queue string, n int) ([]domain.Message, error)
	Reserve(ctx context.Context, queue string, n int, autoDelete bool) ([]domain.Message, error)
	Touch(ctx context.Context, queue, id, token string) (string, error)
	Release(ctx context.Context, queue, id, token string) (bool, error)
	Delete(ctx context.Context, queue, id string) error
	DeleteBatch(ctx context.Context, queue string, ids []string) (int, error)
	Clear(ctx context.Context, queue string) error
}

// StatusService exposes recorded push outcomes
type StatusService interface {
	List(ctx context.Context, queue, msgID string) ([]domain.PushStatus, error)
}
