package handlers

import (
	"context"
	"net/http/httptest"

	"github.com/RustMQ/rusted-iron/internal/domain"
	"github.com/gin-gonic/gin"
)

// MockQueueService implements QueueService for testing
type MockQueueService struct {
	CreateFunc             func(ctx context.Context, info domain.QueueInfo) (domain.QueueInfo, error)
	GetFunc                func(ctx context.Context, name string) (domain.QueueInfo, error)
	PatchFunc              func(ctx context.Context, name string, patch domain.QueuePatch) (domain.QueueInfo, error)
	DeleteFunc             func(ctx context.Context, name string) error
	ListFunc               func(ctx context.Context) ([]domain.QueueLite, error)
	UpdateSubscribersFunc  func(ctx context.Context, name string, additions []domain.Subscriber) (domain.QueueInfo, error)
	ReplaceSubscribersFunc func(ctx context.Context, name string, subscribers []domain.Subscriber) (domain.QueueInfo, error)
	DeleteSubscribersFunc  func(ctx context.Context, name string, targets []string) (bool, error)
}

func (m *MockQueueService) Create(ctx context.Context, info domain.QueueInfo) (domain.QueueInfo, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, info)
	}
	return info, nil
}

func (m *MockQueueService) Get(ctx context.Context, name string) (domain.QueueInfo, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, name)
	}
	return domain.QueueInfo{}, domain.ErrQueueNotFound
}

func (m *MockQueueService) Patch(ctx context.Context, name string, patch domain.QueuePatch) (domain.QueueInfo, error) {
	if m.PatchFunc != nil {
		return m.PatchFunc(ctx, name, patch)
	}
	return domain.QueueInfo{}, domain.ErrQueueNotFound
}

func (m *MockQueueService) Delete(ctx context.Context, name string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, name)
	}
	return nil
}

func (m *MockQueueService) List(ctx context.Context) ([]domain.QueueLite, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockQueueService) UpdateSubscribers(ctx context.Context, name string, additions []domain.Subscriber) (domain.QueueInfo, error) {
	if m.UpdateSubscribersFunc != nil {
		return m.UpdateSubscribersFunc(ctx, name, additions)
	}
	return domain.QueueInfo{}, nil
}

func (m *MockQueueService) ReplaceSubscribers(ctx context.Context, name string, subscribers []domain.Subscriber) (domain.QueueInfo, error) {
	if m.ReplaceSubscribersFunc != nil {
		return m.ReplaceSubscribersFunc(ctx, name, subscribers)
	}
	return domain.QueueInfo{}, nil
}

func (m *MockQueueService) DeleteSubscribers(ctx context.Context, name string, targets []string) (bool, error) {
	if m.DeleteSubscribersFunc != nil {
		return m.DeleteSubscribersFunc(ctx, name, targets)
	}
	return true, nil
}

// MockMessageService implements MessageService for testing
type MockMessageService struct {
	EnqueueFunc      func(ctx context.Context, queue string, msg domain.Message) (string, error)
	EnqueueBatchFunc func(ctx context.Context, queue string, msgs []domain.Message) ([]string, error)
	GetFunc          func(ctx context.Context, queue, id string) (domain.Message, error)
	PeekFunc         func(ctx context.Context, queue string, n int) ([]domain.Message, error)
	ReserveFunc      func(ctx context.Context, queue string, n int, autoDelete bool) ([]domain.Message, error)
	TouchFunc        func(ctx context.Context, queue, id, token string) (string, error)
	ReleaseFunc      func(ctx context.Context, queue, id, token string) (bool, error)
	DeleteFunc       func(ctx context.Context, queue, id string) error
	DeleteBatchFunc  func(ctx context.Context, queue string, ids []string) (int, error)
	ClearFunc        func(ctx context.Context, queue string) error
}

func (m *MockMessageService) Enqueue(ctx context.Context, queue string, msg domain.Message) (string, error) {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, queue, msg)
	}
	return "", nil
}

func (m *MockMessageService) EnqueueBatch(ctx context.Context, queue string, msgs []domain.Message) ([]string, error) {
	if m.EnqueueBatchFunc != nil {
		return m.EnqueueBatchFunc(ctx, queue, msgs)
	}
	return nil, nil
}

func (m *MockMessageService) Get(ctx context.Context, queue, id string) (domain.Message, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, queue, id)
	}
	return domain.Message{}, domain.ErrMessageNotFound
}

func (m *MockMessageService) Peek(ctx context.Context, queue string, n int) ([]domain.Message, error) {
	if m.PeekFunc != nil {
		return m.PeekFunc(ctx, queue, n)
	}
	return nil, nil
}

func (m *MockMessageService) Reserve(ctx context.Context, queue string, n int, autoDelete bool) ([]domain.Message, error) {
	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, queue, n, autoDelete)
	}
	return nil, nil
}

func (m *MockMessageService) Touch(ctx context.Context, queue, id, token string) (string, error) {
	if m.TouchFunc != nil {
		return m.TouchFunc(ctx, queue, id, token)
	}
	return "", nil
}

func (m *MockMessageService) Release(ctx context.Context, queue, id, token string) (bool, error) {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, queue, id, token)
	}
	return true, nil
}

func (m *MockMessageService) Delete(ctx context.Context, queue, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, queue, id)
	}
	return nil
}

func (m *MockMessageService) DeleteBatch(ctx context.Context, queue string, ids []string) (int, error) {
	if m.DeleteBatchFunc != nil {
		return m.DeleteBatchFunc(ctx, queue, ids)
	}
	return len(ids), nil
}

func (m *MockMessageService) Clear(ctx context.Context, queue string) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, queue)
	}
	return nil
}

// MockStatusService implements StatusService for testing
type MockStatusService struct {
	ListFunc func(ctx context.Context, queue, msgID string) ([]domain.PushStatus, error)
}

func (m *MockStatusService) List(ctx context.Context, queue, msgID string) ([]domain.PushStatus, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, queue, msgID)
	}
	return nil, nil
}

func setupGinTest() (*gin.Engine, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	w := httptest.NewRecorder()
	return router, w
}
