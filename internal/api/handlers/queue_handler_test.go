package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RustMQ/rusted-iron/internal/api/dto"
	"github.com/RustMQ/rusted-iron/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueHandler_CreateQueue_Success(t *testing.T) {
	var got domain.QueueInfo
	mockSvc := &MockQueueService{
		CreateFunc: func(ctx context.Context, info domain.QueueInfo) (domain.QueueInfo, error) {
			got = info
			info.Type = domain.QueueTypePull
			return info, nil
		},
	}

	handler := NewQueueHandler(mockSvc)
	router, w := setupGinTest()
	router.PUT("/queues/:name", handler.CreateQueue)

	body := `{"queue":{"name":"ignored","message_timeout":30}}`
	req := httptest.NewRequest(http.MethodPut, "/queues/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "orders", got.Name)
	assert.Equal(t, 30, got.MessageTimeout)

	var response dto.QueueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "orders", response.Queue.Name)
	assert.Equal(t, domain.QueueTypePull, response.Queue.Type)
}

func TestQueueHandler_CreateQueue_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"malformed body", `{"queue":`, nil, http.StatusBadRequest},
		{"type error", `{"queue":{}}`, domain.NewTypeError("orders", "push settings on a pull queue"), http.StatusBadRequest},
		{"subscriber error", `{"queue":{}}`, domain.NewSubscriberError("orders", "no subscribers"), http.StatusBadRequest},
		{"exists", `{"queue":{}}`, domain.ErrQueueExists, http.StatusConflict},
		{"store failure", `{"queue":{}}`, errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := &MockQueueService{
				CreateFunc: func(ctx context.Context, info domain.QueueInfo) (domain.QueueInfo, error) {
					return domain.QueueInfo{}, tt.err
				},
			}

			handler := NewQueueHandler(mockSvc)
			router, w := setupGinTest()
			router.PUT("/queues/:name", handler.CreateQueue)

			req := httptest.NewRequest(http.MethodPut, "/queues/orders", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)

			var response dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.NotEmpty(t, response.Error)
		})
	}
}

func TestQueueHandler_GetQueue(t *testing.T) {
	mockSvc := &MockQueueService{
		GetFunc: func(ctx context.Context, name string) (domain.QueueInfo, error) {
			if name != "orders" {
				return domain.QueueInfo{}, domain.ErrQueueNotFound
			}
			return domain.QueueInfo{Name: "orders", Type: domain.QueueTypePull, Size: 2}, nil
		},
	}

	handler := NewQueueHandler(mockSvc)

	t.Run("found", func(t *testing.T) {
		router, w := setupGinTest()
		router.GET("/queues/:name", handler.GetQueue)

		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/queues/orders", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.QueueResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(2), response.Queue.Size)
	})

	t.Run("missing", func(t *testing.T) {
		router, w := setupGinTest()
		router.GET("/queues/:name", handler.GetQueue)

		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/queues/nope", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		var response dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Queue not found", response.Error)
	})
}

func TestQueueHandler_PatchQueue(t *testing.T) {
	var got domain.QueuePatch
	mockSvc := &MockQueueService{
		PatchFunc: func(ctx context.Context, name string, patch domain.QueuePatch) (domain.QueueInfo, error) {
			got = patch
			return domain.QueueInfo{Name: name, MessageTimeout: *patch.MessageTimeout}, nil
		},
	}

	handler := NewQueueHandler(mockSvc)
	router, w := setupGinTest()
	router.PATCH("/queues/:name", handler.PatchQueue)

	req := httptest.NewRequest(http.MethodPatch, "/queues/orders", strings.NewReader(`{"queue":{"message_timeout":90}}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.MessageTimeout)
	assert.Equal(t, 90, *got.MessageTimeout)
	assert.Nil(t, got.Type)
}

func TestQueueHandler_PatchQueue_TypeChangeRejected(t *testing.T) {
	mockSvc := &MockQueueService{
		PatchFunc: func(ctx context.Context, name string, patch domain.QueuePatch) (domain.QueueInfo, error) {
			return domain.QueueInfo{}, domain.NewTypeError(name, "queue type cannot change")
		},
	}

	handler := NewQueueHandler(mockSvc)
	router, w := setupGinTest()
	router.PATCH("/queues/:name", handler.PatchQueue)

	req := httptest.NewRequest(http.MethodPatch, "/queues/orders", strings.NewReader(`{"queue":{"type":"unicast"}}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueueHandler_DeleteQueue(t *testing.T) {
	deleted := ""
	mockSvc := &MockQueueService{
		DeleteFunc: func(ctx context.Context, name string) error {
			deleted = name
			return nil
		},
	}

	handler := NewQueueHandler(mockSvc)
	router, w := setupGinTest()
	router.DELETE("/queues/:name", handler.DeleteQueue)

	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/queues/orders", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "orders", deleted)
	assert.JSONEq(t, `{"msg":"Deleted"}`, w.Body.String())
}

func TestQueueHandler_ListQueues(t *testing.T) {
	t.Run("queues", func(t *testing.T) {
		mockSvc := &MockQueueService{
			ListFunc: func(ctx context.Context) ([]domain.QueueLite, error) {
				return []domain.QueueLite{{Name: "a"}, {Name: "b"}}, nil
			},
		}

		handler := NewQueueHandler(mockSvc)
		router, w := setupGinTest()
		router.GET("/queues", handler.ListQueues)

		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/queues", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"queues":[{"name":"a"},{"name":"b"}]}`, w.Body.String())
	})

	t.Run("empty list is not null", func(t *testing.T) {
		handler := NewQueueHandler(&MockQueueService{})
		router, w := setupGinTest()
		router.GET("/queues", handler.ListQueues)

		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/queues", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"queues":[]}`, w.Body.String())
	})
}

func TestQueueHandler_AddSubscribers(t *testing.T) {
	var got []domain.Subscriber
	mockSvc := &MockQueueService{
		UpdateSubscribersFunc: func(ctx context.Context, name string, additions []domain.Subscriber) (domain.QueueInfo, error) {
			got = additions
			return domain.QueueInfo{Name: name}, nil
		},
	}

	handler := NewQueueHandler(mockSvc)
	router, w := setupGinTest()
	router.POST("/queues/:name/subscribers", handler.AddSubscribers)

	body := `{"subscribers":[{"name":"billing","url":"http://localhost/hook"}]}`
	req := httptest.NewRequest(http.MethodPost, "/queues/orders/subscribers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"msg":"Updated"}`, w.Body.String())
	require.Len(t, got, 1)
	assert.Equal(t, "billing", got[0].Name)
}

func TestQueueHandler_AddSubscribers_EmptyList(t *testing.T) {
	handler := NewQueueHandler(&MockQueueService{})
	router, w := setupGinTest()
	router.POST("/queues/:name/subscribers", handler.AddSubscribers)

	req := httptest.NewRequest(http.MethodPost, "/queues/orders/subscribers", strings.NewReader(`{"subscribers":[]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueueHandler_ReplaceSubscribers_PullQueue(t *testing.T) {
	mockSvc := &MockQueueService{
		ReplaceSubscribersFunc: func(ctx context.Context, name string, subscribers []domain.Subscriber) (domain.QueueInfo, error) {
			return domain.QueueInfo{}, domain.NewTypeError(name, "pull queues have no subscribers")
		},
	}

	handler := NewQueueHandler(mockSvc)
	router, w := setupGinTest()
	router.PUT("/queues/:name/subscribers", handler.ReplaceSubscribers)

	body := `{"subscribers":[{"name":"billing","url":"http://localhost/hook"}]}`
	req := httptest.NewRequest(http.MethodPut, "/queues/orders/subscribers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueueHandler_DeleteSubscribers(t *testing.T) {
	tests := []struct {
		name   string
		ok     bool
		status int
	}{
		{"removed", true, http.StatusOK},
		{"would leave no subscribers", false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			mockSvc := &MockQueueService{
				DeleteSubscribersFunc: func(ctx context.Context, name string, targets []string) (bool, error) {
					got = targets
					return tt.ok, nil
				},
			}

			handler := NewQueueHandler(mockSvc)
			router, w := setupGinTest()
			router.DELETE("/queues/:name/subscribers", handler.DeleteSubscribers)

			req := httptest.NewRequest(http.MethodDelete, "/queues/orders/subscribers", strings.NewReader(`{"subscribers":[{"name":"billing"}]}`))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, []string{"billing"}, got)
		})
	}
}
