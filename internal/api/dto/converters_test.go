package dto

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/RustMQ/rusted-iron/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestToMessages(t *testing.T) {
	msgs := ToMessages([]MessageInput{{Body: "a"}, {Body: "b", Delay: 3}})

	assert.Equal(t, []domain.Message{{Body: "a"}, {Body: "b", Delay: 3}}, msgs)
}

func TestToIDs(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, ToIDs([]MessageID{{ID: "1"}, {ID: "2"}}))
	assert.Empty(t, ToIDs(nil))
}

func TestListResponses_NeverNull(t *testing.T) {
	assert.NotNil(t, ToMessageListResponse(nil).Messages)
	assert.NotNil(t, ToQueueListResponse(nil).Queues)
	assert.NotNil(t, ToPushStatusListResponse(nil).Subscribers)
}

func TestSubscribersRequest_Names(t *testing.T) {
	req := SubscribersRequest{Subscribers: []domain.Subscriber{{Name: "a"}, {Name: "b"}}}

	assert.Equal(t, []string{"a", "b"}, req.Names())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"queue not found", fmt.Errorf("x: %w", domain.ErrQueueNotFound), http.StatusNotFound},
		{"message not found", domain.ErrMessageNotFound, http.StatusNotFound},
		{"reservation mismatch", domain.ErrReservationMismatch, http.StatusNotFound},
		{"queue exists", domain.ErrQueueExists, http.StatusConflict},
		{"type error", domain.NewTypeError("q", "bad"), http.StatusBadRequest},
		{"subscriber error", domain.NewSubscriberError("q", "none"), http.StatusBadRequest},
		{"invalid", &domain.ConfigurationError{Kind: domain.KindInvalid}, http.StatusBadRequest},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest},
		{"store conflict", domain.ErrStoreConflict, http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, title := StatusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, title)
		})
	}
}
