package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError_Error(t *testing.T) {
	err := NewTypeError("orders", "queue type cannot be changed")
	assert.Equal(t, "type_error: queue orders: queue type cannot be changed", err.Error())

	err = &ConfigurationError{Kind: KindInvalid, Message: "bad"}
	assert.Equal(t, "invalid: bad", err.Error())
}

func TestConfigurationError_WrappedKinds(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", NewSubscriberError("hooks", "no subscribers"))

	assert.True(t, IsSubscriberError(wrapped))
	assert.False(t, IsTypeError(wrapped))
	assert.False(t, IsTypeError(errors.New("plain")))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("get: %w", ErrQueueNotFound)))
	assert.True(t, IsNotFound(ErrMessageNotFound))
	assert.False(t, IsNotFound(ErrReservationMismatch))
}
