package domain

import (
	"errors"
	"fmt"
)

// Domain-level errors
var (
	ErrQueueNotFound       = errors.New("queue not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrQueueExists         = errors.New("queue already exists")
	ErrReservationMismatch = errors.New("reservation id does not match")
	ErrStoreConflict       = errors.New("store transaction conflict")
	ErrInvalidInput        = errors.New("invalid input")
)

// IsNotFound reports whether err means a queue or message is absent
func IsNotFound(err error) bool {
	return errors.Is(err, ErrQueueNotFound) || errors.Is(err, ErrMessageNotFound)
}

// ConfigErrorKind classifies a rejected queue configuration
type ConfigErrorKind string

const (
	KindTypeError       ConfigErrorKind = "type_error"
	KindSubscriberError ConfigErrorKind = "subscriber_error"
	KindInvalid         ConfigErrorKind = "invalid"
)

// ConfigurationError is returned when a queue configuration violates an invariant.
// It is reported to the caller and never corrected automatically.
type ConfigurationError struct {
	Kind    ConfigErrorKind
	Queue   string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Queue == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: queue %s: %s", e.Kind, e.Queue, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewTypeError builds a ConfigurationError for a missing or contradictory queue type
func NewTypeError(queue, message string) *ConfigurationError {
	return &ConfigurationError{Kind: KindTypeError, Queue: queue, Message: message}
}

// NewSubscriberError builds a ConfigurationError for a push queue without subscribers
func NewSubscriberError(queue, message string) *ConfigurationError {
	return &ConfigurationError{Kind: KindSubscriberError, Queue: queue, Message: message}
}

// IsTypeError reports whether err is a TypeError configuration error
func IsTypeError(err error) bool {
	return configKind(err) == KindTypeError
}

// IsSubscriberError reports whether err is a SubscriberError configuration error
func IsSubscriberError(err error) bool {
	return configKind(err) == KindSubscriberError
}

func configKind(err error) ConfigErrorKind {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
