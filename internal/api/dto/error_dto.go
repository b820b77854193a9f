package dto

import (
	"errors"
	"net/http"
	"time"

	"github.com/RustMQ/rusted-iron/internal/domain"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error     string    `json:"error" example:"Queue not found"`
	Message   string    `json:"message" example:"queue orders: queue not found"`
	Timestamp time.Time `json:"timestamp" example:"2025-01-18T12:34:56Z"`
}

// NewErrorResponse builds an error response stamped with the current time
func NewErrorResponse(title, message string) ErrorResponse {
	return ErrorResponse{
		Error:     title,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// StatusFor maps an engine error to an HTTP status code and a short title
func StatusFor(err error) (int, string) {
	var cfgErr *domain.ConfigurationError

	switch {
	case errors.Is(err, domain.ErrQueueNotFound):
		return http.StatusNotFound, "Queue not found"
	case errors.Is(err, domain.ErrMessageNotFound):
		return http.StatusNotFound, "Message not found"
	case errors.Is(err, domain.ErrReservationMismatch):
		return http.StatusNotFound, "Reservation not found"
	case errors.Is(err, domain.ErrQueueExists):
		return http.StatusConflict, "Queue already exists"
	case errors.As(err, &cfgErr):
		switch cfgErr.Kind {
		case domain.KindTypeError:
			return http.StatusBadRequest, "Invalid queue type"
		case domain.KindSubscriberError:
			return http.StatusBadRequest, "Invalid subscribers"
		default:
			return http.StatusBadRequest, "Invalid queue configuration"
		}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, domain.ErrStoreConflict):
		return http.StatusServiceUnavailable, "Store busy"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}
