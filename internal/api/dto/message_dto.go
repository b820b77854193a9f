package dto

import "github.com/RustMQ/rusted-iron/internal/domain"

// MessageInput is one message of an enqueue request
type MessageInput struct {
	Body  string `json:"body" binding:"required" example:"hello"`
	Delay int    `json:"delay" binding:"min=0"`
}

// EnqueueRequest is the body of a batch enqueue
type EnqueueRequest struct {
	Messages []MessageInput `json:"messages" binding:"required,min=1,dive"`
}

// EnqueueResponse lists the ids of the stored messages
type EnqueueResponse struct {
	IDs []string `json:"ids"`
	Msg string   `json:"msg" example:"Messages put on queue."`
}

// ReserveRequest is the optional body of a reservation request
type ReserveRequest struct {
	N      int  `json:"n" example:"1"`
	Delete bool `json:"delete"`
}

// ReservationRequest presents a reservation token
type ReservationRequest struct {
	ReservationID string `json:"reservation_id" binding:"required" example:"cq1n7mhr0s4b0m9h3ol0"`
}

// TouchResponse carries the renewed reservation token
type TouchResponse struct {
	ReservationID string `json:"reservation_id" example:"cq1n7ntr0s4b0m9h3olg"`
	Msg           string `json:"msg" example:"Touched"`
}

// MessageID references a message by id
type MessageID struct {
	ID string `json:"id" binding:"required"`
}

// DeleteMessagesRequest lists messages to delete. An empty body clears the queue.
type DeleteMessagesRequest struct {
	IDs []MessageID `json:"ids" binding:"required,min=1,dive"`
}

// MessageListResponse wraps a list of messages
type MessageListResponse struct {
	Messages []domain.Message `json:"messages"`
}

// PushStatusListResponse lists the delivery status per subscriber
type PushStatusListResponse struct {
	Subscribers []domain.PushStatus `json:"subscribers"`
}
