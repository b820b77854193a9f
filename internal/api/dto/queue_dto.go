package dto

import "github.com/RustMQ/rusted-iron/internal/domain"

// QueueRequest is the body of a queue create request
type QueueRequest struct {
	Queue domain.QueueInfo `json:"queue"`
}

// QueuePatchRequest is the body of a queue patch request
type QueuePatchRequest struct {
	Queue domain.QueuePatch `json:"queue"`
}

// QueueResponse wraps a single queue
type QueueResponse struct {
	Queue domain.QueueInfo `json:"queue"`
}

// QueueListResponse lists queue names
type QueueListResponse struct {
	Queues []domain.QueueLite `json:"queues"`
}

// SubscribersRequest carries subscribers to add, replace or remove.
// Removal only looks at the names.
type SubscribersRequest struct {
	Subscribers []domain.Subscriber `json:"subscribers" binding:"required,min=1"`
}

// Names returns the subscriber names of the request
func (r SubscribersRequest) Names() []string {
	names := make([]string, 0, len(r.Subscribers))
	for _, s := range r.Subscribers {
		names = append(names, s.Name)
	}
	return names
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Msg string `json:"msg" example:"Deleted"`
}
