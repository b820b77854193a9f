package dto

import (
	"github.com/RustMQ/rusted-iron/internal/domain"
)

// ToMessages converts enqueue inputs to domain messages
func ToMessages(inputs []MessageInput) []domain.Message {
	msgs := make([]domain.Message, 0, len(inputs))
	for _, in := range inputs {
		msgs = append(msgs, domain.Message{
			Body:  in.Body,
			Delay: in.Delay,
		})
	}
	return msgs
}

// ToIDs extracts the ids of a delete request
func ToIDs(refs []MessageID) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}

// ToMessageListResponse wraps messages, never returning a null list
func ToMessageListResponse(msgs []domain.Message) MessageListResponse {
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return MessageListResponse{Messages: msgs}
}

// ToQueueListResponse wraps queues, never returning a null list
func ToQueueListResponse(queues []domain.QueueLite) QueueListResponse {
	if queues == nil {
		queues = []domain.QueueLite{}
	}
	return QueueListResponse{Queues: queues}
}

// ToPushStatusListResponse wraps statuses, never returning a null list
func ToPushStatusListResponse(statuses []domain.PushStatus) PushStatusListResponse {
	if statuses == nil {
		statuses = []domain.PushStatus{}
	}
	return PushStatusListResponse{Subscribers: statuses}
}
