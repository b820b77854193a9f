package domain

// MessageState is informational. Set membership in the store is authoritative.
type MessageState string

const (
	MessageStateUnreserved MessageState = "unreserved"
	MessageStateReserved   MessageState = "reserved"
)

// Message is a queued payload
type Message struct {
	ID            string       `json:"id" example:"6f0c2a52-3f0e-4d8a-9d4c-1f5b5a8a2e11"`
	Body          string       `json:"body" example:"hello"`
	Delay         int          `json:"delay,omitempty"`
	ReservationID string       `json:"reservation_id,omitempty" example:"cq1n7mhr0s4b0m9h3ol0"`
	ReservedCount int          `json:"reserved_count"`
	SourceMsgID   string       `json:"source_msg_id,omitempty"`
	State         MessageState `json:"state,omitempty"`
}

// PushEvent is broadcast on a push queue's channel after a message is stored
type PushEvent struct {
	QueueInfo QueueInfo `json:"queue_info"`
	Msg       Message   `json:"msg"`
}

// PushStatus is the latest delivery outcome of a message for one subscriber
type PushStatus struct {
	SubscriberName   string `json:"subscriber_name" example:"billing"`
	RetriesRemaining int    `json:"retries_remaining" example:"2"`
	Tries            int    `json:"tries" example:"1"`
	StatusCode       int    `json:"status_code" example:"200"`
	URL              string `json:"url" example:"https://example.com/hooks/billing"`
	Msg              string `json:"msg" example:"hello"`
}

// Succeeded reports whether the recorded status code is a 2xx
func (s PushStatus) Succeeded() bool {
	return s.StatusCode >= 200 && s.StatusCode < 300
}
