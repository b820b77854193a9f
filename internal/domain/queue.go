package domain

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// QueueType selects how messages leave a queue
type QueueType string

const (
	// QueueTypePull queues are drained by clients through reservations
	QueueTypePull QueueType = "pull"
	// QueueTypeUnicast queues push each message to the first subscriber that accepts it
	QueueTypeUnicast QueueType = "unicast"
	// QueueTypeMulticast queues push each message to every subscriber
	QueueTypeMulticast QueueType = "multicast"
)

// IsPush reports whether the queue type delivers messages to subscribers
func (t QueueType) IsPush() bool {
	return t == QueueTypeUnicast || t == QueueTypeMulticast
}

// Default values applied on queue creation (seconds / attempts)
const (
	DefaultMessageTimeout    = 60
	DefaultMessageExpiration = 604800
	DefaultPushRetries       = 3
	DefaultPushRetriesDelay  = 60
)

var queueNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// Subscriber is a webhook endpoint registered on a push queue.
// Name is the identity of the subscriber within its queue.
type Subscriber struct {
	Name    string            `json:"name" example:"billing"`
	URL     string            `json:"url" example:"https://example.com/hooks/billing"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Validate checks the subscriber fields
func (s Subscriber) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&s.URL, validation.Required, is.URL),
	)
}

// PushConfig holds delivery settings of a unicast or multicast queue
type PushConfig struct {
	// Retries is the number of delivery rounds per message
	Retries int `json:"retries" example:"3"`

	// RetriesDelay is the pause between rounds, in seconds
	RetriesDelay int `json:"retries_delay" example:"60"`

	Subscribers []Subscriber `json:"subscribers"`

	// ErrorQueue receives messages whose delivery rounds are exhausted
	ErrorQueue string `json:"error_queue,omitempty" example:"errors"`
}

// Validate checks the push configuration fields. The subscriber count rule
// is enforced separately by CheckInvariant.
func (p PushConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Retries, validation.Min(0)),
		validation.Field(&p.RetriesDelay, validation.Min(0)),
		validation.Field(&p.Subscribers),
		validation.Field(&p.ErrorQueue, validation.Match(queueNamePattern)),
	)
}

// Clone returns a deep copy of the push configuration
func (p *PushConfig) Clone() *PushConfig {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Subscribers = make([]Subscriber, len(p.Subscribers))
	for i, s := range p.Subscribers {
		cp.Subscribers[i] = s.clone()
	}
	return &cp
}

func (s Subscriber) clone() Subscriber {
	if s.Headers == nil {
		return s
	}
	headers := make(map[string]string, len(s.Headers))
	for k, v := range s.Headers {
		headers[k] = v
	}
	s.Headers = headers
	return s
}

// AlertType is the trigger style of a queue size alert
type AlertType string

const (
	AlertTypeFixed       AlertType = "fixed"
	AlertTypeProgressive AlertType = "progressive"
)

// AlertDirection tells whether an alert fires on growth or on shrink
type AlertDirection string

const (
	AlertDirectionAsc  AlertDirection = "asc"
	AlertDirectionDesc AlertDirection = "desc"
)

// Alert is a queue size alert. Alerts are stored with the queue but not evaluated.
type Alert struct {
	Type      AlertType      `json:"type" example:"fixed"`
	Trigger   int            `json:"trigger" example:"100"`
	Queue     string         `json:"queue" example:"size-alerts"`
	Snooze    int            `json:"snooze,omitempty"`
	Direction AlertDirection `json:"direction,omitempty" example:"asc"`
}

// Validate checks the alert fields
func (a Alert) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Type, validation.Required, validation.In(AlertTypeFixed, AlertTypeProgressive)),
		validation.Field(&a.Trigger, validation.Required, validation.Min(1)),
		validation.Field(&a.Queue, validation.Required, validation.Match(queueNamePattern)),
		validation.Field(&a.Snooze, validation.Min(0)),
		validation.Field(&a.Direction, validation.In(AlertDirectionAsc, AlertDirectionDesc)),
	)
}

// QueueInfo is the persisted configuration and counters of a queue
type QueueInfo struct {
	Name              string      `json:"name" example:"orders"`
	ProjectID         string      `json:"project_id,omitempty" example:"acme"`
	MessageTimeout    int         `json:"message_timeout" example:"60"`
	MessageExpiration int         `json:"message_expiration" example:"604800"`
	Type              QueueType   `json:"type,omitempty" example:"pull"`
	Size              int64       `json:"size"`
	TotalMessages     int64       `json:"total_messages"`
	Push              *PushConfig `json:"push,omitempty"`
	Alerts            []Alert     `json:"alerts,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
}

// QueueLite is the list view of a queue
type QueueLite struct {
	Name string `json:"name" example:"orders"`
}

// ApplyDefaults fills the timeouts and push retry settings left at zero
func (q *QueueInfo) ApplyDefaults() {
	if q.MessageTimeout == 0 {
		q.MessageTimeout = DefaultMessageTimeout
	}
	if q.MessageExpiration == 0 {
		q.MessageExpiration = DefaultMessageExpiration
	}
	if q.Push != nil {
		if q.Push.Retries == 0 {
			q.Push.Retries = DefaultPushRetries
		}
		if q.Push.RetriesDelay == 0 {
			q.Push.RetriesDelay = DefaultPushRetriesDelay
		}
	}
}

// Validate checks the field level constraints of the queue configuration
// and wraps any violation in a ConfigurationError.
func (q QueueInfo) Validate() error {
	err := validation.ValidateStruct(&q,
		validation.Field(&q.Name, validation.Required, validation.Length(1, 255), validation.Match(queueNamePattern)),
		validation.Field(&q.MessageTimeout, validation.Min(0)),
		validation.Field(&q.MessageExpiration, validation.Min(0)),
		validation.Field(&q.Push),
		validation.Field(&q.Alerts),
	)
	if err != nil {
		return &ConfigurationError{Kind: KindInvalid, Queue: q.Name, Message: err.Error(), Err: err}
	}
	return nil
}

// CheckInvariant enforces the type/subscriber rule: a pull queue carries no
// push configuration, a push queue carries at least one subscriber.
func (q QueueInfo) CheckInvariant() error {
	switch q.Type {
	case QueueTypePull:
		if q.Push != nil {
			return NewTypeError(q.Name, "pull queue cannot have a push configuration")
		}
	case QueueTypeUnicast, QueueTypeMulticast:
		if q.Push == nil || len(q.Push.Subscribers) == 0 {
			return NewSubscriberError(q.Name, "push queue must have at least one subscriber")
		}
	case "":
		return NewTypeError(q.Name, "queue type is required with a push configuration")
	default:
		return NewTypeError(q.Name, "unknown queue type "+string(q.Type))
	}
	return nil
}

// Clone returns a deep copy of the queue configuration
func (q QueueInfo) Clone() QueueInfo {
	cp := q
	cp.Push = q.Push.Clone()
	if q.Alerts != nil {
		cp.Alerts = append([]Alert(nil), q.Alerts...)
	}
	return cp
}

// MergeSubscribers merges additions into current by subscriber name.
// Existing entries keep their position, new names are appended, and the last
// addition wins when a name repeats.
func MergeSubscribers(current, additions []Subscriber) []Subscriber {
	merged := make([]Subscriber, 0, len(current)+len(additions))
	index := make(map[string]int, len(current)+len(additions))
	for _, s := range current {
		if i, ok := index[s.Name]; ok {
			merged[i] = s.clone()
			continue
		}
		index[s.Name] = len(merged)
		merged = append(merged, s.clone())
	}
	for _, s := range additions {
		if i, ok := index[s.Name]; ok {
			merged[i] = s.clone()
			continue
		}
		index[s.Name] = len(merged)
		merged = append(merged, s.clone())
	}
	return merged
}

// RemoveSubscribers returns current without the subscribers whose names appear in targets
func RemoveSubscribers(current []Subscriber, targets []string) []Subscriber {
	drop := make(map[string]struct{}, len(targets))
	for _, name := range targets {
		drop[name] = struct{}{}
	}
	kept := make([]Subscriber, 0, len(current))
	for _, s := range current {
		if _, ok := drop[s.Name]; ok {
			continue
		}
		kept = append(kept, s.clone())
	}
	return kept
}
