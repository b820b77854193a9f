package domain

// QueuePatch is a partial queue configuration. A nil field is absent and
// leaves the stored value untouched.
type QueuePatch struct {
	ProjectID         *string    `json:"project_id,omitempty"`
	MessageTimeout    *int       `json:"message_timeout,omitempty"`
	MessageExpiration *int       `json:"message_expiration,omitempty"`
	Type              *QueueType `json:"type,omitempty"`
	Push              *PushPatch `json:"push,omitempty"`
	Alerts            *[]Alert   `json:"alerts,omitempty"`
}

// PushPatch is a partial push configuration.
// A nil Subscribers slice is absent; subscribers present are merged by name.
type PushPatch struct {
	Retries      *int         `json:"retries,omitempty"`
	RetriesDelay *int         `json:"retries_delay,omitempty"`
	Subscribers  []Subscriber `json:"subscribers,omitempty"`
	ErrorQueue   *string      `json:"error_queue,omitempty"`
}

// Apply merges the present fields of p into a copy of q. The queue type is
// immutable: changing it, or adding push settings to a pull queue, is a TypeError.
func (p QueuePatch) Apply(q QueueInfo) (QueueInfo, error) {
	out := q.Clone()

	if p.Type != nil && *p.Type != q.Type {
		return q, NewTypeError(q.Name, "queue type cannot be changed")
	}
	if p.Push != nil && !q.Type.IsPush() {
		return q, NewTypeError(q.Name, "cannot add a push configuration to a pull queue")
	}

	if p.ProjectID != nil {
		out.ProjectID = *p.ProjectID
	}
	if p.MessageTimeout != nil {
		out.MessageTimeout = *p.MessageTimeout
	}
	if p.MessageExpiration != nil {
		out.MessageExpiration = *p.MessageExpiration
	}
	if p.Alerts != nil {
		out.Alerts = append([]Alert(nil), (*p.Alerts)...)
	}

	if p.Push != nil {
		if out.Push == nil {
			out.Push = &PushConfig{}
		}
		if p.Push.Retries != nil {
			out.Push.Retries = *p.Push.Retries
		}
		if p.Push.RetriesDelay != nil {
			out.Push.RetriesDelay = *p.Push.RetriesDelay
		}
		if p.Push.ErrorQueue != nil {
			out.Push.ErrorQueue = *p.Push.ErrorQueue
		}
		if p.Push.Subscribers != nil {
			out.Push.Subscribers = MergeSubscribers(out.Push.Subscribers, p.Push.Subscribers)
		}
	}

	return out, nil
}

// ErrorQueueName returns the error queue named by the patch, if any
func (p QueuePatch) ErrorQueueName() string {
	if p.Push == nil || p.Push.ErrorQueue == nil {
		return ""
	}
	return *p.Push.ErrorQueue
}
