package mq

import (
	"strconv"

	"github.com/RustMQ/rusted-iron/internal/domain"
	"github.com/RustMQ/rusted-iron/internal/store"
)

// encodeMessage flattens a new message into hash field/value pairs
func encodeMessage(m domain.Message) []any {
	return []any{
		store.FieldID, m.ID,
		store.FieldBody, m.Body,
		store.FieldDelay, m.Delay,
		store.FieldSourceMsgID, m.SourceMsgID,
		store.FieldReservedCount, m.ReservedCount,
	}
}

// decodeMessage rebuilds a message from its hash. It reports false when the
// hash is empty, which means the message no longer exists.
func decodeMessage(fields map[string]string) (domain.Message, bool) {
	if len(fields) == 0 || fields[store.FieldID] == "" {
		return domain.Message{}, false
	}

	m := domain.Message{
		ID:            fields[store.FieldID],
		Body:          fields[store.FieldBody],
		SourceMsgID:   fields[store.FieldSourceMsgID],
		ReservationID: fields[store.FieldReservationID],
		State:         domain.MessageStateUnreserved,
	}
	if v, err := strconv.Atoi(fields[store.FieldDelay]); err == nil {
		m.Delay = v
	}
	if v, err := strconv.Atoi(fields[store.FieldReservedCount]); err == nil {
		m.ReservedCount = v
	}
	if m.ReservationID != "" {
		m.State = domain.MessageStateReserved
	}
	return m, true
}
