package store

import (
	"net/url"
	"strings"
)

// Global keys
const (
	QueuesKey   = "queues"
	ProjectsKey = "projects"

	// SweeperLockKey elects the one process that sweeps expired leases
	SweeperLockKey = "sweeper:lock"
)

// ChannelPattern matches the broadcast channel of every queue
const ChannelPattern = "queue:*:msg:channel"

// Fields of the queue configuration hash
const (
	FieldName          = "name"
	FieldValue         = "value"
	FieldCreatedAt     = "created_at"
	FieldSize          = "size"
	FieldTotalMessages = "total_messages"
)

// Fields of a message hash
const (
	FieldID            = "id"
	FieldBody          = "body"
	FieldDelay         = "delay"
	FieldSourceMsgID   = "source_msg_id"
	FieldReservationID = "reservation_id"
	FieldReservedCount = "reserved_count"
	FieldReservedAt    = "reserved_at"
)

// QueueKey is the configuration hash of a queue
func QueueKey(queue string) string {
	return "queue:" + queue
}

// QueuePattern matches every key owned by a queue except its configuration hash
func QueuePattern(queue string) string {
	return "queue:" + queue + ":*"
}

// CounterKey is the per-queue sequence counter used as sorted set score
func CounterKey(queue string) string {
	return "queue:" + queue + ":msg:counter"
}

// UnreservedKey is the sorted set of messages available for reservation
func UnreservedKey(queue string) string {
	return "queue:" + queue + ":unreserved:msg"
}

// ReservedKey is the sorted set of messages under a reservation
func ReservedKey(queue string) string {
	return "queue:" + queue + ":reserved:msg"
}

// MessageKey is the hash holding one message
func MessageKey(queue, id string) string {
	return "queue:" + queue + ":msg:" + id
}

// MessagesPattern matches message hashes, delivery hashes and the counter of a queue
func MessagesPattern(queue string) string {
	return "queue:" + queue + ":msg:*"
}

// ChannelKey is the broadcast channel of a push queue
func ChannelKey(queue string) string {
	return "queue:" + queue + ":msg:channel"
}

// DeliverySeparator sits between a message key and the subscriber part of a delivery key
const DeliverySeparator = ":delivery:"

// DeliveryKey is the status hash of one message for one subscriber
func DeliveryKey(queue, id, subscriberURL string) string {
	return MessageKey(queue, id) + DeliverySeparator + url.QueryEscape(subscriberURL)
}

// DeliveryPattern matches every status hash of a message
func DeliveryPattern(queue, id string) string {
	return MessageKey(queue, id) + DeliverySeparator + "*"
}

// QueueFromChannel extracts the queue name from a broadcast channel name
func QueueFromChannel(channel string) (string, bool) {
	const prefix, suffix = "queue:", ":msg:channel"
	if !strings.HasPrefix(channel, prefix) || !strings.HasSuffix(channel, suffix) {
		return "", false
	}
	name := strings.TrimSuffix(strings.TrimPrefix(channel, prefix), suffix)
	return name, name != ""
}
