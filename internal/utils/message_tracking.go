package utils

import (
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// MessageTracker remembers which Kafka message produced each buffered item so
// offsets are committed only after the item has been handed on.
type MessageTracker struct {
	messages sync.Map
}

func NewMessageTracker() *MessageTracker {
	return &MessageTracker{}
}

func (t *MessageTracker) Track(key string, msg *kafka.Message) {
	t.messages.Store(key, msg)
}

// Release returns the distinct messages behind keys, in first-seen order, and
// forgets them.
func (t *MessageTracker) Release(keys ...string) []*kafka.Message {
	seen := make(map[*kafka.Message]struct{}, len(keys))
	msgs := make([]*kafka.Message, 0, len(keys))

	for _, key := range keys {
		v, ok := t.messages.LoadAndDelete(key)
		if !ok {
			continue
		}
		msg := v.(*kafka.Message)
		if _, dup := seen[msg]; dup {
			continue
		}
		seen[msg] = struct{}{}
		msgs = append(msgs, msg)
	}
	return msgs
}
