// Package bus provides message bus implementations that carry encoded
// evaluation results between the evaluation pipeline and its consumers.
package bus

import (
	"context"
	"time"
)

// Handler is a function that handles messages.
type Handler func(ctx context.Context, msg Message) error

// Bus defines the interface for message bus implementations.
type Bus interface {
	// Publish publishes a message to a topic.
	Publish(ctx context.Context, topic string, msg Message) error

	// Subscribe subscribes to messages on a topic.
	Subscribe(ctx context.Context, topic string, handler Handler) error

	// Close closes the bus and releases resources.
	Close() error
}

// Message is an opaque payload with routing metadata. The bus never looks
// inside Value.
type Message struct {
	// Key is the partition key, usually the result id.
	Key string

	// Value is the encoded payload.
	Value []byte

	// Headers carry small string metadata such as the payload format.
	Headers map[string]string

	// Timestamp is when the message was created.
	Timestamp time.Time
}

// Topics.
const (
	TopicResults = "rankeval.results"
)

// Header names.
const (
	HeaderContentType = "content_type"
	HeaderMetric      = "metric"
)
