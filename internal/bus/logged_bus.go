package bus

import (
	"context"

	"github.com/ricesearch/rank-eval/internal/pkg/logger"
)

// LoggedBus wraps another Bus implementation and logs message traffic.
type LoggedBus struct {
	inner Bus
	log   *logger.Logger
}

// NewLoggedBus creates a new logged bus that wraps an inner bus.
func NewLoggedBus(inner Bus, log *logger.Logger) *LoggedBus {
	if log == nil {
		log = logger.Default()
	}
	return &LoggedBus{
		inner: inner,
		log:   log.WithComponent("bus"),
	}
}

// Publish delegates to the inner bus and logs the outcome.
func (b *LoggedBus) Publish(ctx context.Context, topic string, msg Message) error {
	err := b.inner.Publish(ctx, topic, msg)
	if err != nil {
		b.log.Warn("publish failed",
			"topic", topic,
			"key", msg.Key,
			"error", err.Error(),
		)
		return err
	}

	b.log.Debug("published",
		"topic", topic,
		"key", msg.Key,
		"bytes", len(msg.Value),
	)
	return nil
}

// Subscribe wraps handler so received messages and handler failures are logged.
func (b *LoggedBus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	return b.inner.Subscribe(ctx, topic, func(ctx context.Context, msg Message) error {
		b.log.Debug("received", "topic", topic, "key", msg.Key, "bytes", len(msg.Value))
		return handler(ctx, msg)
	})
}

// Close closes the inner bus.
func (b *LoggedBus) Close() error {
	return b.inner.Close()
}
