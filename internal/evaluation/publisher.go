package evaluation

import (
	"context"
	"fmt"

	"github.com/ricesearch/rank-eval/internal/bus"
	"github.com/ricesearch/rank-eval/internal/pkg/logger"
	"github.com/ricesearch/rank-eval/internal/rankeval"
)

// ContentType identifies the binary result encoding on the bus.
const ContentType = "application/x-rankeval-result"

// Publisher sends encoded evaluation results to a bus topic.
type Publisher struct {
	bus   bus.Bus
	topic string
	log   *logger.Logger
}

// NewPublisher creates a publisher for topic. An empty topic uses
// bus.TopicResults.
func NewPublisher(b bus.Bus, topic string, log *logger.Logger) *Publisher {
	if topic == "" {
		topic = bus.TopicResults
	}
	if log == nil {
		log = logger.Default()
	}
	return &Publisher{
		bus:   b,
		topic: topic,
		log:   log.WithComponent("publisher"),
	}
}

// Publish encodes result and publishes it keyed by its id.
func (p *Publisher) Publish(ctx context.Context, result *rankeval.EvaluationResult) error {
	data, err := result.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	headers := map[string]string{bus.HeaderContentType: ContentType}
	if name := result.Breakdown().Name(); name != "" {
		headers[bus.HeaderMetric] = name
	}

	return p.bus.Publish(ctx, p.topic, bus.Message{
		Key:     result.ID(),
		Value:   data,
		Headers: headers,
	})
}

// PublishAll publishes results in order, stopping at the first failure.
func (p *Publisher) PublishAll(ctx context.Context, results []*rankeval.EvaluationResult) error {
	for _, r := range results {
		if err := p.Publish(ctx, r); err != nil {
			return fmt.Errorf("publishing %s: %w", r.ID(), err)
		}
	}
	p.log.Debug("results published", "topic", p.topic, "count", len(results))
	return nil
}

// ResultHandler receives decoded results from SubscribeResults.
type ResultHandler func(ctx context.Context, result *rankeval.EvaluationResult) error

// SubscribeResults decodes result messages on topic with reg and passes them
// to handler. Messages with another content type are ignored; messages that
// fail to decode are reported as handler errors.
func SubscribeResults(ctx context.Context, b bus.Bus, topic string, reg *rankeval.Registry, handler ResultHandler) error {
	if topic == "" {
		topic = bus.TopicResults
	}
	return b.Subscribe(ctx, topic, func(ctx context.Context, msg bus.Message) error {
		if ct, ok := msg.Headers[bus.HeaderContentType]; ok && ct != ContentType {
			return nil
		}

		result, err := rankeval.DecodeEvaluationResult(msg.Value, reg)
		if err != nil {
			return fmt.Errorf("decoding result %s: %w", msg.Key, err)
		}
		return handler(ctx, result)
	})
}
