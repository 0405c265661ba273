package messaging

import (
	"context"
	"encoding/json"

	"github.com/Castore1977/project-track/domain/events"
	"github.com/Castore1977/project-track/pkg/observability"

	"go.uber.org/zap"
)

// LogPublisher delivers domain events in-process: each event is written to
// the structured log and counted in metrics.
type LogPublisher struct {
	logger  *zap.Logger
	metrics *observability.Collector
	source  string
}

// NewLogPublisher creates a new log publisher
func NewLogPublisher(logger *zap.Logger, metrics *observability.Collector) *LogPublisher {
	return &LogPublisher{
		logger:  logger,
		metrics: metrics,
		source:  "project-track.catalog",
	}
}

// Publish sends a single event
func (p *LogPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch sends multiple events in order
func (p *LogPublisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for _, event := range domainEvents {
		if err := ctx.Err(); err != nil {
			return err
		}

		detail, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("Failed to marshal event",
				zap.Error(err),
				zap.String("eventType", event.GetEventType()),
			)
			continue
		}

		p.logger.Info("Domain event",
			zap.String("source", p.source),
			zap.String("eventType", event.GetEventType()),
			zap.String("aggregateID", event.GetAggregateID()),
			zap.Time("timestamp", event.GetTimestamp()),
			zap.ByteString("detail", detail),
		)
		p.metrics.RecordEvent(event.GetEventType())
	}
	return nil
}
