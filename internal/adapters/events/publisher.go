package events

import (
	"context"
	"log/slog"
	"sync"
)

// LoggingPublisher is the default sink when no broker is configured.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	p.logger.InfoContext(ctx, "event published",
		"module", "events.publisher",
		"layer", "adapter",
		"operation", "publish",
		"outcome", "success",
		"event_type", eventType,
		"partition_key", partitionKey,
		"payload_bytes", len(payload),
	)
	return nil
}

// MemoryPublisher collects published events for inspection in tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

type PublishedEvent struct {
	EventType    string
	PartitionKey string
	Payload      []byte
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(_ context.Context, eventType string, payload []byte, partitionKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{EventType: eventType, PartitionKey: partitionKey, Payload: payload})
	return nil
}
