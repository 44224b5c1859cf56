package ports

import (
	"context"
	"time"
)

// OutboxEvent is a fully-formed domain event awaiting publication.
type OutboxEvent struct {
	EventID          string
	EventType        string
	PartitionKey     string
	PartitionKeyPath string
	Payload          []byte
	SchemaVersion    string
	TraceID          string
	OccurredAt       time.Time
}

type OutboxRecord struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	FirstSeenAt  time.Time
}

// OutboxRepository persists events in the same store as the mutation that
// produced them, so publication can never invent or lose a domain fact.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID string, errMsg string, at time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
