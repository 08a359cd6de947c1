package interfaces

import (
	"context"
	"time"

	"wagerbot/domain/events"
)

// SnapshotStore persists the engine's single state document
type SnapshotStore interface {
	// Load returns the last saved document, or entities.ErrSnapshotNotFound
	// when nothing has been saved yet
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored document
	Save(ctx context.Context, document []byte) error

	// Backend names the storage backend for logs and metrics
	Backend() string
}

// SnapshotSink accepts encoded documents for asynchronous persistence
type SnapshotSink interface {
	// Submit queues a document; only the latest queued document is written
	Submit(document []byte)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// RandomSource supplies uniform random integers
type RandomSource interface {
	// Intn returns a uniform integer in [0, n)
	Intn(n int) int
}

// MetricsRecorder receives engine measurements
type MetricsRecorder interface {
	RecordOperation(ctx context.Context, operation string, err error, duration time.Duration)
	RecordPointsMoved(ctx context.Context, transactionType string, amount int64)
	RecordSnapshotFlush(ctx context.Context, backend string, bytes int, err error, duration time.Duration)
}
