package infrastructure

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wagerbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// SnapshotWriter persists submitted documents on a single goroutine. Only
// the newest pending document is kept; a failed write is retried on every
// flush interval until it succeeds or a newer document replaces it.
type SnapshotWriter struct {
	store    interfaces.SnapshotStore
	metrics  interfaces.MetricsRecorder
	interval time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	pending []byte

	notify  chan struct{}
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewSnapshotWriter creates a writer. interval bounds how long a committed
// document can remain unwritten while the store is failing.
func NewSnapshotWriter(store interfaces.SnapshotStore, interval time.Duration, metrics interfaces.MetricsRecorder) *SnapshotWriter {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &SnapshotWriter{
		store:    store,
		metrics:  metrics,
		interval: interval,
		timeout:  10 * time.Second,
		notify:   make(chan struct{}, 1),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Submit replaces the pending document and wakes the writer
func (w *SnapshotWriter) Submit(document []byte) {
	w.mu.Lock()
	w.pending = document
	w.mu.Unlock()

	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// Start launches the writer goroutine and returns a function that stops it
// after a final flush
func (w *SnapshotWriter) Start(ctx context.Context) func() {
	go func() {
		defer close(w.stopped)
		log.WithFields(log.Fields{
			"backend":  w.store.Backend(),
			"interval": w.interval,
		}).Info("Snapshot writer started")

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				w.finalFlush()
				return
			case <-w.stop:
				w.finalFlush()
				return
			case <-w.notify:
				w.flushPending(ctx)
			case <-ticker.C:
				w.flushPending(ctx)
			}
		}
	}()

	return func() {
		w.once.Do(func() { close(w.stop) })
		<-w.stopped
	}
}

// Flush writes the pending document synchronously
func (w *SnapshotWriter) Flush(ctx context.Context) error {
	return w.flushPending(ctx)
}

// Pending reports whether a document is waiting to be written
func (w *SnapshotWriter) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending != nil
}

func (w *SnapshotWriter) finalFlush() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.flushPending(ctx); err != nil {
		log.WithError(err).Error("Final snapshot flush failed")
		return
	}
	log.Info("Snapshot writer stopped")
}

func (w *SnapshotWriter) flushPending(ctx context.Context) error {
	w.mu.Lock()
	document := w.pending
	w.pending = nil
	w.mu.Unlock()

	if document == nil {
		return nil
	}

	saveCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	err := w.store.Save(saveCtx, document)
	if w.metrics != nil {
		w.metrics.RecordSnapshotFlush(ctx, w.store.Backend(), len(document), err, time.Since(start))
	}

	if err != nil {
		w.mu.Lock()
		if w.pending == nil {
			w.pending = document
		}
		w.mu.Unlock()

		log.WithFields(log.Fields{
			"backend": w.store.Backend(),
			"bytes":   len(document),
			"error":   err,
		}).Error("Failed to write snapshot, will retry")
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	log.WithFields(log.Fields{
		"backend": w.store.Backend(),
		"bytes":   len(document),
	}).Debug("Snapshot written")
	return nil
}
