package infrastructure

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"wagerbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotStore struct {
	mu       sync.Mutex
	saved    [][]byte
	failures int
}

func (s *fakeSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return nil, errors.New("empty")
	}
	return s.saved[len(s.saved)-1], nil
}

func (s *fakeSnapshotStore) Save(ctx context.Context, document []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("store unavailable")
	}
	s.saved = append(s.saved, document)
	return nil
}

func (s *fakeSnapshotStore) Backend() string {
	return "fake"
}

func (s *fakeSnapshotStore) savedDocuments() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := make([]string, len(s.saved))
	for i, d := range s.saved {
		docs[i] = string(d)
	}
	return docs
}

func TestSnapshotWriter_KeepsOnlyLatestPending(t *testing.T) {
	t.Parallel()

	store := &fakeSnapshotStore{}
	writer := NewSnapshotWriter(store, time.Hour, nil)

	writer.Submit([]byte("first"))
	writer.Submit([]byte("second"))
	writer.Submit([]byte("third"))
	require.True(t, writer.Pending())

	require.NoError(t, writer.Flush(context.Background()))
	assert.Equal(t, []string{"third"}, store.savedDocuments())
	assert.False(t, writer.Pending())

	// Nothing pending is a no-op
	require.NoError(t, writer.Flush(context.Background()))
	assert.Len(t, store.savedDocuments(), 1)
}

func TestSnapshotWriter_RetriesFailedWrite(t *testing.T) {
	t.Parallel()

	store := &fakeSnapshotStore{failures: 2}
	writer := NewSnapshotWriter(store, time.Hour, nil)
	ctx := context.Background()

	writer.Submit([]byte("doc"))
	assert.Error(t, writer.Flush(ctx))
	assert.True(t, writer.Pending(), "failed document must stay pending")
	assert.Error(t, writer.Flush(ctx))

	require.NoError(t, writer.Flush(ctx))
	assert.Equal(t, []string{"doc"}, store.savedDocuments())
}

func TestSnapshotWriter_NewerDocumentReplacesFailedOne(t *testing.T) {
	t.Parallel()

	store := &fakeSnapshotStore{failures: 1}
	writer := NewSnapshotWriter(store, time.Hour, nil)
	ctx := context.Background()

	writer.Submit([]byte("old"))
	require.Error(t, writer.Flush(ctx))

	writer.Submit([]byte("new"))
	require.NoError(t, writer.Flush(ctx))
	assert.Equal(t, []string{"new"}, store.savedDocuments())
}

func TestSnapshotWriter_BackgroundFlushAndFinalFlush(t *testing.T) {
	t.Parallel()

	store := &fakeSnapshotStore{}
	writer := NewSnapshotWriter(store, 10*time.Millisecond, nil)
	stop := writer.Start(context.Background())

	writer.Submit([]byte("background"))
	assert.Eventually(t, func() bool {
		docs := store.savedDocuments()
		return len(docs) > 0 && docs[len(docs)-1] == "background"
	}, time.Second, 5*time.Millisecond)

	writer.Submit([]byte("last"))
	stop()

	docs := store.savedDocuments()
	require.NotEmpty(t, docs)
	assert.Equal(t, "last", docs[len(docs)-1])
	assert.False(t, writer.Pending())

	// Stopping twice is safe
	stop()
}

func TestSnapshotWriter_RetryTickerRecoversFromOutage(t *testing.T) {
	t.Parallel()

	store := &fakeSnapshotStore{failures: 3}
	writer := NewSnapshotWriter(store, 5*time.Millisecond, nil)
	stop := writer.Start(context.Background())
	defer stop()

	writer.Submit([]byte("eventually"))
	assert.Eventually(t, func() bool {
		return len(store.savedDocuments()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSnapshotWriter_RecordsFlushMetrics(t *testing.T) {
	t.Parallel()

	store := &fakeSnapshotStore{failures: 1}
	metrics := &testhelpers.MockMetricsRecorder{}
	failed := mock.MatchedBy(func(err error) bool { return err != nil })
	succeeded := mock.MatchedBy(func(err error) bool { return err == nil })
	metrics.On("RecordSnapshotFlush", mock.Anything, "fake", 5, failed, mock.Anything).Once()
	metrics.On("RecordSnapshotFlush", mock.Anything, "fake", 5, succeeded, mock.Anything).Once()

	writer := NewSnapshotWriter(store, time.Hour, metrics)
	writer.Submit([]byte("12345"))
	require.Error(t, writer.Flush(context.Background()))
	require.NoError(t, writer.Flush(context.Background()))

	metrics.AssertExpectations(t)
}
