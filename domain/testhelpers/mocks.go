package testhelpers

import (
	"context"
	"sync"
	"time"

	"wagerbot/domain/entities"
	"wagerbot/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockSnapshotStore is a mock implementation of SnapshotStore
type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSnapshotStore) Save(ctx context.Context, document []byte) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockSnapshotStore) Backend() string {
	return "mock"
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockMetricsRecorder is a mock implementation of MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) RecordOperation(ctx context.Context, operation string, err error, duration time.Duration) {
	m.Called(ctx, operation, err, duration)
}

func (m *MockMetricsRecorder) RecordPointsMoved(ctx context.Context, transactionType string, amount int64) {
	m.Called(ctx, transactionType, amount)
}

func (m *MockMetricsRecorder) RecordSnapshotFlush(ctx context.Context, backend string, bytes int, err error, duration time.Duration) {
	m.Called(ctx, backend, bytes, err, duration)
}

// RecordingSink keeps every submitted document
type RecordingSink struct {
	mu        sync.Mutex
	documents [][]byte
}

func (s *RecordingSink) Submit(document []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, document)
}

// Count returns how many documents were submitted
func (s *RecordingSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.documents)
}

// Last returns the most recent document or nil
func (s *RecordingSink) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.documents) == 0 {
		return nil
	}
	return s.documents[len(s.documents)-1]
}

// RecordingPublisher keeps every published event
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *RecordingPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// OfType returns the published events of one type
func (p *RecordingPublisher) OfType(eventType events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var matched []events.Event
	for _, e := range p.events {
		if e.Type() == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

// FakeClock is a settable clock
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a clock frozen at now
func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// ScriptedRandom returns queued values from Intn, then zeros
type ScriptedRandom struct {
	mu     sync.Mutex
	values []int
}

// NewScriptedRandom creates a source that replays values
func NewScriptedRandom(values ...int) *ScriptedRandom {
	return &ScriptedRandom{values: values}
}

// Push appends values to the script
func (r *ScriptedRandom) Push(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, values...)
}

func (r *ScriptedRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	if n <= 0 {
		return 0
	}
	return v % n
}

// PickScript returns the Intn values that make a partial Fisher-Yates over
// [lo, hi] select picks in order
func PickScript(picks []int, lo, hi int) []int {
	pool := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		pool = append(pool, n)
	}
	script := make([]int, 0, len(picks))
	for i, want := range picks {
		for j := i; j < len(pool); j++ {
			if pool[j] == want {
				script = append(script, j-i)
				pool[i], pool[j] = pool[j], pool[i]
				break
			}
		}
	}
	return script
}

// TicketScript returns the Intn values that generate a ticket or winning
// combination with the given numbers and bonus
func TicketScript(numbers []int, bonus int) []int {
	script := PickScript(numbers, entities.LotteryMainMin, entities.LotteryMainMax)
	return append(script, bonus-entities.LotteryBonusMin)
}
