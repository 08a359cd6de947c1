package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"wagerbot/domain/entities"
	"wagerbot/domain/events"
	"wagerbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Ledger owns the engine state and is the single serialization point for
// every operation. Mutations run under the write lock, queries under the
// read lock, and neither ever blocks on I/O.
type Ledger struct {
	mu       sync.RWMutex
	state    *entities.State
	settings Settings

	now       func() time.Time
	random    interfaces.RandomSource
	sink      interfaces.SnapshotSink
	publisher interfaces.EventPublisher
	metrics   interfaces.MetricsRecorder
}

// LedgerOption configures a Ledger
type LedgerOption func(*Ledger)

// WithClock overrides the wall clock
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

// WithRandomSource overrides the crypto/rand backed source
func WithRandomSource(r interfaces.RandomSource) LedgerOption {
	return func(l *Ledger) { l.random = r }
}

// WithSnapshotSink receives an encoded document after every committed mutation
func WithSnapshotSink(s interfaces.SnapshotSink) LedgerOption {
	return func(l *Ledger) { l.sink = s }
}

// WithEventPublisher publishes domain events after commit
func WithEventPublisher(p interfaces.EventPublisher) LedgerOption {
	return func(l *Ledger) { l.publisher = p }
}

// WithMetrics records operation metrics
func WithMetrics(m interfaces.MetricsRecorder) LedgerOption {
	return func(l *Ledger) { l.metrics = m }
}

// NewLedger wraps a loaded or fresh state
func NewLedger(state *entities.State, settings Settings, opts ...LedgerOption) *Ledger {
	if state == nil {
		state = entities.NewState(settings.LotteryStartingPot)
	}
	state.Normalize()
	if settings.Location == nil {
		settings.Location = time.UTC
	}

	l := &Ledger{
		state:    state,
		settings: settings,
		now:      time.Now,
		random:   cryptoRandom{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Settings returns the engine settings
func (l *Ledger) Settings() Settings {
	return l.settings
}

// ledgerTx is the mutable view handed to a mutation. Operations must
// validate and plan before calling any method that changes state, so a
// returned error never leaves a partial application behind.
type ledgerTx struct {
	state    *entities.State
	settings *Settings
	random   interfaces.RandomSource
	now      time.Time

	changes []entities.BalanceChange
	events  []events.Event
	dirty   bool
}

// account returns the user's account, provisioning it on first reference
func (tx *ledgerTx) account(discordID int64) *entities.Account {
	if acct, ok := tx.state.Accounts[discordID]; ok {
		return acct
	}

	acct := &entities.Account{
		DiscordID: discordID,
		Balance:   tx.settings.StartingBalance,
		Seq:       tx.state.NextAccountSeq,
		CreatedAt: tx.now,
	}
	tx.state.Accounts[discordID] = acct
	tx.state.NextAccountSeq++
	tx.dirty = true

	tx.changes = append(tx.changes, entities.BalanceChange{
		DiscordID:       discordID,
		BalanceAfter:    acct.Balance,
		ChangeAmount:    acct.Balance,
		TransactionType: entities.TransactionTypeInitial,
	})
	tx.emit(events.AccountCreatedEvent{UserID: discordID, InitialBalance: acct.Balance})
	return acct
}

// requireFunds checks the account can cover amount. An unknown user is
// checked against the starting balance and only provisioned when it can.
func (tx *ledgerTx) requireFunds(discordID int64, amount int64) (*entities.Account, error) {
	if acct, ok := tx.state.Accounts[discordID]; ok {
		if !acct.CanAfford(amount) {
			return nil, fmt.Errorf("%w: balance %d, need %d", entities.ErrInsufficientFunds, acct.Balance, amount)
		}
		return acct, nil
	}
	if starting := tx.settings.StartingBalance; starting < amount {
		return nil, fmt.Errorf("%w: balance %d, need %d", entities.ErrInsufficientFunds, starting, amount)
	}
	return tx.account(discordID), nil
}

func (tx *ledgerTx) credit(discordID int64, amount int64, txType entities.TransactionType, relatedID string) int64 {
	acct := tx.account(discordID)
	before := acct.Balance
	acct.Balance += amount
	tx.record(acct, before, txType, relatedID)
	return acct.Balance
}

func (tx *ledgerTx) debit(discordID int64, amount int64, txType entities.TransactionType, relatedID string) (int64, error) {
	acct, err := tx.requireFunds(discordID, amount)
	if err != nil {
		return 0, err
	}
	before := acct.Balance
	acct.Balance -= amount
	tx.record(acct, before, txType, relatedID)
	return acct.Balance, nil
}

func (tx *ledgerTx) record(acct *entities.Account, before int64, txType entities.TransactionType, relatedID string) {
	tx.dirty = true
	tx.changes = append(tx.changes, entities.BalanceChange{
		DiscordID:       acct.DiscordID,
		BalanceBefore:   before,
		BalanceAfter:    acct.Balance,
		ChangeAmount:    acct.Balance - before,
		TransactionType: txType,
		RelatedID:       relatedID,
	})
}

func (tx *ledgerTx) emit(e events.Event) {
	tx.events = append(tx.events, e)
}

func (tx *ledgerTx) touch() {
	tx.dirty = true
}

// mutate runs fn under the write lock. When fn changed state the document
// is encoded before the lock is released and handed to the snapshot sink,
// then events are published.
func (l *Ledger) mutate(ctx context.Context, operation string, fn func(tx *ledgerTx) error) error {
	start := time.Now()

	l.mu.Lock()
	tx := &ledgerTx{
		state:    l.state,
		settings: &l.settings,
		random:   l.random,
		now:      l.now(),
	}
	err := fn(tx)

	var document []byte
	if tx.dirty {
		l.state.SavedAt = tx.now
		var encErr error
		document, encErr = json.Marshal(l.state)
		if encErr != nil {
			log.WithFields(log.Fields{
				"operation": operation,
				"error":     encErr,
			}).Error("Failed to encode state snapshot")
			document = nil
		}
	}
	l.mu.Unlock()

	if document != nil && l.sink != nil {
		l.sink.Submit(document)
	}
	l.dispatch(ctx, tx)

	if l.metrics != nil {
		l.metrics.RecordOperation(ctx, operation, err, time.Since(start))
	}
	return err
}

// read runs fn under the read lock. fn must not retain or modify state.
func (l *Ledger) read(fn func(state *entities.State, now time.Time)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(l.state, l.now())
}

// Persist encodes the current state and submits it to the sink
func (l *Ledger) Persist(ctx context.Context) error {
	l.mu.Lock()
	l.state.SavedAt = l.now()
	document, err := json.Marshal(l.state)
	l.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode state snapshot: %w", err)
	}
	if l.sink != nil {
		l.sink.Submit(document)
	}
	return nil
}

func (l *Ledger) dispatch(ctx context.Context, tx *ledgerTx) {
	for _, change := range tx.changes {
		if l.metrics != nil && change.ChangeAmount != 0 {
			l.metrics.RecordPointsMoved(ctx, change.TransactionType.String(), change.ChangeAmount)
		}
		if l.publisher == nil {
			continue
		}
		if err := l.publisher.Publish(events.NewBalanceChangeEvent(change)); err != nil {
			log.WithError(err).Error("Failed to publish balance change event")
		}
	}
	if l.publisher == nil {
		return
	}
	for _, e := range tx.events {
		if err := l.publisher.Publish(e); err != nil {
			log.WithFields(log.Fields{
				"eventType": e.Type(),
				"error":     err,
			}).Error("Failed to publish event")
		}
	}
}

// LoadState restores the engine state from a store. A missing document or
// an unreadable store yields a fresh state; an undecodable document is
// ErrCorruptSnapshot unless resetOnCorrupt is set.
func LoadState(ctx context.Context, store interfaces.SnapshotStore, settings Settings, resetOnCorrupt bool) (*entities.State, bool, error) {
	document, err := store.Load(ctx)
	if errors.Is(err, entities.ErrSnapshotNotFound) {
		log.WithField("backend", store.Backend()).Info("No snapshot found, starting fresh")
		return entities.NewState(settings.LotteryStartingPot), true, nil
	}
	if err != nil {
		log.WithFields(log.Fields{
			"backend": store.Backend(),
			"error":   err,
		}).Error("Failed to read snapshot, starting fresh")
		return entities.NewState(settings.LotteryStartingPot), true, nil
	}

	var state entities.State
	if err := json.Unmarshal(document, &state); err != nil {
		if resetOnCorrupt {
			log.WithFields(log.Fields{
				"backend": store.Backend(),
				"error":   err,
			}).Warn("Discarding corrupt snapshot")
			return entities.NewState(settings.LotteryStartingPot), true, nil
		}
		return nil, false, fmt.Errorf("%w: %v", entities.ErrCorruptSnapshot, err)
	}
	state.Normalize()

	log.WithFields(log.Fields{
		"backend":  store.Backend(),
		"accounts": len(state.Accounts),
		"bets":     len(state.Bets),
		"tickets":  len(state.LotteryTickets),
		"pot":      state.LotteryPot,
	}).Info("Restored state from snapshot")
	return &state, false, nil
}

// cryptoRandom draws from crypto/rand
type cryptoRandom struct{}

func (cryptoRandom) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return int(v.Int64())
}

// sampleDistinct draws k distinct values from [lo, hi] with a partial
// Fisher-Yates shuffle
func sampleDistinct(r interfaces.RandomSource, k, lo, hi int) []int {
	pool := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		pool = append(pool, n)
	}
	for i := 0; i < k; i++ {
		j := i + r.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// sampleInRange draws one value from [lo, hi]
func sampleInRange(r interfaces.RandomSource, lo, hi int) int {
	return lo + r.Intn(hi-lo+1)
}
