package services

import (
	"context"
	"testing"
	"time"

	"wagerbot/domain/entities"
	"wagerbot/domain/interfaces"
	"wagerbot/domain/testhelpers"
)

// Test constants for consistent test data
const (
	TestUser1ID = int64(100)
	TestUser2ID = int64(200)
	TestUser3ID = int64(300)
	TestUser4ID = int64(400)
)

var testEpoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// testEngine wires every service onto one ledger with deterministic clock and randomness
type testEngine struct {
	ctx       context.Context
	ledger    *Ledger
	clock     *testhelpers.FakeClock
	random    *testhelpers.ScriptedRandom
	sink      *testhelpers.RecordingSink
	publisher *testhelpers.RecordingPublisher

	accounts interfaces.AccountService
	presence interfaces.PresenceTracker
	bets     interfaces.BetMarket
	lottery  interfaces.LotteryPool
}

func newTestEngine(t *testing.T, mutate ...func(*Settings)) *testEngine {
	t.Helper()

	settings := DefaultSettings()
	for _, m := range mutate {
		m(&settings)
	}

	e := &testEngine{
		ctx:       context.Background(),
		clock:     testhelpers.NewFakeClock(testEpoch),
		random:    testhelpers.NewScriptedRandom(),
		sink:      &testhelpers.RecordingSink{},
		publisher: &testhelpers.RecordingPublisher{},
	}
	e.ledger = NewLedger(nil, settings,
		WithClock(e.clock.Now),
		WithRandomSource(e.random),
		WithSnapshotSink(e.sink),
		WithEventPublisher(e.publisher),
	)
	e.accounts = NewAccountService(e.ledger)
	e.presence = NewPresenceTracker(e.ledger)
	e.bets = NewBetMarket(e.ledger)
	e.lottery = NewLotteryPool(e.ledger)
	return e
}

func (e *testEngine) balance(t *testing.T, discordID int64) int64 {
	t.Helper()
	b, err := e.accounts.Balance(e.ctx, discordID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return b
}

// totalPoints sums balances, open stakes and the pot
func (e *testEngine) totalPoints() int64 {
	var total int64
	e.ledger.read(func(state *entities.State, _ time.Time) {
		total = state.TotalBalances() + state.OpenStakes() + state.LotteryPot
	})
	return total
}
