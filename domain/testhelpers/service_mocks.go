package testhelpers

import (
	"context"

	"wagerbot/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockAccountService is a mock implementation of AccountService
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) EnsureAccount(ctx context.Context, discordID int64) (int64, error) {
	args := m.Called(ctx, discordID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountService) Credit(ctx context.Context, discordID int64, amount int64, txType entities.TransactionType) (int64, error) {
	args := m.Called(ctx, discordID, amount, txType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountService) Debit(ctx context.Context, discordID int64, amount int64, txType entities.TransactionType) (int64, error) {
	args := m.Called(ctx, discordID, amount, txType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountService) Balance(ctx context.Context, discordID int64) (int64, error) {
	args := m.Called(ctx, discordID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountService) Top(ctx context.Context, n int) ([]entities.LeaderboardEntry, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.LeaderboardEntry), args.Error(1)
}

func (m *MockAccountService) DailyClaim(ctx context.Context, discordID int64) (*entities.DailyClaimResult, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DailyClaimResult), args.Error(1)
}

func (m *MockAccountService) ResetDailyEpoch(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountService) RewardActivity(ctx context.Context, discordID int64) (*entities.ActivityReward, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ActivityReward), args.Error(1)
}

func (m *MockAccountService) Grant(ctx context.Context, discordID int64, amount int64) (int64, error) {
	args := m.Called(ctx, discordID, amount)
	return args.Get(0).(int64), args.Error(1)
}

// MockPresenceTracker is a mock implementation of PresenceTracker
type MockPresenceTracker struct {
	mock.Mock
}

func (m *MockPresenceTracker) Activate(ctx context.Context, discordID int64) error {
	return m.Called(ctx, discordID).Error(0)
}

func (m *MockPresenceTracker) Move(ctx context.Context, discordID int64) error {
	return m.Called(ctx, discordID).Error(0)
}

func (m *MockPresenceTracker) Deactivate(ctx context.Context, discordID int64) error {
	return m.Called(ctx, discordID).Error(0)
}

func (m *MockPresenceTracker) HandleVoiceState(ctx context.Context, discordID int64, before, after entities.VoiceState) error {
	return m.Called(ctx, discordID, before, after).Error(0)
}

func (m *MockPresenceTracker) Reconcile(ctx context.Context, present map[int64]entities.VoiceState) error {
	return m.Called(ctx, present).Error(0)
}

func (m *MockPresenceTracker) Settle(ctx context.Context) ([]entities.PresencePayout, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.PresencePayout), args.Error(1)
}

func (m *MockPresenceTracker) VoicePoints(ctx context.Context, discordID int64) (int64, error) {
	args := m.Called(ctx, discordID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPresenceTracker) State(ctx context.Context, discordID int64) (entities.PresenceState, error) {
	args := m.Called(ctx, discordID)
	return args.Get(0).(entities.PresenceState), args.Error(1)
}

// MockBetMarket is a mock implementation of BetMarket
type MockBetMarket struct {
	mock.Mock
}

func (m *MockBetMarket) CreateBet(ctx context.Context, creatorID int64, name, option1, option2 string, durationMinutes int) (*entities.Bet, error) {
	args := m.Called(ctx, creatorID, name, option1, option2, durationMinutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bet), args.Error(1)
}

func (m *MockBetMarket) PlaceStake(ctx context.Context, discordID int64, betID string, option int, amount int64) (*entities.StakeReceipt, error) {
	args := m.Called(ctx, discordID, betID, option, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.StakeReceipt), args.Error(1)
}

func (m *MockBetMarket) Resolve(ctx context.Context, betID string, winningOption int) (*entities.BetSettlement, error) {
	args := m.Called(ctx, betID, winningOption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BetSettlement), args.Error(1)
}

func (m *MockBetMarket) Cancel(ctx context.Context, betID string) (*entities.BetCancellation, error) {
	args := m.Called(ctx, betID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BetCancellation), args.Error(1)
}

func (m *MockBetMarket) ActiveBets(ctx context.Context) ([]*entities.Bet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bet), args.Error(1)
}

func (m *MockBetMarket) GetBet(ctx context.Context, betID string) (*entities.Bet, error) {
	args := m.Called(ctx, betID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bet), args.Error(1)
}

// MockLotteryPool is a mock implementation of LotteryPool
type MockLotteryPool struct {
	mock.Mock
}

func (m *MockLotteryPool) BuyRandomTickets(ctx context.Context, discordID int64, count int) (*entities.TicketPurchase, error) {
	args := m.Called(ctx, discordID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TicketPurchase), args.Error(1)
}

func (m *MockLotteryPool) BuyChosenTicket(ctx context.Context, discordID int64, numbers []int, bonus int) (*entities.TicketPurchase, error) {
	args := m.Called(ctx, discordID, numbers, bonus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TicketPurchase), args.Error(1)
}

func (m *MockLotteryPool) Draw(ctx context.Context) (*entities.LotteryDrawResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryDrawResult), args.Error(1)
}

func (m *MockLotteryPool) ResetPot(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLotteryPool) Pot(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLotteryPool) PendingTickets(ctx context.Context, discordID int64) ([]*entities.LotteryTicket, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LotteryTicket), args.Error(1)
}

func (m *MockLotteryPool) TicketCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockLotteryPool) Participants(ctx context.Context) ([]entities.LotteryParticipantInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.LotteryParticipantInfo), args.Error(1)
}

func (m *MockLotteryPool) DrawHistory(ctx context.Context, limit int) ([]entities.LotteryDraw, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.LotteryDraw), args.Error(1)
}
