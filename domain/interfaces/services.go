package interfaces

import (
	"context"

	"wagerbot/domain/entities"
)

// AccountService defines the interface for balance operations
type AccountService interface {
	// EnsureAccount returns the user's balance, provisioning the account if absent
	EnsureAccount(ctx context.Context, discordID int64) (int64, error)

	// Credit adds points to a user's balance
	Credit(ctx context.Context, discordID int64, amount int64, txType entities.TransactionType) (int64, error)

	// Debit removes points from a user's balance or fails with ErrInsufficientFunds
	Debit(ctx context.Context, discordID int64, amount int64, txType entities.TransactionType) (int64, error)

	// Balance returns the user's balance without provisioning the account
	Balance(ctx context.Context, discordID int64) (int64, error)

	// Top returns the n highest balances
	Top(ctx context.Context, n int) ([]entities.LeaderboardEntry, error)

	// DailyClaim credits the daily reward once per reset epoch
	DailyClaim(ctx context.Context, discordID int64) (*entities.DailyClaimResult, error)

	// ResetDailyEpoch clears every daily claim stamp and returns how many were cleared
	ResetDailyEpoch(ctx context.Context) (int, error)

	// RewardActivity credits a chat message subject to the activity cooldown
	RewardActivity(ctx context.Context, discordID int64) (*entities.ActivityReward, error)

	// Grant credits an admin grant bounded by the configured maximum
	Grant(ctx context.Context, discordID int64, amount int64) (int64, error)
}

// PresenceTracker defines the interface for voice presence accrual
type PresenceTracker interface {
	// Activate starts a session for a user who became active
	Activate(ctx context.Context, discordID int64) error

	// Move carries elapsed time across a channel move
	Move(ctx context.Context, discordID int64) error

	// Deactivate ends a session, keeping the unsettled time
	Deactivate(ctx context.Context, discordID int64) error

	// HandleVoiceState applies a gateway voice state transition
	HandleVoiceState(ctx context.Context, discordID int64, before, after entities.VoiceState) error

	// Reconcile replaces sessions with the currently observed voice states
	Reconcile(ctx context.Context, present map[int64]entities.VoiceState) error

	// Settle pays every session whose payout boundary has passed
	Settle(ctx context.Context) ([]entities.PresencePayout, error)

	// VoicePoints returns the lifetime voice points of a user
	VoicePoints(ctx context.Context, discordID int64) (int64, error)

	// State reports whether a user currently has a session
	State(ctx context.Context, discordID int64) (entities.PresenceState, error)
}

// BetMarket defines the interface for peer-created bets
type BetMarket interface {
	// CreateBet opens a new two-option bet
	CreateBet(ctx context.Context, creatorID int64, name, option1, option2 string, durationMinutes int) (*entities.Bet, error)

	// PlaceStake debits the user and records the stake in one step
	PlaceStake(ctx context.Context, discordID int64, betID string, option int, amount int64) (*entities.StakeReceipt, error)

	// Resolve settles a bet in favour of the winning option
	Resolve(ctx context.Context, betID string, winningOption int) (*entities.BetSettlement, error)

	// Cancel refunds every stake on an open bet
	Cancel(ctx context.Context, betID string) (*entities.BetCancellation, error)

	// ActiveBets lists unresolved, unexpired bets ordered by closing time
	ActiveBets(ctx context.Context) ([]*entities.Bet, error)

	// GetBet returns a copy of a bet by id
	GetBet(ctx context.Context, betID string) (*entities.Bet, error)
}

// LotteryPool defines the interface for the pooled-pot lottery
type LotteryPool interface {
	// BuyRandomTickets buys count quick-pick tickets
	BuyRandomTickets(ctx context.Context, discordID int64, count int) (*entities.TicketPurchase, error)

	// BuyChosenTicket buys a single ticket with the given numbers
	BuyChosenTicket(ctx context.Context, discordID int64, numbers []int, bonus int) (*entities.TicketPurchase, error)

	// Draw settles the ticket pool
	Draw(ctx context.Context) (*entities.LotteryDrawResult, error)

	// ResetPot sets the pot to the configured floor
	ResetPot(ctx context.Context) (int64, error)

	// Pot returns the current pot
	Pot(ctx context.Context) (int64, error)

	// PendingTickets returns a user's unsettled tickets
	PendingTickets(ctx context.Context, discordID int64) ([]*entities.LotteryTicket, error)

	// TicketCount returns the size of the ticket pool
	TicketCount(ctx context.Context) (int, error)

	// Participants summarises the ticket pool by owner
	Participants(ctx context.Context) ([]entities.LotteryParticipantInfo, error)

	// DrawHistory returns the most recent draws, newest first
	DrawHistory(ctx context.Context, limit int) ([]entities.LotteryDraw, error)
}
