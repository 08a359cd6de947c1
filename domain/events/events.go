package events

import (
	"wagerbot/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange    EventType = "balance_change"
	EventTypeAccountCreated   EventType = "account_created"
	EventTypeDailyClaimed     EventType = "daily_claimed"
	EventTypeDailyEpochReset  EventType = "daily_epoch_reset"
	EventTypePresencePayout   EventType = "presence_payout"
	EventTypeBetCreated       EventType = "bet_created"
	EventTypeStakePlaced      EventType = "stake_placed"
	EventTypeBetResolved      EventType = "bet_resolved"
	EventTypeBetCancelled     EventType = "bet_cancelled"
	EventTypeTicketsPurchased EventType = "tickets_purchased"
	EventTypeLotteryDrawn     EventType = "lottery_drawn"
	EventTypePotReset         EventType = "pot_reset"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a committed balance change
type BalanceChangeEvent struct {
	UserID          int64                    `json:"user_id"`
	OldBalance      int64                    `json:"old_balance"`
	NewBalance      int64                    `json:"new_balance"`
	TransactionType entities.TransactionType `json:"transaction_type"`
	ChangeAmount    int64                    `json:"change_amount"`
	RelatedID       string                   `json:"related_id,omitempty"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// NewBalanceChangeEvent converts a ledger balance change into an event
func NewBalanceChangeEvent(c entities.BalanceChange) BalanceChangeEvent {
	return BalanceChangeEvent{
		UserID:          c.DiscordID,
		OldBalance:      c.BalanceBefore,
		NewBalance:      c.BalanceAfter,
		TransactionType: c.TransactionType,
		ChangeAmount:    c.ChangeAmount,
		RelatedID:       c.RelatedID,
	}
}

// AccountCreatedEvent represents a lazily provisioned account
type AccountCreatedEvent struct {
	UserID         int64 `json:"user_id"`
	InitialBalance int64 `json:"initial_balance"`
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// DailyClaimedEvent represents a successful daily claim
type DailyClaimedEvent struct {
	UserID int64 `json:"user_id"`
	Reward int64 `json:"reward"`
}

func (e DailyClaimedEvent) Type() EventType {
	return EventTypeDailyClaimed
}

// DailyEpochResetEvent is emitted when all daily claim stamps are cleared
type DailyEpochResetEvent struct {
	ClearedClaims int `json:"cleared_claims"`
}

func (e DailyEpochResetEvent) Type() EventType {
	return EventTypeDailyEpochReset
}

// PresencePayoutEvent represents a voice presence award
type PresencePayoutEvent struct {
	UserID int64 `json:"user_id"`
	Hours  int64 `json:"hours"`
	Points int64 `json:"points"`
}

func (e PresencePayoutEvent) Type() EventType {
	return EventTypePresencePayout
}

// BetCreatedEvent represents a newly opened bet
type BetCreatedEvent struct {
	BetID     string   `json:"bet_id"`
	Name      string   `json:"name"`
	Options   []string `json:"options"`
	CreatedBy int64    `json:"created_by"`
	ClosesAt  int64    `json:"closes_at"`
}

func (e BetCreatedEvent) Type() EventType {
	return EventTypeBetCreated
}

// StakePlacedEvent represents a stake added to a bet
type StakePlacedEvent struct {
	BetID      string `json:"bet_id"`
	UserID     int64  `json:"user_id"`
	Option     int    `json:"option"`
	Amount     int64  `json:"amount"`
	TotalStake int64  `json:"total_stake"`
}

func (e StakePlacedEvent) Type() EventType {
	return EventTypeStakePlaced
}

// BetResolvedEvent represents a settled bet
type BetResolvedEvent struct {
	BetID         string `json:"bet_id"`
	WinningOption int    `json:"winning_option"`
	TotalWinning  int64  `json:"total_winning"`
	TotalLosing   int64  `json:"total_losing"`
	Refunded      bool   `json:"refunded"`
	WinnerCount   int    `json:"winner_count"`
	RoundingLoss  int64  `json:"rounding_loss"`
}

func (e BetResolvedEvent) Type() EventType {
	return EventTypeBetResolved
}

// BetCancelledEvent represents a cancelled bet
type BetCancelledEvent struct {
	BetID         string `json:"bet_id"`
	TotalRefunded int64  `json:"total_refunded"`
}

func (e BetCancelledEvent) Type() EventType {
	return EventTypeBetCancelled
}

// TicketsPurchasedEvent represents a lottery ticket purchase
type TicketsPurchasedEvent struct {
	UserID    int64 `json:"user_id"`
	Count     int   `json:"count"`
	TotalCost int64 `json:"total_cost"`
	Pot       int64 `json:"pot"`
}

func (e TicketsPurchasedEvent) Type() EventType {
	return EventTypeTicketsPurchased
}

// LotteryDrawnEvent represents a completed lottery draw
type LotteryDrawnEvent struct {
	Numbers     []int `json:"numbers"`
	Bonus       int   `json:"bonus"`
	TicketCount int   `json:"ticket_count"`
	PotBefore   int64 `json:"pot_before"`
	PotAfter    int64 `json:"pot_after"`
	TotalPaid   int64 `json:"total_paid"`
	WinnerCount int   `json:"winner_count"`
	Rollover    bool  `json:"rollover"`
}

func (e LotteryDrawnEvent) Type() EventType {
	return EventTypeLotteryDrawn
}

// PotResetEvent represents an admin pot reset
type PotResetEvent struct {
	OldPot int64 `json:"old_pot"`
	NewPot int64 `json:"new_pot"`
}

func (e PotResetEvent) Type() EventType {
	return EventTypePotReset
}
