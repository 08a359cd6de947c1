package entities

import (
	"sort"
	"time"
)

const (
	// BetOptionCount is the number of options on every bet
	BetOptionCount = 2

	MinBetDurationMinutes = 1
	MaxBetDurationMinutes = 1440
)

// Bet is a peer-created binary wager. Once Resolved is true the bet is
// immutable; cancellation also sets Resolved and leaves WinningOption at 0.
type Bet struct {
	ID            string                          `json:"id"`
	Name          string                          `json:"name"`
	Options       [BetOptionCount]string          `json:"options"`
	Stakes        [BetOptionCount]map[int64]int64 `json:"stakes"`
	CreatedBy     int64                           `json:"created_by"`
	CreatedAt     time.Time                       `json:"created_at"`
	ClosesAt      time.Time                       `json:"closes_at"`
	Resolved      bool                            `json:"resolved"`
	WinningOption int                             `json:"winning_option,omitempty"`
	ResolvedAt    *time.Time                      `json:"resolved_at,omitempty"`
}

// NewBet creates an open bet with empty stake maps
func NewBet(id, name, option1, option2 string, createdBy int64, now time.Time, duration time.Duration) *Bet {
	return &Bet{
		ID:        id,
		Name:      name,
		Options:   [BetOptionCount]string{option1, option2},
		Stakes:    [BetOptionCount]map[int64]int64{{}, {}},
		CreatedBy: createdBy,
		CreatedAt: now,
		ClosesAt:  now.Add(duration),
	}
}

// IsValidOption checks a 1-based option index
func IsValidOption(option int) bool {
	return option >= 1 && option <= BetOptionCount
}

// IsExpired checks if the bet has passed its closing time
func (b *Bet) IsExpired(now time.Time) bool {
	return !now.Before(b.ClosesAt)
}

// CanAcceptStakes checks if stakes may still be placed
func (b *Bet) CanAcceptStakes(now time.Time) bool {
	return !b.Resolved && !b.IsExpired(now)
}

// OptionName returns the label of a 1-based option
func (b *Bet) OptionName(option int) string {
	if !IsValidOption(option) {
		return ""
	}
	return b.Options[option-1]
}

// StakeTotal sums every stake on a 1-based option
func (b *Bet) StakeTotal(option int) int64 {
	if !IsValidOption(option) {
		return 0
	}
	var total int64
	for _, amount := range b.Stakes[option-1] {
		total += amount
	}
	return total
}

// TotalPot sums stakes on both options
func (b *Bet) TotalPot() int64 {
	var total int64
	for option := 1; option <= BetOptionCount; option++ {
		total += b.StakeTotal(option)
	}
	return total
}

// StakeOf returns a user's stake on a 1-based option
func (b *Bet) StakeOf(option int, discordID int64) int64 {
	if !IsValidOption(option) {
		return 0
	}
	return b.Stakes[option-1][discordID]
}

// AddStake accumulates a stake onto a 1-based option and returns the new total
func (b *Bet) AddStake(option int, discordID int64, amount int64) int64 {
	if b.Stakes[option-1] == nil {
		b.Stakes[option-1] = make(map[int64]int64)
	}
	b.Stakes[option-1][discordID] += amount
	return b.Stakes[option-1][discordID]
}

// AllStakes lists every stake on every option, ordered by option then user
func (b *Bet) AllStakes() []BetPayout {
	var stakes []BetPayout
	for option := 1; option <= BetOptionCount; option++ {
		for _, p := range sortedStakes(b.Stakes[option-1]) {
			p.Option = option
			stakes = append(stakes, p)
		}
	}
	return stakes
}

// StakesOn lists stakes on a single 1-based option ordered by user
func (b *Bet) StakesOn(option int) []BetPayout {
	if !IsValidOption(option) {
		return nil
	}
	stakes := sortedStakes(b.Stakes[option-1])
	for i := range stakes {
		stakes[i].Option = option
	}
	return stakes
}

// MarkResolved sets the terminal state
func (b *Bet) MarkResolved(winningOption int, now time.Time) {
	b.Resolved = true
	b.WinningOption = winningOption
	b.ResolvedAt = &now
}

// IsCancelled reports whether the bet ended without a winning option
func (b *Bet) IsCancelled() bool {
	return b.Resolved && b.WinningOption == 0
}

// Clone returns a deep copy safe to hand outside the engine
func (b *Bet) Clone() *Bet {
	c := *b
	for i := range b.Stakes {
		c.Stakes[i] = make(map[int64]int64, len(b.Stakes[i]))
		for user, amount := range b.Stakes[i] {
			c.Stakes[i][user] = amount
		}
	}
	if b.ResolvedAt != nil {
		t := *b.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}

func sortedStakes(stakes map[int64]int64) []BetPayout {
	result := make([]BetPayout, 0, len(stakes))
	for user, amount := range stakes {
		result = append(result, BetPayout{DiscordID: user, Stake: amount})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DiscordID < result[j].DiscordID })
	return result
}

// BetPayout is a single stake and what it returned
type BetPayout struct {
	DiscordID int64 `json:"discord_id"`
	Option    int   `json:"option"`
	Stake     int64 `json:"stake"`
	Payout    int64 `json:"payout"`
}

// Profit is the payout net of the stake
func (p BetPayout) Profit() int64 {
	return p.Payout - p.Stake
}

// StakeReceipt is returned from a successful stake placement
type StakeReceipt struct {
	Bet        *Bet  `json:"bet"`
	Option     int   `json:"option"`
	Amount     int64 `json:"amount"`
	TotalStake int64 `json:"total_stake"`
	NewBalance int64 `json:"new_balance"`
}

// BetSettlement is the report of a resolution
type BetSettlement struct {
	Bet           *Bet        `json:"bet"`
	WinningOption int         `json:"winning_option"`
	TotalWinning  int64       `json:"total_winning"`
	TotalLosing   int64       `json:"total_losing"`
	Refunded      bool        `json:"refunded"`
	Winners       []BetPayout `json:"winners"`
	Refunds       []BetPayout `json:"refunds,omitempty"`
	RoundingLoss  int64       `json:"rounding_loss"`
}

// TotalPaid sums every payout and refund in the settlement
func (s *BetSettlement) TotalPaid() int64 {
	var total int64
	for _, w := range s.Winners {
		total += w.Payout
	}
	for _, r := range s.Refunds {
		total += r.Payout
	}
	return total
}

// BetCancellation is the report of a cancellation
type BetCancellation struct {
	Bet           *Bet        `json:"bet"`
	Refunds       []BetPayout `json:"refunds"`
	TotalRefunded int64       `json:"total_refunded"`
}
