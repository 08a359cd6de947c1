package entities

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// LotteryPickCount is how many main numbers a ticket holds
	LotteryPickCount = 5
	LotteryMainMin   = 1
	LotteryMainMax   = 25
	LotteryBonusMin  = 1
	LotteryBonusMax  = 10

	MinTicketsPerPurchase = 1
	MaxTicketsPerPurchase = 5
)

// LotteryTicket is one entry in the unsettled ticket pool
type LotteryTicket struct {
	DiscordID   int64                 `json:"discord_id"`
	Numbers     [LotteryPickCount]int `json:"numbers"`
	Bonus       int                   `json:"bonus"`
	PurchasedAt time.Time             `json:"purchased_at"`
}

// NewLotteryTicket builds a ticket after validating its numbers. Main numbers
// are stored in ascending order.
func NewLotteryTicket(discordID int64, numbers []int, bonus int, purchasedAt time.Time) (*LotteryTicket, error) {
	if err := ValidateTicketNumbers(numbers, bonus); err != nil {
		return nil, err
	}
	ticket := &LotteryTicket{
		DiscordID:   discordID,
		Bonus:       bonus,
		PurchasedAt: purchasedAt,
	}
	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)
	copy(ticket.Numbers[:], sorted)
	return ticket, nil
}

// ValidateTicketNumbers checks count, range and uniqueness of a pick
func ValidateTicketNumbers(numbers []int, bonus int) error {
	if len(numbers) != LotteryPickCount {
		return fmt.Errorf("%w: need %d numbers, got %d", ErrInvalidNumbers, LotteryPickCount, len(numbers))
	}
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		if n < LotteryMainMin || n > LotteryMainMax {
			return fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidNumbers, n, LotteryMainMin, LotteryMainMax)
		}
		if seen[n] {
			return fmt.Errorf("%w: %d appears more than once", ErrInvalidNumbers, n)
		}
		seen[n] = true
	}
	if bonus < LotteryBonusMin || bonus > LotteryBonusMax {
		return fmt.Errorf("%w: bonus %d is outside %d-%d", ErrInvalidNumbers, bonus, LotteryBonusMin, LotteryBonusMax)
	}
	return nil
}

// MatchCount counts main numbers shared with a winning combination
func (t *LotteryTicket) MatchCount(winning [LotteryPickCount]int) int {
	matches := 0
	for _, n := range t.Numbers {
		for _, w := range winning {
			if n == w {
				matches++
				break
			}
		}
	}
	return matches
}

// MatchesBonus checks the bonus number
func (t *LotteryTicket) MatchesBonus(bonus int) bool {
	return t.Bonus == bonus
}

// Format renders the ticket as "1 2 3 4 5 | 6"
func (t *LotteryTicket) Format() string {
	return FormatLotteryNumbers(t.Numbers, t.Bonus)
}

// FormatLotteryNumbers renders main numbers and a bonus number
func FormatLotteryNumbers(numbers [LotteryPickCount]int, bonus int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s | %d", strings.Join(parts, " "), bonus)
}

// LotteryParticipantInfo summarises a participant's pending tickets
type LotteryParticipantInfo struct {
	DiscordID   int64 `json:"discord_id"`
	TicketCount int64 `json:"ticket_count"`
}

// TicketPurchase is the result of buying one or more tickets
type TicketPurchase struct {
	Tickets    []*LotteryTicket `json:"tickets"`
	TotalCost  int64            `json:"total_cost"`
	NewBalance int64            `json:"new_balance"`
	Pot        int64            `json:"pot"`
}
