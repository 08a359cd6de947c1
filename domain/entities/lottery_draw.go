package entities

import "time"

// LotteryTier is a payout tier of a draw
type LotteryTier string

const (
	LotteryTierPowerball LotteryTier = "powerball"
	LotteryTierJackpot   LotteryTier = "jackpot"
	LotteryTierMatch5    LotteryTier = "match5"
	LotteryTierMatch4    LotteryTier = "match4"
)

// LotteryDraw is an append-only history record of a winning combination
type LotteryDraw struct {
	Numbers [LotteryPickCount]int `json:"numbers"`
	Bonus   int                   `json:"bonus"`
	DrawnAt time.Time             `json:"drawn_at"`
}

// Format renders the winning combination
func (d *LotteryDraw) Format() string {
	return FormatLotteryNumbers(d.Numbers, d.Bonus)
}

// MainTier classifies a ticket against the main-number tiers. The powerball
// tier is evaluated separately because it layers on top of these.
func (d *LotteryDraw) MainTier(t *LotteryTicket) (LotteryTier, bool) {
	matches := t.MatchCount(d.Numbers)
	switch {
	case matches == LotteryPickCount && t.MatchesBonus(d.Bonus):
		return LotteryTierJackpot, true
	case matches == LotteryPickCount:
		return LotteryTierMatch5, true
	case matches == LotteryPickCount-1:
		return LotteryTierMatch4, true
	default:
		return "", false
	}
}

// LotteryWinner is a single paid ticket in a draw
type LotteryWinner struct {
	DiscordID int64         `json:"discord_id"`
	Ticket    LotteryTicket `json:"ticket"`
	Tier      LotteryTier   `json:"tier"`
	Payout    int64         `json:"payout"`
}

// LotteryDrawResult reports a settled draw
type LotteryDrawResult struct {
	Draw        LotteryDraw           `json:"draw"`
	TicketCount int                   `json:"ticket_count"`
	PotBefore   int64                 `json:"pot_before"`
	PotAfter    int64                 `json:"pot_after"`
	Winners     []LotteryWinner       `json:"winners"`
	TierTotals  map[LotteryTier]int64 `json:"tier_totals"`
	Rollover    bool                  `json:"rollover"`
}

// TotalPaid sums every payout in the draw
func (r *LotteryDrawResult) TotalPaid() int64 {
	var total int64
	for _, w := range r.Winners {
		total += w.Payout
	}
	return total
}

// PayoutsByUser aggregates payouts per user
func (r *LotteryDrawResult) PayoutsByUser() map[int64]int64 {
	payouts := make(map[int64]int64)
	for _, w := range r.Winners {
		payouts[w.DiscordID] += w.Payout
	}
	return payouts
}

// WinnersInTier filters winners by tier
func (r *LotteryDrawResult) WinnersInTier(tier LotteryTier) []LotteryWinner {
	var winners []LotteryWinner
	for _, w := range r.Winners {
		if w.Tier == tier {
			winners = append(winners, w)
		}
	}
	return winners
}

// AddWinner records a paid ticket and updates the tier total
func (r *LotteryDrawResult) AddWinner(ticket *LotteryTicket, tier LotteryTier, payout int64) {
	r.Winners = append(r.Winners, LotteryWinner{
		DiscordID: ticket.DiscordID,
		Ticket:    *ticket,
		Tier:      tier,
		Payout:    payout,
	})
	if r.TierTotals == nil {
		r.TierTotals = make(map[LotteryTier]int64)
	}
	r.TierTotals[tier] += payout
}
