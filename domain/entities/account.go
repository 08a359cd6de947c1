package entities

import "time"

// Account is a user's point balance record. Accounts are created lazily on
// first reference and never deleted.
type Account struct {
	DiscordID int64     `json:"discord_id"`
	Balance   int64     `json:"balance"`
	Seq       int64     `json:"seq"` // first-seen order, used to break leaderboard ties
	CreatedAt time.Time `json:"created_at"`
}

// CanAfford checks if the account balance covers an amount
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// LeaderboardEntry is one row of the balance leaderboard
type LeaderboardEntry struct {
	Rank      int   `json:"rank"`
	DiscordID int64 `json:"discord_id"`
	Balance   int64 `json:"balance"`
}

// DailyClaimResult is returned from a successful daily claim
type DailyClaimResult struct {
	Reward     int64     `json:"reward"`
	NewBalance int64     `json:"new_balance"`
	NextEpoch  time.Time `json:"next_epoch"`
}

// ActivityReward is returned when a chat message earns points
type ActivityReward struct {
	Rewarded   bool  `json:"rewarded"`
	Points     int64 `json:"points"`
	NewBalance int64 `json:"new_balance"`
}
