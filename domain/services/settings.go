package services

import "time"

// Settings holds the tunable constants of the engine
type Settings struct {
	StartingBalance int64

	// Daily claims reset at DailyResetHour:DailyResetMinute in Location
	Location         *time.Location
	DailyResetHour   int
	DailyResetMinute int
	DailyRewardMin   int64
	DailyRewardMax   int64

	PresenceInterval   time.Duration
	PresenceBasePoints int64
	PresenceScaleDown  int64
	PresenceMinPoints  int64
	PresenceCapHours   int64

	ActivityReward   int64
	ActivityCooldown time.Duration
	MaxGrant         int64

	TicketCost         int64
	LotteryStartingPot int64
	LotteryPotFloor    int64
	LotteryMinTickets  int
	PowerballBonus     int64
	JackpotPercent     int64
	Match5Percent      int64
	Match4Percent      int64
}

// DefaultSettings returns the stock economy
func DefaultSettings() Settings {
	return Settings{
		StartingBalance:    100,
		Location:           time.UTC,
		DailyRewardMin:     100,
		DailyRewardMax:     150,
		PresenceInterval:   30 * time.Minute,
		PresenceBasePoints: 15,
		PresenceScaleDown:  3,
		PresenceMinPoints:  3,
		PresenceCapHours:   4,
		ActivityReward:     1,
		ActivityCooldown:   60 * time.Second,
		MaxGrant:           10000,
		TicketCost:         10,
		LotteryStartingPot: 15000,
		LotteryPotFloor:    15000,
		LotteryMinTickets:  3,
		PowerballBonus:     50,
		JackpotPercent:     60,
		Match5Percent:      30,
		Match4Percent:      10,
	}
}
