package utils

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ProRataPayout returns a winning stake plus its floored share of the losing
// pool. The fractional remainder is dropped.
func ProRataPayout(stake, totalWinning, totalLosing int64) int64 {
	if totalWinning <= 0 {
		return stake
	}
	share := decimal.NewFromInt(stake).
		Mul(decimal.NewFromInt(totalLosing)).
		Div(decimal.NewFromInt(totalWinning)).
		Floor()
	return stake + share.IntPart()
}

// PercentOf returns floor(amount * percent / 100)
func PercentOf(amount, percent int64) int64 {
	if amount <= 0 || percent <= 0 {
		return 0
	}
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(percent)).
		Div(hundred).
		Floor().
		IntPart()
}

// SplitEvenly divides a pool between n winners using integer division and
// reports the undistributed remainder.
func SplitEvenly(pool int64, n int) (share, remainder int64) {
	if n <= 0 || pool <= 0 {
		return 0, pool
	}
	share = pool / int64(n)
	return share, pool - share*int64(n)
}

// PresencePoints applies the diminishing-returns curve to a whole-hour count
func PresencePoints(hours, basePoints, scaleDown, minPoints, capHours int64) int64 {
	if hours < 0 {
		hours = 0
	}
	if hours > capHours {
		hours = capHours
	}
	points := basePoints - scaleDown*hours
	if points < minPoints {
		return minPoints
	}
	return points
}
