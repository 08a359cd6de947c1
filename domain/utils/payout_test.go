package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProRataPayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		stake        int64
		totalWinning int64
		totalLosing  int64
		want         int64
	}{
		{name: "even split", stake: 50, totalWinning: 50, totalLosing: 100, want: 150},
		{name: "floors the share", stake: 1, totalWinning: 3, totalLosing: 10, want: 4},
		{name: "no losing pool", stake: 40, totalWinning: 80, totalLosing: 0, want: 40},
		{name: "large values stay exact", stake: 333_333_333, totalWinning: 999_999_999, totalLosing: 1_000_000_000, want: 666_666_666},
		{name: "zero winning pool returns stake", stake: 10, totalWinning: 0, totalLosing: 10, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ProRataPayout(tt.stake, tt.totalWinning, tt.totalLosing))
		})
	}
}

func TestPercentOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(1501), PercentOf(15010, 10))
	assert.Equal(t, int64(8976), PercentOf(14960, 60))
	assert.Equal(t, int64(0), PercentOf(9, 10))
	assert.Equal(t, int64(0), PercentOf(-5, 10))
}

func TestSplitEvenly(t *testing.T) {
	t.Parallel()

	share, rem := SplitEvenly(100, 3)
	assert.Equal(t, int64(33), share)
	assert.Equal(t, int64(1), rem)

	share, rem = SplitEvenly(100, 0)
	assert.Equal(t, int64(0), share)
	assert.Equal(t, int64(100), rem)
}

func TestPresencePoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hours int64
		want  int64
	}{
		{hours: 0, want: 15},
		{hours: 1, want: 12},
		{hours: 2, want: 9},
		{hours: 3, want: 6},
		{hours: 4, want: 3},
		{hours: 5, want: 3},
		{hours: 40, want: 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PresencePoints(tt.hours, 15, 3, 3, 4), "hours=%d", tt.hours)
	}
	assert.Equal(t, int64(5), PresencePoints(4, 15, 3, 5, 10), "floor applies before cap")
}
