package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochStart(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name   string
		at     time.Time
		hour   int
		minute int
		want   time.Time
	}{
		{
			name: "midnight boundary same day",
			at:   time.Date(2024, 3, 5, 15, 0, 0, 0, loc),
			want: time.Date(2024, 3, 5, 0, 0, 0, 0, loc),
		},
		{
			name: "exactly on boundary",
			at:   time.Date(2024, 3, 5, 0, 0, 0, 0, loc),
			want: time.Date(2024, 3, 5, 0, 0, 0, 0, loc),
		},
		{
			name:   "before a morning boundary belongs to previous day",
			at:     time.Date(2024, 3, 5, 5, 59, 0, 0, loc),
			hour:   6,
			minute: 0,
			want:   time.Date(2024, 3, 4, 6, 0, 0, 0, loc),
		},
		{
			name: "utc instant converted to local",
			at:   time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 4, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := EpochStart(tt.at, loc, tt.hour, tt.minute)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestSameEpochAndNext(t *testing.T) {
	t.Parallel()

	loc := time.UTC
	a := time.Date(2024, 1, 1, 1, 0, 0, 0, loc)
	b := time.Date(2024, 1, 1, 23, 59, 0, 0, loc)
	c := time.Date(2024, 1, 2, 0, 0, 0, 0, loc)

	assert.True(t, SameEpoch(a, b, loc, 0, 0))
	assert.False(t, SameEpoch(b, c, loc, 0, 0))
	assert.Equal(t, c, NextEpochStart(a, loc, 0, 0))
}
