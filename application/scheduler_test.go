package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"wagerbot/domain/entities"
	"wagerbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestScheduler_DailyResetSpec(t *testing.T) {
	t.Parallel()

	eastern, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hour     int
		minute   int
		from     time.Time
		wantSpec string
		wantNext time.Time
	}{
		{
			name:     "midnight local",
			from:     time.Date(2024, 6, 1, 12, 0, 0, 0, eastern),
			wantSpec: "0 0 * * *",
			wantNext: time.Date(2024, 6, 2, 0, 0, 0, 0, eastern),
		},
		{
			name:     "later the same day",
			hour:     18,
			minute:   30,
			from:     time.Date(2024, 6, 1, 12, 0, 0, 0, eastern),
			wantSpec: "30 18 * * *",
			wantNext: time.Date(2024, 6, 1, 18, 30, 0, 0, eastern),
		},
		{
			name:     "utc input is converted to the configured zone",
			hour:     0,
			from:     time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC), // 23:00 on May 31 in New York
			wantSpec: "0 0 * * *",
			wantNext: time.Date(2024, 6, 1, 0, 0, 0, 0, eastern),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := NewScheduler(&testhelpers.MockAccountService{}, &testhelpers.MockPresenceTracker{}, SchedulerConfig{
				Location:         eastern,
				DailyResetHour:   tt.hour,
				DailyResetMinute: tt.minute,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantSpec, s.DailyResetSpec())
			next, err := s.NextDailyReset(tt.from)
			require.NoError(t, err)
			assert.True(t, tt.wantNext.Equal(next), "want %v, got %v", tt.wantNext, next)
		})
	}
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	t.Parallel()

	_, err := NewScheduler(&testhelpers.MockAccountService{}, &testhelpers.MockPresenceTracker{}, SchedulerConfig{
		DailyResetHour: 25,
	})
	assert.Error(t, err)
}

func TestScheduler_RunDailyReset(t *testing.T) {
	t.Parallel()

	accounts := &testhelpers.MockAccountService{}
	accounts.On("ResetDailyEpoch", mock.Anything).Return(4, nil).Once()
	accounts.On("ResetDailyEpoch", mock.Anything).Return(0, errors.New("boom")).Once()

	s, err := NewScheduler(accounts, &testhelpers.MockPresenceTracker{}, SchedulerConfig{})
	require.NoError(t, err)

	s.RunDailyReset(context.Background())
	s.RunDailyReset(context.Background())
	accounts.AssertExpectations(t)
}

func TestScheduler_RunSettle(t *testing.T) {
	t.Parallel()

	presence := &testhelpers.MockPresenceTracker{}
	presence.On("Settle", mock.Anything).Return([]entities.PresencePayout{
		{DiscordID: 1, Hours: 1, Points: 15},
		{DiscordID: 2, Hours: 0, Points: 15},
	}, nil).Once()
	presence.On("Settle", mock.Anything).Return(nil, nil).Once()

	s, err := NewScheduler(&testhelpers.MockAccountService{}, presence, SchedulerConfig{})
	require.NoError(t, err)

	s.RunSettle(context.Background())
	s.RunSettle(context.Background())
	presence.AssertExpectations(t)
}

func TestScheduler_SettlesPeriodically(t *testing.T) {
	t.Parallel()

	settled := make(chan struct{}, 8)
	presence := &testhelpers.MockPresenceTracker{}
	presence.On("Settle", mock.Anything).Return(nil, nil).Run(func(mock.Arguments) {
		select {
		case settled <- struct{}{}:
		default:
		}
	})

	s, err := NewScheduler(&testhelpers.MockAccountService{}, presence, SchedulerConfig{SettleEvery: time.Second})
	require.NoError(t, err)

	stop := s.Start(context.Background())
	defer stop()

	select {
	case <-settled:
	case <-time.After(5 * time.Second):
		t.Fatal("presence settlement never ran")
	}
}
