package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "$", cfg.CommandPrefix)
	assert.Equal(t, "Bot Admin", cfg.AdminRoleName)
	assert.Equal(t, SnapshotBackendFile, cfg.SnapshotBackend)
	assert.Equal(t, "data.json", cfg.SnapshotPath)
	assert.Equal(t, int64(100), cfg.StartingBalance)
	assert.Equal(t, 30*time.Minute, cfg.PresenceInterval)
	assert.Equal(t, int64(15000), cfg.LotteryPotFloor)
	assert.Equal(t, 3, cfg.LotteryMinTickets)
	assert.Empty(t, cfg.NATSServers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("TIMEZONE", "America/New_York")
	t.Setenv("STARTING_BALANCE", "250")
	t.Setenv("PRESENCE_INTERVAL", "10m")
	t.Setenv("DAILY_RESET_HOUR", "6")
	t.Setenv("SNAPSHOT_BACKEND", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432")
	t.Setenv("DATABASE_NAME", "wagerbot")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(250), cfg.StartingBalance)
	assert.Equal(t, 10*time.Minute, cfg.PresenceInterval)
	assert.Equal(t, 6, cfg.DailyResetHour)
	assert.Equal(t, SnapshotBackendPostgres, cfg.SnapshotBackend)
	assert.Equal(t, "postgres://u:p@localhost:5432/wagerbot?sslmode=disable", cfg.GetDatabaseURL())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "bad integer",
			env:  map[string]string{"STARTING_BALANCE": "lots"},
			want: "STARTING_BALANCE",
		},
		{
			name: "bad duration",
			env:  map[string]string{"ACTIVITY_COOLDOWN": "soon"},
			want: "ACTIVITY_COOLDOWN",
		},
		{
			name: "reset hour out of range",
			env:  map[string]string{"DAILY_RESET_HOUR": "24"},
			want: "DAILY_RESET_HOUR",
		},
		{
			name: "reward range inverted",
			env:  map[string]string{"DAILY_REWARD_MIN": "200", "DAILY_REWARD_MAX": "100"},
			want: "DAILY_REWARD_MIN",
		},
		{
			name: "unknown timezone",
			env:  map[string]string{"TIMEZONE": "Mars/Olympus"},
			want: "timezone",
		},
		{
			name: "postgres without url",
			env:  map[string]string{"SNAPSHOT_BACKEND": "postgres"},
			want: "DATABASE_URL",
		},
		{
			name: "cached without redis",
			env:  map[string]string{"SNAPSHOT_BACKEND": "cached", "DATABASE_URL": "postgres://localhost"},
			want: "REDIS_URL",
		},
		{
			name: "unknown backend",
			env:  map[string]string{"SNAPSHOT_BACKEND": "s3"},
			want: "SNAPSHOT_BACKEND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", "test")
			t.Setenv("TIMEZONE", "UTC")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateBot(t *testing.T) {
	t.Parallel()

	cfg := NewTestConfig()
	assert.ErrorContains(t, cfg.ValidateBot(), "DISCORD_TOKEN")

	cfg.DiscordToken = "token"
	assert.NoError(t, cfg.ValidateBot())

	cfg.CommandPrefix = ""
	assert.ErrorContains(t, cfg.ValidateBot(), "COMMAND_PREFIX")
}

func TestToSettings(t *testing.T) {
	t.Parallel()

	cfg := NewTestConfig()
	cfg.StartingBalance = 500
	cfg.TicketCost = 25
	cfg.DailyResetHour = 4

	settings, err := cfg.ToSettings()
	require.NoError(t, err)

	assert.Equal(t, int64(500), settings.StartingBalance)
	assert.Equal(t, int64(25), settings.TicketCost)
	assert.Equal(t, 4, settings.DailyResetHour)
	assert.Equal(t, time.UTC, settings.Location)
	assert.Equal(t, cfg.PowerballBonus, settings.PowerballBonus)
}

func TestGet_UsesTestOverride(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg := NewTestConfig()
	cfg.AdminRoleName = "Croupier"
	SetTestConfig(cfg)

	assert.Equal(t, "Croupier", Get().AdminRoleName)
}
