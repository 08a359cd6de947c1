package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"wagerbot/database"
	"wagerbot/domain/services"
)

// Snapshot backends
const (
	SnapshotBackendFile     = "file"
	SnapshotBackendPostgres = "postgres"
	SnapshotBackendRedis    = "redis"
	SnapshotBackendCached   = "cached"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken  string
	GuildID       string
	CommandPrefix string
	AdminRoleName string

	// Snapshot persistence
	SnapshotBackend        string
	SnapshotPath           string
	SnapshotFlushInterval  time.Duration
	SnapshotResetOnCorrupt bool
	SnapshotHistory        int

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Redis configuration
	RedisURL string
	RedisKey string

	// NATS configuration, empty disables publishing
	NATSServers string

	// Status API listen address, empty disables the server
	StatusAPIAddr string

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelServiceName          string
	OTelExportIntervalMillis int

	// Economy
	StartingBalance    int64
	Timezone           string
	DailyResetHour     int
	DailyResetMinute   int
	DailyRewardMin     int64
	DailyRewardMax     int64
	PresenceInterval   time.Duration
	PresenceBasePoints int64
	PresenceScaleDown  int64
	PresenceMinPoints  int64
	PresenceCapHours   int64
	ActivityReward     int64
	ActivityCooldown   time.Duration
	MaxGrant           int64
	TicketCost         int64
	LotteryStartingPot int64
	LotteryPotFloor    int64
	LotteryMinTickets  int
	PowerballBonus     int64

	// Environment
	Environment string // "development", "production" or "test"
	LogLevel    string
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Load reads and validates the configuration from the environment without
// touching the global instance
func Load() (*Config, error) {
	return load()
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ToSettings converts the economy configuration into engine settings
func (c *Config) ToSettings() (services.Settings, error) {
	loc, err := c.Location()
	if err != nil {
		return services.Settings{}, err
	}

	settings := services.DefaultSettings()
	settings.StartingBalance = c.StartingBalance
	settings.Location = loc
	settings.DailyResetHour = c.DailyResetHour
	settings.DailyResetMinute = c.DailyResetMinute
	settings.DailyRewardMin = c.DailyRewardMin
	settings.DailyRewardMax = c.DailyRewardMax
	settings.PresenceInterval = c.PresenceInterval
	settings.PresenceBasePoints = c.PresenceBasePoints
	settings.PresenceScaleDown = c.PresenceScaleDown
	settings.PresenceMinPoints = c.PresenceMinPoints
	settings.PresenceCapHours = c.PresenceCapHours
	settings.ActivityReward = c.ActivityReward
	settings.ActivityCooldown = c.ActivityCooldown
	settings.MaxGrant = c.MaxGrant
	settings.TicketCost = c.TicketCost
	settings.LotteryStartingPot = c.LotteryStartingPot
	settings.LotteryPotFloor = c.LotteryPotFloor
	settings.LotteryMinTickets = c.LotteryMinTickets
	settings.PowerballBonus = c.PowerballBonus
	return settings, nil
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := defaults()

	config.DiscordToken = os.Getenv("DISCORD_TOKEN")
	config.GuildID = os.Getenv("GUILD_ID")
	config.CommandPrefix = getEnvWithDefault("COMMAND_PREFIX", config.CommandPrefix)
	config.AdminRoleName = getEnvWithDefault("ADMIN_ROLE_NAME", config.AdminRoleName)

	config.SnapshotBackend = strings.ToLower(getEnvWithDefault("SNAPSHOT_BACKEND", config.SnapshotBackend))
	config.SnapshotPath = getEnvWithDefault("SNAPSHOT_PATH", config.SnapshotPath)
	config.SnapshotResetOnCorrupt = os.Getenv("SNAPSHOT_RESET_ON_CORRUPT") == "true"

	config.DatabaseURL = os.Getenv("DATABASE_URL")
	config.DatabaseName = os.Getenv("DATABASE_NAME")
	config.RedisURL = os.Getenv("REDIS_URL")
	config.RedisKey = getEnvWithDefault("REDIS_KEY", config.RedisKey)
	config.NATSServers = os.Getenv("NATS_SERVERS")
	config.StatusAPIAddr = os.Getenv("STATUS_API_ADDR")

	config.OTelEnabled = os.Getenv("OTEL_ENABLED") == "true"
	config.OTelExporterType = getEnvWithDefault("OTEL_EXPORTER_TYPE", config.OTelExporterType)
	config.OTelOTLPEndpoint = getEnvWithDefault("OTEL_OTLP_ENDPOINT", config.OTelOTLPEndpoint)
	config.OTelServiceName = getEnvWithDefault("OTEL_SERVICE_NAME", config.OTelServiceName)

	config.Timezone = getEnvWithDefault("TIMEZONE", config.Timezone)
	config.Environment = getEnvWithDefault("ENVIRONMENT", config.Environment)
	config.LogLevel = getEnvWithDefault("LOG_LEVEL", config.LogLevel)

	parsers := []error{
		parseInt64("STARTING_BALANCE", &config.StartingBalance),
		parseInt("DAILY_RESET_HOUR", &config.DailyResetHour),
		parseInt("DAILY_RESET_MINUTE", &config.DailyResetMinute),
		parseInt64("DAILY_REWARD_MIN", &config.DailyRewardMin),
		parseInt64("DAILY_REWARD_MAX", &config.DailyRewardMax),
		parseDuration("PRESENCE_INTERVAL", &config.PresenceInterval),
		parseInt64("PRESENCE_BASE_POINTS", &config.PresenceBasePoints),
		parseInt64("PRESENCE_SCALE_DOWN", &config.PresenceScaleDown),
		parseInt64("PRESENCE_MIN_POINTS", &config.PresenceMinPoints),
		parseInt64("PRESENCE_CAP_HOURS", &config.PresenceCapHours),
		parseInt64("ACTIVITY_REWARD", &config.ActivityReward),
		parseDuration("ACTIVITY_COOLDOWN", &config.ActivityCooldown),
		parseInt64("MAX_GRANT", &config.MaxGrant),
		parseInt64("TICKET_COST", &config.TicketCost),
		parseInt64("LOTTERY_STARTING_POT", &config.LotteryStartingPot),
		parseInt64("LOTTERY_POT_FLOOR", &config.LotteryPotFloor),
		parseInt("LOTTERY_MIN_TICKETS", &config.LotteryMinTickets),
		parseInt64("POWERBALL_BONUS", &config.PowerballBonus),
		parseDuration("SNAPSHOT_FLUSH_INTERVAL", &config.SnapshotFlushInterval),
		parseInt("SNAPSHOT_HISTORY", &config.SnapshotHistory),
		parseInt("OTEL_EXPORT_INTERVAL_MS", &config.OTelExportIntervalMillis),
	}
	for _, err := range parsers {
		if err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if c.DailyResetHour < 0 || c.DailyResetHour > 23 {
		return fmt.Errorf("DAILY_RESET_HOUR must be 0-23, got %d", c.DailyResetHour)
	}
	if c.DailyResetMinute < 0 || c.DailyResetMinute > 59 {
		return fmt.Errorf("DAILY_RESET_MINUTE must be 0-59, got %d", c.DailyResetMinute)
	}
	if c.DailyRewardMin > c.DailyRewardMax {
		return fmt.Errorf("DAILY_REWARD_MIN %d exceeds DAILY_REWARD_MAX %d", c.DailyRewardMin, c.DailyRewardMax)
	}
	if c.PresenceInterval <= 0 {
		return fmt.Errorf("PRESENCE_INTERVAL must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	switch c.SnapshotBackend {
	case SnapshotBackendFile:
	case SnapshotBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres snapshot backend")
		}
	case SnapshotBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis snapshot backend")
		}
	case SnapshotBackendCached:
		if c.DatabaseURL == "" || c.RedisURL == "" {
			return fmt.Errorf("DATABASE_URL and REDIS_URL are required for the cached snapshot backend")
		}
	default:
		return fmt.Errorf("unknown SNAPSHOT_BACKEND %q", c.SnapshotBackend)
	}
	return nil
}

// ValidateBot checks what only the gateway needs, so the maintenance
// subcommands can run without Discord credentials
func (c *Config) ValidateBot() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.CommandPrefix == "" {
		return fmt.Errorf("COMMAND_PREFIX must not be empty")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		CommandPrefix:            "$",
		AdminRoleName:            "Bot Admin",
		SnapshotBackend:          SnapshotBackendFile,
		SnapshotPath:             "data.json",
		SnapshotFlushInterval:    5 * time.Second,
		SnapshotHistory:          20,
		RedisKey:                 "wagerbot:snapshot",
		OTelExporterType:         "console",
		OTelOTLPEndpoint:         "localhost:4317",
		OTelServiceName:          "wagerbot",
		OTelExportIntervalMillis: 30000,
		StartingBalance:          100,
		Timezone:                 "US/Eastern",
		DailyResetHour:           0,
		DailyResetMinute:         0,
		DailyRewardMin:           100,
		DailyRewardMax:           150,
		PresenceInterval:         30 * time.Minute,
		PresenceBasePoints:       15,
		PresenceScaleDown:        3,
		PresenceMinPoints:        3,
		PresenceCapHours:         4,
		ActivityReward:           1,
		ActivityCooldown:         60 * time.Second,
		MaxGrant:                 10000,
		TicketCost:               10,
		LotteryStartingPot:       15000,
		LotteryPotFloor:          15000,
		LotteryMinTickets:        3,
		PowerballBonus:           50,
		Environment:              "development",
		LogLevel:                 "info",
	}
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt64(key string, target *int64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*target = parsed
	return nil
}

func parseInt(key string, target *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*target = parsed
	return nil
}

func parseDuration(key string, target *time.Duration) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*target = parsed
	return nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	config := defaults()
	config.Environment = "test"
	config.Timezone = "UTC"
	config.SnapshotPath = "test-data.json"
	return config
}
