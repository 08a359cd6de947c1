package cmd

import (
	"context"
	"fmt"
	"time"

	"wagerbot/application"
	"wagerbot/bot"
	"wagerbot/config"
	"wagerbot/database"
	"wagerbot/domain/interfaces"
	"wagerbot/domain/services"
	"wagerbot/httpapi"
	"wagerbot/infrastructure"
	"wagerbot/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting wagerbot...")

	cfg := config.Get()
	if err := cfg.ValidateBot(); err != nil {
		return err
	}
	settings, err := cfg.ToSettings()
	if err != nil {
		return fmt.Errorf("failed to build engine settings: %w", err)
	}

	// Metrics come first so the snapshot writer can record flushes
	metricsProvider := observability.NewMetricsProvider(cfg)
	if err := metricsProvider.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsProvider.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Failed to shut down metrics provider")
		}
	}()

	store, closeStore, err := openSnapshotStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	state, fresh, err := services.LoadState(ctx, store, settings, cfg.SnapshotResetOnCorrupt)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	writer := infrastructure.NewSnapshotWriter(store, cfg.SnapshotFlushInterval, metricsProvider)
	// Detached from ctx so the final flush happens after the bot and
	// scheduler have stopped mutating
	stopWriter := writer.Start(context.WithoutCancel(ctx))
	defer stopWriter()

	publisher, closePublisher, err := openEventPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePublisher()

	ledger := services.NewLedger(state, settings,
		services.WithSnapshotSink(writer),
		services.WithEventPublisher(publisher),
		services.WithMetrics(metricsProvider),
	)
	if fresh {
		if err := ledger.Persist(ctx); err != nil {
			return fmt.Errorf("failed to persist initial state: %w", err)
		}
	}

	svc := bot.Services{
		Accounts: services.NewAccountService(ledger),
		Presence: services.NewPresenceTracker(ledger),
		Bets:     services.NewBetMarket(ledger),
		Lottery:  services.NewLotteryPool(ledger),
	}

	scheduler, err := application.NewScheduler(svc.Accounts, svc.Presence, application.SchedulerConfig{
		Location:         settings.Location,
		DailyResetHour:   settings.DailyResetHour,
		DailyResetMinute: settings.DailyResetMinute,
	})
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	stopScheduler := scheduler.Start(ctx)
	defer stopScheduler()

	if cfg.StatusAPIAddr != "" {
		statusAPI := httpapi.NewServer(cfg.StatusAPIAddr, svc.Accounts, svc.Bets, svc.Lottery)
		stopStatusAPI := statusAPI.Start(ctx)
		defer stopStatusAPI()
	}

	discordBot, err := bot.New(bot.Config{
		Token:         cfg.DiscordToken,
		GuildID:       cfg.GuildID,
		Prefix:        cfg.CommandPrefix,
		AdminRoleName: cfg.AdminRoleName,
		TicketCost:    settings.TicketCost,
	}, svc)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	log.WithFields(log.Fields{
		"environment": cfg.Environment,
		"backend":     store.Backend(),
		"fresh":       fresh,
	}).Info("Bot is running")
	<-ctx.Done()

	log.Info("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}
	return nil
}

// openSnapshotStore builds the configured backend. The returned function
// releases its connections.
func openSnapshotStore(ctx context.Context, cfg *config.Config) (interfaces.SnapshotStore, func(), error) {
	noop := func() {}

	switch cfg.SnapshotBackend {
	case config.SnapshotBackendFile:
		return infrastructure.NewFileSnapshotStore(cfg.SnapshotPath), noop, nil

	case config.SnapshotBackendPostgres, config.SnapshotBackendCached:
		dbURL := cfg.GetDatabaseURL()
		if err := database.MigrateUp(dbURL); err != nil {
			return nil, noop, fmt.Errorf("failed to migrate database: %w", err)
		}
		db, err := database.NewConnection(ctx, dbURL)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Database connection established successfully")

		var store interfaces.SnapshotStore = infrastructure.NewPostgresSnapshotStore(db, "default", cfg.SnapshotHistory)
		if cfg.SnapshotBackend == config.SnapshotBackendPostgres {
			return store, db.Close, nil
		}

		rdb, err := infrastructure.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("failed to connect to redis: %w", err)
		}
		cache := infrastructure.NewRedisSnapshotStore(rdb, cfg.RedisKey, 0)
		return infrastructure.NewCachedSnapshotStore(store, cache), func() {
			rdb.Close()
			db.Close()
		}, nil

	case config.SnapshotBackendRedis:
		rdb, err := infrastructure.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return infrastructure.NewRedisSnapshotStore(rdb, cfg.RedisKey, 0), func() { rdb.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown snapshot backend %q", cfg.SnapshotBackend)
	}
}

// openEventPublisher connects to NATS when configured and falls back to a
// no-op publisher otherwise
func openEventPublisher(ctx context.Context, cfg *config.Config) (interfaces.EventPublisher, func(), error) {
	if cfg.NATSServers == "" {
		log.Info("NATS_SERVERS not set, domain events will not be published")
		return infrastructure.NewNoopEventPublisher(), func() {}, nil
	}

	client := infrastructure.NewNATSClient(cfg.NATSServers)
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		return nil, func() {}, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	mapper := infrastructure.NewEventSubjectMapper()
	if err := client.EnsureStream(infrastructure.EventStreamName, mapper.StreamSubjects()); err != nil {
		client.Close()
		return nil, func() {}, fmt.Errorf("failed to ensure event stream: %w", err)
	}

	closeClient := func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Error("Failed to close NATS connection")
		}
	}
	return infrastructure.NewNATSEventPublisher(client, mapper), closeClient, nil
}
