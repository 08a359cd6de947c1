package cmd

import (
	"context"
	"fmt"

	"wagerbot/config"
	"wagerbot/domain/services"
	"wagerbot/infrastructure"

	log "github.com/sirupsen/logrus"
)

// Grant credits a user directly against the configured snapshot store.
// It must not run while the bot is running, since both would write the
// same document.
func Grant(ctx context.Context, discordID int64, amount int64) error {
	cfg := config.Get()
	settings, err := cfg.ToSettings()
	if err != nil {
		return fmt.Errorf("failed to build engine settings: %w", err)
	}

	store, closeStore, err := openSnapshotStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	state, _, err := services.LoadState(ctx, store, settings, false)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	writer := infrastructure.NewSnapshotWriter(store, cfg.SnapshotFlushInterval, nil)
	ledger := services.NewLedger(state, settings, services.WithSnapshotSink(writer))

	newBalance, err := services.NewAccountService(ledger).Grant(ctx, discordID, amount)
	if err != nil {
		return fmt.Errorf("failed to grant points: %w", err)
	}
	if err := writer.Flush(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":     discordID,
		"amount":     amount,
		"newBalance": newBalance,
	}).Info("Points granted")
	return nil
}
