package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wagerbot/domain/interfaces"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// SchedulerConfig controls when recurring engine jobs run
type SchedulerConfig struct {
	Location         *time.Location
	DailyResetHour   int
	DailyResetMinute int
	// SettleEvery is how often due presence sessions are checked. Sessions
	// pay on their own boundaries, so this only bounds the payout delay.
	SettleEvery time.Duration
}

// Scheduler runs the daily epoch reset and presence settlement
type Scheduler struct {
	accounts interfaces.AccountService
	presence interfaces.PresenceTracker
	config   SchedulerConfig
	cron     *cron.Cron
}

// NewScheduler registers the recurring jobs without starting them
func NewScheduler(accounts interfaces.AccountService, presence interfaces.PresenceTracker, cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.SettleEvery <= 0 {
		cfg.SettleEvery = time.Minute
	}

	s := &Scheduler{
		accounts: accounts,
		presence: presence,
		config:   cfg,
		cron:     cron.New(cron.WithLocation(cfg.Location)),
	}

	if _, err := s.cron.AddFunc(s.DailyResetSpec(), func() { s.RunDailyReset(context.Background()) }); err != nil {
		return nil, fmt.Errorf("failed to schedule daily reset: %w", err)
	}
	s.cron.Schedule(cron.Every(cfg.SettleEvery), cron.FuncJob(func() { s.RunSettle(context.Background()) }))

	return s, nil
}

// DailyResetSpec is the cron expression for the daily reset
func (s *Scheduler) DailyResetSpec() string {
	return fmt.Sprintf("%d %d * * *", s.config.DailyResetMinute, s.config.DailyResetHour)
}

// NextDailyReset reports when the daily reset fires next after t
func (s *Scheduler) NextDailyReset(t time.Time) (time.Time, error) {
	schedule, err := cron.ParseStandard(s.DailyResetSpec())
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse daily reset schedule: %w", err)
	}
	return schedule.Next(t.In(s.config.Location)), nil
}

// Start runs the cron loop and returns a function that stops it, waiting
// for any running job to finish
func (s *Scheduler) Start(ctx context.Context) func() {
	s.cron.Start()
	log.WithFields(log.Fields{
		"dailyReset":  s.DailyResetSpec(),
		"location":    s.config.Location.String(),
		"settleEvery": s.config.SettleEvery,
	}).Info("Scheduler started")

	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			s.stop()
		case <-stopped:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stopped)
			s.stop()
		})
	}
}

func (s *Scheduler) stop() {
	<-s.cron.Stop().Done()
	log.Info("Scheduler stopped")
}

// RunDailyReset clears every daily claim stamp
func (s *Scheduler) RunDailyReset(ctx context.Context) {
	cleared, err := s.accounts.ResetDailyEpoch(ctx)
	if err != nil {
		log.WithError(err).Error("Daily reset failed")
		return
	}
	log.WithField("clearedClaims", cleared).Info("Daily claims reset")
}

// RunSettle pays every due presence session
func (s *Scheduler) RunSettle(ctx context.Context) {
	payouts, err := s.presence.Settle(ctx)
	if err != nil {
		log.WithError(err).Error("Presence settlement failed")
		return
	}
	if len(payouts) == 0 {
		return
	}

	var total int64
	for _, p := range payouts {
		total += p.Points
	}
	log.WithFields(log.Fields{
		"users":  len(payouts),
		"points": total,
	}).Info("Presence payouts settled")
}
