package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"wagerbot/domain/entities"
	"wagerbot/domain/events"
	"wagerbot/domain/interfaces"
	"wagerbot/domain/utils"

	log "github.com/sirupsen/logrus"
)

// accountService implements balance operations on the ledger
type accountService struct {
	ledger *Ledger
}

// NewAccountService creates a new account service
func NewAccountService(ledger *Ledger) interfaces.AccountService {
	return &accountService{ledger: ledger}
}

// EnsureAccount returns the user's balance, provisioning the account if absent
func (s *accountService) EnsureAccount(ctx context.Context, discordID int64) (int64, error) {
	var balance int64
	err := s.ledger.mutate(ctx, "ensure_account", func(tx *ledgerTx) error {
		balance = tx.account(discordID).Balance
		return nil
	})
	return balance, err
}

// Credit adds points to a user's balance
func (s *accountService) Credit(ctx context.Context, discordID int64, amount int64, txType entities.TransactionType) (int64, error) {
	if amount <= 0 {
		return 0, entities.ErrInvalidAmount
	}

	var balance int64
	err := s.ledger.mutate(ctx, "credit", func(tx *ledgerTx) error {
		balance = tx.credit(discordID, amount, txType, "")
		return nil
	})
	return balance, err
}

// Debit removes points from a user's balance
func (s *accountService) Debit(ctx context.Context, discordID int64, amount int64, txType entities.TransactionType) (int64, error) {
	if amount <= 0 {
		return 0, entities.ErrInvalidAmount
	}

	var balance int64
	err := s.ledger.mutate(ctx, "debit", func(tx *ledgerTx) error {
		var err error
		balance, err = tx.debit(discordID, amount, txType, "")
		return err
	})
	return balance, err
}

// Balance returns the user's balance. Unseen users report the starting
// balance they would be provisioned with.
func (s *accountService) Balance(ctx context.Context, discordID int64) (int64, error) {
	var balance int64
	s.ledger.read(func(state *entities.State, _ time.Time) {
		if acct, ok := state.Accounts[discordID]; ok {
			balance = acct.Balance
			return
		}
		balance = s.ledger.settings.StartingBalance
	})
	return balance, nil
}

// Top returns the n highest balances, ties broken by first-seen order
func (s *accountService) Top(ctx context.Context, n int) ([]entities.LeaderboardEntry, error) {
	if n <= 0 {
		return []entities.LeaderboardEntry{}, nil
	}

	var accounts []entities.Account
	s.ledger.read(func(state *entities.State, _ time.Time) {
		accounts = make([]entities.Account, 0, len(state.Accounts))
		for _, acct := range state.Accounts {
			accounts = append(accounts, *acct)
		}
	})

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Balance != accounts[j].Balance {
			return accounts[i].Balance > accounts[j].Balance
		}
		return accounts[i].Seq < accounts[j].Seq
	})
	if len(accounts) > n {
		accounts = accounts[:n]
	}

	entries := make([]entities.LeaderboardEntry, len(accounts))
	for i, acct := range accounts {
		entries[i] = entities.LeaderboardEntry{
			Rank:      i + 1,
			DiscordID: acct.DiscordID,
			Balance:   acct.Balance,
		}
	}
	return entries, nil
}

// DailyClaim credits a reward drawn from the daily range once per epoch
func (s *accountService) DailyClaim(ctx context.Context, discordID int64) (*entities.DailyClaimResult, error) {
	var result *entities.DailyClaimResult
	err := s.ledger.mutate(ctx, "daily_claim", func(tx *ledgerTx) error {
		cfg := tx.settings
		next := utils.NextEpochStart(tx.now, cfg.Location, cfg.DailyResetHour, cfg.DailyResetMinute)

		if stamp, ok := tx.state.DailyClaims[discordID]; ok &&
			utils.SameEpoch(stamp, tx.now, cfg.Location, cfg.DailyResetHour, cfg.DailyResetMinute) {
			return fmt.Errorf("%w: next claim at %s", entities.ErrAlreadyClaimed, next.Format(time.Kitchen))
		}

		reward := cfg.DailyRewardMin
		if spread := cfg.DailyRewardMax - cfg.DailyRewardMin; spread > 0 {
			reward += int64(tx.random.Intn(int(spread) + 1))
		}

		balance := tx.credit(discordID, reward, entities.TransactionTypeDailyClaim, "")
		tx.state.DailyClaims[discordID] = tx.now
		tx.emit(events.DailyClaimedEvent{UserID: discordID, Reward: reward})

		result = &entities.DailyClaimResult{
			Reward:     reward,
			NewBalance: balance,
			NextEpoch:  next,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ResetDailyEpoch clears every claim stamp in one step
func (s *accountService) ResetDailyEpoch(ctx context.Context) (int, error) {
	var cleared int
	err := s.ledger.mutate(ctx, "reset_daily_epoch", func(tx *ledgerTx) error {
		cleared = len(tx.state.DailyClaims)
		tx.state.DailyClaims = make(map[int64]time.Time)
		tx.touch()
		tx.emit(events.DailyEpochResetEvent{ClearedClaims: cleared})
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.WithField("clearedClaims", cleared).Info("Daily claim epoch reset")
	return cleared, nil
}

// RewardActivity credits a chat message when the user's cooldown has passed
func (s *accountService) RewardActivity(ctx context.Context, discordID int64) (*entities.ActivityReward, error) {
	result := &entities.ActivityReward{}
	err := s.ledger.mutate(ctx, "reward_activity", func(tx *ledgerTx) error {
		acct := tx.account(discordID)
		if last, ok := tx.state.LastActivity[discordID]; ok && tx.now.Sub(last) < tx.settings.ActivityCooldown {
			result.NewBalance = acct.Balance
			return nil
		}

		result.Rewarded = true
		result.Points = tx.settings.ActivityReward
		result.NewBalance = tx.credit(discordID, tx.settings.ActivityReward, entities.TransactionTypeActivityReward, "")
		tx.state.LastActivity[discordID] = tx.now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Grant credits an admin grant
func (s *accountService) Grant(ctx context.Context, discordID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, entities.ErrInvalidAmount
	}
	if amount > s.ledger.settings.MaxGrant {
		return 0, fmt.Errorf("%w: %d > %d", entities.ErrGrantTooLarge, amount, s.ledger.settings.MaxGrant)
	}

	var balance int64
	err := s.ledger.mutate(ctx, "grant", func(tx *ledgerTx) error {
		balance = tx.credit(discordID, amount, entities.TransactionTypeAdminGrant, "")
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"userID":     discordID,
		"amount":     amount,
		"newBalance": balance,
	}).Info("Admin grant applied")
	return balance, nil
}
