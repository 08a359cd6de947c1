package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"wagerbot/domain/entities"
	"wagerbot/domain/events"
	"wagerbot/domain/interfaces"
	"wagerbot/domain/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const betIDLength = 8

// betMarket implements the lifecycle of peer-created binary bets
type betMarket struct {
	ledger *Ledger
}

// NewBetMarket creates a new bet market
func NewBetMarket(ledger *Ledger) interfaces.BetMarket {
	return &betMarket{ledger: ledger}
}

// CreateBet opens a bet that closes durationMinutes from now
func (m *betMarket) CreateBet(ctx context.Context, creatorID int64, name, option1, option2 string, durationMinutes int) (*entities.Bet, error) {
	if durationMinutes < entities.MinBetDurationMinutes || durationMinutes > entities.MaxBetDurationMinutes {
		return nil, fmt.Errorf("%w: %d minutes, must be between %d and %d",
			entities.ErrInvalidDuration, durationMinutes, entities.MinBetDurationMinutes, entities.MaxBetDurationMinutes)
	}
	option1, option2 = strings.TrimSpace(option1), strings.TrimSpace(option2)
	if option1 == "" || option2 == "" {
		return nil, fmt.Errorf("%w: options must not be empty", entities.ErrInvalidOption)
	}

	var bet *entities.Bet
	err := m.ledger.mutate(ctx, "create_bet", func(tx *ledgerTx) error {
		id := newBetID(tx.state.Bets)
		created := entities.NewBet(id, strings.TrimSpace(name), option1, option2, creatorID, tx.now, time.Duration(durationMinutes)*time.Minute)
		tx.state.Bets[id] = created
		tx.touch()
		tx.emit(events.BetCreatedEvent{
			BetID:     id,
			Name:      created.Name,
			Options:   created.Options[:],
			CreatedBy: creatorID,
			ClosesAt:  created.ClosesAt.Unix(),
		})
		bet = created.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"betID":     bet.ID,
		"creatorID": creatorID,
		"closesAt":  bet.ClosesAt,
	}).Info("Bet created")
	return bet, nil
}

// PlaceStake debits the user and records the stake as one step
func (m *betMarket) PlaceStake(ctx context.Context, discordID int64, betID string, option int, amount int64) (*entities.StakeReceipt, error) {
	var receipt *entities.StakeReceipt
	err := m.ledger.mutate(ctx, "place_stake", func(tx *ledgerTx) error {
		bet, ok := tx.state.Bets[betID]
		if !ok {
			return fmt.Errorf("%w: %s", entities.ErrUnknownBet, betID)
		}
		if !bet.CanAcceptStakes(tx.now) {
			return fmt.Errorf("%w: %s", entities.ErrBettingClosed, betID)
		}
		if !entities.IsValidOption(option) {
			return fmt.Errorf("%w: %d", entities.ErrInvalidOption, option)
		}
		if amount <= 0 {
			return entities.ErrInvalidAmount
		}

		balance, err := tx.debit(discordID, amount, entities.TransactionTypeBetStake, betID)
		if err != nil {
			return err
		}
		total := bet.AddStake(option, discordID, amount)
		tx.emit(events.StakePlacedEvent{
			BetID:      betID,
			UserID:     discordID,
			Option:     option,
			Amount:     amount,
			TotalStake: total,
		})

		receipt = &entities.StakeReceipt{
			Bet:        bet.Clone(),
			Option:     option,
			Amount:     amount,
			TotalStake: total,
			NewBalance: balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Resolve settles a bet. With no stake on the winning option every stake is
// refunded; otherwise winners split the losing pool pro rata.
func (m *betMarket) Resolve(ctx context.Context, betID string, winningOption int) (*entities.BetSettlement, error) {
	var settlement *entities.BetSettlement
	err := m.ledger.mutate(ctx, "resolve_bet", func(tx *ledgerTx) error {
		bet, ok := tx.state.Bets[betID]
		if !ok {
			return fmt.Errorf("%w: %s", entities.ErrUnknownBet, betID)
		}
		if bet.Resolved {
			return fmt.Errorf("%w: %s", entities.ErrAlreadyResolved, betID)
		}
		if !entities.IsValidOption(winningOption) {
			return fmt.Errorf("%w: %d", entities.ErrInvalidOption, winningOption)
		}

		losingOption := entities.BetOptionCount + 1 - winningOption
		settlement = &entities.BetSettlement{
			WinningOption: winningOption,
			TotalWinning:  bet.StakeTotal(winningOption),
			TotalLosing:   bet.StakeTotal(losingOption),
		}

		if settlement.TotalWinning == 0 {
			settlement.Refunded = true
			settlement.Refunds = bet.AllStakes()
			for i := range settlement.Refunds {
				settlement.Refunds[i].Payout = settlement.Refunds[i].Stake
			}
		} else {
			settlement.Winners = bet.StakesOn(winningOption)
			for i := range settlement.Winners {
				w := &settlement.Winners[i]
				w.Payout = utils.ProRataPayout(w.Stake, settlement.TotalWinning, settlement.TotalLosing)
			}
			sort.SliceStable(settlement.Winners, func(i, j int) bool {
				return settlement.Winners[i].Payout > settlement.Winners[j].Payout
			})
			settlement.RoundingLoss = settlement.TotalWinning + settlement.TotalLosing - settlement.TotalPaid()
		}

		for _, r := range settlement.Refunds {
			tx.credit(r.DiscordID, r.Payout, entities.TransactionTypeBetRefund, betID)
		}
		for _, w := range settlement.Winners {
			tx.credit(w.DiscordID, w.Payout, entities.TransactionTypeBetPayout, betID)
		}
		bet.MarkResolved(winningOption, tx.now)
		tx.touch()

		settlement.Bet = bet.Clone()
		tx.emit(events.BetResolvedEvent{
			BetID:         betID,
			WinningOption: winningOption,
			TotalWinning:  settlement.TotalWinning,
			TotalLosing:   settlement.TotalLosing,
			Refunded:      settlement.Refunded,
			WinnerCount:   len(settlement.Winners),
			RoundingLoss:  settlement.RoundingLoss,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"betID":         betID,
		"winningOption": winningOption,
		"totalWinning":  settlement.TotalWinning,
		"totalLosing":   settlement.TotalLosing,
		"refunded":      settlement.Refunded,
		"roundingLoss":  settlement.RoundingLoss,
	}).Info("Bet resolved")
	return settlement, nil
}

// Cancel refunds every stake on a bet that has not yet closed
func (m *betMarket) Cancel(ctx context.Context, betID string) (*entities.BetCancellation, error) {
	var cancellation *entities.BetCancellation
	err := m.ledger.mutate(ctx, "cancel_bet", func(tx *ledgerTx) error {
		bet, ok := tx.state.Bets[betID]
		if !ok {
			return fmt.Errorf("%w: %s", entities.ErrUnknownBet, betID)
		}
		if bet.Resolved {
			return fmt.Errorf("%w: %s", entities.ErrAlreadyResolved, betID)
		}
		if bet.IsExpired(tx.now) {
			return fmt.Errorf("%w: %s closed at %s", entities.ErrAlreadyExpired, betID, bet.ClosesAt.Format(time.RFC3339))
		}

		cancellation = &entities.BetCancellation{Refunds: bet.AllStakes()}
		for i := range cancellation.Refunds {
			r := &cancellation.Refunds[i]
			r.Payout = r.Stake
			cancellation.TotalRefunded += r.Stake
			tx.credit(r.DiscordID, r.Stake, entities.TransactionTypeBetRefund, betID)
		}
		bet.MarkResolved(0, tx.now)
		tx.touch()

		cancellation.Bet = bet.Clone()
		tx.emit(events.BetCancelledEvent{BetID: betID, TotalRefunded: cancellation.TotalRefunded})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"betID":         betID,
		"totalRefunded": cancellation.TotalRefunded,
	}).Info("Bet cancelled")
	return cancellation, nil
}

// ActiveBets lists bets still accepting stakes, soonest closing first
func (m *betMarket) ActiveBets(ctx context.Context) ([]*entities.Bet, error) {
	bets := []*entities.Bet{}
	m.ledger.read(func(state *entities.State, now time.Time) {
		for _, bet := range state.Bets {
			if bet.CanAcceptStakes(now) {
				bets = append(bets, bet.Clone())
			}
		}
	})

	sort.Slice(bets, func(i, j int) bool {
		if !bets[i].ClosesAt.Equal(bets[j].ClosesAt) {
			return bets[i].ClosesAt.Before(bets[j].ClosesAt)
		}
		return bets[i].ID < bets[j].ID
	})
	return bets, nil
}

// GetBet returns a copy of a bet
func (m *betMarket) GetBet(ctx context.Context, betID string) (*entities.Bet, error) {
	var bet *entities.Bet
	m.ledger.read(func(state *entities.State, _ time.Time) {
		if b, ok := state.Bets[betID]; ok {
			bet = b.Clone()
		}
	})
	if bet == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrUnknownBet, betID)
	}
	return bet, nil
}

// newBetID returns a short id not already present in bets
func newBetID(bets map[string]*entities.Bet) string {
	for {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")[:betIDLength]
		if _, exists := bets[id]; !exists {
			return id
		}
	}
}
