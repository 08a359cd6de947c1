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

// lotteryPool implements ticket sales against the shared pot and the tiered draw
type lotteryPool struct {
	ledger *Ledger
}

// NewLotteryPool creates a new lottery pool
func NewLotteryPool(ledger *Ledger) interfaces.LotteryPool {
	return &lotteryPool{ledger: ledger}
}

// BuyRandomTickets buys count quick-pick tickets
func (p *lotteryPool) BuyRandomTickets(ctx context.Context, discordID int64, count int) (*entities.TicketPurchase, error) {
	if count < entities.MinTicketsPerPurchase || count > entities.MaxTicketsPerPurchase {
		return nil, fmt.Errorf("%w: %d, must be between %d and %d",
			entities.ErrInvalidTicketCount, count, entities.MinTicketsPerPurchase, entities.MaxTicketsPerPurchase)
	}

	var purchase *entities.TicketPurchase
	err := p.ledger.mutate(ctx, "buy_random_tickets", func(tx *ledgerTx) error {
		cost := int64(count) * tx.settings.TicketCost
		if _, err := tx.requireFunds(discordID, cost); err != nil {
			return err
		}

		tickets := make([]*entities.LotteryTicket, 0, count)
		for i := 0; i < count; i++ {
			numbers := sampleDistinct(tx.random, entities.LotteryPickCount, entities.LotteryMainMin, entities.LotteryMainMax)
			bonus := sampleInRange(tx.random, entities.LotteryBonusMin, entities.LotteryBonusMax)
			ticket, err := entities.NewLotteryTicket(discordID, numbers, bonus, tx.now)
			if err != nil {
				return fmt.Errorf("failed to generate ticket: %w", err)
			}
			tickets = append(tickets, ticket)
		}

		purchase = sellTickets(tx, discordID, tickets, cost)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// BuyChosenTicket buys a single ticket with the given numbers
func (p *lotteryPool) BuyChosenTicket(ctx context.Context, discordID int64, numbers []int, bonus int) (*entities.TicketPurchase, error) {
	var purchase *entities.TicketPurchase
	err := p.ledger.mutate(ctx, "buy_chosen_ticket", func(tx *ledgerTx) error {
		ticket, err := entities.NewLotteryTicket(discordID, numbers, bonus, tx.now)
		if err != nil {
			return err
		}
		cost := tx.settings.TicketCost
		if _, err := tx.requireFunds(discordID, cost); err != nil {
			return err
		}

		purchase = sellTickets(tx, discordID, []*entities.LotteryTicket{ticket}, cost)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// sellTickets moves cost from the buyer to the pot and appends the tickets.
// Funds must already be verified.
func sellTickets(tx *ledgerTx, discordID int64, tickets []*entities.LotteryTicket, cost int64) *entities.TicketPurchase {
	balance, _ := tx.debit(discordID, cost, entities.TransactionTypeLottoTicket, "")
	tx.state.LotteryPot += cost
	tx.state.LotteryTickets = append(tx.state.LotteryTickets, tickets...)

	tx.emit(events.TicketsPurchasedEvent{
		UserID:    discordID,
		Count:     len(tickets),
		TotalCost: cost,
		Pot:       tx.state.LotteryPot,
	})

	copies := make([]*entities.LotteryTicket, len(tickets))
	for i, t := range tickets {
		c := *t
		copies[i] = &c
	}
	return &entities.TicketPurchase{
		Tickets:    copies,
		TotalCost:  cost,
		NewBalance: balance,
		Pot:        tx.state.LotteryPot,
	}
}

// Draw settles the whole ticket pool.
//
// Powerball payouts come off the pot first, one flat bonus per ticket whose
// bonus number matches. Each main tier then takes its percentage of what is
// left, in jackpot, match-5, match-4 order, and splits it evenly; division
// remainders are dropped. A jackpot empties the pot, otherwise the remainder
// rolls over. The ticket pool is always cleared.
func (p *lotteryPool) Draw(ctx context.Context) (*entities.LotteryDrawResult, error) {
	var result *entities.LotteryDrawResult
	err := p.ledger.mutate(ctx, "lottery_draw", func(tx *ledgerTx) error {
		cfg := tx.settings
		tickets := tx.state.LotteryTickets
		if len(tickets) < cfg.LotteryMinTickets {
			return fmt.Errorf("%w: %d in pool, need %d", entities.ErrInsufficientTickets, len(tickets), cfg.LotteryMinTickets)
		}

		numbers := sampleDistinct(tx.random, entities.LotteryPickCount, entities.LotteryMainMin, entities.LotteryMainMax)
		sort.Ints(numbers)
		draw := entities.LotteryDraw{
			Bonus:   sampleInRange(tx.random, entities.LotteryBonusMin, entities.LotteryBonusMax),
			DrawnAt: tx.now,
		}
		copy(draw.Numbers[:], numbers)

		result = settleDraw(draw, tickets, tx.state.LotteryPot, cfg)

		for _, w := range result.Winners {
			tx.credit(w.DiscordID, w.Payout, entities.TransactionTypeLottoWin, "")
		}
		tx.state.LotteryPot = result.PotAfter
		tx.state.LotteryTickets = nil
		tx.state.DrawHistory = append(tx.state.DrawHistory, draw)
		tx.touch()

		tx.emit(events.LotteryDrawnEvent{
			Numbers:     draw.Numbers[:],
			Bonus:       draw.Bonus,
			TicketCount: result.TicketCount,
			PotBefore:   result.PotBefore,
			PotAfter:    result.PotAfter,
			TotalPaid:   result.TotalPaid(),
			WinnerCount: len(result.Winners),
			Rollover:    result.Rollover,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"numbers":   result.Draw.Format(),
		"tickets":   result.TicketCount,
		"winners":   len(result.Winners),
		"totalPaid": result.TotalPaid(),
		"potAfter":  result.PotAfter,
		"rollover":  result.Rollover,
	}).Info("Lottery drawn")
	return result, nil
}

// settleDraw computes the full payout plan without touching balances
func settleDraw(draw entities.LotteryDraw, tickets []*entities.LotteryTicket, pot int64, cfg *Settings) *entities.LotteryDrawResult {
	result := &entities.LotteryDrawResult{
		Draw:        draw,
		TicketCount: len(tickets),
		PotBefore:   pot,
		TierTotals:  make(map[entities.LotteryTier]int64),
	}
	remaining := pot

	tiers := make(map[entities.LotteryTier][]*entities.LotteryTicket)
	for _, t := range tickets {
		if t.MatchesBonus(draw.Bonus) {
			payout := cfg.PowerballBonus
			if payout > remaining {
				payout = remaining
			}
			if payout > 0 {
				remaining -= payout
				result.AddWinner(t, entities.LotteryTierPowerball, payout)
			}
		}
		if tier, ok := draw.MainTier(t); ok {
			tiers[tier] = append(tiers[tier], t)
		}
	}

	percentTiers := []struct {
		tier    entities.LotteryTier
		percent int64
	}{
		{entities.LotteryTierJackpot, cfg.JackpotPercent},
		{entities.LotteryTierMatch5, cfg.Match5Percent},
		{entities.LotteryTierMatch4, cfg.Match4Percent},
	}
	for _, pt := range percentTiers {
		winners := tiers[pt.tier]
		if len(winners) == 0 {
			continue
		}
		pool := utils.PercentOf(remaining, pt.percent)
		remaining -= pool
		share, _ := utils.SplitEvenly(pool, len(winners))
		if share == 0 {
			continue
		}
		for _, t := range winners {
			result.AddWinner(t, pt.tier, share)
		}
	}

	if len(tiers[entities.LotteryTierJackpot]) > 0 {
		result.PotAfter = 0
	} else {
		result.PotAfter = remaining
		result.Rollover = true
	}
	return result
}

// ResetPot sets the pot to the configured floor
func (p *lotteryPool) ResetPot(ctx context.Context) (int64, error) {
	var oldPot, newPot int64
	err := p.ledger.mutate(ctx, "reset_pot", func(tx *ledgerTx) error {
		oldPot = tx.state.LotteryPot
		newPot = tx.settings.LotteryPotFloor
		tx.state.LotteryPot = newPot
		tx.touch()
		tx.emit(events.PotResetEvent{OldPot: oldPot, NewPot: newPot})
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"oldPot": oldPot,
		"newPot": newPot,
	}).Info("Lottery pot reset")
	return newPot, nil
}

// Pot returns the current pot
func (p *lotteryPool) Pot(ctx context.Context) (int64, error) {
	var pot int64
	p.ledger.read(func(state *entities.State, _ time.Time) {
		pot = state.LotteryPot
	})
	return pot, nil
}

// PendingTickets returns copies of a user's unsettled tickets in purchase order
func (p *lotteryPool) PendingTickets(ctx context.Context, discordID int64) ([]*entities.LotteryTicket, error) {
	tickets := []*entities.LotteryTicket{}
	p.ledger.read(func(state *entities.State, _ time.Time) {
		for _, t := range state.LotteryTickets {
			if t.DiscordID == discordID {
				c := *t
				tickets = append(tickets, &c)
			}
		}
	})
	return tickets, nil
}

// TicketCount returns the size of the ticket pool
func (p *lotteryPool) TicketCount(ctx context.Context) (int, error) {
	var count int
	p.ledger.read(func(state *entities.State, _ time.Time) {
		count = len(state.LotteryTickets)
	})
	return count, nil
}

// Participants summarises the pool by owner, most tickets first
func (p *lotteryPool) Participants(ctx context.Context) ([]entities.LotteryParticipantInfo, error) {
	counts := make(map[int64]int64)
	p.ledger.read(func(state *entities.State, _ time.Time) {
		for _, t := range state.LotteryTickets {
			counts[t.DiscordID]++
		}
	})

	participants := make([]entities.LotteryParticipantInfo, 0, len(counts))
	for id, n := range counts {
		participants = append(participants, entities.LotteryParticipantInfo{DiscordID: id, TicketCount: n})
	}
	sort.Slice(participants, func(i, j int) bool {
		if participants[i].TicketCount != participants[j].TicketCount {
			return participants[i].TicketCount > participants[j].TicketCount
		}
		return participants[i].DiscordID < participants[j].DiscordID
	})
	return participants, nil
}

// DrawHistory returns up to limit draws, newest first. A non-positive limit
// returns every draw.
func (p *lotteryPool) DrawHistory(ctx context.Context, limit int) ([]entities.LotteryDraw, error) {
	var history []entities.LotteryDraw
	p.ledger.read(func(state *entities.State, _ time.Time) {
		n := len(state.DrawHistory)
		if limit <= 0 || limit > n {
			limit = n
		}
		history = make([]entities.LotteryDraw, 0, limit)
		for i := n - 1; i >= n-limit; i-- {
			history = append(history, state.DrawHistory[i])
		}
	})
	return history, nil
}
