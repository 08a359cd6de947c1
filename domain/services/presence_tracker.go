package services

import (
	"context"
	"math"
	"sort"
	"time"

	"wagerbot/domain/entities"
	"wagerbot/domain/events"
	"wagerbot/domain/interfaces"
	"wagerbot/domain/utils"

	log "github.com/sirupsen/logrus"
)

// presenceTracker converts active voice time into point awards.
//
// Unsettled seconds live in State.PresenceAccumulated so that time carried
// over by a channel move or a disconnect still counts toward the next
// settlement's hour count. Only a settlement pays; leaving never forces one.
type presenceTracker struct {
	ledger *Ledger
}

// NewPresenceTracker creates a new presence tracker
func NewPresenceTracker(ledger *Ledger) interfaces.PresenceTracker {
	return &presenceTracker{ledger: ledger}
}

// Activate starts a session. Already active users are left untouched.
func (p *presenceTracker) Activate(ctx context.Context, discordID int64) error {
	return p.ledger.mutate(ctx, "presence_activate", func(tx *ledgerTx) error {
		activate(tx, discordID)
		return nil
	})
}

// Move accumulates elapsed time and restarts the session clock
func (p *presenceTracker) Move(ctx context.Context, discordID int64) error {
	return p.ledger.mutate(ctx, "presence_move", func(tx *ledgerTx) error {
		move(tx, discordID)
		return nil
	})
}

// Deactivate accumulates the final elapsed time and discards the session
func (p *presenceTracker) Deactivate(ctx context.Context, discordID int64) error {
	return p.ledger.mutate(ctx, "presence_deactivate", func(tx *ledgerTx) error {
		deactivate(tx, discordID)
		return nil
	})
}

// HandleVoiceState maps a before/after voice state pair onto a transition.
// The stored session decides the transition; before only identifies a move,
// since the gateway omits it for users it has not cached.
func (p *presenceTracker) HandleVoiceState(ctx context.Context, discordID int64, before, after entities.VoiceState) error {
	isActive := after.IsActive()

	return p.ledger.mutate(ctx, "presence_voice_state", func(tx *ledgerTx) error {
		_, hasSession := tx.state.PresenceSessions[discordID]
		switch {
		case isActive && !hasSession:
			activate(tx, discordID)
		case !isActive && hasSession:
			deactivate(tx, discordID)
		case isActive && before.ChannelID != "" && before.ChannelID != after.ChannelID:
			move(tx, discordID)
		}
		return nil
	})
}

// Reconcile aligns sessions with the voice states observed on the gateway.
// Sessions of users who are no longer active are dropped without crediting
// the unobserved time; active users without a session get one.
func (p *presenceTracker) Reconcile(ctx context.Context, present map[int64]entities.VoiceState) error {
	var started, dropped int
	err := p.ledger.mutate(ctx, "presence_reconcile", func(tx *ledgerTx) error {
		for id := range tx.state.PresenceSessions {
			if state, ok := present[id]; ok && state.IsActive() {
				continue
			}
			delete(tx.state.PresenceSessions, id)
			dropped++
			tx.touch()
		}

		ids := make([]int64, 0, len(present))
		for id, state := range present {
			if state.IsActive() {
				ids = append(ids, id)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			if _, ok := tx.state.PresenceSessions[id]; !ok {
				activate(tx, id)
				started++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"started": started,
		"dropped": dropped,
	}).Info("Reconciled voice presence")
	return nil
}

// Settle pays every session whose payout boundary is at or before now
func (p *presenceTracker) Settle(ctx context.Context) ([]entities.PresencePayout, error) {
	var payouts []entities.PresencePayout
	err := p.ledger.mutate(ctx, "presence_settle", func(tx *ledgerTx) error {
		cfg := tx.settings

		ids := make([]int64, 0, len(tx.state.PresenceSessions))
		for id := range tx.state.PresenceSessions {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		for _, id := range ids {
			session := tx.state.PresenceSessions[id]
			if !session.IsPayoutDue(tx.now) {
				continue
			}

			totalSeconds := tx.state.PresenceAccumulated[id] + session.ElapsedSeconds(tx.now)
			hours := int64(math.Floor(totalSeconds / 3600))
			points := utils.PresencePoints(hours, cfg.PresenceBasePoints, cfg.PresenceScaleDown, cfg.PresenceMinPoints, cfg.PresenceCapHours)

			delete(tx.state.PresenceAccumulated, id)
			session.SessionStart = tx.now
			next := session.NextPayoutAt.Add(cfg.PresenceInterval)
			if !next.After(tx.now) {
				next = tx.now.Add(cfg.PresenceInterval)
			}
			session.NextPayoutAt = next

			tx.state.VoicePoints[id] += points
			tx.credit(id, points, entities.TransactionTypeVoiceReward, "")
			tx.emit(events.PresencePayoutEvent{UserID: id, Hours: hours, Points: points})

			payouts = append(payouts, entities.PresencePayout{
				DiscordID:  id,
				Hours:      hours,
				Points:     points,
				TotalHours: totalSeconds / 3600,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(payouts) > 0 {
		log.WithField("payoutCount", len(payouts)).Info("Settled voice presence")
	}
	return payouts, nil
}

// VoicePoints returns the lifetime voice points of a user
func (p *presenceTracker) VoicePoints(ctx context.Context, discordID int64) (int64, error) {
	var points int64
	p.ledger.read(func(state *entities.State, _ time.Time) {
		points = state.VoicePoints[discordID]
	})
	return points, nil
}

// State reports whether a user currently has a session
func (p *presenceTracker) State(ctx context.Context, discordID int64) (entities.PresenceState, error) {
	state := entities.PresenceStateInactive
	p.ledger.read(func(s *entities.State, _ time.Time) {
		if _, ok := s.PresenceSessions[discordID]; ok {
			state = entities.PresenceStateActive
		}
	})
	return state, nil
}

func activate(tx *ledgerTx, discordID int64) {
	if _, ok := tx.state.PresenceSessions[discordID]; ok {
		return
	}
	session := &entities.PresenceSession{DiscordID: discordID}
	session.Restart(tx.now, tx.settings.PresenceInterval)
	tx.state.PresenceSessions[discordID] = session
	tx.touch()
}

func move(tx *ledgerTx, discordID int64) {
	session, ok := tx.state.PresenceSessions[discordID]
	if !ok {
		activate(tx, discordID)
		return
	}
	tx.state.PresenceAccumulated[discordID] += session.ElapsedSeconds(tx.now)
	session.Restart(tx.now, tx.settings.PresenceInterval)
	tx.touch()
}

func deactivate(tx *ledgerTx, discordID int64) {
	session, ok := tx.state.PresenceSessions[discordID]
	if !ok {
		return
	}
	tx.state.PresenceAccumulated[discordID] += session.ElapsedSeconds(tx.now)
	delete(tx.state.PresenceSessions, discordID)
	tx.touch()
}
