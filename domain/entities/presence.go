package entities

import "time"

// PresenceState is the accrual state of a user
type PresenceState string

const (
	PresenceStateInactive PresenceState = "inactive"
	PresenceStateActive   PresenceState = "active"
)

// PresenceSession is a user's continuous "active" interval. A user has at
// most one session; it is discarded when the user becomes inactive.
type PresenceSession struct {
	DiscordID    int64     `json:"discord_id"`
	SessionStart time.Time `json:"session_start"`
	NextPayoutAt time.Time `json:"next_payout_at"`
}

// ElapsedSeconds returns the seconds elapsed since the session clock started
func (s *PresenceSession) ElapsedSeconds(now time.Time) float64 {
	elapsed := now.Sub(s.SessionStart).Seconds()
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// IsPayoutDue checks if the session has reached its next payout boundary
func (s *PresenceSession) IsPayoutDue(now time.Time) bool {
	return !s.NextPayoutAt.After(now)
}

// Restart resets the session clock and schedules the next payout
func (s *PresenceSession) Restart(now time.Time, interval time.Duration) {
	s.SessionStart = now
	s.NextPayoutAt = now.Add(interval)
}

// VoiceState is the subset of a gateway voice state the tracker needs
type VoiceState struct {
	ChannelID string
	SelfDeaf  bool
}

// IsActive reports whether the voice state accrues presence time
func (v VoiceState) IsActive() bool {
	return v.ChannelID != "" && !v.SelfDeaf
}

// PresencePayout records a single settlement award
type PresencePayout struct {
	DiscordID  int64   `json:"discord_id"`
	Hours      int64   `json:"hours"`
	Points     int64   `json:"points"`
	TotalHours float64 `json:"total_hours"`
}
