package entities

import "time"

// StateVersion is the schema version of the persisted document
const StateVersion = 1

// State is the whole engine state and the single persisted document.
// It is owned by the ledger and never handed out directly.
type State struct {
	Version             int                        `json:"version"`
	Accounts            map[int64]*Account         `json:"accounts"`
	NextAccountSeq      int64                      `json:"next_account_seq"`
	Bets                map[string]*Bet            `json:"bets"`
	DailyClaims         map[int64]time.Time        `json:"daily_claims"`
	LastActivity        map[int64]time.Time        `json:"last_activity"`
	PresenceAccumulated map[int64]float64          `json:"presence_accumulated"`
	PresenceSessions    map[int64]*PresenceSession `json:"presence_sessions"`
	VoicePoints         map[int64]int64            `json:"voice_points"`
	LotteryPot          int64                      `json:"lottery_pot"`
	LotteryTickets      []*LotteryTicket           `json:"lottery_tickets"`
	DrawHistory         []LotteryDraw              `json:"draw_history"`
	SavedAt             time.Time                  `json:"saved_at"`
}

// NewState returns the first-run state
func NewState(startingPot int64) *State {
	s := &State{
		Version:    StateVersion,
		LotteryPot: startingPot,
	}
	s.Normalize()
	return s
}

// Normalize allocates any map left nil by decoding an older document
func (s *State) Normalize() {
	if s.Version == 0 {
		s.Version = StateVersion
	}
	if s.Accounts == nil {
		s.Accounts = make(map[int64]*Account)
	}
	if s.Bets == nil {
		s.Bets = make(map[string]*Bet)
	}
	if s.DailyClaims == nil {
		s.DailyClaims = make(map[int64]time.Time)
	}
	if s.LastActivity == nil {
		s.LastActivity = make(map[int64]time.Time)
	}
	if s.PresenceAccumulated == nil {
		s.PresenceAccumulated = make(map[int64]float64)
	}
	if s.PresenceSessions == nil {
		s.PresenceSessions = make(map[int64]*PresenceSession)
	}
	if s.VoicePoints == nil {
		s.VoicePoints = make(map[int64]int64)
	}
	for _, bet := range s.Bets {
		for i := range bet.Stakes {
			if bet.Stakes[i] == nil {
				bet.Stakes[i] = make(map[int64]int64)
			}
		}
	}
	for _, acct := range s.Accounts {
		if acct.Seq >= s.NextAccountSeq {
			s.NextAccountSeq = acct.Seq + 1
		}
	}
}

// TotalBalances sums every account balance
func (s *State) TotalBalances() int64 {
	var total int64
	for _, acct := range s.Accounts {
		total += acct.Balance
	}
	return total
}

// OpenStakes sums every stake held by unresolved bets
func (s *State) OpenStakes() int64 {
	var total int64
	for _, bet := range s.Bets {
		if !bet.Resolved {
			total += bet.TotalPot()
		}
	}
	return total
}
