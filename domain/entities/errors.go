package entities

import "errors"

// Caller-correctable error kinds surfaced by the engine. Callers match them
// with errors.Is; the engine wraps them with context.
var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrUnknownAccount      = errors.New("unknown account")
	ErrUnknownBet          = errors.New("unknown bet")
	ErrInvalidOption       = errors.New("invalid option")
	ErrBettingClosed       = errors.New("betting is closed")
	ErrAlreadyResolved     = errors.New("bet already resolved")
	ErrAlreadyExpired      = errors.New("bet already expired")
	ErrInvalidDuration     = errors.New("invalid bet duration")
	ErrInvalidNumbers      = errors.New("invalid ticket numbers")
	ErrInsufficientTickets = errors.New("not enough tickets for a draw")
	ErrAlreadyClaimed      = errors.New("daily reward already claimed")

	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidTicketCount = errors.New("invalid ticket count")
	ErrGrantTooLarge      = errors.New("grant exceeds the maximum")

	// ErrCorruptSnapshot is returned when a persisted document exists but
	// cannot be decoded.
	ErrCorruptSnapshot = errors.New("snapshot document is corrupt")

	// ErrSnapshotNotFound is returned by a store that holds no document yet
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
