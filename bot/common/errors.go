package common

import (
	"errors"
	"fmt"
	"strings"

	"wagerbot/domain/entities"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Err         error  // Underlying error
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, bad arguments)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
	}
}

// NewSystemError creates an error for system issues
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: GenericErrorMessage,
		LogMessage:  logMessage,
		Err:         err,
	}
}

// GenericErrorMessage is shown for failures the user cannot correct
const GenericErrorMessage = "An unexpected error occurred. Please try again later."

type kindMessage struct {
	kind    error
	message string
	detail  bool // append the wrapped detail after the message
}

var kindMessages = []kindMessage{
	{entities.ErrInsufficientFunds, "You don't have enough points", true},
	{entities.ErrUnknownBet, "Invalid bet ID. Use `$activebets` to see current bets.", false},
	{entities.ErrInvalidOption, "Please choose option 1 or 2.", false},
	{entities.ErrBettingClosed, "Betting is closed for this event.", false},
	{entities.ErrAlreadyResolved, "This bet has already been resolved.", false},
	{entities.ErrAlreadyExpired, "This bet has already ended (use `$resolvebet` instead).", false},
	{entities.ErrInvalidDuration, "Bet duration must be between 1 minute and 1440 minutes (24 hours).", false},
	{entities.ErrInvalidNumbers, "Invalid ticket numbers", true},
	{entities.ErrInsufficientTickets, "Not enough tickets have been sold for a draw", true},
	{entities.ErrAlreadyClaimed, "You've already claimed your daily today!", false},
	{entities.ErrInvalidAmount, "Amount must be positive!", false},
	{entities.ErrInvalidTicketCount, "You can buy between 1 and 5 tickets at a time.", false},
	{entities.ErrGrantTooLarge, "Cannot give that many points at once", true},
}

// UserMessage converts an error into the text shown in the channel. The
// second return reports whether the error was caller-correctable.
func UserMessage(err error) (string, bool) {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr.UserMessage, botErr.Err == nil
	}

	for _, km := range kindMessages {
		if !errors.Is(err, km.kind) {
			continue
		}
		if !km.detail {
			return km.message, true
		}
		detail := strings.TrimPrefix(err.Error(), km.kind.Error())
		detail = strings.TrimPrefix(detail, ": ")
		if detail == "" || detail == err.Error() {
			return km.message + ".", true
		}
		return fmt.Sprintf("%s (%s).", km.message, detail), true
	}
	return GenericErrorMessage, false
}
