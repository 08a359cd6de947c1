package infrastructure

import (
	"fmt"

	"wagerbot/domain/events"
)

// EventStreamName is the JetStream stream that carries every published event
const EventStreamName = "wagerbot_events"

var eventSubjects = map[events.EventType]string{
	events.EventTypeBalanceChange:    "ledger.balance_changed",
	events.EventTypeAccountCreated:   "ledger.account_created",
	events.EventTypeDailyClaimed:     "rewards.daily_claimed",
	events.EventTypeDailyEpochReset:  "rewards.daily_reset",
	events.EventTypePresencePayout:   "rewards.presence_paid",
	events.EventTypeBetCreated:       "bets.created",
	events.EventTypeStakePlaced:      "bets.stake_placed",
	events.EventTypeBetResolved:      "bets.resolved",
	events.EventTypeBetCancelled:     "bets.cancelled",
	events.EventTypeTicketsPurchased: "lottery.tickets_purchased",
	events.EventTypeLotteryDrawn:     "lottery.drawn",
	events.EventTypePotReset:         "lottery.pot_reset",
}

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := eventSubjects[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range eventSubjects {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// StreamSubjects returns the wildcard subjects bound to the event stream
func (m *EventSubjectMapper) StreamSubjects() []string {
	return []string{"ledger.*", "rewards.*", "bets.*", "lottery.*"}
}
