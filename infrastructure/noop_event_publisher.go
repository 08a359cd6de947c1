package infrastructure

import (
	"wagerbot/domain/events"
)

// NoopEventPublisher drops every event. Used when NATS_SERVERS is unset and
// by one-shot admin commands.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}
