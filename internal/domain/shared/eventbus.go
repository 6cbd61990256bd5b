package shared

import "context"

// EventPublisher publishes domain events after an aggregate is persisted
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventHandler handles domain events. EventTypes lists the event types the
// handler subscribes to; an empty list subscribes it to every event.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// PublishEvents drains an aggregate's pending domain events into the
// publisher. Delivery failures are handled by the bus, not the caller, so
// persistence never rolls back over a handler error. A nil publisher
// leaves the events in place.
func PublishEvents(ctx context.Context, pub EventPublisher, agg AggregateRoot) {
	if pub == nil {
		return
	}
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = pub.Publish(ctx, events...)
	agg.ClearDomainEvents()
}
