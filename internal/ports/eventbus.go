// Package ports define the EventBus interface for event-driven communication.
// The event bus is the dispatch surface that services and presenters register handlers on.
package ports

import (
	"github.com/tejashwikalptaru/eqplayer/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
//
// Producers (services) publish; consumers (presenter, visualizer, playlist) subscribe
// without knowing each other.
//
// Thread-safety: Implementations must be thread-safe as events may be published and
// subscribed from multiple goroutines simultaneously.
//
// Example usage:
//
//	// In service: Publish an event
//	bus.Publish(domain.NewTrackStartedEvent(track))
//
//	// In the presenter: Subscribe to events
//	subID := bus.Subscribe(domain.EventTrackStarted, func(event domain.Event) {
//	    view.SetPlayState(true)
//	})
//
//	// Later: Unsubscribe
//	bus.Unsubscribe(subID)
type EventBus interface {
	// Publish delivers an event to every subscriber of its type and to wildcard subscribers.
	// Handlers must return quickly; long work belongs on its own goroutine.
	Publish(event domain.Event)

	// Subscribe registers a handler for one event type and returns its subscription ID.
	// Registering the same handler twice yields two deliveries.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a subscription. Unknown IDs are ignored.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler for every event, e.g. for debug logging.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers reports whether anyone listens for the event type.
	HasSubscribers(eventType domain.EventType) bool

	// Close drops all subscriptions. Publishing afterwards is a no-op.
	Close() error
}
