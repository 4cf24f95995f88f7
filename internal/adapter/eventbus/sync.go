// Package eventbus provides the synchronous event bus the player dispatches on.
package eventbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
	"github.com/tejashwikalptaru/eqplayer/internal/ports"
)

// ErrClosed is returned when closing a bus twice.
var ErrClosed = errors.New("event bus already closed")

// SyncEventBus delivers events synchronously, in subscription order,
// on the goroutine that calls Publish.
//
// Typed subscribers run before wildcard subscribers. A panicking handler is
// recovered and logged and does not stop delivery to the remaining handlers.
type SyncEventBus struct {
	logger *slog.Logger

	mu       sync.RWMutex
	typed    map[domain.EventType][]subscription
	wildcard []subscription
	nextID   uint64
	closed   bool
}

type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// Option configures a SyncEventBus.
type Option func(*SyncEventBus)

// WithLogger sets the logger used for delivery tracing and panic reports.
func WithLogger(logger *slog.Logger) Option {
	return func(bus *SyncEventBus) {
		bus.logger = logger
	}
}

// NewSyncEventBus creates a new synchronous event bus.
func NewSyncEventBus(opts ...Option) *SyncEventBus {
	bus := &SyncEventBus{
		typed: make(map[domain.EventType][]subscription),
	}
	for _, opt := range opts {
		opt(bus)
	}
	return bus
}

// Publish delivers the event to the subscribers registered at call time.
// Nil events and publishing on a closed bus are ignored.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	targets := make([]subscription, 0, len(bus.typed[event.Type()])+len(bus.wildcard))
	targets = append(targets, bus.typed[event.Type()]...)
	targets = append(targets, bus.wildcard...)
	bus.mu.RUnlock()

	if bus.logger != nil {
		bus.logger.Debug("event published",
			slog.String("event_type", string(event.Type())),
			slog.Int("handlers", len(targets)))
	}

	for _, sub := range targets {
		bus.deliver(sub, event)
	}
}

func (bus *SyncEventBus) deliver(sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil && bus.logger != nil {
			bus.logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("event_type", string(event.Type())),
				slog.String("subscription", string(sub.id)))
		}
	}()
	sub.handler(event)
}

// Subscribe registers a handler for events of the given type.
// It panics on a nil handler or a closed bus; both are programming errors.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	sub := bus.newSubscriptionLocked("sub", handler)
	bus.typed[eventType] = append(bus.typed[eventType], sub)
	return sub.id
}

// SubscribeAll registers a handler that receives every event.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	sub := bus.newSubscriptionLocked("sub-all", handler)
	bus.wildcard = append(bus.wildcard, sub)
	return sub.id
}

func (bus *SyncEventBus) newSubscriptionLocked(prefix string, handler domain.EventHandler) subscription {
	if handler == nil {
		panic("event handler cannot be nil")
	}
	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}
	bus.nextID++
	return subscription{
		id:      domain.SubscriptionID(fmt.Sprintf("%s-%d", prefix, bus.nextID)),
		handler: handler,
	}
}

// Unsubscribe removes a subscription, keeping the order of the others.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for eventType, subs := range bus.typed {
		if i := indexOf(subs, id); i >= 0 {
			bus.typed[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
	if i := indexOf(bus.wildcard, id); i >= 0 {
		bus.wildcard = append(bus.wildcard[:i:i], bus.wildcard[i+1:]...)
	}
}

func indexOf(subs []subscription, id domain.SubscriptionID) int {
	for i, sub := range subs {
		if sub.id == id {
			return i
		}
	}
	return -1
}

// HasSubscribers reports whether an event of the given type would reach any handler.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.typed[eventType]) > 0 || len(bus.wildcard) > 0
}

// SubscriberCount returns the number of active subscriptions.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := len(bus.wildcard)
	for _, subs := range bus.typed {
		count += len(subs)
	}
	return count
}

// Close drops every subscription. Closing twice returns ErrClosed.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return ErrClosed
	}
	bus.closed = true
	bus.typed = make(map[domain.EventType][]subscription)
	bus.wildcard = nil
	return nil
}

var _ ports.EventBus = (*SyncEventBus)(nil)
