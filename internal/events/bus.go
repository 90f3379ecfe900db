package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Delivery is asynchronous; unknown event types are dropped.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case ModeChangedEvent:
		event.Publish(b.dispatcher, e)
	case PeriodChangedEvent:
		event.Publish(b.dispatcher, e)
	case StoreRejectedEvent:
		event.Publish(b.dispatcher, e)
	case SequencerStateEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers a handler; its parameter type selects the events it
// receives. Returns an unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e ModeChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(ModeChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PeriodChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(StoreRejectedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SequencerStateEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		// Return a no-op function if handler type is not recognized
		return func() {}
	}
}

// SubscribeToChannel bridges a typed subscription to a channel for select
// loops such as SSE handlers. Events are dropped when ch is full.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
