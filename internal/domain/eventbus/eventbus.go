package eventbus

import (
	evbus "github.com/asaskevich/EventBus"
)

// Bus wraps the process-wide event bus. It is constructed once during
// bootstrap and injected into publishers and subscribers instead of being
// reached for as ambient global state.
type Bus struct {
	bus evbus.Bus
}

// New creates an event bus.
func New() *Bus {
	return &Bus{bus: evbus.New()}
}

// Publish delivers an event to every subscriber of the topic.
func (b *Bus) Publish(topic string, args ...any) {
	b.bus.Publish(topic, args...)
}

// Subscribe registers a synchronous handler for the topic.
func (b *Bus) Subscribe(topic string, fn any) error {
	return b.bus.Subscribe(topic, fn)
}

// SubscribeAsync registers a handler that runs in its own goroutine per
// event. Transactional delivery is off; ordering across events is not
// guaranteed, which matches the channel's best-effort semantics.
func (b *Bus) SubscribeAsync(topic string, fn any) error {
	return b.bus.SubscribeAsync(topic, fn, false)
}

// Unsubscribe removes a previously registered handler.
func (b *Bus) Unsubscribe(topic string, fn any) error {
	return b.bus.Unsubscribe(topic, fn)
}

// WaitAsync blocks until all async handlers have finished.
func (b *Bus) WaitAsync() {
	b.bus.WaitAsync()
}
