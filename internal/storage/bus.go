package storage

// Bus is a same-tab publish/subscribe channel for named events.
// Publish runs subscribers synchronously on the caller's goroutine, so a
// subscriber has observed the event by the time Publish returns.
type Bus struct {
	reg registry
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Publish notifies every subscriber of event.
func (b *Bus) Publish(event string) {
	b.reg.notify(event)
}

// Subscribe registers fn for event. The returned function removes it and
// is safe to call more than once.
func (b *Bus) Subscribe(event string, fn func()) (unsubscribe func()) {
	return b.reg.add(event, fn)
}

// Subscribers returns how many callbacks are registered for event.
func (b *Bus) Subscribers(event string) int {
	return b.reg.count(event)
}
