package bus

import (
	"log/slog"
	"sync"
)

// maxHistory bounds the emitted-message log kept for inspection.
const maxHistory = 256

// MemoryBus is an in-process Bus.
// Emitted messages are queued and delivered one at a time; the goroutine
// whose Emit found the queue idle drains it before returning, so a handler
// that emits never runs nested inside another handler.
type MemoryBus struct {
	*registry

	mu       sync.Mutex
	queue    []Message
	draining bool

	history []Message
}

// NewMemoryBus creates an empty in-process bus.
func NewMemoryBus(logger *slog.Logger) *MemoryBus {
	return &MemoryBus{registry: newRegistry(logger)}
}

// Emit queues msg for delivery and drains the queue if nobody else is.
func (b *MemoryBus) Emit(msg Message) error {
	b.mu.Lock()
	b.queue = append(b.queue, msg)
	b.history = append(b.history, msg)
	if len(b.history) > maxHistory {
		b.history = b.history[len(b.history)-maxHistory:]
	}
	if b.draining {
		b.mu.Unlock()
		return nil
	}
	b.draining = true
	b.mu.Unlock()

	// A panicking handler must not leave the queue marked as draining,
	// or nothing emitted afterwards would be delivered.
	defer func() {
		if r := recover(); r != nil {
			b.mu.Lock()
			b.draining = false
			b.mu.Unlock()
			panic(r)
		}
	}()

	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.draining = false
			b.mu.Unlock()
			return nil
		}
		next := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()

		b.dispatch(next)
	}
}

// Emitted returns the most recently emitted messages, oldest first.
func (b *MemoryBus) Emitted() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.history...)
}

// EmittedOfType returns the emitted messages with the given type.
func (b *MemoryBus) EmittedOfType(msgType string) []Message {
	var out []Message
	for _, m := range b.Emitted() {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}
