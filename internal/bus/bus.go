package bus

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrNotConnected is returned by Emit when the transport has no live connection.
var ErrNotConnected = errors.New("bus not connected")

// Handler processes a single bus message.
// A returned error is logged by the bus; it never stops delivery.
type Handler func(msg Message) error

// Bus is the publish/subscribe surface components depend on.
type Bus interface {
	// On registers handler for messages of the given type. Calling the
	// returned function removes the registration.
	On(msgType string, handler Handler) (off func())
	// Emit publishes msg.
	Emit(msg Message) error
}

// registration is a handler with the id used to remove it.
type registration struct {
	id      uint64
	handler Handler
}

// registry holds handlers keyed by message type and runs them in
// registration order.
type registry struct {
	mu       sync.RWMutex
	handlers map[string][]registration
	nextID   uint64
	logger   *slog.Logger
}

func newRegistry(logger *slog.Logger) *registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &registry{
		handlers: make(map[string][]registration),
		logger:   logger,
	}
}

func (r *registry) On(msgType string, handler Handler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.handlers[msgType] = append(r.handlers[msgType], registration{id: id, handler: handler})
	return func() { r.off(msgType, id) }
}

func (r *registry) off(msgType string, id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := r.handlers[msgType]
	for i, reg := range regs {
		if reg.id != id {
			continue
		}
		regs = append(regs[:i:i], regs[i+1:]...)
		if len(regs) == 0 {
			delete(r.handlers, msgType)
		} else {
			r.handlers[msgType] = regs
		}
		return
	}
}

// handlerCount returns the number of handlers registered for msgType.
func (r *registry) handlerCount(msgType string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[msgType])
}

func (r *registry) dispatch(msg Message) {
	r.mu.RLock()
	regs := append([]registration(nil), r.handlers[msg.Type]...)
	r.mu.RUnlock()

	for _, reg := range regs {
		if err := reg.handler(msg); err != nil {
			r.logger.Error("bus handler failed", "type", msg.Type, "error", err)
		}
	}
}

// Await emits msg and blocks until a message of type replyType for which
// match returns true arrives, or ctx is done. A nil match accepts any reply.
// The reply handler is removed before Await returns.
func Await(ctx context.Context, b Bus, msg Message, replyType string, match func(Message) bool) (Message, error) {
	replies := make(chan Message, 1)
	var once sync.Once
	off := b.On(replyType, func(reply Message) error {
		if match != nil && !match(reply) {
			return nil
		}
		once.Do(func() { replies <- reply })
		return nil
	})
	defer off()

	if err := b.Emit(msg); err != nil {
		return Message{}, err
	}

	select {
	case reply := <-replies:
		return reply, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}
