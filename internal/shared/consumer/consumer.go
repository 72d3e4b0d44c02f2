package consumer

import (
	"context"
	"errors"
	"fmt"
)

// Handler processes one raw message payload. Returning nil acknowledges the
// delivery; a permanent error routes it to the dead-letter destination; any
// other error is treated as transient and retried.
type Handler interface {
	Handle(ctx context.Context, payload []byte) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, payload []byte) error

func (f HandlerFunc) Handle(ctx context.Context, payload []byte) error {
	return f(ctx, payload)
}

// errPermanent is the sentinel wrapped around failures that retrying cannot
// fix (malformed payloads, violated business preconditions).
var errPermanent = errors.New("permanent consumer failure")

// Permanent marks an error as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errPermanent, err)
}

// IsPermanent reports whether the error was marked with Permanent.
func IsPermanent(err error) bool {
	return errors.Is(err, errPermanent)
}

// Binding pairs a queue with the handler that owns it.
type Binding struct {
	Queue   string
	Handler Handler
}

// Registry is the static queue-to-handler table a service builds at startup.
type Registry struct {
	bindings []Binding
	queues   map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{queues: make(map[string]struct{})}
}

func (r *Registry) Bind(queue string, handler Handler) error {
	if queue == "" {
		return errors.New("consumer: queue name is required")
	}
	if handler == nil {
		return fmt.Errorf("consumer: nil handler for queue %s", queue)
	}
	if _, exists := r.queues[queue]; exists {
		return fmt.Errorf("consumer: queue %s is already bound", queue)
	}
	r.queues[queue] = struct{}{}
	r.bindings = append(r.bindings, Binding{Queue: queue, Handler: handler})
	return nil
}

func (r *Registry) Bindings() []Binding {
	return append([]Binding(nil), r.bindings...)
}
