package event

import "context"

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical runs before everything else.
	PriorityCritical Priority = 0

	// PriorityHigh is for state that other handlers read.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for observers such as logging and script hooks.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Handler processes events.
type Handler interface {
	// Handle processes an event.
	// The event parameter is type-erased; handlers should type-assert.
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// Typed adapts a typed handler function to a HandlerFunc.
// Events whose payload is not a T are ignored.
func Typed[T any](fn func(ctx context.Context, evt Event[T]) error) HandlerFunc {
	return func(ctx context.Context, event any) error {
		evt, ok := event.(Event[T])
		if !ok {
			return nil
		}
		return fn(ctx, evt)
	}
}

// FilterFunc decides whether an event is delivered to a subscription.
type FilterFunc func(event any) bool
