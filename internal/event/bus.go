package event

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dshills/wordcount/internal/event/topic"
)

// Bus delivers events to subscribers synchronously, in priority order, on
// the publisher's goroutine. Each handler runs to completion before the
// next one starts.
type Bus interface {
	// Publish delivers event to every matching subscription.
	// Handler errors and panics do not stop delivery; they are returned
	// joined once all handlers have run.
	Publish(ctx context.Context, event any) error

	// Subscribe registers a handler for a topic pattern.
	Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)

	// SubscribeFunc registers a handler function for a topic pattern.
	SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)

	// Unsubscribe cancels a subscription.
	Unsubscribe(sub Subscription) error

	// Close cancels all subscriptions. Further calls fail with ErrBusClosed.
	Close() error

	// Stats returns delivery counters.
	Stats() Stats
}

// Stats holds bus delivery counters.
type Stats struct {
	EventsPublished     uint64
	EventsDelivered     uint64
	HandlerErrors       uint64
	HandlerPanics       uint64
	ActiveSubscriptions int
}

// BusOption configures a bus.
type BusOption func(*busConfig)

type busConfig struct {
	panicHandler func(event any, recovered any)
}

// WithPanicHandler sets a callback invoked when a handler panics.
func WithPanicHandler(fn func(event any, recovered any)) BusOption {
	return func(c *busConfig) {
		c.panicHandler = fn
	}
}

type bus struct {
	mu     sync.RWMutex
	subs   []*subscription
	seq    uint64
	closed bool
	config busConfig

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// NewBus creates a new synchronous event bus.
func NewBus(opts ...BusOption) Bus {
	b := &bus{}
	for _, opt := range opts {
		opt(&b.config)
	}
	return b
}

func (b *bus) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}

	config := DefaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&config)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}

	b.seq++
	sub := newSubscription(pattern, handler, config, b.seq)
	sub.onCancel = b.remove
	b.subs = append(b.subs, sub)
	sort.SliceStable(b.subs, func(i, j int) bool {
		if b.subs[i].config.Priority != b.subs[j].config.Priority {
			return b.subs[i].config.Priority < b.subs[j].config.Priority
		}
		return b.subs[i].seq < b.subs[j].seq
	})

	return sub, nil
}

func (b *bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, opts...)
}

func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}

	b.mu.RLock()
	found := false
	for _, s := range b.subs {
		if s.id == sub.ID() {
			found = true
			break
		}
	}
	b.mu.RUnlock()

	if !found {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()
	return nil
}

// remove drops a cancelled subscription from the registry.
func (b *bus) remove(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

func (b *bus) Publish(ctx context.Context, event any) error {
	tp, ok := event.(TopicProvider)
	if !ok || !tp.EventTopic().IsValid() {
		return ErrInvalidEvent
	}
	eventTopic := tp.EventTopic()

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	matched := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if eventTopic.Matches(s.pattern) {
			matched = append(matched, s)
		}
	}
	b.mu.RUnlock()

	b.eventsPublished.Add(1)

	var errs []error
	for _, sub := range matched {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if !sub.shouldDeliver(event) {
			continue
		}

		if err := b.dispatch(ctx, sub, eventTopic, event); err != nil {
			errs = append(errs, err)
			continue
		}
		b.eventsDelivered.Add(1)
	}

	return errors.Join(errs...)
}

// dispatch runs one handler, converting a panic into a PanicError.
func (b *bus) dispatch(ctx context.Context, sub *subscription, eventTopic topic.Topic, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			if b.config.panicHandler != nil {
				b.config.panicHandler(event, r)
			}
			err = &PanicError{
				SubscriptionID: sub.id,
				Topic:          eventTopic.String(),
				Value:          r,
				Stack:          string(debug.Stack()),
			}
		}
	}()

	if herr := sub.handler.Handle(ctx, event); herr != nil {
		b.handlerErrors.Add(1)
		return &HandlerError{SubscriptionID: sub.id, Topic: eventTopic.String(), Err: herr}
	}
	return nil
}

func (b *bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}
	b.closed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, s := range subs {
		s.cancelled.Store(true)
	}
	return nil
}

func (b *bus) Stats() Stats {
	b.mu.RLock()
	active := len(b.subs)
	b.mu.RUnlock()

	return Stats{
		EventsPublished:     b.eventsPublished.Load(),
		EventsDelivered:     b.eventsDelivered.Load(),
		HandlerErrors:       b.handlerErrors.Load(),
		HandlerPanics:       b.handlerPanics.Load(),
		ActiveSubscriptions: active,
	}
}
