package event

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/wordcount/internal/event/topic"
)

type payload struct {
	N int
}

func TestBus_PublishDeliversToMatchingSubscribers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var exact, wildcard, other int
	mustSubscribe(t, bus, "editor.active.changed", func(context.Context, any) error { exact++; return nil })
	mustSubscribe(t, bus, "editor.**", func(context.Context, any) error { wildcard++; return nil })
	mustSubscribe(t, bus, "wordcount.*", func(context.Context, any) error { other++; return nil })

	if err := bus.Publish(context.Background(), NewEvent[payload]("editor.active.changed", payload{}, "test")); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	if exact != 1 || wildcard != 1 || other != 0 {
		t.Errorf("deliveries exact=%d wildcard=%d other=%d, want 1 1 0", exact, wildcard, other)
	}
}

func TestBus_PriorityOrder(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var order []string
	record := func(name string) HandlerFunc {
		return func(context.Context, any) error {
			order = append(order, name)
			return nil
		}
	}

	mustSubscribe(t, bus, "a", record("low"), WithPriority(PriorityLow))
	mustSubscribe(t, bus, "a", record("normal-1"))
	mustSubscribe(t, bus, "a", record("critical"), WithPriority(PriorityCritical))
	mustSubscribe(t, bus, "a", record("normal-2"))

	if err := bus.Publish(context.Background(), NewEvent[payload]("a", payload{}, "test")); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	want := []string{"critical", "normal-1", "normal-2", "low"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestBus_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	boom := errors.New("boom")
	var reached bool
	mustSubscribe(t, bus, "a", func(context.Context, any) error { return boom }, WithPriority(PriorityHigh))
	mustSubscribe(t, bus, "a", func(context.Context, any) error { reached = true; return nil })

	err := bus.Publish(context.Background(), NewEvent[payload]("a", payload{}, "test"))
	if !errors.Is(err, boom) {
		t.Errorf("expected error wrapping boom, got %v", err)
	}
	var herr *HandlerError
	if !errors.As(err, &herr) {
		t.Errorf("expected *HandlerError, got %T", err)
	}
	if !reached {
		t.Error("second handler was not called")
	}
	if s := bus.Stats(); s.HandlerErrors != 1 || s.EventsDelivered != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestBus_PanicRecovery(t *testing.T) {
	var recovered any
	bus := NewBus(WithPanicHandler(func(_ any, r any) { recovered = r }))
	defer bus.Close()

	var reached bool
	mustSubscribe(t, bus, "a", func(context.Context, any) error { panic("kaboom") }, WithPriority(PriorityHigh))
	mustSubscribe(t, bus, "a", func(context.Context, any) error { reached = true; return nil })

	err := bus.Publish(context.Background(), NewEvent[payload]("a", payload{}, "test"))
	if !errors.Is(err, ErrHandlerPanic) {
		t.Errorf("expected ErrHandlerPanic, got %v", err)
	}
	if recovered != "kaboom" {
		t.Errorf("panic handler got %v", recovered)
	}
	if !reached {
		t.Error("handler after panic was not called")
	}
}

func TestBus_UnsubscribeAndCancel(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var calls int
	sub := mustSubscribe(t, bus, "a", func(context.Context, any) error { calls++; return nil })

	if err := bus.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe() error: %v", err)
	}
	if sub.IsActive() {
		t.Error("subscription still active after Unsubscribe")
	}
	if err := bus.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second Unsubscribe() = %v, want ErrSubscriptionNotFound", err)
	}
	sub.Cancel()

	_ = bus.Publish(context.Background(), NewEvent[payload]("a", payload{}, "test"))
	if calls != 0 {
		t.Errorf("cancelled handler called %d times", calls)
	}
	if n := bus.Stats().ActiveSubscriptions; n != 0 {
		t.Errorf("active subscriptions = %d, want 0", n)
	}
}

func TestBus_Filter(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var got []int
	mustSubscribe(t, bus, "a",
		Typed(func(_ context.Context, evt Event[payload]) error {
			got = append(got, evt.Payload.N)
			return nil
		}),
		WithFilter(func(e any) bool {
			evt, ok := e.(Event[payload])
			return ok && evt.Payload.N%2 == 0
		}),
	)

	for i := 1; i <= 4; i++ {
		_ = bus.Publish(context.Background(), NewEvent("a", payload{N: i}, "test"))
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("filtered deliveries = %v, want [2 4]", got)
	}
}

func TestBus_TypedIgnoresOtherPayloads(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var calls int
	mustSubscribe(t, bus, "a", Typed(func(context.Context, Event[payload]) error { calls++; return nil }))

	_ = bus.Publish(context.Background(), NewEvent("a", "not a payload", "test"))
	_ = bus.Publish(context.Background(), NewEvent("a", payload{N: 1}, "test"))
	if calls != 1 {
		t.Errorf("typed handler called %d times, want 1", calls)
	}
}

func TestBus_InvalidInput(t *testing.T) {
	bus := NewBus()

	if _, err := bus.Subscribe("a", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil handler: got %v", err)
	}
	if _, err := bus.SubscribeFunc("a..b", func(context.Context, any) error { return nil }); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("invalid topic: got %v", err)
	}
	if err := bus.Publish(context.Background(), "no topic"); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("invalid event: got %v", err)
	}

	if err := bus.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := bus.Close(); !errors.Is(err, ErrBusClosed) {
		t.Errorf("second Close() = %v", err)
	}
	if err := bus.Publish(context.Background(), NewEvent[payload]("a", payload{}, "test")); !errors.Is(err, ErrBusClosed) {
		t.Errorf("Publish after Close = %v", err)
	}
	if _, err := bus.SubscribeFunc("a", func(context.Context, any) error { return nil }); !errors.Is(err, ErrBusClosed) {
		t.Errorf("Subscribe after Close = %v", err)
	}
}

func TestNewEvent_Metadata(t *testing.T) {
	a := NewEvent[payload]("a", payload{}, "src")
	b := NewEvent[payload]("a", payload{}, "src")

	if a.Metadata.ID == "" || a.Metadata.ID == b.Metadata.ID {
		t.Errorf("expected unique ids, got %q and %q", a.Metadata.ID, b.Metadata.ID)
	}
	if a.Metadata.Source != "src" {
		t.Errorf("source = %q", a.Metadata.Source)
	}
	if a.Metadata.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
	if a.EventTopic() != topic.Topic("a") {
		t.Errorf("EventTopic() = %q", a.EventTopic())
	}
}

func mustSubscribe(t *testing.T, bus Bus, pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) Subscription {
	t.Helper()
	sub, err := bus.SubscribeFunc(pattern, fn, opts...)
	if err != nil {
		t.Fatalf("SubscribeFunc(%q) error: %v", pattern, err)
	}
	return sub
}
