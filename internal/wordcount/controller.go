package wordcount

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/wordcount/internal/document"
	"github.com/dshills/wordcount/internal/event"
	"github.com/dshills/wordcount/internal/event/events"
)

// Controller drives a WordCounter from editor events.
type Controller struct {
	counter   *WordCounter
	workspace Workspace

	mu   sync.Mutex
	subs []event.Subscription
}

// NewController subscribes counter to the editor events on bus and runs an
// initial whole-document update.
func NewController(bus event.Bus, counter *WordCounter) (*Controller, error) {
	c := &Controller{counter: counter, workspace: counter.workspace}
	counter.UpdateWordCount()

	active, err := bus.SubscribeFunc(events.TopicActiveEditorChanged,
		event.Typed(c.onActiveEditorChanged))
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", events.TopicActiveEditorChanged, err)
	}

	selection, err := bus.SubscribeFunc(events.TopicSelectionChanged,
		event.Typed(c.onSelectionChanged),
		event.WithFilter(c.forActiveDocument))
	if err != nil {
		active.Cancel()
		return nil, fmt.Errorf("subscribing to %s: %w", events.TopicSelectionChanged, err)
	}

	c.subs = []event.Subscription{active, selection}
	return c, nil
}

func (c *Controller) onActiveEditorChanged(ctx context.Context, _ event.Event[events.ActiveEditorChanged]) error {
	c.counter.update(ctx, nil)
	return nil
}

// forActiveDocument drops selection events for documents other than the
// active one.
func (c *Controller) forActiveDocument(e any) bool {
	evt, ok := e.(event.Event[events.SelectionChanged])
	if !ok || evt.Payload.URI == "" {
		return true
	}
	doc, ok := c.workspace.ActiveDocument()
	return !ok || evt.Payload.URI == doc.URI()
}

func (c *Controller) onSelectionChanged(ctx context.Context, evt event.Event[events.SelectionChanged]) error {
	// Collapsed cursors count the whole document.
	if document.AllEmpty(evt.Payload.Selections) {
		c.counter.update(ctx, nil)
		return nil
	}
	c.counter.update(ctx, evt.Payload.Selections)
	return nil
}

// Dispose cancels the controller's subscriptions. Safe to call repeatedly.
func (c *Controller) Dispose() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}
}
