// Package event provides the synchronous event bus that connects the editor
// host to add-ons.
//
// Events use hierarchical topics with dot notation:
//
//	editor.active.changed      - the active document changed
//	editor.selection.changed   - selections of the active document changed
//	wordcount.status.updated   - the word count status item was updated
//
// Subscriptions support wildcard patterns:
//
//	editor.*     - matches editor.active, editor.document (single segment)
//	editor.**    - matches editor.active.changed, editor.a.b.c (multi-segment)
//
// # Delivery
//
// Delivery is synchronous: Publish runs every matching handler on the
// caller's goroutine, in priority order (lower values first, ties in
// subscription order), and returns once all have completed. A failing or
// panicking handler does not prevent delivery to the others.
//
// # Basic Usage
//
//	bus := event.NewBus()
//	defer bus.Close()
//
//	sub, err := bus.SubscribeFunc(events.TopicSelectionChanged,
//	    event.Typed(func(ctx context.Context, evt event.Event[events.SelectionChanged]) error {
//	        fmt.Println(len(evt.Payload.Selections))
//	        return nil
//	    }),
//	)
//
//	bus.Publish(ctx, event.NewEvent(events.TopicSelectionChanged, payload, "workspace"))
package event
