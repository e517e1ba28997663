// Package events defines the typed event payloads exchanged between the
// editor host and the word count add-on.
//
// Each payload has a topic constant. Events are created with event.NewEvent:
//
//	evt := event.NewEvent(events.TopicSelectionChanged,
//	    events.SelectionChanged{URI: "notes.md", Selections: sels},
//	    "workspace",
//	)
//	bus.Publish(ctx, evt)
package events
