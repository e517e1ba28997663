package events

import (
	"github.com/dshills/wordcount/internal/document"
	"github.com/dshills/wordcount/internal/event/topic"
)

// Editor event topics.
const (
	// TopicActiveEditorChanged is published when the active document
	// changes, including when it becomes unavailable.
	TopicActiveEditorChanged topic.Topic = "editor.active.changed"

	// TopicSelectionChanged is published when the selections of the active
	// document change.
	TopicSelectionChanged topic.Topic = "editor.selection.changed"

	// TopicDocumentChanged is published when a document's text is replaced.
	TopicDocumentChanged topic.Topic = "editor.document.changed"

	// TopicEditorAll matches every editor event.
	TopicEditorAll topic.Topic = "editor.**"
)

// ActiveEditorChanged signals that the active document should be re-checked.
// URI is empty when no document is active.
type ActiveEditorChanged struct {
	URI string
}

// SelectionChanged carries the ordered selections of a document.
type SelectionChanged struct {
	URI        string
	Selections []document.Selection
}

// DocumentChanged signals that a document's text was replaced.
type DocumentChanged struct {
	URI     string
	Version int64
}
