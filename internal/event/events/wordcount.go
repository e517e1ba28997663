package events

import "github.com/dshills/wordcount/internal/event/topic"

// TopicStatusUpdated is published after every word count update.
const TopicStatusUpdated topic.Topic = "wordcount.status.updated"

// StatusUpdated describes the status item after an update.
type StatusUpdated struct {
	// Text is the displayed text; empty when hidden.
	Text string

	// Visible reports whether the status item is shown.
	Visible bool

	// Words is the whole-document count; zero when hidden.
	Words int

	// Selected is the selection count, or -1 when no selection was counted.
	Selected int
}
