package wordcount

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dshills/wordcount/internal/counter"
	"github.com/dshills/wordcount/internal/document"
	"github.com/dshills/wordcount/internal/event"
	"github.com/dshills/wordcount/internal/event/events"
	"github.com/dshills/wordcount/internal/renderer/statusline"
)

// Workspace gives access to the host's active document.
type Workspace interface {
	// ActiveDocument returns the active document, if any.
	ActiveDocument() (document.Document, bool)
}

// Item is the display surface the count is written to.
type Item interface {
	Show(text string)
	Hide()
	Dispose()
}

// ItemFactory creates the status item.
type ItemFactory func(alignment statusline.Alignment) Item

// State is the visibility of the status item.
type State int

const (
	StateHidden State = iota
	StateShown
)

// String returns the state name.
func (s State) String() string {
	if s == StateShown {
		return "shown"
	}
	return "hidden"
}

// Status is the last state written to the status item.
type Status struct {
	State State
	Text  string
}

// WordCounter computes word counts for the active document and writes
// them to a single status item.
type WordCounter struct {
	workspace Workspace
	newItem   ItemFactory
	opts      options
	logger    *slog.Logger

	mu       sync.Mutex
	item     Item
	status   Status
	disposed bool
}

// NewWordCounter creates a word counter. The status item is created on the
// first update.
func NewWordCounter(ws Workspace, newItem ItemFactory, opts ...Option) *WordCounter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &WordCounter{
		workspace: ws,
		newItem:   newItem,
		opts:      o,
		logger:    o.logger.With("component", "wordcount"),
	}
}

// Language returns the language id whose documents are counted.
func (w *WordCounter) Language() string {
	return w.opts.language
}

// Status returns the current status.
func (w *WordCounter) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// UpdateWordCount recomputes the status text. With no selections the whole
// document is counted; otherwise the words inside the selections are
// counted against the document total.
func (w *WordCounter) UpdateWordCount(selections ...document.Selection) {
	w.update(context.Background(), selections)
}

func (w *WordCounter) update(ctx context.Context, selections []document.Selection) {
	upd, ok := w.compute(selections)
	if !ok {
		return
	}
	w.publish(ctx, upd)
}

// compute updates the item and returns the resulting status event.
// Returns false once the counter has been disposed.
func (w *WordCounter) compute(selections []document.Selection) (events.StatusUpdated, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.disposed {
		return events.StatusUpdated{}, false
	}
	if w.item == nil {
		w.item = w.newItem(w.opts.alignment)
	}

	doc, ok := w.workspace.ActiveDocument()
	if !ok || doc == nil {
		w.logger.Debug("no active document")
		w.hide()
		return events.StatusUpdated{Selected: -1}, true
	}

	if lang := doc.LanguageID(); lang != w.opts.language {
		w.logger.Debug("document not counted", "uri", doc.URI(), "language", lang)
		w.hide()
		return events.StatusUpdated{Selected: -1}, true
	}

	words := counter.CountWords(doc.Text())
	selected := -1
	var text string
	if len(selections) > 0 {
		selected = counter.CountWordsInSelections(doc, selections)
		text = counter.FormatSelection(selected, words)
	} else {
		text = counter.FormatDocument(words)
	}

	w.logger.Debug("word count updated", "uri", doc.URI(), "words", words, "selected", selected)
	w.show(w.opts.prefix + text)
	return events.StatusUpdated{Text: w.status.Text, Visible: true, Words: words, Selected: selected}, true
}

func (w *WordCounter) show(text string) {
	w.item.Show(text)
	w.status = Status{State: StateShown, Text: text}
}

func (w *WordCounter) hide() {
	w.item.Hide()
	w.status = Status{State: StateHidden}
}

func (w *WordCounter) publish(ctx context.Context, upd events.StatusUpdated) {
	if w.opts.bus == nil {
		return
	}
	evt := event.NewEvent(events.TopicStatusUpdated, upd, "wordcount")
	if err := w.opts.bus.Publish(ctx, evt); err != nil {
		w.logger.Warn("status event delivery failed", "error", err)
	}
}

// Dispose releases the status item. It is safe to call when no update ever
// ran, and more than once.
func (w *WordCounter) Dispose() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.disposed {
		return
	}
	w.disposed = true
	if w.item != nil {
		w.item.Dispose()
		w.item = nil
	}
	w.status = Status{State: StateHidden}
}
