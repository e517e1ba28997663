package workspace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/wordcount/internal/document"
	"github.com/dshills/wordcount/internal/event"
	"github.com/dshills/wordcount/internal/event/events"
)

const eventSource = "workspace"

type entry struct {
	buf        *document.Buffer
	selections []document.Selection
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithAssociations sets the table used by OpenFile to pick a language.
func WithAssociations(a *document.Associations) Option {
	return func(w *Workspace) {
		if a != nil {
			w.assoc = a
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.logger = l
		}
	}
}

// Workspace tracks open documents and the active one.
type Workspace struct {
	bus    event.Bus
	assoc  *document.Associations
	logger *slog.Logger

	mu     sync.RWMutex
	docs   map[string]*entry
	order  []string
	active string
}

// New creates an empty workspace publishing on bus.
func New(bus event.Bus, opts ...Option) *Workspace {
	w := &Workspace{
		bus:    bus,
		assoc:  document.DefaultAssociations(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		docs:   make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "workspace")
	return w
}

// Open adds an in-memory document and makes it active. Opening a URI that
// is already open activates the existing document unchanged.
func (w *Workspace) Open(uri, languageID, text string) (*document.Buffer, error) {
	if uri == "" {
		return nil, ErrEmptyURI
	}

	w.mu.Lock()
	e, exists := w.docs[uri]
	if !exists {
		e = &entry{buf: document.NewBuffer(uri, languageID, text)}
		w.docs[uri] = e
		w.order = append(w.order, uri)
	}
	changed := w.active != uri
	w.active = uri
	w.mu.Unlock()

	if !exists {
		w.logger.Debug("document opened", "uri", uri, "language", languageID)
	}
	if changed {
		w.publish(event.NewEvent(events.TopicActiveEditorChanged, events.ActiveEditorChanged{URI: uri}, eventSource))
	}
	return e.buf, nil
}

// OpenFile reads path and opens it under its absolute path, detecting the
// language from the association table.
func (w *Workspace) OpenFile(path string) (*document.Buffer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return w.Open(abs, w.assoc.Detect(abs), string(content))
}

// Close removes a document. If it was active, the most recently opened
// remaining document becomes active.
func (w *Workspace) Close(uri string) error {
	w.mu.Lock()
	if _, exists := w.docs[uri]; !exists {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, uri)
	}

	delete(w.docs, uri)
	for i, u := range w.order {
		if u == uri {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}

	wasActive := w.active == uri
	if wasActive {
		w.active = ""
		if n := len(w.order); n > 0 {
			w.active = w.order[n-1]
		}
	}
	next := w.active
	w.mu.Unlock()

	w.logger.Debug("document closed", "uri", uri)
	if wasActive {
		w.publish(event.NewEvent(events.TopicActiveEditorChanged, events.ActiveEditorChanged{URI: next}, eventSource))
	}
	return nil
}

// SetActive makes uri the active document.
func (w *Workspace) SetActive(uri string) error {
	w.mu.Lock()
	if _, exists := w.docs[uri]; !exists {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, uri)
	}
	changed := w.active != uri
	w.active = uri
	w.mu.Unlock()

	if changed {
		w.publish(event.NewEvent(events.TopicActiveEditorChanged, events.ActiveEditorChanged{URI: uri}, eventSource))
	}
	return nil
}

// Next activates the document opened after the active one, wrapping
// around. Returns false when nothing is open.
func (w *Workspace) Next() (*document.Buffer, bool) {
	w.mu.Lock()
	if len(w.order) == 0 {
		w.mu.Unlock()
		return nil, false
	}

	idx := 0
	for i, u := range w.order {
		if u == w.active {
			idx = (i + 1) % len(w.order)
			break
		}
	}
	uri := w.order[idx]
	changed := w.active != uri
	w.active = uri
	buf := w.docs[uri].buf
	w.mu.Unlock()

	if changed {
		w.publish(event.NewEvent(events.TopicActiveEditorChanged, events.ActiveEditorChanged{URI: uri}, eventSource))
	}
	return buf, true
}

// SetSelections replaces the selections of a document.
func (w *Workspace) SetSelections(uri string, selections ...document.Selection) error {
	w.mu.Lock()
	e, exists := w.docs[uri]
	if !exists {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, uri)
	}
	e.selections = append([]document.Selection(nil), selections...)
	payload := events.SelectionChanged{URI: uri, Selections: append([]document.Selection(nil), selections...)}
	w.mu.Unlock()

	w.publish(event.NewEvent(events.TopicSelectionChanged, payload, eventSource))
	return nil
}

// ClearSelections removes all selections of a document.
func (w *Workspace) ClearSelections(uri string) error {
	return w.SetSelections(uri)
}

// UpdateText replaces the text of a document. Its selections are dropped
// since offsets into the old text are meaningless.
func (w *Workspace) UpdateText(uri, text string) error {
	w.mu.Lock()
	e, exists := w.docs[uri]
	if !exists {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, uri)
	}
	e.buf.SetText(text)
	e.selections = nil
	version := e.buf.Version()
	isActive := w.active == uri
	w.mu.Unlock()

	w.publish(event.NewEvent(events.TopicDocumentChanged, events.DocumentChanged{URI: uri, Version: version}, eventSource))
	if isActive {
		w.publish(event.NewEvent(events.TopicActiveEditorChanged, events.ActiveEditorChanged{URI: uri}, eventSource))
	}
	return nil
}

// ActiveDocument returns the active document, if any.
func (w *Workspace) ActiveDocument() (document.Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	e, ok := w.docs[w.active]
	if !ok {
		return nil, false
	}
	return e.buf, true
}

// Get returns an open document by URI.
func (w *Workspace) Get(uri string) (*document.Buffer, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	e, ok := w.docs[uri]
	if !ok {
		return nil, false
	}
	return e.buf, true
}

// Selections returns a copy of the selections of a document.
func (w *Workspace) Selections(uri string) []document.Selection {
	w.mu.RLock()
	defer w.mu.RUnlock()

	e, ok := w.docs[uri]
	if !ok {
		return nil
	}
	return append([]document.Selection(nil), e.selections...)
}

// Documents returns the open documents in the order they were opened.
func (w *Workspace) Documents() []*document.Buffer {
	w.mu.RLock()
	defer w.mu.RUnlock()

	docs := make([]*document.Buffer, 0, len(w.order))
	for _, uri := range w.order {
		docs = append(docs, w.docs[uri].buf)
	}
	return docs
}

// Count returns the number of open documents.
func (w *Workspace) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.docs)
}

func (w *Workspace) publish(evt event.TopicProvider) {
	if w.bus == nil {
		return
	}
	if err := w.bus.Publish(context.Background(), evt); err != nil {
		w.logger.Warn("event delivery failed", "topic", evt.EventTopic(), "error", err)
	}
}
