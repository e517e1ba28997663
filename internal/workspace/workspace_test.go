package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/wordcount/internal/document"
	"github.com/dshills/wordcount/internal/event"
	"github.com/dshills/wordcount/internal/event/events"
	"github.com/dshills/wordcount/internal/event/topic"
)

type recorder struct {
	topics []topic.Topic
	last   map[topic.Topic]any
}

func newRecorder(t *testing.T, bus event.Bus) *recorder {
	t.Helper()
	r := &recorder{last: make(map[topic.Topic]any)}
	_, err := bus.SubscribeFunc(events.TopicEditorAll, func(_ context.Context, evt any) error {
		tp := evt.(event.TopicProvider).EventTopic()
		r.topics = append(r.topics, tp)
		r.last[tp] = evt
		return nil
	})
	if err != nil {
		t.Fatalf("SubscribeFunc() error: %v", err)
	}
	return r
}

func (r *recorder) count(tp topic.Topic) int {
	n := 0
	for _, t := range r.topics {
		if t == tp {
			n++
		}
	}
	return n
}

func TestWorkspace_OpenActivates(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()
	rec := newRecorder(t, bus)
	ws := New(bus)

	if _, ok := ws.ActiveDocument(); ok {
		t.Fatal("new workspace should have no active document")
	}

	a, err := ws.Open("a.md", document.LanguageMarkdown, "alpha")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	doc, ok := ws.ActiveDocument()
	if !ok || doc.URI() != "a.md" {
		t.Fatalf("ActiveDocument() = %v, %v", doc, ok)
	}

	again, _ := ws.Open("a.md", "plaintext", "ignored")
	if again != a || again.Text() != "alpha" {
		t.Error("reopening should return the existing document")
	}
	if got := rec.count(events.TopicActiveEditorChanged); got != 1 {
		t.Errorf("active changes = %d, want 1", got)
	}

	if _, err := ws.Open("", "markdown", ""); !errors.Is(err, ErrEmptyURI) {
		t.Errorf("Open(\"\") error = %v, want ErrEmptyURI", err)
	}
}

func TestWorkspace_OpenFile(t *testing.T) {
	dir := t.TempDir()
	mdPath := filepath.Join(dir, "README.md")
	txtPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(mdPath, []byte("# Title\n\nSome text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(txtPath, []byte("plain"), 0o644); err != nil {
		t.Fatal(err)
	}

	ws := New(nil)
	md, err := ws.OpenFile(mdPath)
	if err != nil {
		t.Fatalf("OpenFile() error: %v", err)
	}
	if md.LanguageID() != document.LanguageMarkdown {
		t.Errorf("language = %q, want markdown", md.LanguageID())
	}
	if md.URI() != mdPath {
		t.Errorf("uri = %q, want %q", md.URI(), mdPath)
	}

	txt, err := ws.OpenFile(txtPath)
	if err != nil {
		t.Fatalf("OpenFile() error: %v", err)
	}
	if txt.LanguageID() != document.LanguagePlaintext {
		t.Errorf("language = %q, want plaintext", txt.LanguageID())
	}

	if _, err := ws.OpenFile(filepath.Join(dir, "missing.md")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWorkspace_OpenFileCustomAssociations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft.wiki")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	assoc := document.DefaultAssociations()
	if err := assoc.Add("*.wiki", document.LanguageMarkdown); err != nil {
		t.Fatal(err)
	}
	ws := New(nil, WithAssociations(assoc))

	doc, err := ws.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error: %v", err)
	}
	if doc.LanguageID() != document.LanguageMarkdown {
		t.Errorf("language = %q, want markdown", doc.LanguageID())
	}
}

func TestWorkspace_CloseActivatesPrevious(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()
	ws := New(bus)

	_, _ = ws.Open("a.md", "markdown", "")
	_, _ = ws.Open("b.md", "markdown", "")
	_, _ = ws.Open("c.md", "markdown", "")
	_ = ws.SetActive("b.md")

	rec := newRecorder(t, bus)
	if err := ws.Close("b.md"); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	doc, _ := ws.ActiveDocument()
	if doc.URI() != "c.md" {
		t.Errorf("active = %q, want c.md", doc.URI())
	}
	evt := rec.last[events.TopicActiveEditorChanged].(event.Event[events.ActiveEditorChanged])
	if evt.Payload.URI != "c.md" {
		t.Errorf("event uri = %q", evt.Payload.URI)
	}

	// Closing an inactive document does not change the active one.
	if err := ws.Close("a.md"); err != nil {
		t.Fatal(err)
	}
	if got := rec.count(events.TopicActiveEditorChanged); got != 1 {
		t.Errorf("active changes = %d, want 1", got)
	}

	_ = ws.Close("c.md")
	if _, ok := ws.ActiveDocument(); ok {
		t.Error("expected no active document after closing all")
	}
	if err := ws.Close("c.md"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Close() error = %v, want ErrDocumentNotFound", err)
	}
}

func TestWorkspace_Next(t *testing.T) {
	ws := New(nil)
	if _, ok := ws.Next(); ok {
		t.Error("Next() on empty workspace should fail")
	}

	_, _ = ws.Open("a.md", "markdown", "")
	_, _ = ws.Open("b.md", "markdown", "")
	_, _ = ws.Open("c.md", "markdown", "")

	want := []string{"a.md", "b.md", "c.md", "a.md"}
	for _, w := range want {
		doc, ok := ws.Next()
		if !ok || doc.URI() != w {
			t.Fatalf("Next() = %v, want %s", doc, w)
		}
	}
}

func TestWorkspace_Selections(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()
	rec := newRecorder(t, bus)
	ws := New(bus)
	_, _ = ws.Open("a.md", "markdown", "one two three")

	sel := document.NewSelection(0, 3)
	if err := ws.SetSelections("a.md", sel); err != nil {
		t.Fatalf("SetSelections() error: %v", err)
	}
	if got := ws.Selections("a.md"); len(got) != 1 || got[0] != sel {
		t.Errorf("Selections() = %v", got)
	}

	evt := rec.last[events.TopicSelectionChanged].(event.Event[events.SelectionChanged])
	if evt.Payload.URI != "a.md" || len(evt.Payload.Selections) != 1 {
		t.Errorf("selection event = %+v", evt.Payload)
	}

	if err := ws.ClearSelections("a.md"); err != nil {
		t.Fatal(err)
	}
	if got := ws.Selections("a.md"); len(got) != 0 {
		t.Errorf("Selections() after clear = %v", got)
	}
	if got := rec.count(events.TopicSelectionChanged); got != 2 {
		t.Errorf("selection events = %d, want 2", got)
	}

	if err := ws.SetSelections("missing.md"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("error = %v, want ErrDocumentNotFound", err)
	}
}

func TestWorkspace_UpdateText(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()
	ws := New(bus)
	_, _ = ws.Open("a.md", "markdown", "one")
	_, _ = ws.Open("b.md", "markdown", "two")
	_ = ws.SetSelections("b.md", document.NewSelection(0, 2))

	rec := newRecorder(t, bus)
	if err := ws.UpdateText("b.md", "two three"); err != nil {
		t.Fatalf("UpdateText() error: %v", err)
	}
	doc, _ := ws.Get("b.md")
	if doc.Text() != "two three" {
		t.Errorf("text = %q", doc.Text())
	}
	if len(ws.Selections("b.md")) != 0 {
		t.Error("selections should be dropped")
	}
	if rec.count(events.TopicDocumentChanged) != 1 || rec.count(events.TopicActiveEditorChanged) != 1 {
		t.Errorf("events = %v", rec.topics)
	}
	changed := rec.last[events.TopicDocumentChanged].(event.Event[events.DocumentChanged])
	if changed.Payload.Version != doc.Version() {
		t.Errorf("version = %d, want %d", changed.Payload.Version, doc.Version())
	}

	// Inactive documents only report the document change.
	if err := ws.UpdateText("a.md", "uno"); err != nil {
		t.Fatal(err)
	}
	if rec.count(events.TopicDocumentChanged) != 2 || rec.count(events.TopicActiveEditorChanged) != 1 {
		t.Errorf("events = %v", rec.topics)
	}

	if err := ws.UpdateText("missing.md", ""); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("error = %v, want ErrDocumentNotFound", err)
	}
}

func TestWorkspace_Documents(t *testing.T) {
	ws := New(nil)
	_, _ = ws.Open("b.md", "markdown", "")
	_, _ = ws.Open("a.md", "markdown", "")

	docs := ws.Documents()
	if len(docs) != 2 || docs[0].URI() != "b.md" || docs[1].URI() != "a.md" {
		t.Errorf("Documents() order wrong: %v", docs)
	}
	if ws.Count() != 2 {
		t.Errorf("Count() = %d", ws.Count())
	}
}
