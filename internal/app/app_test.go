package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/wordcount/internal/config"
	"github.com/dshills/wordcount/internal/event"
	"github.com/dshills/wordcount/internal/event/events"
	"github.com/dshills/wordcount/internal/renderer/backend"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func keyRune(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
}

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func runUntilDone(t *testing.T, a *Application, ctx context.Context) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestApplication_RendersStatus(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", "one two three")
	txt := writeFile(t, dir, "todo.txt", "x y")

	be := backend.NewNullBackend(40, 5)
	a := newTestApp(t, Options{Files: []string{md, txt}, Backend: be})

	be.PostEvent(keyRune('q'))
	runUntilDone(t, a, context.Background())

	if row := be.Row(0); !strings.Contains(row, "notes.md [markdown] (1/2)") {
		t.Errorf("header = %q", row)
	}
	if row := be.Row(4); !strings.HasPrefix(row, " 3 Words ") {
		t.Errorf("status bar = %q", row)
	}
	if be.ShowCount() == 0 {
		t.Error("screen never shown")
	}
}

func TestApplication_TabSwitchesDocument(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", "one two three")
	txt := writeFile(t, dir, "todo.txt", "x y")

	be := backend.NewNullBackend(40, 5)
	a := newTestApp(t, Options{Files: []string{md, txt}, Backend: be})

	be.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyTab})
	be.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape})
	runUntilDone(t, a, context.Background())

	if row := be.Row(0); !strings.Contains(row, "todo.txt [plaintext] (2/2)") {
		t.Errorf("header = %q", row)
	}
	if row := strings.TrimSpace(be.Row(4)); row != "" {
		t.Errorf("status bar should be empty for plaintext, got %q", row)
	}
	if st := a.Extension().Counter().Status(); st.Text != "" {
		t.Errorf("status = %+v", st)
	}
}

func recordStatus(t *testing.T, a *Application) *[]string {
	t.Helper()
	var texts []string
	_, err := a.Bus().SubscribeFunc(events.TopicStatusUpdated, event.Typed(
		func(_ context.Context, evt event.Event[events.StatusUpdated]) error {
			texts = append(texts, evt.Payload.Text)
			return nil
		}))
	if err != nil {
		t.Fatal(err)
	}
	return &texts
}

func TestApplication_LineSelection(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", "# Heading here\n\nalpha beta\ngamma")

	be := backend.NewNullBackend(40, 5)
	a := newTestApp(t, Options{Files: []string{md}, Backend: be})
	texts := recordStatus(t, a)

	be.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyDown})
	be.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyDown})
	be.PostEvent(keyRune('k'))
	be.PostEvent(keyRune('j'))
	be.PostEvent(keyRune('q'))
	runUntilDone(t, a, context.Background())

	want := []string{"3 of 6 Words", "2 of 6 Words", "3 of 6 Words", "2 of 6 Words"}
	if strings.Join(*texts, "|") != strings.Join(want, "|") {
		t.Errorf("status texts = %q, want %q", *texts, want)
	}
	if row := be.Row(0); !strings.Contains(row, "notes.md [markdown] (1/1) line 3/4") {
		t.Errorf("header = %q", row)
	}
	if row := be.Row(4); !strings.HasPrefix(row, " 2 of 6 Words ") {
		t.Errorf("status bar = %q", row)
	}
}

func TestApplication_SelectAllAndEdges(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", "# Heading here\n\nalpha beta\ngamma")

	be := backend.NewNullBackend(40, 5)
	a := newTestApp(t, Options{Files: []string{md}, Backend: be})
	texts := recordStatus(t, a)

	be.PostEvent(keyRune('a'))
	be.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyUp})
	be.PostEvent(keyRune('j'))
	be.PostEvent(keyRune('a'))
	be.PostEvent(keyRune('q'))
	runUntilDone(t, a, context.Background())

	// 'a' without a selection and 'j' on the last line publish nothing.
	want := []string{"1 of 6 Words", "6 Words"}
	if strings.Join(*texts, "|") != strings.Join(want, "|") {
		t.Errorf("status texts = %q, want %q", *texts, want)
	}
	if row := be.Row(0); strings.Contains(row, "line") {
		t.Errorf("header after select all = %q", row)
	}
	if sels := a.Workspace().Selections(md); len(sels) != 0 {
		t.Errorf("selections = %v, want none", sels)
	}
}

func TestApplication_Resize(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", "word")

	be := backend.NewNullBackend(20, 3)
	a := newTestApp(t, Options{Files: []string{md}, Backend: be})

	be.Resize(30, 6)
	be.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlC})
	runUntilDone(t, a, context.Background())

	if row := be.Row(5); !strings.HasPrefix(row, " 1 Word ") {
		t.Errorf("status bar after resize = %q", row)
	}
}

func TestApplication_ContextCancel(t *testing.T) {
	be := backend.NewNullBackend(20, 3)
	a := newTestApp(t, Options{Backend: be})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runUntilDone(t, a, ctx)

	if row := be.Row(0); !strings.Contains(row, "no file open") {
		t.Errorf("header = %q", row)
	}
}

func TestApplication_WatchReloadsFile(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", "one two")

	cfg := config.Default()
	cfg.Debounce = config.Duration{Duration: 20 * time.Millisecond}
	be := backend.NewNullBackend(40, 4)
	a := newTestApp(t, Options{Config: cfg, Files: []string{md}, Backend: be, Watch: true})

	updates := make(chan events.StatusUpdated, 16)
	_, err := a.Bus().SubscribeFunc(events.TopicStatusUpdated, event.Typed(
		func(_ context.Context, evt event.Event[events.StatusUpdated]) error {
			updates <- evt.Payload
			return nil
		}))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	writeFile(t, dir, "notes.md", "one two three four five")

	deadline := time.After(5 * time.Second)
	for waiting := true; waiting; {
		select {
		case u := <-updates:
			waiting = u.Words != 5
		case <-deadline:
			t.Fatal("file change never reached the status bar")
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if row := be.Row(3); !strings.HasPrefix(row, " 5 Words ") {
		t.Errorf("status bar = %q", row)
	}
}

func TestApplication_LuaHooks(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", "alpha beta")
	script := writeFile(t, dir, "hooks.lua", `
function on_status(text, visible)
  if visible then wordcount.log("status is " .. text) end
end
`)

	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Script = script
	newTestApp(t, Options{Config: cfg, Files: []string{md}, Logger: NewLogger(slog.LevelDebug, &buf)})

	if !strings.Contains(buf.String(), "status is 2 Words") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestApplication_Options(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", "alpha beta")

	cfg := config.Default()
	cfg.Prefix = "✎ "
	cfg.Alignment = "right"
	a := newTestApp(t, Options{Config: cfg, Files: []string{md}})

	if got := a.StatusBar().Visible(); len(got) != 1 || got[0] != "✎ 2 Words" {
		t.Errorf("visible items = %q", got)
	}
}

func TestApplication_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := New(Options{Files: []string{filepath.Join(dir, "missing.md")}})
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "workspace" {
		t.Errorf("New() error = %v, want workspace InitError", err)
	}

	cfg := config.Default()
	cfg.Script = filepath.Join(dir, "missing.lua")
	if _, err := New(Options{Config: cfg}); !errors.As(err, &initErr) {
		t.Errorf("New() error = %v, want InitError", err)
	}

	a := newTestApp(t, Options{})
	if err := a.Run(context.Background()); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Run() error = %v, want ErrNoBackend", err)
	}

	b := newTestApp(t, Options{Backend: backend.NewNullBackend(10, 2)})
	b.Close()
	if err := b.Run(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Run() after Close error = %v, want ErrClosed", err)
	}
}
