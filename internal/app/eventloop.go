package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/dshills/wordcount/internal/document"
	"github.com/dshills/wordcount/internal/renderer/backend"
	"github.com/dshills/wordcount/internal/renderer/statusline"
	"github.com/dshills/wordcount/internal/watcher"
)

// stopRequest wakes the loop when the run context is cancelled.
type stopRequest struct{}

// watchError carries a watcher error into the loop.
type watchError struct{ err error }

var (
	headerStyle = backend.Style{Foreground: backend.ColorDefault, Background: backend.ColorDefault, Bold: true}
	hintStyle   = backend.Style{Foreground: backend.ColorGray, Background: backend.ColorDefault}
)

const hint = "Tab next file   Up/Down select line   a all   q quit"

// Run draws the screen and processes input until the user quits, the
// backend closes, or ctx is cancelled. Watcher changes and cancellation
// reach the loop through backend interrupts, so every component is only
// touched from the loop goroutine.
func (app *Application) Run(ctx context.Context) error {
	if app.closed.Load() {
		return ErrClosed
	}
	if app.backend == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-runCtx.Done()
		app.backend.Interrupt(stopRequest{})
	}()
	if app.watcher != nil {
		go app.forwardChanges(runCtx)
	}

	app.render()
	for {
		ev := app.backend.PollEvent()
		err := app.handleBackendEvent(ev)
		if errors.Is(err, ErrQuit) {
			app.logger.Info("application stopped")
			return nil
		}
		if err != nil {
			return err
		}
		if ev.Type == backend.EventResize || app.dirty.Swap(false) {
			app.render()
		}
	}
}

// forwardChanges hands watcher output to the loop.
func (app *Application) forwardChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-app.watcher.Changes():
			if !ok {
				return
			}
			app.backend.Interrupt(c)
		case err, ok := <-app.watcher.Errors():
			if !ok {
				return
			}
			app.backend.Interrupt(watchError{err: err})
		}
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventClosed:
		return ErrQuit
	case backend.EventResize:
		app.backend.Clear()
		return nil
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventInterrupt:
		return app.handleInterrupt(ev.Data)
	default:
		return nil
	}
}

// handleKeyEvent processes keyboard input events.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyTab:
		if doc, ok := app.workspace.Next(); ok {
			app.logger.Debug("switched document", "uri", doc.URI())
		}
		app.dirty.Store(true)
	case backend.KeyDown:
		app.selectLine(1)
	case backend.KeyUp:
		app.selectLine(-1)
	case backend.KeyRune:
		switch ev.Rune {
		case 'q':
			return ErrQuit
		case 'j':
			app.selectLine(1)
		case 'k':
			app.selectLine(-1)
		case 'a':
			app.selectAll()
		}
	}
	return nil
}

// selectLine moves the line selection of the active document by delta,
// skipping blank lines. Without a selection, moving down starts at the
// first line and moving up at the last.
func (app *Application) selectLine(delta int) {
	doc, ok := app.workspace.ActiveDocument()
	if !ok {
		return
	}
	buf, ok := app.workspace.Get(doc.URI())
	if !ok {
		return
	}

	lines := int(buf.LineCount())
	line := -1
	if delta < 0 {
		line = lines
	}
	if sels := app.workspace.Selections(doc.URI()); len(sels) > 0 {
		line = int(buf.OffsetToPoint(sels[0].Range().Start).Line)
	}

	for next := line + delta; next >= 0 && next < lines; next += delta {
		if strings.TrimSpace(buf.LineText(uint32(next))) == "" {
			continue
		}
		r := buf.RangeFromPoints(
			document.Point{Line: uint32(next)},
			document.Point{Line: uint32(next), Column: math.MaxUint32},
		)
		if err := app.workspace.SetSelections(doc.URI(), document.NewSelection(r.Start, r.End)); err != nil {
			app.logger.Warn("selecting line", "uri", doc.URI(), "error", err)
			return
		}
		app.dirty.Store(true)
		return
	}
}

// selectAll drops the selections of the active document so the whole
// document is counted again.
func (app *Application) selectAll() {
	doc, ok := app.workspace.ActiveDocument()
	if !ok || len(app.workspace.Selections(doc.URI())) == 0 {
		return
	}
	if err := app.workspace.ClearSelections(doc.URI()); err != nil {
		app.logger.Warn("clearing selections", "uri", doc.URI(), "error", err)
		return
	}
	app.dirty.Store(true)
}

func (app *Application) handleInterrupt(data any) error {
	switch d := data.(type) {
	case stopRequest:
		return ErrQuit
	case watcher.Change:
		app.applyChange(d)
	case watchError:
		app.logger.Warn("watcher error", "error", d.err)
	}
	return nil
}

// applyChange replaces the text of a document edited on disk. A removed
// file keeps its last known text.
func (app *Application) applyChange(c watcher.Change) {
	if c.Removed {
		app.logger.Warn("watched file removed", "path", c.Path)
		return
	}
	if err := app.workspace.UpdateText(c.Path, string(c.Content)); err != nil {
		app.logger.Warn("applying file change", "path", c.Path, "error", err)
		return
	}
	app.logger.Debug("file reloaded", "path", c.Path, "bytes", len(c.Content))
}

// render draws the header, the key hint and the status bar.
func (app *Application) render() {
	width, height := app.backend.Size()
	app.backend.Clear()
	if height <= 0 {
		app.backend.Show()
		return
	}

	statusline.DrawText(app.backend, 1, 0, app.header(), width-1, headerStyle)
	if height > 2 {
		statusline.DrawText(app.backend, 1, 1, hint, width-1, hintStyle)
	}
	app.bar.Render(app.backend, height-1)
	app.backend.Show()
}

func (app *Application) header() string {
	doc, ok := app.workspace.ActiveDocument()
	if !ok {
		return "no file open"
	}

	docs := app.workspace.Documents()
	idx := 0
	for i, d := range docs {
		if d.URI() == doc.URI() {
			idx = i + 1
			break
		}
	}
	header := fmt.Sprintf("%s [%s] (%d/%d)", filepath.Base(doc.URI()), doc.LanguageID(), idx, len(docs))

	buf, ok := app.workspace.Get(doc.URI())
	if !ok {
		return header
	}
	sels := app.workspace.Selections(doc.URI())
	if len(sels) == 0 || document.AllEmpty(sels) {
		return header
	}
	p := buf.OffsetToPoint(sels[0].Range().Start)
	return fmt.Sprintf("%s line %d/%d", header, p.Line+1, buf.LineCount())
}
