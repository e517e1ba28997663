// Package app wires the word count add-on to a terminal host: a workspace
// of opened files, a status bar drawn through a display backend, optional
// Lua hooks, and a file watcher that feeds external edits back into the
// workspace.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dshills/wordcount/internal/config"
	"github.com/dshills/wordcount/internal/event"
	"github.com/dshills/wordcount/internal/plugin/lua"
	"github.com/dshills/wordcount/internal/renderer/backend"
	"github.com/dshills/wordcount/internal/renderer/statusline"
	"github.com/dshills/wordcount/internal/watcher"
	"github.com/dshills/wordcount/internal/wordcount"
	"github.com/dshills/wordcount/internal/workspace"
)

// Options configures the application.
type Options struct {
	// Config holds the settings. Defaults are used when nil.
	Config *config.Config

	// Files are opened on startup. The first one becomes active.
	Files []string

	// Backend draws the screen. Required by Run.
	Backend backend.Backend

	// Logger receives all component logs. Discarded when nil.
	Logger *slog.Logger

	// Watch reloads opened files when they change on disk.
	Watch bool
}

// Application is the central coordinator for all components.
type Application struct {
	cfg     *config.Config
	logger  *slog.Logger
	backend backend.Backend

	bus       event.Bus
	workspace *workspace.Workspace
	bar       *statusline.Bar
	ext       *wordcount.Extension
	hooks     *lua.Hooks
	watcher   *watcher.Watcher

	running atomic.Bool
	dirty   atomic.Bool

	closeOnce sync.Once
	closed    atomic.Bool
}

// New creates an Application and starts every component except the
// display loop.
func New(opts Options) (*Application, error) {
	app := &Application{
		cfg:     opts.Config,
		logger:  opts.Logger,
		backend: opts.Backend,
	}
	if app.cfg == nil {
		app.cfg = config.Default()
	}
	if app.logger == nil {
		app.logger = DiscardLogger()
	}

	if err := app.bootstrap(opts); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap(opts Options) error {
	// 1. Event bus
	app.bus = event.NewBus(event.WithPanicHandler(func(evt any, recovered any) {
		app.logger.Error("event handler panicked", "event", evt, "panic", recovered)
	}))

	// 2. Workspace
	assoc, err := app.cfg.DocumentAssociations()
	if err != nil {
		return &InitError{Component: "workspace", Err: err}
	}
	app.workspace = workspace.New(app.bus,
		workspace.WithAssociations(assoc),
		workspace.WithLogger(app.logger))

	// 3. Status bar
	app.bar = statusline.New()
	app.bar.OnChange(func() { app.dirty.Store(true) })

	// 4. Lua hooks, attached before the add-on so the first status is seen
	if app.cfg.Script != "" {
		app.hooks, err = lua.LoadHooks(context.Background(), app.cfg.Script, lua.WithLogger(app.logger))
		if err != nil {
			return &InitError{Component: "lua hooks", Err: err}
		}
		if err := app.hooks.Attach(app.bus); err != nil {
			return &InitError{Component: "lua hooks", Err: err}
		}
	}

	// 5. Word count add-on
	app.ext, err = wordcount.Activate(wordcount.Context{
		Bus:       app.bus,
		Workspace: app.workspace,
		CreateItem: func(a statusline.Alignment) wordcount.Item {
			return app.bar.CreateItem(a)
		},
		Logger: app.logger,
		Options: []wordcount.Option{
			wordcount.WithLanguage(app.cfg.Language),
			wordcount.WithAlignment(app.cfg.StatusAlignment()),
			wordcount.WithPrefix(app.cfg.Prefix),
		},
	})
	if err != nil {
		return &InitError{Component: "wordcount", Err: err}
	}

	// 6. Initial files
	for _, path := range opts.Files {
		if _, err := app.workspace.OpenFile(path); err != nil {
			return &InitError{Component: "workspace", Err: err}
		}
	}
	if docs := app.workspace.Documents(); len(docs) > 0 {
		_ = app.workspace.SetActive(docs[0].URI())
	}

	// 7. File watcher
	if opts.Watch {
		app.watcher, err = watcher.New(
			watcher.WithDebounce(app.cfg.Debounce.Duration),
			watcher.WithLogger(app.logger))
		if err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
		for _, doc := range app.workspace.Documents() {
			if err := app.watcher.Watch(doc.URI()); err != nil {
				return &InitError{Component: "watcher", Err: err}
			}
		}
	}

	app.logger.Info("application started",
		"files", app.workspace.Count(),
		"language", app.cfg.Language,
		"watch", opts.Watch)
	return nil
}

// Bus returns the event bus.
func (app *Application) Bus() event.Bus { return app.bus }

// Workspace returns the workspace.
func (app *Application) Workspace() *workspace.Workspace { return app.workspace }

// StatusBar returns the status bar.
func (app *Application) StatusBar() *statusline.Bar { return app.bar }

// Extension returns the activated word count add-on.
func (app *Application) Extension() *wordcount.Extension { return app.ext }

// Close releases every component in reverse start order. Safe to call
// more than once.
func (app *Application) Close() {
	app.closeOnce.Do(func() {
		app.closed.Store(true)
		if app.watcher != nil {
			if err := app.watcher.Close(); err != nil {
				app.logger.Warn("closing watcher", "error", err)
			}
		}
		if app.ext != nil {
			app.ext.Deactivate()
		}
		if app.hooks != nil {
			app.hooks.Close()
		}
		if app.bus != nil {
			if err := app.bus.Close(); err != nil && !errors.Is(err, event.ErrBusClosed) {
				app.logger.Warn("closing event bus", "error", err)
			}
		}
	})
}
