package wordcount

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/dshills/wordcount/internal/event"
)

// Disposable releases a resource.
type Disposable interface {
	Dispose()
}

// Context carries what the host provides at activation.
type Context struct {
	Bus        event.Bus
	Workspace  Workspace
	CreateItem ItemFactory
	Logger     *slog.Logger
	Options    []Option
}

// Extension is an activated word count add-on.
type Extension struct {
	counter    *WordCounter
	controller *Controller

	mu          sync.Mutex
	disposables []Disposable
}

// Activate creates the word counter and its controller.
func Activate(ctx Context) (*Extension, error) {
	if ctx.Bus == nil || ctx.Workspace == nil || ctx.CreateItem == nil {
		return nil, errors.New("wordcount: activation context is incomplete")
	}

	opts := append([]Option{WithLogger(ctx.Logger), WithStatusEvents(ctx.Bus)}, ctx.Options...)
	wc := NewWordCounter(ctx.Workspace, ctx.CreateItem, opts...)

	ctrl, err := NewController(ctx.Bus, wc)
	if err != nil {
		wc.Dispose()
		return nil, err
	}

	wc.logger.Info("word count activated", "language", wc.Language())
	return &Extension{
		counter:     wc,
		controller:  ctrl,
		disposables: []Disposable{wc, ctrl},
	}, nil
}

// Counter returns the extension's word counter.
func (e *Extension) Counter() *WordCounter {
	return e.counter
}

// Deactivate releases everything Activate acquired. Safe to call repeatedly.
func (e *Extension) Deactivate() {
	e.mu.Lock()
	ds := e.disposables
	e.disposables = nil
	e.mu.Unlock()

	for i := len(ds) - 1; i >= 0; i-- {
		ds[i].Dispose()
	}
}
