package lua

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/wordcount/internal/event"
	"github.com/dshills/wordcount/internal/event/events"
)

// StatusHook is the global function called on status updates.
const StatusHook = "on_status"

// HooksOption configures Hooks.
type HooksOption func(*hooksConfig)

type hooksConfig struct {
	logger  *slog.Logger
	timeout time.Duration
}

// WithLogger sets the logger used by the script's wordcount.log and for
// hook failures.
func WithLogger(l *slog.Logger) HooksOption {
	return func(c *hooksConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout sets the per-call execution timeout.
func WithTimeout(d time.Duration) HooksOption {
	return func(c *hooksConfig) {
		c.timeout = d
	}
}

// Hooks runs a user script's status hooks.
type Hooks struct {
	state  *State
	logger *slog.Logger

	mu  sync.Mutex
	sub event.Subscription
}

// NewHooks creates hooks with the wordcount module installed and no
// script loaded.
func NewHooks(opts ...HooksOption) *Hooks {
	cfg := hooksConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.logger.With("component", "lua")
	state := NewState(WithExecutionTimeout(cfg.timeout))
	state.RegisterModule(ModuleName, moduleFuncs(logger))
	return &Hooks{state: state, logger: logger}
}

// LoadHooks creates hooks and runs the script at path.
func LoadHooks(ctx context.Context, path string, opts ...HooksOption) (*Hooks, error) {
	h := NewHooks(opts...)
	if err := h.state.DoFile(ctx, path); err != nil {
		h.Close()
		return nil, fmt.Errorf("load script %s: %w", path, err)
	}
	h.logger.Info("script loaded", "path", path, "on_status", h.state.HasFunction(StatusHook))
	return h, nil
}

// State returns the underlying Lua state.
func (h *Hooks) State() *State {
	return h.state
}

// Attach subscribes the status hook to bus. It runs after every other
// subscriber. Attaching again replaces the previous subscription.
func (h *Hooks) Attach(bus event.Bus) error {
	sub, err := bus.SubscribeFunc(events.TopicStatusUpdated,
		event.Typed(h.onStatus), event.WithPriority(event.PriorityLow))
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", events.TopicStatusUpdated, err)
	}

	h.mu.Lock()
	old := h.sub
	h.sub = sub
	h.mu.Unlock()

	if old != nil {
		old.Cancel()
	}
	return nil
}

func (h *Hooks) onStatus(ctx context.Context, evt event.Event[events.StatusUpdated]) error {
	if !h.state.HasFunction(StatusHook) {
		return nil
	}
	_, err := h.state.Call(ctx, StatusHook, lua.LString(evt.Payload.Text), lua.LBool(evt.Payload.Visible))
	if err != nil {
		h.logger.Warn("status hook failed", "error", err)
		return err
	}
	return nil
}

// Dispose detaches the hook from the bus.
func (h *Hooks) Dispose() {
	h.mu.Lock()
	sub := h.sub
	h.sub = nil
	h.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
}

// Close detaches the hook and releases the Lua state.
func (h *Hooks) Close() {
	h.Dispose()
	h.state.Close()
}
