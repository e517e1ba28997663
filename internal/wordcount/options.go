package wordcount

import (
	"io"
	"log/slog"

	"github.com/dshills/wordcount/internal/document"
	"github.com/dshills/wordcount/internal/event"
	"github.com/dshills/wordcount/internal/renderer/statusline"
)

type options struct {
	language  string
	alignment statusline.Alignment
	prefix    string
	logger    *slog.Logger
	bus       event.Bus
}

func defaultOptions() options {
	return options{
		language:  document.LanguageMarkdown,
		alignment: statusline.AlignLeft,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures a WordCounter.
type Option func(*options)

// WithLanguage sets the language id whose documents are counted.
func WithLanguage(id string) Option {
	return func(o *options) {
		if id != "" {
			o.language = id
		}
	}
}

// WithAlignment sets the side of the status bar the item is created on.
func WithAlignment(a statusline.Alignment) Option {
	return func(o *options) {
		o.alignment = a
	}
}

// WithPrefix sets text placed before the count, such as an icon.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStatusEvents publishes a StatusUpdated event on bus after every update.
func WithStatusEvents(bus event.Bus) Option {
	return func(o *options) {
		o.bus = bus
	}
}
