package app

import (
	"fmt"
	"log/slog"

	"github.com/dshills/wordcount/internal/config"
	"github.com/dshills/wordcount/internal/document"
	"github.com/dshills/wordcount/internal/renderer/statusline"
	"github.com/dshills/wordcount/internal/wordcount"
	"github.com/dshills/wordcount/internal/workspace"
)

// CountResult is the status computed for one file.
type CountResult struct {
	Path     string
	Language string
	Status   wordcount.Status
}

// String formats the result as "path: text" or "path: hidden (language)".
func (r CountResult) String() string {
	if r.Status.State == wordcount.StateHidden {
		return fmt.Sprintf("%s: hidden (%s)", r.Path, r.Language)
	}
	return fmt.Sprintf("%s: %s", r.Path, r.Status.Text)
}

// Span selects text either by byte offsets or by line/column points.
// Points are resolved against each document separately.
type Span struct {
	Range    document.Range
	Start    document.Point
	End      document.Point
	ByPoints bool
}

// OffsetSpan selects a byte range.
func OffsetSpan(r document.Range) Span {
	return Span{Range: r}
}

// PointSpan selects the text between two 0-indexed line/column points.
func PointSpan(start, end document.Point) Span {
	return Span{Start: start, End: end, ByPoints: true}
}

func (s Span) resolve(buf *document.Buffer) document.Range {
	if s.ByPoints {
		return buf.RangeFromPoints(s.Start, s.End)
	}
	return s.Range
}

// CountFiles computes the status text for each file the way the status bar
// would show it. Spans act as selections in every file; an empty list or
// spans that are all empty count whole documents.
func CountFiles(cfg *config.Config, paths []string, spans []Span, logger *slog.Logger) ([]CountResult, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = DiscardLogger()
	}

	assoc, err := cfg.DocumentAssociations()
	if err != nil {
		return nil, err
	}
	ws := workspace.New(nil, workspace.WithAssociations(assoc), workspace.WithLogger(logger))
	bar := statusline.New()
	wc := wordcount.NewWordCounter(ws,
		func(a statusline.Alignment) wordcount.Item { return bar.CreateItem(a) },
		wordcount.WithLanguage(cfg.Language),
		wordcount.WithAlignment(cfg.StatusAlignment()),
		wordcount.WithPrefix(cfg.Prefix),
		wordcount.WithLogger(logger))
	defer wc.Dispose()

	results := make([]CountResult, 0, len(paths))
	for _, path := range paths {
		doc, err := ws.OpenFile(path)
		if err != nil {
			return results, err
		}

		selections := make([]document.Selection, 0, len(spans))
		for _, s := range spans {
			r := s.resolve(doc)
			selections = append(selections, document.NewSelection(r.Start, r.End))
		}
		if document.AllEmpty(selections) {
			selections = nil
		}
		wc.UpdateWordCount(selections...)
		results = append(results, CountResult{
			Path:     path,
			Language: doc.LanguageID(),
			Status:   wc.Status(),
		})
	}
	return results, nil
}
