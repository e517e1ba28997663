package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/wordcount/internal/app"
	"github.com/dshills/wordcount/internal/document"
)

var errInvalidRange = errors.New("invalid range")

func newCountCmd(root *rootOptions) *cobra.Command {
	var rawRanges []string

	cmd := &cobra.Command{
		Use:   "count <file>...",
		Short: "Print the status bar text for each file",
		Long: `count prints the status text each file would show, one line per file:

  notes.md: 120 Words
  todo.txt: hidden (plaintext)

With --range, the words inside each range are counted against the
document total, as for an editor selection. A range is either byte offsets
(0:120) or 1-based line and column positions (3:1-5:40).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ranges, err := parseRanges(rawRanges)
			if err != nil {
				return err
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			results, err := app.CountFiles(cfg, args, ranges, logger)
			for _, r := range results {
				fmt.Fprintln(cmd.OutOrStdout(), r.String())
			}
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&rawRanges, "range", "r", nil, "range start:end or line:col-line:col to count as a selection (repeatable)")
	return cmd
}

func parseRanges(raw []string) ([]app.Span, error) {
	spans := make([]app.Span, 0, len(raw))
	for _, s := range raw {
		span, err := parseRange(s)
		if err != nil {
			return nil, err
		}
		spans = append(spans, span)
	}
	return spans, nil
}

// parseRange parses "start:end" byte offsets or "line:col-line:col"
// positions with 1-based lines and columns. Reversed ranges are allowed.
func parseRange(s string) (app.Span, error) {
	if from, to, ok := strings.Cut(s, "-"); ok {
		start, err := parsePoint(from)
		if err != nil {
			return app.Span{}, fmt.Errorf("%w %q: bad start position", errInvalidRange, s)
		}
		end, err := parsePoint(to)
		if err != nil {
			return app.Span{}, fmt.Errorf("%w %q: bad end position", errInvalidRange, s)
		}
		return app.PointSpan(start, end), nil
	}

	startStr, endStr, ok := strings.Cut(s, ":")
	if !ok {
		return app.Span{}, fmt.Errorf("%w %q: want start:end or line:col-line:col", errInvalidRange, s)
	}
	start, err := strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if err != nil || start < 0 {
		return app.Span{}, fmt.Errorf("%w %q: bad start offset", errInvalidRange, s)
	}
	end, err := strconv.ParseInt(strings.TrimSpace(endStr), 10, 64)
	if err != nil || end < 0 {
		return app.Span{}, fmt.Errorf("%w %q: bad end offset", errInvalidRange, s)
	}
	return app.OffsetSpan(document.NewRange(start, end)), nil
}

// parsePoint parses a 1-based "line:col" into a 0-based point.
func parsePoint(s string) (document.Point, error) {
	lineStr, colStr, ok := strings.Cut(s, ":")
	if !ok {
		return document.Point{}, errInvalidRange
	}
	line, err := strconv.ParseUint(strings.TrimSpace(lineStr), 10, 32)
	if err != nil || line == 0 {
		return document.Point{}, errInvalidRange
	}
	col, err := strconv.ParseUint(strings.TrimSpace(colStr), 10, 32)
	if err != nil || col == 0 {
		return document.Point{}, errInvalidRange
	}
	return document.Point{Line: uint32(line - 1), Column: uint32(col - 1)}, nil
}
