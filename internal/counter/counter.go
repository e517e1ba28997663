// Package counter computes word counts over raw text and document ranges,
// and formats them for display.
//
// Counting is a best-effort normalization, not a parser: tag-like fragments
// are stripped, whitespace runs are collapsed, and the remaining
// space-separated tokens are counted.
package counter

import (
	"regexp"
	"strings"

	"github.com/dshills/wordcount/internal/document"
)

// tagPattern matches HTML-like tag fragments such as <b>, </p> or <br />.
// A tag name follows "<" directly, so comparisons like "a < b > c" stay text.
var tagPattern = regexp.MustCompile(`<[^<>\s][^<>]*>`)

// RangeReader extracts the text spanned by a range.
type RangeReader interface {
	TextRange(r document.Range) string
}

// CountWords returns the number of words in text.
// Empty or whitespace-only text has zero words.
func CountWords(text string) int {
	text = tagPattern.ReplaceAllString(text, "")
	return len(strings.Fields(text))
}

// CountWordsInRanges counts the words in each range of doc and returns the
// sum. Ranges are counted independently, so a word split across two ranges
// counts once in each. An empty range list counts zero.
func CountWordsInRanges(doc RangeReader, ranges []document.Range) int {
	total := 0
	for _, r := range ranges {
		total += CountWords(doc.TextRange(r))
	}
	return total
}

// CountWordsInSelections is CountWordsInRanges over selection extents.
func CountWordsInSelections(doc RangeReader, selections []document.Selection) int {
	return CountWordsInRanges(doc, document.Ranges(selections))
}
