package document

import (
	"strings"
	"sync"
)

// Document is a read-only view of a host-owned text buffer.
type Document interface {
	// URI identifies the document (a file path for file-backed documents).
	URI() string

	// LanguageID is the document's content-type tag, e.g. "markdown".
	LanguageID() string

	// Text returns the full document text.
	Text() string

	// TextRange returns the text spanned by r.
	// Reversed ranges are normalized; out-of-bounds offsets are clamped.
	TextRange(r Range) string
}

// Buffer is an in-memory Document that is safe for concurrent use.
type Buffer struct {
	mu         sync.RWMutex
	uri        string
	languageID string
	text       string
	lineStarts []ByteOffset
	version    int64
}

// NewBuffer creates a buffer with the given uri, language id and text.
func NewBuffer(uri, languageID, text string) *Buffer {
	b := &Buffer{uri: uri, languageID: languageID}
	b.setText(text)
	return b
}

// URI returns the buffer's identifier.
func (b *Buffer) URI() string {
	return b.uri
}

// LanguageID returns the buffer's language id.
func (b *Buffer) LanguageID() string {
	return b.languageID
}

// Text returns the full buffer text.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// SetText replaces the buffer contents and bumps its version.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setText(text)
	b.version++
}

func (b *Buffer) setText(text string) {
	b.text = text
	b.lineStarts = b.lineStarts[:0]
	b.lineStarts = append(b.lineStarts, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			b.lineStarts = append(b.lineStarts, ByteOffset(i+1))
		}
	}
}

// Version returns the number of times the text has been replaced.
func (b *Buffer) Version() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// Len returns the text length in bytes.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.text))
}

// TextRange returns the text spanned by r.
func (b *Buffer) TextRange(r Range) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	r = r.Normalize()
	start := b.clamp(r.Start)
	end := b.clamp(r.End)
	return b.text[start:end]
}

func (b *Buffer) clamp(off ByteOffset) ByteOffset {
	if off < 0 {
		return 0
	}
	if n := ByteOffset(len(b.text)); off > n {
		return n
	}
	return off
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(len(b.lineStarts))
}

// LineText returns the text of a line without its trailing newline.
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if int(line) >= len(b.lineStarts) {
		return ""
	}
	start := b.lineStarts[line]
	end := ByteOffset(len(b.text))
	if int(line)+1 < len(b.lineStarts) {
		end = b.lineStarts[line+1]
	}
	return strings.TrimSuffix(b.text[start:end], "\n")
}

// OffsetToPoint converts a byte offset to a line/column point.
// Offsets past the end map to the end of the buffer.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()

	offset = b.clamp(offset)
	lo, hi := 0, len(b.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Point{Line: uint32(lo), Column: uint32(offset - b.lineStarts[lo])}
}

// PointToOffset converts a line/column point to a byte offset.
// Lines past the end map to the end of the buffer; columns are clamped to
// the line length.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if int(p.Line) >= len(b.lineStarts) {
		return ByteOffset(len(b.text))
	}
	start := b.lineStarts[p.Line]
	end := ByteOffset(len(b.text))
	if int(p.Line)+1 < len(b.lineStarts) {
		end = b.lineStarts[p.Line+1] - 1
	}
	off := start + ByteOffset(p.Column)
	if off > end {
		off = end
	}
	return off
}

// RangeFromPoints builds a byte range from two line/column points.
// The points may be given in either order.
func (b *Buffer) RangeFromPoints(start, end Point) Range {
	if end.Compare(start) < 0 {
		start, end = end, start
	}
	return Range{Start: b.PointToOffset(start), End: b.PointToOffset(end)}
}
