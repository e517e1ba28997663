package document

import "fmt"

// Selection is a range of selected text.
// Anchor is where the selection started; Head is the cursor position.
// When Anchor == Head the selection is a collapsed cursor.
type Selection struct {
	Anchor ByteOffset
	Head   ByteOffset
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head ByteOffset) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NewCursorSelection creates a selection with no extent.
func NewCursorSelection(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	return Range{Start: s.Anchor, End: s.Head}.Normalize()
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	return fmt.Sprintf("%d->%d", s.Anchor, s.Head)
}

// AllEmpty reports whether every selection is a collapsed cursor.
// An empty list is treated as all empty.
func AllEmpty(selections []Selection) bool {
	for _, s := range selections {
		if !s.IsEmpty() {
			return false
		}
	}
	return true
}

// Ranges converts selections into normalized ranges, preserving order.
func Ranges(selections []Selection) []Range {
	ranges := make([]Range, len(selections))
	for i, s := range selections {
		ranges[i] = s.Range()
	}
	return ranges
}
