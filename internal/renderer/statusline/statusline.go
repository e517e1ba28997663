// Package statusline provides the status bar and the status items that
// add-ons place on it.
package statusline

import (
	"sync"

	"github.com/rivo/uniseg"

	"github.com/dshills/wordcount/internal/renderer/backend"
)

// Alignment selects the side of the bar an item is placed on.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// String returns the alignment name.
func (a Alignment) String() string {
	if a == AlignRight {
		return "right"
	}
	return "left"
}

// ParseAlignment parses "left" or "right".
func ParseAlignment(s string) (Alignment, bool) {
	switch s {
	case "left", "":
		return AlignLeft, true
	case "right":
		return AlignRight, true
	default:
		return AlignLeft, false
	}
}

// itemGap is the number of columns between adjacent items.
const itemGap = 2

// Bar renders status items on a single row.
type Bar struct {
	mu       sync.Mutex
	items    []*Item
	nextID   int
	onChange func()

	barStyle  backend.Style
	itemStyle backend.Style
}

// New creates an empty status bar.
func New() *Bar {
	return &Bar{
		barStyle:  backend.Style{Foreground: backend.ColorWhite, Background: backend.ColorGray},
		itemStyle: backend.Style{Foreground: backend.ColorWhite, Background: backend.ColorGray, Bold: true},
	}
}

// OnChange registers a callback invoked whenever an item changes.
// The callback runs on the goroutine that changed the item.
func (b *Bar) OnChange(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// CreateItem adds a hidden item to the bar.
func (b *Bar) CreateItem(alignment Alignment) *Item {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	item := &Item{bar: b, id: b.nextID, alignment: alignment}
	b.items = append(b.items, item)
	return item
}

// Len returns the number of live (not disposed) items.
func (b *Bar) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Visible returns the texts of visible items, left items first.
func (b *Bar) Visible() []string {
	left, right := b.visible()
	out := make([]string, 0, len(left)+len(right))
	out = append(out, left...)
	return append(out, right...)
}

func (b *Bar) visible() (left, right []string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, it := range b.items {
		if !it.visible {
			continue
		}
		if it.alignment == AlignRight {
			right = append(right, it.text)
		} else {
			left = append(left, it.text)
		}
	}
	return left, right
}

func (b *Bar) remove(item *Item) {
	b.mu.Lock()
	for i, it := range b.items {
		if it == item {
			b.items = append(b.items[:i], b.items[i+1:]...)
			break
		}
	}
	b.mu.Unlock()
}

func (b *Bar) changed() {
	b.mu.Lock()
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Render draws the bar on the given row of the backend. Left items start at
// the left edge, right items end at the right edge, and text that does not
// fit is truncated with an ellipsis.
func (b *Bar) Render(be backend.Backend, row int) {
	width, _ := be.Size()
	left, right := b.visible()

	for x := 0; x < width; x++ {
		be.SetCell(x, row, backend.Cell{Rune: ' ', Width: 1, Style: b.barStyle})
	}

	rightWidth := 0
	for i, text := range right {
		if i > 0 {
			rightWidth += itemGap
		}
		rightWidth += uniseg.StringWidth(text)
	}
	rightStart := width - 1 - rightWidth
	if rightStart < 1 {
		rightStart = 1
	}

	limit := width - 1
	if len(right) > 0 {
		limit = rightStart - itemGap
	}

	col := 1
	for i, text := range left {
		if i > 0 {
			col += itemGap
		}
		col = b.drawText(be, col, row, text, limit)
	}

	col = rightStart
	for i, text := range right {
		if i > 0 {
			col += itemGap
		}
		col = b.drawText(be, col, row, text, width-1)
	}
}

func (b *Bar) drawText(be backend.Backend, col, row int, text string, limit int) int {
	return DrawText(be, col, row, text, limit, b.itemStyle)
}

// DrawText draws text from col, never writing at or past limit, and
// truncates with an ellipsis when it does not fit.
// Returns the column after the last drawn cell.
func DrawText(be backend.Backend, col, row int, text string, limit int, style backend.Style) int {
	if col >= limit {
		return col
	}

	fits := col+uniseg.StringWidth(text) <= limit
	stop := limit
	if !fits {
		stop = limit - 1 // room for the ellipsis
	}

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := g.Width()
		if col+w > stop {
			break
		}
		runes := g.Runes()
		be.SetCell(col, row, backend.Cell{Rune: runes[0], Width: w, Style: style})
		col += w
	}

	if !fits && col < limit {
		be.SetCell(col, row, backend.Cell{Rune: '…', Width: 1, Style: style})
		col++
	}
	return col
}
