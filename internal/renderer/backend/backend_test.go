package backend

import "testing"

func TestNullBackendSetGetCell(t *testing.T) {
	b := NewNullBackend(10, 2)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	cell := Cell{Rune: 'X', Width: 1, Style: Style{Foreground: ColorRed, Background: ColorDefault}}
	b.SetCell(3, 1, cell)

	if got := b.GetCell(3, 1); got != cell {
		t.Errorf("cell mismatch: expected %+v, got %+v", cell, got)
	}

	// Out of bounds should be ignored/return empty
	b.SetCell(-1, 0, cell)
	b.SetCell(100, 0, cell)
	if got := b.GetCell(-1, 0); got != EmptyCell() {
		t.Error("out of bounds should return empty cell")
	}

	if got := b.Row(1); got != "   X      " {
		t.Errorf("Row(1) = %q", got)
	}

	b.Clear()
	if got := b.GetCell(3, 1); got != EmptyCell() {
		t.Error("Clear should reset cells")
	}
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(10, 2)
	b.Init()

	b.PostEvent(Event{Type: EventKey, Key: KeyRune, Rune: 'q'})
	b.Interrupt("refresh")
	b.Resize(20, 3)

	if ev := b.PollEvent(); ev.Type != EventKey || ev.Rune != 'q' {
		t.Errorf("first event = %+v", ev)
	}
	if ev := b.PollEvent(); ev.Type != EventInterrupt || ev.Data != "refresh" {
		t.Errorf("second event = %+v", ev)
	}
	if ev := b.PollEvent(); ev.Type != EventResize || ev.Width != 20 || ev.Height != 3 {
		t.Errorf("third event = %+v", ev)
	}
	if w, h := b.Size(); w != 20 || h != 3 {
		t.Errorf("Size() = %d, %d", w, h)
	}

	b.Shutdown()
	b.Shutdown()
	if ev := b.PollEvent(); ev.Type != EventClosed {
		t.Errorf("after Shutdown PollEvent = %+v, want EventClosed", ev)
	}
}
