package statusline

// Item is a single status bar entry. Items start hidden.
type Item struct {
	bar       *Bar
	id        int
	alignment Alignment
	text      string
	visible   bool
	disposed  bool
}

// ID returns the item's identifier, unique within its bar.
func (i *Item) ID() int {
	return i.id
}

// Alignment returns the side of the bar the item is on.
func (i *Item) Alignment() Alignment {
	return i.alignment
}

// Show sets the item text and makes it visible.
func (i *Item) Show(text string) {
	i.bar.mu.Lock()
	if i.disposed || (i.visible && i.text == text) {
		i.bar.mu.Unlock()
		return
	}
	i.text = text
	i.visible = true
	i.bar.mu.Unlock()

	i.bar.changed()
}

// Hide hides the item. The text is kept.
func (i *Item) Hide() {
	i.bar.mu.Lock()
	if i.disposed || !i.visible {
		i.bar.mu.Unlock()
		return
	}
	i.visible = false
	i.bar.mu.Unlock()

	i.bar.changed()
}

// Dispose removes the item from its bar. Further calls are no-ops.
func (i *Item) Dispose() {
	i.bar.mu.Lock()
	if i.disposed {
		i.bar.mu.Unlock()
		return
	}
	i.disposed = true
	wasVisible := i.visible
	i.visible = false
	i.bar.mu.Unlock()

	i.bar.remove(i)
	if wasVisible {
		i.bar.changed()
	}
}

// Text returns the item's current text.
func (i *Item) Text() string {
	i.bar.mu.Lock()
	defer i.bar.mu.Unlock()
	return i.text
}

// IsVisible reports whether the item is shown.
func (i *Item) IsVisible() bool {
	i.bar.mu.Lock()
	defer i.bar.mu.Unlock()
	return i.visible
}

// IsDisposed reports whether Dispose has been called.
func (i *Item) IsDisposed() bool {
	i.bar.mu.Lock()
	defer i.bar.mu.Unlock()
	return i.disposed
}
