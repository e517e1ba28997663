// Package wordcount implements the live word count add-on: a status item
// that shows how many words the active document contains, or how many are
// selected out of the total.
//
// The add-on has two parts. WordCounter owns the status item and recomputes
// its text on demand through UpdateWordCount. Controller subscribes to the
// editor's "active document changed" and "selection changed" events and
// calls UpdateWordCount accordingly.
//
// Only documents of a single language (markdown by default) are counted;
// for any other document, or when no document is active, the status item
// is hidden.
//
//	ext, err := wordcount.Activate(wordcount.Context{
//	    Bus:        bus,
//	    Workspace:  ws,
//	    CreateItem: func(a statusline.Alignment) wordcount.Item { return bar.CreateItem(a) },
//	})
//	defer ext.Deactivate()
package wordcount
