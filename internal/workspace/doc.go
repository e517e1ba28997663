// Package workspace is the host-side editor model: the set of open
// documents, which of them is active, and the selections in each.
//
// Every change that affects what an add-on would display is published on
// the event bus under the editor.* topics:
//
//	editor.active.changed     active document switched or its text replaced
//	editor.selection.changed  selections of a document updated
//	editor.document.changed   text of any open document replaced
package workspace
