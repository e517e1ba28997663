// Package topic provides hierarchical topic names and wildcard matching for
// the event bus.
//
// Topics use dot-notation:
//
//	editor.active.changed
//	editor.selection.changed
//	wordcount.status.updated
//
// Two wildcards are supported in patterns:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	editor.*            matches editor.opened (not editor.active.changed)
//	editor.**           matches editor.opened, editor.active.changed
//	*.status.updated    matches wordcount.status.updated
//	**                  matches everything
package topic
