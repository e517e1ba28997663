// Package document provides the text model the word count add-on reads from:
// documents with a language id, byte ranges into them, and selections.
//
// Documents are owned by the host. The add-on only reads a document's text,
// its language id, and substrings addressed by a Range.
//
// Basic usage:
//
//	buf := document.NewBuffer("notes.md", "markdown", "Hello, World!")
//	buf.TextRange(document.NewRange(0, 5)) // "Hello"
//
// Language ids are assigned from file paths through an Associations table
// of glob patterns:
//
//	assoc := document.DefaultAssociations()
//	assoc.Detect("docs/README.md") // "markdown"
package document
