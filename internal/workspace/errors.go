package workspace

import "errors"

var (
	// ErrDocumentNotFound is returned when a URI does not name an open document.
	ErrDocumentNotFound = errors.New("workspace: document not found")

	// ErrEmptyURI is returned when a document is opened without a URI.
	ErrEmptyURI = errors.New("workspace: empty document uri")
)
