package officebuddy

import "context"

// Document is an input document reduced to plain text.
type Document struct {
	Path string
	Type string // lowercased file extension, e.g. ".pdf"
	Text string
}

// DocumentLoader reads input documents (job descriptions, tax forms, CVs)
// as plain text for extraction.
type DocumentLoader interface {
	// Load returns the text content of the file at path.
	// Returns ENOTFOUND if the file does not exist and EINVALID if the
	// format is unsupported or the document carries no text.
	Load(ctx context.Context, path string) (*Document, error)
}
