// Package docconv loads input documents as plain text over
// code.sajari.com/docconv.
package docconv

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/RadchaneepornC/officebuddy"
)

// Ensure Loader implements officebuddy.DocumentLoader at compile time.
var _ officebuddy.DocumentLoader = (*Loader)(nil)

// plainTypes are read as-is without conversion.
var plainTypes = map[string]bool{
	".txt":  true,
	".md":   true,
	".text": true,
}

// convertedTypes are handed to docconv. PDF conversion needs pdftotext on
// PATH at runtime.
var convertedTypes = map[string]bool{
	".pdf":   true,
	".docx":  true,
	".doc":   true,
	".rtf":   true,
	".odt":   true,
	".pages": true,
	".html":  true,
	".htm":   true,
	".xml":   true,
}

// htmlTypes are converted to Markdown when the Loader has a Converter.
var htmlTypes = map[string]bool{
	".html": true,
	".htm":  true,
}

// Loader implements officebuddy.DocumentLoader.
type Loader struct {
	html officebuddy.Converter
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTMLConverter converts HTML files with c instead of docconv's plain
// text rendering, keeping headings and lists.
func WithHTMLConverter(c officebuddy.Converter) Option {
	return func(l *Loader) {
		l.html = c
	}
}

// NewLoader creates a new Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Supported reports whether files with the given extension can be loaded.
func Supported(ext string) bool {
	ext = strings.ToLower(ext)
	return plainTypes[ext] || convertedTypes[ext]
}

// Load reads the document at path and returns its text.
func (l *Loader) Load(ctx context.Context, path string) (*officebuddy.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(ext) {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "unsupported file type %q", ext)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, officebuddy.Errorf(officebuddy.ENOTFOUND, "file %q not found", path)
		}
		return nil, err
	}

	var text string
	switch {
	case plainTypes[ext]:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		text = string(data)
	case htmlTypes[ext] && l.html != nil:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		md, err := l.html.Convert(string(data))
		if err != nil {
			return nil, err
		}
		text = md
	default:
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return nil, officebuddy.Errorf(officebuddy.EINVALID, "convert %s: %v", filepath.Base(path), err)
		}
		text = res.Body
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "document %q has no text", filepath.Base(path))
	}
	return &officebuddy.Document{Path: path, Type: ext, Text: text}, nil
}
