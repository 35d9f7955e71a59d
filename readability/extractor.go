// Package readability extracts QA records using go-readability's article
// detection.
package readability

import (
	"strings"

	"github.com/RadchaneepornC/officebuddy"
	"github.com/go-shiori/go-readability"
)

// Ensure RecordExtractor implements officebuddy.RecordExtractor at compile time.
var _ officebuddy.RecordExtractor = (*RecordExtractor)(nil)

// RecordExtractor uses the readability article title as the question and
// the article's text as the context.
type RecordExtractor struct{}

// NewRecordExtractor creates a new RecordExtractor.
func NewRecordExtractor() *RecordExtractor {
	return &RecordExtractor{}
}

// Extract parses HTML and returns the page's record.
func (e *RecordExtractor) Extract(rawHTML string) (*officebuddy.QARecord, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "detect article: %v", err)
	}

	body := strings.Join(strings.Fields(article.TextContent), " ")
	if body == "" {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "page has no text content")
	}
	title := strings.Join(strings.Fields(article.Title), " ")
	return officebuddy.NewQARecord(title, body), nil
}
