package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/RadchaneepornC/officebuddy"
)

// Ensure RecordExtractor implements officebuddy.RecordExtractor at compile time.
var _ officebuddy.RecordExtractor = (*RecordExtractor)(nil)

// RecordExtractor splits a knowledge-base page into a QA record.
//
// The question is the first h1, else the first h2, else the first h3. The
// context is the text of the largest article, section or div element by
// rune count; the first such element wins ties. See officebuddy.NewQARecord
// for how the answer is split from the context.
type RecordExtractor struct{}

// NewRecordExtractor creates a new RecordExtractor.
func NewRecordExtractor() *RecordExtractor {
	return &RecordExtractor{}
}

// Extract parses HTML and returns the page's record.
func (e *RecordExtractor) Extract(html string) (*officebuddy.QARecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "failed to parse HTML: %v", err)
	}

	question := heading(doc)

	var body string
	best := -1
	doc.Find("article, section, div").Each(func(_ int, sel *goquery.Selection) {
		text := nodeText(sel.Get(0))
		if n := utf8.RuneCountInString(text); n > best {
			best = n
			body = text
		}
	})
	if body == "" {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "page has no text content")
	}

	return officebuddy.NewQARecord(question, body), nil
}

func heading(doc *goquery.Document) string {
	for _, tag := range []string{"h1", "h2", "h3"} {
		if sel := doc.Find(tag).First(); sel.Length() > 0 {
			return nodeText(sel.Get(0))
		}
	}
	return ""
}
