// Package trafilatura extracts QA records from the main content of a page
// using go-trafilatura, for pages without a clean article/div layout.
package trafilatura

import (
	"strings"

	"github.com/RadchaneepornC/officebuddy"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure RecordExtractor implements officebuddy.RecordExtractor at compile time.
var _ officebuddy.RecordExtractor = (*RecordExtractor)(nil)

// RecordExtractor builds a record from trafilatura's main-content text.
// The question is the first h1-h3 inside the content, else the page title.
type RecordExtractor struct {
	opts trafilatura.Options
}

// NewRecordExtractor creates a new RecordExtractor with fallback
// extractors enabled.
func NewRecordExtractor() *RecordExtractor {
	return &RecordExtractor{opts: trafilatura.Options{EnableFallback: true}}
}

// Extract parses HTML and returns the page's record.
func (e *RecordExtractor) Extract(rawHTML string) (*officebuddy.QARecord, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "extract main content: %v", err)
	}

	body := collapse(result.ContentText)
	if body == "" {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "page has no text content")
	}

	question := firstHeading(result.ContentNode)
	if question == "" {
		question = collapse(result.Metadata.Title)
	}
	return officebuddy.NewQARecord(question, body), nil
}

// collapse joins whitespace-separated words with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstHeading(root *html.Node) string {
	if root == nil {
		return ""
	}
	for _, a := range []atom.Atom{atom.H1, atom.H2, atom.H3} {
		if n := find(root, a); n != nil {
			return collapse(text(n))
		}
	}
	return ""
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
