package officebuddy

import "strings"

// AnswerTrim is stripped from the start of an answer.
const AnswerTrim = " :–-"

// QARecord is one context/question/answer triple harvested from a crawled page.
// Question and Answer are empty when the page could not be split cleanly.
type QARecord struct {
	Context  string `json:"context"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Validate returns an error if the record has no context.
func (r *QARecord) Validate() error {
	if r.Context == "" {
		return Errorf(EINVALID, "record context required")
	}
	return nil
}

// NewQARecord builds a record from a page heading and its body text. When
// question occurs in context, the answer is the text after its first
// occurrence with leading AnswerTrim characters removed. Otherwise the
// record carries only the context.
func NewQARecord(question, context string) *QARecord {
	rec := &QARecord{Context: context}
	if question == "" {
		return rec
	}
	i := strings.Index(context, question)
	if i < 0 {
		return rec
	}
	rec.Question = question
	rec.Answer = strings.TrimLeft(context[i+len(question):], AnswerTrim)
	return rec
}

// LinkSelector discovers the pages a crawl should visit from a seed page.
type LinkSelector interface {
	// SelectLinks parses HTML and returns absolute page URLs in first-seen
	// order without duplicates. Relative links resolve against baseURL.
	// Returns ELAYOUT if the page has no recognizable navigation structure.
	SelectLinks(html string, baseURL string) ([]string, error)
}

// RecordExtractor turns one content page into a QA record.
type RecordExtractor interface {
	// Extract parses HTML and returns the page's record.
	// Returns EINVALID if the page carries no text content.
	Extract(html string) (*QARecord, error)
}
