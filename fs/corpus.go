package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"os"

	"github.com/RadchaneepornC/officebuddy"
)

// Ensure Corpus implements officebuddy.KnowledgeBase at compile time.
var _ officebuddy.KnowledgeBase = (*Corpus)(nil)

// Corpus is an in-memory knowledge base loaded from a JSON file.
type Corpus struct {
	entries []officebuddy.KnowledgeEntry

	// Keywords are added to every question's keywords when scoring.
	Keywords []string
}

// LoadCorpus reads a corpus file. See ParseCorpus for accepted formats.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, officebuddy.Errorf(officebuddy.ENOTFOUND, "corpus %q not found", path)
		}
		return nil, err
	}
	c, err := ParseCorpus(data)
	if err != nil {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "corpus %q: %s", path, officebuddy.ErrorMessage(err))
	}
	return c, nil
}

// ParseCorpus decodes either a bare JSON list of entries or an object with
// a "records" list (the crawler's output). Entries missing a question or an
// answer are skipped.
func ParseCorpus(data []byte) (*Corpus, error) {
	data = bytes.TrimSpace(data)

	var entries []officebuddy.KnowledgeEntry
	switch {
	case len(data) > 0 && data[0] == '[':
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, officebuddy.Errorf(officebuddy.EINVALID, "decode corpus: %v", err)
		}
	case len(data) > 0 && data[0] == '{':
		var doc struct {
			Records []officebuddy.KnowledgeEntry `json:"records"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, officebuddy.Errorf(officebuddy.EINVALID, "decode corpus: %v", err)
		}
		entries = doc.Records
	default:
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "corpus must be a JSON list or an object with records")
	}

	return NewCorpus(entries), nil
}

// NewCorpus creates a Corpus from entries, dropping incomplete ones.
func NewCorpus(entries []officebuddy.KnowledgeEntry) *Corpus {
	kept := make([]officebuddy.KnowledgeEntry, 0, len(entries))
	for _, e := range entries {
		if e.Question == "" || e.Answer == "" {
			continue
		}
		kept = append(kept, e)
	}
	return &Corpus{entries: kept}
}

// Len returns the number of usable entries.
func (c *Corpus) Len() int {
	return len(c.entries)
}

// Search ranks entries by keyword overlap with question.
func (c *Corpus) Search(ctx context.Context, question string, limit int) ([]officebuddy.KnowledgeEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return officebuddy.ScoreEntries(c.entries, question, c.Keywords, limit)
}
