package officebuddy

import (
	"context"
	"sort"
	"strings"
)

// DefaultSearchLimit is the number of entries returned when no limit is given.
const DefaultSearchLimit = 3

// KnowledgeEntry is a question/answer pair from a static corpus.
type KnowledgeEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// KnowledgeBase answers keyword queries over a corpus of entries.
type KnowledgeBase interface {
	// Search returns up to limit entries relevant to question, most relevant
	// first. Returns ENOTFOUND if the corpus is empty.
	Search(ctx context.Context, question string, limit int) ([]KnowledgeEntry, error)
}

// Answer is a model answer grounded on knowledge-base entries.
type Answer struct {
	Text   string           `json:"answer"`
	Source string           `json:"source"`
	Used   []KnowledgeEntry `json:"-"`
}

// Asker answers natural language questions from a knowledge base.
type Asker interface {
	Ask(ctx context.Context, question string) (*Answer, error)
}

// ScoreEntries ranks entries by keyword overlap with question. Each keyword
// (whitespace-separated words of the question, lowercased, plus extra)
// scores 2 when contained in an entry's question and 1 when contained in
// its answer. Ties keep corpus order. When no entry scores, the first entry
// is returned so callers always have some context.
func ScoreEntries(entries []KnowledgeEntry, question string, extra []string, limit int) ([]KnowledgeEntry, error) {
	if len(entries) == 0 {
		return nil, Errorf(ENOTFOUND, "no relevant information found")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	keywords := strings.Fields(strings.ToLower(question))
	for _, k := range extra {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}

	type scored struct {
		entry KnowledgeEntry
		score int
	}
	var matches []scored
	for _, e := range entries {
		q, a := strings.ToLower(e.Question), strings.ToLower(e.Answer)
		score := 0
		for _, k := range keywords {
			if strings.Contains(q, k) {
				score += 2
			}
			if strings.Contains(a, k) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{entry: e, score: score})
		}
	}

	if len(matches) == 0 {
		return []KnowledgeEntry{entries[0]}, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]KnowledgeEntry, 0, min(limit, len(matches)))
	for _, m := range matches[:min(limit, len(matches))] {
		out = append(out, m.entry)
	}
	return out, nil
}
