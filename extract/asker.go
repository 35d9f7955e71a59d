package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/RadchaneepornC/officebuddy"
)

// Ensure Asker implements officebuddy.Asker at compile time.
var _ officebuddy.Asker = (*Asker)(nil)

// DefaultAskerSystem is the system prompt used when Asker.System is empty.
const DefaultAskerSystem = "You are a helpful assistant that answers questions from the knowledge base. Answer based only on the entries provided."

// Asker answers questions by searching a knowledge base and asking the
// Completer to answer from the matching entries.
type Asker struct {
	KnowledgeBase officebuddy.KnowledgeBase
	Completer     officebuddy.Completer
	System        string
	Limit         int
	MaxTokens     int
}

// NewAsker creates a new Asker.
func NewAsker(kb officebuddy.KnowledgeBase, c officebuddy.Completer) *Asker {
	return &Asker{
		KnowledgeBase: kb,
		Completer:     c,
		System:        DefaultAskerSystem,
		Limit:         officebuddy.DefaultSearchLimit,
		MaxTokens:     DefaultMaxTokens,
	}
}

// Ask answers a natural language question from the knowledge base.
// A response without a recoverable {"answer", "source"} object is returned
// verbatim as the answer text.
func (a *Asker) Ask(ctx context.Context, question string) (*officebuddy.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "question required")
	}

	entries, err := a.KnowledgeBase.Search(ctx, question, a.Limit)
	if err != nil {
		return nil, err
	}

	prompt, err := BuildAskPrompt(entries, question)
	if err != nil {
		return nil, err
	}

	system := a.System
	if system == "" {
		system = DefaultAskerSystem
	}
	completion, err := a.Completer.Complete(ctx, &officebuddy.CompletionRequest{
		Label:     "ask",
		System:    system,
		Prompt:    prompt,
		MaxTokens: a.MaxTokens,
		JSONMode:  true,
	})
	if err != nil {
		return nil, err
	}

	answer := &officebuddy.Answer{Text: completion.Text, Used: entries}
	if obj, ok := officebuddy.Normalize(completion.Text); ok {
		if text, ok := obj["answer"].(string); ok {
			answer.Text = text
			answer.Source, _ = obj["source"].(string)
		}
	}
	return answer, nil
}

// BuildAskPrompt renders the search results and the question into a prompt.
func BuildAskPrompt(entries []officebuddy.KnowledgeEntry, question string) (string, error) {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Knowledge base search results:\n")
	sb.WriteString(buf.String())
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Question: %s\n\n", question)
	sb.WriteString("Based on the search results, answer the question. Format your response as a JSON object with 'answer' and 'source' fields.")
	return sb.String(), nil
}
