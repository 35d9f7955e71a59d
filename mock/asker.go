package mock

import (
	"context"

	"github.com/RadchaneepornC/officebuddy"
)

var _ officebuddy.Asker = (*Asker)(nil)

// Asker is a mock implementation of officebuddy.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string) (*officebuddy.Answer, error)
}

func (a *Asker) Ask(ctx context.Context, question string) (*officebuddy.Answer, error) {
	return a.AskFn(ctx, question)
}

var _ officebuddy.KnowledgeBase = (*KnowledgeBase)(nil)

// KnowledgeBase is a mock implementation of officebuddy.KnowledgeBase.
type KnowledgeBase struct {
	SearchFn func(ctx context.Context, question string, limit int) ([]officebuddy.KnowledgeEntry, error)
}

func (kb *KnowledgeBase) Search(ctx context.Context, question string, limit int) ([]officebuddy.KnowledgeEntry, error) {
	return kb.SearchFn(ctx, question, limit)
}
