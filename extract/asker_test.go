package extract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/RadchaneepornC/officebuddy"
	"github.com/RadchaneepornC/officebuddy/extract"
	"github.com/RadchaneepornC/officebuddy/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entries = []officebuddy.KnowledgeEntry{
	{Question: "What is the personal allowance?", Answer: "60,000 baht."},
}

func TestAsker_Ask(t *testing.T) {
	t.Parallel()

	t.Run("answers from search results", func(t *testing.T) {
		t.Parallel()

		var gotLimit int
		var req *officebuddy.CompletionRequest
		kb := &mock.KnowledgeBase{
			SearchFn: func(_ context.Context, question string, limit int) ([]officebuddy.KnowledgeEntry, error) {
				gotLimit = limit
				return entries, nil
			},
		}
		c := &mock.Completer{
			CompleteFn: func(_ context.Context, r *officebuddy.CompletionRequest) (*officebuddy.Completion, error) {
				req = r
				return &officebuddy.Completion{Text: `{"answer": "It is 60,000 baht.", "source": "knowledge base"}`}, nil
			},
		}

		answer, err := extract.NewAsker(kb, c).Ask(context.Background(), "personal allowance?")

		require.NoError(t, err)
		assert.Equal(t, "It is 60,000 baht.", answer.Text)
		assert.Equal(t, "knowledge base", answer.Source)
		assert.Equal(t, entries, answer.Used)
		assert.Equal(t, officebuddy.DefaultSearchLimit, gotLimit)
		assert.True(t, req.JSONMode)
		assert.Equal(t, extract.DefaultAskerSystem, req.System)
		assert.Contains(t, req.Prompt, "What is the personal allowance?")
		assert.Contains(t, req.Prompt, "Question: personal allowance?")
	})

	t.Run("falls back to raw text when response has no answer", func(t *testing.T) {
		t.Parallel()

		kb := &mock.KnowledgeBase{
			SearchFn: func(context.Context, string, int) ([]officebuddy.KnowledgeEntry, error) {
				return entries, nil
			},
		}
		c := &mock.Completer{
			CompleteFn: func(context.Context, *officebuddy.CompletionRequest) (*officebuddy.Completion, error) {
				return &officebuddy.Completion{Text: "Sixty thousand baht."}, nil
			},
		}

		answer, err := extract.NewAsker(kb, c).Ask(context.Background(), "allowance")

		require.NoError(t, err)
		assert.Equal(t, "Sixty thousand baht.", answer.Text)
		assert.Empty(t, answer.Source)
	})

	t.Run("requires a question", func(t *testing.T) {
		t.Parallel()

		_, err := extract.NewAsker(&mock.KnowledgeBase{}, &mock.Completer{}).Ask(context.Background(), " ")

		assert.Equal(t, officebuddy.EINVALID, officebuddy.ErrorCode(err))
	})

	t.Run("propagates search errors", func(t *testing.T) {
		t.Parallel()

		kb := &mock.KnowledgeBase{
			SearchFn: func(context.Context, string, int) ([]officebuddy.KnowledgeEntry, error) {
				return nil, officebuddy.Errorf(officebuddy.ENOTFOUND, "no relevant information found")
			},
		}

		_, err := extract.NewAsker(kb, &mock.Completer{}).Ask(context.Background(), "allowance")

		assert.Equal(t, officebuddy.ENOTFOUND, officebuddy.ErrorCode(err))
	})

	t.Run("propagates completer errors", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("timeout")
		kb := &mock.KnowledgeBase{
			SearchFn: func(context.Context, string, int) ([]officebuddy.KnowledgeEntry, error) {
				return entries, nil
			},
		}
		c := &mock.Completer{
			CompleteFn: func(context.Context, *officebuddy.CompletionRequest) (*officebuddy.Completion, error) {
				return nil, boom
			},
		}

		_, err := extract.NewAsker(kb, c).Ask(context.Background(), "allowance")

		assert.ErrorIs(t, err, boom)
	})
}

func TestBuildAskPrompt(t *testing.T) {
	t.Parallel()

	prompt, err := extract.BuildAskPrompt([]officebuddy.KnowledgeEntry{
		{Question: "ภาษีเงินได้คืออะไร", Answer: "ภาษีที่เก็บจากเงินได้ <บุคคล>"},
	}, "ภาษี")

	require.NoError(t, err)
	assert.Contains(t, prompt, "ภาษีเงินได้คืออะไร")
	assert.Contains(t, prompt, "<บุคคล>")
	assert.Contains(t, prompt, "'answer' and 'source'")
}
