package mock_test

import (
	"context"
	"testing"

	"github.com/RadchaneepornC/officebuddy"
	"github.com/RadchaneepornC/officebuddy/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleter_Complete(t *testing.T) {
	t.Parallel()

	t.Run("delegates to CompleteFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *officebuddy.CompletionRequest
		c := &mock.Completer{
			CompleteFn: func(_ context.Context, req *officebuddy.CompletionRequest) (*officebuddy.Completion, error) {
				calledWith = req
				return &officebuddy.Completion{Text: "{}"}, nil
			},
		}

		req := &officebuddy.CompletionRequest{Label: "sections", Prompt: "p"}
		got, err := c.Complete(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "{}", got.Text)
		assert.Same(t, req, calledWith)
	})
}
