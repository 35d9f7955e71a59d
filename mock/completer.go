package mock

import (
	"context"

	"github.com/RadchaneepornC/officebuddy"
)

var _ officebuddy.Completer = (*Completer)(nil)

// Completer is a mock implementation of officebuddy.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, req *officebuddy.CompletionRequest) (*officebuddy.Completion, error)
}

func (c *Completer) Complete(ctx context.Context, req *officebuddy.CompletionRequest) (*officebuddy.Completion, error) {
	return c.CompleteFn(ctx, req)
}
