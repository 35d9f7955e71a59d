package mock

import (
	"context"

	"github.com/RadchaneepornC/officebuddy"
)

var _ officebuddy.DocumentLoader = (*DocumentLoader)(nil)

// DocumentLoader is a mock implementation of officebuddy.DocumentLoader.
type DocumentLoader struct {
	LoadFn func(ctx context.Context, path string) (*officebuddy.Document, error)
}

func (l *DocumentLoader) Load(ctx context.Context, path string) (*officebuddy.Document, error) {
	return l.LoadFn(ctx, path)
}
