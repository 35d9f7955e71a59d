package mock

import "github.com/RadchaneepornC/officebuddy"

var _ officebuddy.Converter = (*Converter)(nil)

// Converter is a mock implementation of officebuddy.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
