package mock

import "github.com/RadchaneepornC/officebuddy"

var _ officebuddy.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of officebuddy.LinkSelector.
type LinkSelector struct {
	SelectLinksFn func(html string, baseURL string) ([]string, error)
}

func (s *LinkSelector) SelectLinks(html string, baseURL string) ([]string, error) {
	return s.SelectLinksFn(html, baseURL)
}
