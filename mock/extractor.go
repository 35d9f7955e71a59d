package mock

import "github.com/RadchaneepornC/officebuddy"

var _ officebuddy.RecordExtractor = (*RecordExtractor)(nil)

// RecordExtractor is a mock implementation of officebuddy.RecordExtractor.
type RecordExtractor struct {
	ExtractFn func(html string) (*officebuddy.QARecord, error)
}

func (e *RecordExtractor) Extract(html string) (*officebuddy.QARecord, error) {
	return e.ExtractFn(html)
}
