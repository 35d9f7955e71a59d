package officebuddy

import (
	"bytes"
	"encoding/json"
)

// StageResult maps field names to values produced by one pipeline stage.
// Values are strings, []string, or nested StageResults.
type StageResult map[string]any

// String returns the string value for key, or "" if absent or not a string.
func (r StageResult) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Strings returns the list value for key, or nil if absent or not a list.
func (r StageResult) Strings(key string) []string {
	l, _ := r[key].([]string)
	return l
}

// Object returns the nested result for key, or nil if absent or not an object.
func (r StageResult) Object(key string) StageResult {
	o, _ := r[key].(StageResult)
	return o
}

// Clone returns a deep copy of the result.
func (r StageResult) Clone() StageResult {
	if r == nil {
		return nil
	}
	out := make(StageResult, len(r))
	for k, v := range r {
		switch v := v.(type) {
		case []string:
			out[k] = append([]string{}, v...)
		case StageResult:
			out[k] = v.Clone()
		default:
			out[k] = v
		}
	}
	return out
}

// StageStatus tags how a stage's result was obtained.
type StageStatus string

// Stage statuses.
const (
	// StatusOK means the model response conformed to the stage schema.
	StatusOK StageStatus = "ok"

	// StatusRecovered means some or all fields hold sentinel values because
	// the response could not be parsed or did not conform.
	StatusRecovered StageStatus = "recovered"
)

// StageOutcome is the tagged result of running one stage.
type StageOutcome struct {
	Name   string
	Status StageStatus
	Result StageResult

	// Raw is the unmodified model response.
	Raw string
}

// Recovered reports whether the outcome holds sentinel values.
func (o *StageOutcome) Recovered() bool {
	return o.Status == StatusRecovered
}

// PipelineState accumulates stage outcomes in execution order.
type PipelineState struct {
	RunID    string
	outcomes []*StageOutcome
}

// NewPipelineState returns an empty state for the given run.
func NewPipelineState(runID string) *PipelineState {
	return &PipelineState{RunID: runID}
}

// Add appends an outcome. Outcomes are never replaced once added.
func (s *PipelineState) Add(outcome *StageOutcome) {
	s.outcomes = append(s.outcomes, outcome)
}

// Len returns the number of completed stages.
func (s *PipelineState) Len() int {
	return len(s.outcomes)
}

// Names returns the completed stage names in execution order.
func (s *PipelineState) Names() []string {
	names := make([]string, 0, len(s.outcomes))
	for _, o := range s.outcomes {
		names = append(names, o.Name)
	}
	return names
}

// Get returns the outcome for a stage, or nil if it has not run.
func (s *PipelineState) Get(name string) *StageOutcome {
	for _, o := range s.outcomes {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Result returns a copy of a stage's result, or nil if it has not run.
func (s *PipelineState) Result(name string) StageResult {
	if o := s.Get(name); o != nil {
		return o.Result.Clone()
	}
	return nil
}

// Final returns a copy of the last completed stage's result.
func (s *PipelineState) Final() StageResult {
	if len(s.outcomes) == 0 {
		return nil
	}
	return s.outcomes[len(s.outcomes)-1].Result.Clone()
}

// Results returns copies of all results keyed by stage name.
func (s *PipelineState) Results() map[string]StageResult {
	out := make(map[string]StageResult, len(s.outcomes))
	for _, o := range s.outcomes {
		out[o.Name] = o.Result.Clone()
	}
	return out
}

// MarshalJSON encodes the state as an object keyed by stage name, in
// execution order. HTML characters are not escaped.
func (s *PipelineState) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, o := range s.outcomes {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(o.Name)
		if err != nil {
			return nil, err
		}
		value, err := marshalNoEscape(o.Result)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
