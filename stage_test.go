package officebuddy_test

import (
	"strings"
	"testing"

	"github.com/RadchaneepornC/officebuddy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineState(t *testing.T) {
	t.Parallel()

	t.Run("keeps stages in execution order", func(t *testing.T) {
		t.Parallel()

		state := officebuddy.NewPipelineState("run-1")
		state.Add(&officebuddy.StageOutcome{Name: "summary", Status: officebuddy.StatusOK, Result: officebuddy.StageResult{"summary": "s"}})
		state.Add(&officebuddy.StageOutcome{Name: "sections", Status: officebuddy.StatusRecovered, Result: officebuddy.StageResult{"job_title": "x"}})

		assert.Equal(t, 2, state.Len())
		assert.Equal(t, []string{"summary", "sections"}, state.Names())
		assert.Equal(t, "x", state.Final().String("job_title"))
		assert.True(t, state.Get("sections").Recovered())
		assert.False(t, state.Get("summary").Recovered())
		assert.Nil(t, state.Get("format"))
		assert.Nil(t, state.Result("format"))
	})

	t.Run("returned results are copies", func(t *testing.T) {
		t.Parallel()

		state := officebuddy.NewPipelineState("run-1")
		state.Add(&officebuddy.StageOutcome{
			Name:   "sections",
			Result: officebuddy.StageResult{"skills": []string{"Go"}, "nested": officebuddy.StageResult{"k": "v"}},
		})

		got := state.Result("sections")
		got["skills"].([]string)[0] = "Rust"
		got.Object("nested")["k"] = "changed"
		got["extra"] = "added"

		again := state.Result("sections")
		assert.Equal(t, []string{"Go"}, again.Strings("skills"))
		assert.Equal(t, "v", again.Object("nested").String("k"))
		assert.NotContains(t, again, "extra")
	})

	t.Run("final of empty state is nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, officebuddy.NewPipelineState("run-1").Final())
	})

	t.Run("results keyed by stage", func(t *testing.T) {
		t.Parallel()

		state := officebuddy.NewPipelineState("run-1")
		state.Add(&officebuddy.StageOutcome{Name: "a", Result: officebuddy.StageResult{"x": "1"}})
		state.Add(&officebuddy.StageOutcome{Name: "b", Result: officebuddy.StageResult{"y": "2"}})

		results := state.Results()

		assert.Len(t, results, 2)
		assert.Equal(t, "1", results["a"].String("x"))
		assert.Equal(t, "2", results["b"].String("y"))
	})
}

func TestPipelineState_MarshalJSON(t *testing.T) {
	t.Parallel()

	state := officebuddy.NewPipelineState("run-1")
	state.Add(&officebuddy.StageOutcome{Name: "summary", Result: officebuddy.StageResult{"summary": "R&D <lead>"}})
	state.Add(&officebuddy.StageOutcome{Name: "format", Result: officebuddy.StageResult{"list": []string{"a"}}})

	data, err := state.MarshalJSON()
	require.NoError(t, err)

	s := string(data)
	assert.Less(t, strings.Index(s, `"summary":{`), strings.Index(s, `"format":{`))
	assert.Contains(t, s, "R&D <lead>")
	assert.JSONEq(t, `{"summary":{"summary":"R&D <lead>"},"format":{"list":["a"]}}`, s)
}

func TestStageResult_Accessors(t *testing.T) {
	t.Parallel()

	r := officebuddy.StageResult{"s": "v", "l": []string{"a"}, "o": officebuddy.StageResult{"k": "v"}}

	assert.Equal(t, "v", r.String("s"))
	assert.Empty(t, r.String("l"))
	assert.Equal(t, []string{"a"}, r.Strings("l"))
	assert.Nil(t, r.Strings("s"))
	assert.Equal(t, "v", r.Object("o").String("k"))
	assert.Nil(t, r.Object("missing"))
	assert.Nil(t, officebuddy.StageResult(nil).Clone())
}
