package extract_test

import (
	"context"
	"testing"

	"github.com/RadchaneepornC/officebuddy/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const somchaiCV = `Somchai Jaidee
somchai@example.com
081 234 5678
Education
B.Eng. Computer Engineering, Chulalongkorn University
Skills
Go, PostgreSQL`

func TestCVStages(t *testing.T) {
	t.Parallel()

	stages := extract.CVStages()

	require.Len(t, stages, 3)
	assert.Equal(t, []string{"name", "email", "phone"}, stages[0].Schema.Keys())
	assert.Equal(t, []string{"education", "experience", "skills", "projects", "certifications", "languages"}, stages[1].Schema.Keys())
	assert.Equal(t, []string{"candidate", "education", "experience", "skills", "projects", "certifications", "languages"}, stages[2].Schema.Keys())

	contact := stages[0].Schema.Placeholder()
	assert.Equal(t, "Error: Could not extract candidate name", contact.String("name"))

	profile := stages[2].Schema.Placeholder()
	assert.Equal(t, "Error: Could not format output", profile.Object("candidate").String("email"))
	assert.Equal(t, []string{"Error: Could not format output"}, profile.Strings("languages"))
}

func TestDefaultCVInstructions(t *testing.T) {
	t.Parallel()

	instructions := extract.DefaultCVInstructions()

	require.Len(t, instructions, len(extract.CVStages()))
	assert.Contains(t, instructions[0], "contact details")
}

func TestPipeline_Run_CV(t *testing.T) {
	t.Parallel()

	c := &recordingCompleter{responses: map[string]string{
		extract.StageContact:    `{"name": "Somchai Jaidee", "email": "somchai@example.com", "phone": "081 234 5678"}`,
		extract.StageCVSections: `{"education": ["B.Eng. Computer Engineering, Chulalongkorn University"], "experience": [], "skills": ["Go", "PostgreSQL"], "projects": [], "certifications": [], "languages": []}`,
		extract.StageProfile: "```json\n" + `{
			"candidate": {"name": "Somchai Jaidee", "email": "somchai@example.com", "phone": "081 234 5678"},
			"education": ["B.Eng. Computer Engineering, Chulalongkorn University"],
			"experience": [], "skills": ["Go", "PostgreSQL"], "projects": [], "certifications": []
		}` + "\n```",
	}}
	p := extract.NewPipeline(c.completer(), extract.WithStages(extract.CVStages()...))

	state, err := p.Run(context.Background(), somchaiCV, extract.DefaultCVInstructions())

	require.NoError(t, err)
	assert.Equal(t, []string{extract.StageContact, extract.StageCVSections, extract.StageProfile}, state.Names())
	assert.False(t, state.Get(extract.StageContact).Recovered())
	assert.Contains(t, c.prompt(extract.StageCVSections), "CV:\n"+somchaiCV)
	assert.Contains(t, c.prompt(extract.StageProfile), `"contact_info"`)

	// The profile omitted languages, so that field is filled with the sentinel.
	profile := state.Final()
	assert.True(t, state.Get(extract.StageProfile).Recovered())
	assert.Equal(t, "Somchai Jaidee", profile.Object("candidate").String("name"))
	assert.Equal(t, []string{"Go", "PostgreSQL"}, profile.Strings("skills"))
	assert.Equal(t, []string{"Error: Could not format output"}, profile.Strings("languages"))
}
