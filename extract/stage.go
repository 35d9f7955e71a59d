package extract

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/RadchaneepornC/officebuddy"
)

// Names of the job-description stages.
const (
	StageSections     = "sections"
	StageRequirements = "requirements"
	StageSkills       = "skills"
	StageFormat       = "formatted_output"
)

// InputFunc selects the text a stage embeds in its prompt, given the raw
// document and the results of the stages that already ran.
type InputFunc func(text string, prior *officebuddy.PipelineState) (string, error)

// Stage is one step of an extraction pipeline.
type Stage struct {
	Name string

	// System is the system prompt sent with every request for this stage.
	System string

	// InputLabel introduces the input block in the prompt.
	InputLabel string

	// Task describes what to extract. Rendered between the input block and
	// the schema skeleton.
	Task string

	Schema officebuddy.Schema
	Input  InputFunc
}

var promptTmpl = template.Must(template.New("prompt").Parse(`{{.Instruction}}

{{.InputLabel}}:
{{.Input}}

{{.Task}}

IMPORTANT: Your entire response must be a valid JSON object with the following structure and nothing else:
{{.Skeleton}}

Do not include any explanation, notes, or anything other than the JSON object itself.
`))

// Prompt renders the user prompt for this stage.
func (s Stage) Prompt(instruction, input string) (string, error) {
	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, struct {
		Instruction string
		InputLabel  string
		Input       string
		Task        string
		Skeleton    string
	}{
		Instruction: strings.TrimSpace(instruction),
		InputLabel:  s.InputLabel,
		Input:       input,
		Task:        strings.TrimSpace(s.Task),
		Skeleton:    s.Schema.Skeleton(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RawText passes the raw document through unchanged.
func RawText() InputFunc {
	return func(text string, _ *officebuddy.PipelineState) (string, error) {
		return text, nil
	}
}

// PriorResult embeds an earlier stage's result as indented JSON. A stage
// that has not run is rendered as an empty object.
func PriorResult(name string) InputFunc {
	return func(_ string, prior *officebuddy.PipelineState) (string, error) {
		result := prior.Result(name)
		if result == nil {
			result = officebuddy.StageResult{}
		}
		return indentJSON(result)
	}
}

// AllResults embeds every earlier result keyed by stage name, in execution
// order, as indented JSON.
func AllResults() InputFunc {
	return func(_ string, prior *officebuddy.PipelineState) (string, error) {
		return indentJSON(prior)
	}
}

func indentJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

const jsonOnly = "You only output valid JSON with no additional text."

// JobDescriptionStages returns the four job-description stages: sections,
// requirements, skills and the final formatted document.
func JobDescriptionStages() []Stage {
	return []Stage{
		{
			Name:       StageSections,
			System:     "You are a helpful assistant that extracts structured information from job descriptions and returns it as JSON. " + jsonOnly,
			InputLabel: "Job Description",
			Task: `Extract the following sections:
- Job Title
- Company Name
- Location
- Job Description Summary
- Key Responsibilities`,
			Schema: officebuddy.NewSchema(StageSections,
				officebuddy.StringField("job_title", ""),
				officebuddy.StringField("company", "company name"),
				officebuddy.StringField("location", ""),
				officebuddy.StringField("summary", ""),
				officebuddy.ListField("responsibilities", ""),
			),
			Input: RawText(),
		},
		{
			Name:       StageRequirements,
			System:     "You are a helpful assistant that extracts and categorizes job requirements and returns it as JSON. " + jsonOnly,
			InputLabel: "Previously extracted job sections",
			Task: `Extract and categorize the requirements and qualifications into:
- Required qualifications (education, experience, certifications, etc.)
- Preferred qualifications (nice-to-have)`,
			Schema: officebuddy.NewSchema(StageRequirements,
				officebuddy.ListField("required_qualifications", ""),
				officebuddy.ListField("preferred_qualifications", ""),
			),
			Input: PriorResult(StageSections),
		},
		{
			Name:       StageSkills,
			System:     "You are a helpful assistant that extracts and categorizes job skills and returns it as JSON. " + jsonOnly,
			InputLabel: "Previously extracted job sections",
			Task: `Extract and categorize all skills mentioned in the job description into:
- Technical skills (programming languages, methodologies, etc.)
- Soft skills (communication, teamwork, etc.)
- Technologies (specific tools, platforms, frameworks, etc.)`,
			Schema: officebuddy.NewSchema(StageSkills,
				officebuddy.ListField("technical_skills", ""),
				officebuddy.ListField("soft_skills", ""),
				officebuddy.ListField("technologies", ""),
			),
			Input: PriorResult(StageSections),
		},
		{
			Name:       StageFormat,
			System:     "You are a helpful assistant that formats structured job information and returns it as JSON. " + jsonOnly,
			InputLabel: "Previously extracted information",
			Task:       "Format this information into a clean, organized structure following the schema below.",
			Schema:     formatSchema(),
			Input:      AllResults(),
		},
	}
}

func formatSchema() officebuddy.Schema {
	s := officebuddy.NewSchema(StageFormat,
		officebuddy.ObjectField("position_details",
			officebuddy.StringField("title", "job title"),
			officebuddy.StringField("company", "company name"),
			officebuddy.StringField("location", ""),
		),
		officebuddy.StringField("job_overview", "job summary"),
		officebuddy.ListField("responsibilities", "responsibility"),
		officebuddy.ObjectField("qualifications",
			officebuddy.ListField("required", "required qualification"),
			officebuddy.ListField("preferred", "preferred qualification"),
		),
		officebuddy.ObjectField("skills_required",
			officebuddy.ListField("technical", "technical skill"),
			officebuddy.ListField("soft", "soft skill"),
			officebuddy.ListField("technologies", "technology"),
		),
	)
	s.Sentinel = "Error: Could not format output"
	return s
}
