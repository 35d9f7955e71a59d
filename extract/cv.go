package extract

import (
	_ "embed"

	"github.com/RadchaneepornC/officebuddy"
)

// Names of the CV stages.
const (
	StageContact    = "contact_info"
	StageCVSections = "cv_sections"
	StageProfile    = "candidate_profile"
)

//go:embed cv_instructions.yaml
var defaultCVInstructions []byte

// DefaultCVInstructions returns the built-in CV instructions, one per stage
// of CVStages.
func DefaultCVInstructions() []string {
	return mustInstructions("cv", defaultCVInstructions)
}

// cvSections are the list fields shared by the sections and profile schemas.
var cvSections = []string{"education", "experience", "skills", "projects", "certifications", "languages"}

func cvSectionFields() []officebuddy.Field {
	fields := make([]officebuddy.Field, len(cvSections))
	for i, name := range cvSections {
		fields[i] = officebuddy.ListField(name, "")
	}
	return fields
}

// CVStages returns the three CV stages: contact details and sections read
// from the raw document, then the combined candidate profile.
func CVStages() []Stage {
	profile := officebuddy.NewSchema(StageProfile, append([]officebuddy.Field{
		officebuddy.ObjectField("candidate",
			officebuddy.StringField("name", "candidate name"),
			officebuddy.StringField("email", ""),
			officebuddy.StringField("phone", "phone number"),
		),
	}, cvSectionFields()...)...)
	profile.Sentinel = "Error: Could not format output"

	return []Stage{
		{
			Name:       StageContact,
			System:     "You are a helpful assistant that extracts contact details from CVs and returns them as JSON. " + jsonOnly,
			InputLabel: "CV",
			Task: `Extract the candidate's:
- Name
- Email address
- Phone number`,
			Schema: officebuddy.NewSchema(StageContact,
				officebuddy.StringField("name", "candidate name"),
				officebuddy.StringField("email", ""),
				officebuddy.StringField("phone", "phone number"),
			),
			Input: RawText(),
		},
		{
			Name:       StageCVSections,
			System:     "You are a helpful assistant that splits CVs into sections and returns them as JSON. " + jsonOnly,
			InputLabel: "CV",
			Task: `Extract the entries of each section:
- Education
- Work experience
- Skills
- Projects
- Certifications
- Languages`,
			Schema: officebuddy.NewSchema(StageCVSections, cvSectionFields()...),
			Input:  RawText(),
		},
		{
			Name:       StageProfile,
			System:     "You are a helpful assistant that formats structured candidate information and returns it as JSON. " + jsonOnly,
			InputLabel: "Previously extracted information",
			Task:       "Combine this information into a single candidate profile following the schema below.",
			Schema:     profile,
			Input:      AllResults(),
		},
	}
}
