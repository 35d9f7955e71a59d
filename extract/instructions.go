package extract

import (
	_ "embed"
	"strings"

	"github.com/RadchaneepornC/officebuddy"
	"go.yaml.in/yaml/v3"
)

//go:embed instructions.yaml
var defaultInstructions []byte

// instructionFile is the YAML layout of an instruction file.
type instructionFile struct {
	Instructions []string `yaml:"instructions"`
}

// DefaultInstructions returns the built-in job-description instructions,
// one per stage of JobDescriptionStages.
func DefaultInstructions() []string {
	return mustInstructions("job", defaultInstructions)
}

func mustInstructions(name string, data []byte) []string {
	instructions, err := ParseInstructions(data)
	if err != nil {
		panic("extract: embedded " + name + " instructions: " + err.Error())
	}
	return instructions
}

// ParseInstructions decodes a YAML document with an "instructions" list.
// Blank entries are rejected since every stage needs guidance.
func ParseInstructions(data []byte) ([]string, error) {
	var f instructionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "decode instructions: %v", err)
	}
	if len(f.Instructions) == 0 {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "no instructions found")
	}
	out := make([]string, len(f.Instructions))
	for i, s := range f.Instructions {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, officebuddy.Errorf(officebuddy.EINVALID, "instruction %d is empty", i+1)
		}
		out[i] = s
	}
	return out, nil
}
