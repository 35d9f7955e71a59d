package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/RadchaneepornC/officebuddy"
	"github.com/RadchaneepornC/officebuddy/crawl"
	"github.com/RadchaneepornC/officebuddy/extract"
	"github.com/RadchaneepornC/officebuddy/fs"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	text, err := c.input(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", officebuddy.ErrorMessage(err))
		return err
	}

	instructions, err := c.instructions()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", officebuddy.ErrorMessage(err))
		return err
	}

	if deps.TokenCounter != nil {
		n, err := deps.TokenCounter.CountTokens(deps.Ctx, text)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "warning: could not count tokens: %v\n", err)
		} else {
			fmt.Fprintf(deps.Stderr, "Input: %s\n", crawl.FormatTokens(n))
		}
	}

	state, err := deps.Pipeline.Run(deps.Ctx, text, instructions)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", officebuddy.ErrorMessage(err))
		if state != nil && state.Len() > 0 {
			fmt.Fprintf(deps.Stderr, "completed stages: %s\n", strings.Join(state.Names(), ", "))
		}
		return err
	}

	for _, name := range state.Names() {
		if state.Get(name).Recovered() {
			fmt.Fprintf(deps.Stderr, "warning: stage %s could not be fully parsed; placeholders used\n", name)
		}
	}

	var result any = state.Final()
	if c.All {
		result = state
	}

	if err := fs.EncodeJSON(deps.Stdout, result); err != nil {
		return err
	}

	if out := c.outputPath(); out != "" {
		if err := fs.WriteJSON(out, result); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: could not save results to %s: %v\n", out, err)
		} else {
			fmt.Fprintf(deps.Stderr, "Results saved to %s\n", out)
		}
	}
	return nil
}

// outputPath returns the result file. The job default is swapped for the
// CV default when extracting a CV.
func (c *ExtractCmd) outputPath() string {
	if c.Kind == kindCV && c.Output == DefaultJobOutput {
		return DefaultCVOutput
	}
	return c.Output
}

// input returns the document text from --file or the positional argument.
func (c *ExtractCmd) input(deps *Dependencies) (string, error) {
	switch {
	case c.File != "" && c.Text != "":
		return "", officebuddy.Errorf(officebuddy.EINVALID, "give either TEXT or --file, not both")
	case c.File != "":
		doc, err := deps.Loader.Load(deps.Ctx, c.File)
		if err != nil {
			return "", err
		}
		return doc.Text, nil
	case strings.TrimSpace(c.Text) != "":
		return c.Text, nil
	}
	return "", officebuddy.Errorf(officebuddy.EINVALID, "no input: give TEXT or --file")
}

// kindCV selects the CV stages; any other --kind runs the job stages.
const kindCV = "cv"

// stages returns the built-in stages for --kind.
func (c *ExtractCmd) stages() []extract.Stage {
	if c.Kind == kindCV {
		return extract.CVStages()
	}
	return extract.JobDescriptionStages()
}

// instructions returns the instruction list, truncated to --steps.
func (c *ExtractCmd) instructions() ([]string, error) {
	instructions := extract.DefaultInstructions()
	if c.Kind == kindCV {
		instructions = extract.DefaultCVInstructions()
	}
	if c.Instructions != "" {
		data, err := os.ReadFile(c.Instructions)
		if err != nil {
			return nil, officebuddy.Errorf(officebuddy.EINVALID, "read instructions: %v", err)
		}
		if instructions, err = extract.ParseInstructions(data); err != nil {
			return nil, err
		}
	}
	if c.Steps < 0 {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "steps must not be negative")
	}
	if c.Steps > 0 && c.Steps < len(instructions) {
		instructions = instructions[:c.Steps]
	}
	return instructions, nil
}
