package main

import (
	"fmt"

	"github.com/RadchaneepornC/officebuddy"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Asker.Ask(deps.Ctx, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", officebuddy.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer.Text)
	if answer.Source != "" {
		fmt.Fprintf(deps.Stdout, "\nSource: %s\n", answer.Source)
	}
	return nil
}
