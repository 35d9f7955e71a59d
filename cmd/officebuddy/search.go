package main

import (
	"fmt"

	"github.com/RadchaneepornC/officebuddy"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	entries, err := deps.KnowledgeBase.Search(deps.Ctx, c.Question, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", officebuddy.ErrorMessage(err))
		return err
	}

	for i, e := range entries {
		fmt.Fprintf(deps.Stdout, "%d. Q: %s\n   A: %s\n", i+1, e.Question, e.Answer)
	}
	return nil
}
