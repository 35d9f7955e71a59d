package main

import (
	"fmt"
	"strings"

	"github.com/RadchaneepornC/officebuddy"
	"github.com/RadchaneepornC/officebuddy/crawl"
	"github.com/RadchaneepornC/officebuddy/fs"
)

// urlDisplayWidth bounds URLs printed in progress lines.
const urlDisplayWidth = 60

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	deps.Crawler.Progress = func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d pages\n", event.Total)
		case crawl.ProgressCompleted:
			if event.DuplicateOf != "" {
				fmt.Fprintf(deps.Stderr, "  duplicate %s (same content as %s)\n",
					crawl.TruncateURL(event.URL, urlDisplayWidth), event.DuplicateOf)
			}
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, urlDisplayWidth), event.Error)
		case crawl.ProgressFinished:
			// Summary printed after crawl completes
		}
	}

	records, err := deps.Crawler.Crawl(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %s\n", officebuddy.ErrorMessage(err))
		if officebuddy.ErrorCode(err) == officebuddy.ELAYOUT {
			fmt.Fprintln(deps.Stderr, "Hint: the seed page needs a sidebar list of at least 10 links")
		}
		return err
	}

	var failed, size int
	for _, r := range records {
		if strings.HasPrefix(r.Context, crawl.ErrorMarker) {
			failed++
			continue
		}
		size += len(r.Context)
	}

	summary := fmt.Sprintf("  Crawled %d pages (%d failed, %s", len(records), failed, crawl.FormatBytes(size))
	if deps.TokenCounter != nil {
		tokens, err := countRecordTokens(deps, records)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "warning: could not count tokens: %v\n", err)
		} else {
			summary += ", " + crawl.FormatTokens(tokens)
		}
	}
	fmt.Fprintln(deps.Stdout, summary+")")

	if c.Output != "" {
		doc := struct {
			Records []officebuddy.QARecord `json:"records"`
		}{Records: records}
		if err := fs.WriteJSON(c.Output, doc); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: could not save records to %s: %v\n", c.Output, err)
		} else {
			fmt.Fprintf(deps.Stdout, "  Saved to %s\n", c.Output)
		}
	}
	return nil
}

func countRecordTokens(deps *Dependencies, records []officebuddy.QARecord) (int, error) {
	var total int
	for _, r := range records {
		if strings.HasPrefix(r.Context, crawl.ErrorMarker) {
			continue
		}
		n, err := deps.TokenCounter.CountTokens(deps.Ctx, r.Context)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
