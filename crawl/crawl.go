// Package crawl walks a sidebar-driven knowledge-base site and harvests one
// question/answer record per linked page.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/RadchaneepornC/officebuddy"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout is the per-request timeout used when Crawler.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// ErrorMarker prefixes the context of a placeholder record.
const ErrorMarker = "[ERROR] Could not crawl "

// Crawler discovers pages from a seed page's sidebar and extracts a record
// from each. Pages are fetched one at a time unless Concurrency is above 1;
// records are always returned in discovery order.
type Crawler struct {
	Fetcher     officebuddy.Fetcher
	Links       officebuddy.LinkSelector
	Records     officebuddy.RecordExtractor
	RateLimiter officebuddy.DomainLimiter
	Timeout     time.Duration
	Concurrency int
	Progress    ProgressFunc
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Bytes     int
	Error     error

	// DuplicateOf names an earlier page whose context is identical.
	DuplicateOf string
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	position int
	url      string
	record   *officebuddy.QARecord
	bytes    int
	err      error
}

// Crawl fetches seedURL, discovers the pages linked from its sidebar and
// returns one record per page. Failing to fetch the seed or to find its
// sidebar is fatal. A page that cannot be fetched or parsed yields a
// placeholder record whose context names the URL.
func (c *Crawler) Crawl(ctx context.Context, seedURL string) ([]officebuddy.QARecord, error) {
	u, err := url.Parse(seedURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "invalid seed URL %q", seedURL)
	}

	html, err := c.fetch(ctx, seedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch seed %s: %w", seedURL, err)
	}

	urls, err := c.Links.SelectLinks(html, seedURL)
	if err != nil {
		return nil, err
	}

	total := len(urls)
	c.report(ProgressEvent{Type: ProgressStarted, Total: total})

	results := make(chan pageResult)
	var runErr error
	go func() {
		defer close(results)
		runErr = c.run(ctx, urls, results)
	}()

	records := make([]officebuddy.QARecord, total)
	seen := newContentIndex()
	completed := 0
	for r := range results {
		completed++
		event := ProgressEvent{
			Completed: completed,
			Total:     total,
			URL:       r.url,
			Bytes:     r.bytes,
		}
		if r.err != nil {
			records[r.position] = Placeholder(r.url)
			event.Type = ProgressFailed
			event.Error = r.err
		} else {
			records[r.position] = *r.record
			event.Type = ProgressCompleted
			event.DuplicateOf = seen.add(r.record.Context, r.url)
		}
		c.report(event)
	}
	if runErr != nil {
		return nil, runErr
	}

	c.report(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return records, nil
}

// Placeholder returns the record substituted for a page that failed.
func Placeholder(url string) officebuddy.QARecord {
	return officebuddy.QARecord{Context: ErrorMarker + url}
}

// run processes urls and sends each result. Sequential unless Concurrency
// is above 1. Returns the context error if the crawl was canceled.
func (c *Crawler) run(ctx context.Context, urls []string, results chan<- pageResult) error {
	if c.Concurrency <= 1 {
		for i, u := range urls {
			if err := ctx.Err(); err != nil {
				return err
			}
			results <- c.processPage(ctx, i, u)
		}
		return ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Concurrency)
	for i, u := range urls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results <- c.processPage(gctx, i, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// processPage fetches and extracts a single page.
func (c *Crawler) processPage(ctx context.Context, position int, url string) pageResult {
	result := pageResult{position: position, url: url}

	html, err := c.fetch(ctx, url)
	if err != nil {
		result.err = err
		return result
	}
	result.bytes = len(html)

	rec, err := c.Records.Extract(html)
	if err != nil {
		result.err = err
		return result
	}
	if err := rec.Validate(); err != nil {
		result.err = err
		return result
	}
	result.record = rec
	return result
}

// fetch waits for the rate limiter, then fetches url under the per-request
// timeout.
func (c *Crawler) fetch(ctx context.Context, rawURL string) (string, error) {
	if c.RateLimiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", err
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return c.Fetcher.Fetch(ctx, rawURL)
}

func (c *Crawler) report(event ProgressEvent) {
	if c.Progress != nil {
		c.Progress(event)
	}
}
