// Package slog provides log/slog decorators for officebuddy services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/RadchaneepornC/officebuddy"
)

// Ensure LoggingFetcher implements officebuddy.Fetcher.
var _ officebuddy.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher and logs every fetch.
type LoggingFetcher struct {
	next   officebuddy.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next officebuddy.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs url, size and duration.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	html, err := f.next.Fetch(ctx, url)
	attrs := []any{
		"url", url,
		"bytes", len(html),
		"duration", time.Since(begin),
	}
	if err != nil {
		f.logger.Warn("fetch", append(attrs, "err", err)...)
		return html, err
	}
	f.logger.Info("fetch", attrs...)
	return html, nil
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
