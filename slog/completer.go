package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/RadchaneepornC/officebuddy"
)

// PreviewLength is the number of response characters logged at Debug level.
const PreviewLength = 200

// Ensure LoggingCompleter implements officebuddy.Completer.
var _ officebuddy.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer and logs every model call.
type LoggingCompleter struct {
	next   officebuddy.Completer
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next officebuddy.Completer, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete delegates to the wrapped completer and logs usage and duration.
// The start of the raw response is logged at Debug level.
func (c *LoggingCompleter) Complete(ctx context.Context, req *officebuddy.CompletionRequest) (*officebuddy.Completion, error) {
	begin := time.Now()
	completion, err := c.next.Complete(ctx, req)

	var label string
	if req != nil {
		label = req.Label
	}
	attrs := []any{}
	if label != "" {
		attrs = append(attrs, "stage", label)
	}
	if completion != nil {
		attrs = append(attrs,
			"bytes", len(completion.Text),
			"input_tokens", completion.InputTokens,
			"output_tokens", completion.OutputTokens,
		)
	}
	attrs = append(attrs, "duration", time.Since(begin))

	if err != nil {
		c.logger.Warn("completion", append(attrs, "err", err)...)
		return completion, err
	}
	c.logger.Info("completion", attrs...)
	if completion != nil {
		c.logger.Debug("completion response", "stage", label, "preview", preview(completion.Text))
	}
	return completion, nil
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= PreviewLength {
		return s
	}
	return string(r[:PreviewLength]) + "..."
}
