package officebuddy

import "context"

// CompletionRequest describes a single call to a language model.
type CompletionRequest struct {
	// Label identifies the caller (e.g. the pipeline stage) in logs.
	Label string

	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int

	// JSONMode asks the provider to constrain output to a JSON object
	// when it supports doing so.
	JSONMode bool
}

// Completion is the raw text returned by a language model plus usage counts.
// Providers that do not report usage leave the counts at zero.
type Completion struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Completer sends prompts to a language model.
type Completer interface {
	// Complete performs one model call. The result is not guaranteed to be
	// well-formed even when JSONMode is requested.
	// Returns ERATELIMIT when the provider rejects the call for rate limiting.
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)
}

// TokenCounter estimates how many model tokens a text occupies.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
