// Package openai implements officebuddy services over OpenAI-compatible
// chat completion APIs via langchaingo.
package openai

import (
	"context"
	"errors"
	"strings"

	"github.com/RadchaneepornC/officebuddy"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o"

// Ensure Completer implements officebuddy.Completer at compile time.
var _ officebuddy.Completer = (*Completer)(nil)

// Completer implements officebuddy.Completer using an OpenAI-compatible API.
type Completer struct {
	llm   llms.Model
	model string
}

// Config holds connection settings for NewCompleter.
type Config struct {
	Token   string
	Model   string
	BaseURL string // optional, for OpenAI-compatible servers
}

// NewCompleter creates a Completer backed by langchaingo's OpenAI client.
// An empty model selects DefaultModel.
func NewCompleter(cfg Config) (*Completer, error) {
	if cfg.Token == "" {
		return nil, officebuddy.Errorf(officebuddy.ECONFIG, "openai: api key required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []openai.Option{
		openai.WithToken(cfg.Token),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, officebuddy.Errorf(officebuddy.ECONFIG, "openai: %v", err)
	}
	return &Completer{llm: llm, model: cfg.Model}, nil
}

// NewCompleterWithModel wraps an existing llms.Model.
func NewCompleterWithModel(llm llms.Model, model string) *Completer {
	return &Completer{llm: llm, model: model}
}

// Model returns the model name requests are sent to.
func (c *Completer) Model() string {
	return c.model
}

// Complete sends one prompt and returns the first choice's text.
func (c *Completer) Complete(ctx context.Context, req *officebuddy.CompletionRequest) (*officebuddy.Completion, error) {
	if req == nil || req.Prompt == "" {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "prompt required")
	}

	resp, err := c.llm.GenerateContent(ctx, Messages(req), CallOptions(req)...)
	if err != nil {
		return nil, classify(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, officebuddy.Errorf(officebuddy.EINTERNAL, "openai returned no choices")
	}

	choice := resp.Choices[0]
	return &officebuddy.Completion{
		Text:         choice.Content,
		InputTokens:  intInfo(choice.GenerationInfo, "PromptTokens"),
		OutputTokens: intInfo(choice.GenerationInfo, "CompletionTokens"),
	}, nil
}

// Messages converts a request into system and human chat messages.
// The system message is omitted when the request has none.
func Messages(req *officebuddy.CompletionRequest) []llms.MessageContent {
	var msgs []llms.MessageContent
	if req.System != "" {
		msgs = append(msgs, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.System)},
		})
	}
	return append(msgs, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(req.Prompt)},
	})
}

// CallOptions converts request settings into langchaingo call options.
func CallOptions(req *officebuddy.CompletionRequest) []llms.CallOption {
	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.JSONMode {
		opts = append(opts, llms.WithJSONMode())
	}
	return opts
}

func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// classify maps provider status errors to application codes.
// langchaingo reports HTTP failures as text, so the status is matched there.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests"):
		return officebuddy.Errorf(officebuddy.ERATELIMIT, "openai: %v", err)
	case strings.Contains(msg, "status code: 401") || strings.Contains(msg, "status code: 403") || strings.Contains(msg, "invalid_api_key"):
		return officebuddy.Errorf(officebuddy.ECONFIG, "openai: %v", err)
	case strings.Contains(msg, "status code: 400"):
		return officebuddy.Errorf(officebuddy.EINVALID, "openai: %v", err)
	}
	return err
}
