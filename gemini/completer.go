// Package gemini implements officebuddy services over Google Gemini.
package gemini

import (
	"context"
	"errors"
	"net/http"

	"github.com/RadchaneepornC/officebuddy"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Completer implements officebuddy.Completer at compile time.
var _ officebuddy.Completer = (*Completer)(nil)

// Completer implements officebuddy.Completer using Google Gemini.
type Completer struct {
	client *genai.Client
	model  string
}

// NewCompleter creates a new Completer. An empty model selects DefaultModel.
func NewCompleter(client *genai.Client, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model}
}

// Model returns the model name requests are sent to.
func (c *Completer) Model() string {
	return c.model
}

// Complete sends one prompt and returns the model's text.
// Quota and rate-limit responses are returned as ERATELIMIT.
func (c *Completer) Complete(ctx context.Context, req *officebuddy.CompletionRequest) (*officebuddy.Completion, error) {
	if req == nil || req.Prompt == "" {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "prompt required")
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)},
		BuildConfig(req),
	)
	if err != nil {
		return nil, classify(err)
	}
	if result == nil {
		return nil, officebuddy.Errorf(officebuddy.EINTERNAL, "gemini returned nil result")
	}

	completion := &officebuddy.Completion{Text: result.Text()}
	if u := result.UsageMetadata; u != nil {
		completion.InputTokens = int(u.PromptTokenCount)
		completion.OutputTokens = int(u.CandidatesTokenCount)
	}
	return completion, nil
}

// BuildConfig returns the GenerateContentConfig for a completion request.
func BuildConfig(req *officebuddy.CompletionRequest) *genai.GenerateContentConfig {
	temp := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
	}
	return config
}

// classify maps quota errors to ERATELIMIT and leaves others unchanged.
func classify(err error) error {
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		apiErr = *apiErrPtr
	default:
		return err
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
		return officebuddy.Errorf(officebuddy.ERATELIMIT, "gemini: %s", apiErr.Message)
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
		return officebuddy.Errorf(officebuddy.ECONFIG, "gemini: %s", apiErr.Message)
	case apiErr.Code == http.StatusBadRequest:
		return officebuddy.Errorf(officebuddy.EINVALID, "gemini: %s", apiErr.Message)
	}
	return err
}
