// Package extract runs multi-stage structured extraction over a Completer
// and answers questions from a knowledge base.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/RadchaneepornC/officebuddy"
	"github.com/google/uuid"
)

// Default completion settings for pipeline stages.
const (
	DefaultTemperature = 0.0
	DefaultMaxTokens   = 1500
)

// Pipeline applies an ordered list of stages to a document. Each stage
// prompts the Completer and normalizes the response into its schema.
type Pipeline struct {
	Completer   officebuddy.Completer
	Stages      []Stage
	Logger      *slog.Logger
	Temperature float64
	MaxTokens   int

	// NewRunID generates the ID attached to each run's state and logs.
	NewRunID func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStages replaces the default job-description stages.
func WithStages(stages ...Stage) Option {
	return func(p *Pipeline) {
		p.Stages = stages
	}
}

// WithLogger sets the logger used for stage progress.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.Logger = logger
	}
}

// WithMaxTokens sets the output token limit for every stage.
func WithMaxTokens(n int) Option {
	return func(p *Pipeline) {
		p.MaxTokens = n
	}
}

// WithRunID sets the run ID generator.
func WithRunID(fn func() string) Option {
	return func(p *Pipeline) {
		p.NewRunID = fn
	}
}

// NewPipeline returns a pipeline running JobDescriptionStages.
func NewPipeline(c officebuddy.Completer, opts ...Option) *Pipeline {
	p := &Pipeline{
		Completer:   c,
		Stages:      JobDescriptionStages(),
		Logger:      slog.New(slog.DiscardHandler),
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		NewRunID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one stage per instruction, in order. Instruction i is handed
// to stage i, so fewer instructions than stages runs a prefix of the
// pipeline.
//
// A response that cannot be normalized never fails the run: the stage
// records its schema placeholder and later stages still run. A Completer
// error or context cancellation aborts the run and is returned together
// with the state accumulated so far.
func (p *Pipeline) Run(ctx context.Context, text string, instructions []string) (*officebuddy.PipelineState, error) {
	if strings.TrimSpace(text) == "" {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "input text required")
	}
	if len(instructions) == 0 {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "at least one instruction required")
	}
	if len(instructions) > len(p.Stages) {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "%d instructions given but pipeline has %d stages", len(instructions), len(p.Stages))
	}

	newID := p.NewRunID
	if newID == nil {
		newID = uuid.NewString
	}
	state := officebuddy.NewPipelineState(newID())

	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("run_id", state.RunID)

	for i, instruction := range instructions {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		stage := p.Stages[i]
		logger.Info("stage started", "stage", stage.Name, "step", i+1, "of", len(instructions))

		outcome, err := p.runStage(ctx, logger, stage, instruction, text, state)
		if err != nil {
			return state, fmt.Errorf("stage %s: %w", stage.Name, err)
		}
		if outcome.Recovered() {
			logger.Warn("stage recovered with placeholders", "stage", stage.Name)
		}
		state.Add(outcome)
	}

	return state, nil
}

func (p *Pipeline) runStage(ctx context.Context, logger *slog.Logger, stage Stage, instruction, text string, state *officebuddy.PipelineState) (*officebuddy.StageOutcome, error) {
	input, err := stage.Input(text, state)
	if err != nil {
		return nil, fmt.Errorf("render input: %w", err)
	}
	prompt, err := stage.Prompt(instruction, input)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	completion, err := p.Completer.Complete(ctx, &officebuddy.CompletionRequest{
		Label:       stage.Name,
		System:      stage.System,
		Prompt:      prompt,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	outcome := &officebuddy.StageOutcome{
		Name:   stage.Name,
		Status: officebuddy.StatusOK,
		Raw:    completion.Text,
	}

	obj, strategy, ok := officebuddy.NormalizeStrategies(officebuddy.DefaultStrategies, completion.Text)
	if !ok {
		logger.Debug("response not parseable", "stage", stage.Name)
		outcome.Status = officebuddy.StatusRecovered
		outcome.Result = stage.Schema.Placeholder()
		return outcome, nil
	}
	logger.Debug("response parsed", "stage", stage.Name, "strategy", strategy)

	result, conforms := stage.Schema.Conform(obj)
	if !conforms {
		outcome.Status = officebuddy.StatusRecovered
	}
	outcome.Result = result
	return outcome, nil
}
