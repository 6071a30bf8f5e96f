package triage

import (
	"context"
	"fmt"

	"github.com/dmarkhas/resume-triage/internal/ai"
	"github.com/dmarkhas/resume-triage/internal/resume"
	"go.uber.org/zap"
)

// Filter represents a single triage step applied to candidates.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, c *resume.Candidates) (*resume.Candidates, Step, error)
}

// Deps aggregates dependencies shared across all triage steps.
type Deps struct {
	Logger  *zap.Logger
	Matcher ai.Matcher
	Job     *ai.Job
}

// Step describes the result of executing a triage step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the steps.
type Config struct {
	MinimumConfidence float64
	RequireContact    bool
	HistoryFile       string
	ExcludeFile       string
	AI                *AIConfig
}

// AIConfig stores AI-related configuration used by the ai_fit step.
type AIConfig struct {
	Enabled         bool
	Provider        string
	MinimumFitScore float64
	Gemini          *GeminiConfig
}

// GeminiConfig stores Gemini provider configuration.
type GeminiConfig struct {
	Model        string
	MaxRetries   int
	MaxLogLength int
}

// Status represents runtime information about a triage step.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by steps that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DisableByName marks a step with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied steps sequentially, returning the surviving
// candidates and any AI assessments collected along the way.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, c *resume.Candidates) (*resume.Candidates, map[string]*ai.FitAssessment, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	assessments := make(map[string]*ai.FitAssessment)
	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("triage step disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, c)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("triage step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		c = next

		if collector, ok := step.(interface {
			Assessments() map[string]*ai.FitAssessment
		}); ok {
			for id, assessment := range collector.Assessments() {
				assessments[id] = assessment
			}
		}
	}

	return c, assessments, nil
}

// Describe returns status entries for the provided steps.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
