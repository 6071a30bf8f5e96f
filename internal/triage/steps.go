package triage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmarkhas/resume-triage/internal/ai"
	"github.com/dmarkhas/resume-triage/internal/resume"
)

const (
	rescoreFlagSetMsg = "rescore flag is set"

	// label the classifier assigns to candidates that should be dropped
	rejectLabel = "reject"
)

type contactFilter struct {
	disabled bool
	reason   string
}

// NewContact creates a step that removes candidates with no extractable
// contact information.
func NewContact() Filter {
	return &contactFilter{}
}

func (f *contactFilter) Name() string { return "contact" }

func (f *contactFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *contactFilter) IsEnabled() bool { return !f.disabled }

func (f *contactFilter) Validate(*Config) error { return nil }

func (f *contactFilter) Apply(_ context.Context, deps Deps, c *resume.Candidates) (*resume.Candidates, Step, error) {
	initial := c.Len()
	excluded := c.ExcludeWithoutContact()
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding candidates without contact information",
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *contactFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type historyFilter struct {
	ignore bool
	path   string
}

// NewHistory creates a step that removes candidates already scored in
// previous runs.
func NewHistory(cmd *cobra.Command) Filter {
	ignore := false
	if cmd != nil {
		flag := cmd.Flag("rescore")
		if flag != nil && strings.EqualFold(flag.Value.String(), "true") {
			ignore = true
		}
	}
	return &historyFilter{ignore: ignore}
}

func (f *historyFilter) Name() string { return "history" }

func (f *historyFilter) Disable(string) {}

func (f *historyFilter) IsEnabled() bool { return true }

func (f *historyFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.HistoryFile)
	}
	return nil
}

func (f *historyFilter) Apply(_ context.Context, deps Deps, c *resume.Candidates) (*resume.Candidates, Step, error) {
	initial := c.Len()
	if f.ignore {
		if deps.Logger != nil {
			deps.Logger.Info("keeping already scored candidates", zap.String("reason", rescoreFlagSetMsg))
		}
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	if f.path == "" {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	history, err := resume.GetHistoryFromFile(f.path)
	if err != nil {
		return c, Step{}, fmt.Errorf("getting history from file: %w", err)
	}

	excluded := c.Exclude(resume.CandidateIDField, history.IDs())
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding candidates scored in previous runs",
			zap.String("path", f.path),
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *historyFilter) Status() Status {
	details := map[string]string{
		"exclude_scored": strconv.FormatBool(!f.ignore),
	}
	if f.path != "" {
		details["path"] = f.path
	}
	reason := ""
	if f.ignore {
		reason = "rescore requested via flag"
	}
	return Status{Name: f.Name(), Enabled: true, Reason: reason, Details: details}
}

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a step that removes candidates contained in the
// exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, c *resume.Candidates) (*resume.Candidates, Step, error) {
	initial := c.Len()
	if f.path == "" {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	excluded, err := resume.GetExcludedCandidatesFromFile(f.path)
	if err != nil {
		return c, Step{}, fmt.Errorf("getting excluded candidates from file: %w", err)
	}

	removed := c.Exclude(resume.CandidateIDField, excluded.IDs())
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding candidates based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_candidates", removed),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(removed), Left: c.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type minConfidenceFilter struct {
	minimum float64
}

// NewMinConfidence creates a step that removes rejected candidates and, when a
// threshold is configured, low-confidence ones.
func NewMinConfidence() Filter {
	return &minConfidenceFilter{}
}

func (f *minConfidenceFilter) Name() string { return "min_confidence" }

func (f *minConfidenceFilter) Disable(string) {}

func (f *minConfidenceFilter) IsEnabled() bool { return true }

func (f *minConfidenceFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		if cfg.MinimumConfidence < 0 || cfg.MinimumConfidence > 1 {
			return fmt.Errorf("minimum confidence must be within [0, 1], got %v", cfg.MinimumConfidence)
		}
		f.minimum = cfg.MinimumConfidence
	}
	return nil
}

func (f *minConfidenceFilter) Apply(_ context.Context, deps Deps, c *resume.Candidates) (*resume.Candidates, Step, error) {
	initial := c.Len()

	var excluded []string
	kept := make([]*resume.Candidate, 0, initial)
	for _, candidate := range c.Items {
		if candidate.Score == nil {
			kept = append(kept, candidate)
			continue
		}
		if candidate.Score.Label == rejectLabel {
			excluded = append(excluded, candidate.ID)
			continue
		}
		if f.minimum > 0 && candidate.Score.Confidence < f.minimum {
			excluded = append(excluded, candidate.ID)
			continue
		}
		kept = append(kept, candidate)
	}
	c.Items = kept

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding rejected or low-confidence candidates",
			zap.Float64("minimum_confidence", f.minimum),
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *minConfidenceFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{
			"minimum_confidence": fmt.Sprintf("%.2f", f.minimum),
		},
	}
}

type aiFitFilter struct {
	disabled    bool
	reason      string
	config      *AIConfig
	excludeFile string
	assessments map[string]*ai.FitAssessment
}

// NewAIFit creates the AI-based triage step.
func NewAIFit() Filter {
	return &aiFitFilter{}
}

func (f *aiFitFilter) Name() string { return "ai_fit" }

func (f *aiFitFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *aiFitFilter) IsEnabled() bool { return !f.disabled }

func (f *aiFitFilter) Validate(cfg *Config) error {
	f.config = nil
	f.excludeFile = ""
	if cfg != nil {
		f.config = cfg.AI
		f.excludeFile = strings.TrimSpace(cfg.ExcludeFile)
	}
	if !f.IsEnabled() {
		return nil
	}
	if cfg == nil || cfg.AI == nil {
		return fmt.Errorf("ai configuration is required when ai filter is enabled")
	}
	if cfg.AI.Gemini == nil {
		return fmt.Errorf("gemini configuration is required when ai filter is enabled")
	}
	if strings.TrimSpace(cfg.AI.Gemini.Model) == "" {
		return fmt.Errorf("gemini model is required when ai filter is enabled")
	}
	return nil
}

func (f *aiFitFilter) Apply(ctx context.Context, deps Deps, c *resume.Candidates) (*resume.Candidates, Step, error) {
	initial := c.Len()
	if deps.Matcher == nil {
		if deps.Logger != nil {
			deps.Logger.Info("ai matcher is not configured; skipping ai_fit step")
		}
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}
	if deps.Job == nil {
		return c, Step{}, fmt.Errorf("job description is required for AI evaluation")
	}

	assessments := f.evaluateWithMatcher(ctx, deps, c)

	f.assessments = make(map[string]*ai.FitAssessment, len(assessments))
	for id, assessment := range assessments {
		f.assessments[id] = assessment
	}

	left := c.Len()
	return c, Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

func (f *aiFitFilter) evaluateWithMatcher(ctx context.Context, deps Deps, candidates *resume.Candidates) map[string]*ai.FitAssessment {
	initial := candidates.Len()
	approved := make([]*resume.Candidate, 0, initial)
	assessments := make(map[string]*ai.FitAssessment)

	for _, candidate := range candidates.Items {
		assessment, err := deps.Matcher.Evaluate(ctx, deps.Job, candidate)
		if err != nil {
			if deps.Logger != nil {
				deps.Logger.Warn("AI evaluation failed",
					zap.String("candidate_id", candidate.ID),
					zap.Error(err),
				)
			}
			candidate.AI = &resume.AIAssessment{Error: err.Error()}
			approved = append(approved, candidate)
			continue
		}

		candidate.AI = &resume.AIAssessment{
			Fit:    assessment.Fit,
			Score:  assessment.Score,
			Reason: assessment.Reason,
			Raw:    assessment.Raw,
		}
		assessments[candidate.ID] = assessment

		if !assessment.Fit {
			if deps.Logger != nil {
				deps.Logger.Info("candidate rejected by AI provider",
					zap.String("candidate_id", candidate.ID),
					zap.Float64("ai_score", assessment.Score),
					zap.String("reason", assessment.Reason),
				)
			}

			if err := f.appendToExcludeFile(candidate, assessment.Reason); err != nil && deps.Logger != nil {
				deps.Logger.Warn("failed to append candidate to exclude file",
					zap.String("candidate_id", candidate.ID),
					zap.Error(err),
				)
			}
			continue
		}

		if deps.Logger != nil {
			deps.Logger.Info("candidate approved by AI",
				zap.String("candidate_id", candidate.ID),
				zap.Float64("ai_score", assessment.Score),
			)
		}

		approved = append(approved, candidate)
	}

	candidates.Items = approved

	if initial != len(approved) && deps.Logger != nil {
		deps.Logger.Info("AI triage completed",
			zap.Int("initial_candidates", initial),
			zap.Int("approved_candidates", len(approved)),
		)
	}

	return assessments
}

func (f *aiFitFilter) appendToExcludeFile(candidate *resume.Candidate, reason string) error {
	if f.excludeFile == "" {
		return nil
	}

	excluded, err := resume.GetExcludedCandidatesFromFile(f.excludeFile)
	if err != nil {
		return fmt.Errorf("load excluded candidates: %w", err)
	}

	toAppend := (&resume.Candidates{Items: []*resume.Candidate{candidate}}).ToExcluded(resume.ExcludeActorAI, reason)
	excluded.Append(toAppend)

	if err := excluded.ToFile(f.excludeFile); err != nil {
		return fmt.Errorf("write excluded candidates: %w", err)
	}

	return nil
}

func (f *aiFitFilter) Assessments() map[string]*ai.FitAssessment {
	if f.assessments == nil {
		return map[string]*ai.FitAssessment{}
	}
	return f.assessments
}

func (f *aiFitFilter) Status() Status {
	details := map[string]string{}
	if f.config != nil {
		details["minimum_fit_score"] = fmt.Sprintf("%.2f", f.config.MinimumFitScore)
		if f.config.Gemini != nil {
			details["model"] = f.config.Gemini.Model
			details["max_retries"] = strconv.Itoa(f.config.Gemini.MaxRetries)
			details["max_log_length"] = strconv.Itoa(f.config.Gemini.MaxLogLength)
		}
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
