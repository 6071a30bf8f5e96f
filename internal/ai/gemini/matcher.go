package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/dmarkhas/resume-triage/internal/ai"
	"github.com/dmarkhas/resume-triage/internal/resume"
	"github.com/dmarkhas/resume-triage/internal/util"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Matcher scores candidate/job fit via a Gemini prompt.
type Matcher struct {
	generator  contentGenerator
	minScore   float64
	maxRetries int
	maxLogLen  int
	logger     *zap.Logger
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

var retryBaseDelay = time.Second

func NewMatcher(generator contentGenerator, logger *zap.Logger, minScore float64, maxRetries, maxLogLength int) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Matcher{
		generator:  generator,
		minScore:   minScore,
		maxRetries: maxRetries,
		maxLogLen:  maxLogLength,
		logger:     logger,
	}
}

func (m *Matcher) Evaluate(ctx context.Context, job *ai.Job, candidate *resume.Candidate) (*ai.FitAssessment, error) {
	if job == nil {
		return nil, fmt.Errorf("job is required")
	}
	if candidate == nil || candidate.Parsed == nil {
		return nil, fmt.Errorf("parsed candidate is required")
	}

	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}

	candidatePayload := map[string]any{
		"id":         candidate.ID,
		"name":       candidate.Name(),
		"skills":     candidate.Parsed.Skills,
		"experience": candidate.Parsed.Experience,
		"education":  candidate.Parsed.Education,
		"features":   candidate.Features,
	}
	candidateJSON, err := json.MarshalIndent(candidatePayload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidate payload: %w", err)
	}

	prompt := buildPrompt(string(jobJSON), string(candidateJSON))

	m.logger.Debug("gemini generate content request",
		zap.String("candidate_id", candidate.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, m.maxLogLen)),
	)

	raw, err := m.generate(ctx, candidate.ID, prompt)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("gemini generate content response",
		zap.String("candidate_id", candidate.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, m.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if m.minScore > 0 && !math.IsNaN(assessment.Score) && assessment.Score < m.minScore {
		m.logger.Debug("set fit to false by score threshold",
			zap.String("candidate_id", candidate.ID),
			zap.Float64("score", assessment.Score),
			zap.Float64("threshold", m.minScore),
		)
		assessment.Fit = false
	}

	assessment.Raw = raw
	return assessment, nil
}

// generate calls the provider with bounded retries.
func (m *Matcher) generate(ctx context.Context, candidateID, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		if attempt > 0 {
			m.logger.Warn("retrying gemini request",
				zap.String("candidate_id", candidateID),
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			if err := util.WaitFor(ctx, time.Duration(attempt)*retryBaseDelay); err != nil {
				return "", err
			}
		}

		raw, err := m.generator.GenerateContent(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err
	}

	return "", lastErr
}

func buildPrompt(jobJSON, candidateJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job:\n{{JOB_JSON}}\n\nCandidate:\n{{CANDIDATE_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{JOB_JSON}}", jobJSON)
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE_JSON}}", candidateJSON)
	return prompt
}

func parseResponse(raw string) (*ai.FitAssessment, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = extractJSON(cleaned)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	fit := coerceBool(data["fit"])
	score := coerceFloat(data["score"])
	reason := coerceString(data["reason"])

	if math.IsNaN(score) {
		score = 0
	}

	return &ai.FitAssessment{
		Fit:    fit,
		Score:  score,
		Reason: reason,
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
