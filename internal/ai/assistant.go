package ai

import (
	"context"

	"github.com/dmarkhas/resume-triage/internal/resume"
)

// Job describes the position candidates are evaluated against.
type Job struct {
	Title       string
	Description string
}

// FitAssessment is the provider's verdict on a candidate/job pair.
type FitAssessment struct {
	Fit    bool
	Score  float64
	Reason string
	Raw    string
}

// Matcher evaluates how well a candidate fits the target job.
type Matcher interface {
	Evaluate(ctx context.Context, job *Job, candidate *resume.Candidate) (*FitAssessment, error)
}
