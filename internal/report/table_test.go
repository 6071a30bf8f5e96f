package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dmarkhas/resume-triage/internal/resume"
)

func testCandidates() *resume.Candidates {
	scored := resume.NewCandidate("cv.txt", &resume.Parsed{
		Name:    "Alice B",
		Emails:  []string{"alice@example.com"},
		Skills:  []string{"aws", "docker", "go", "python", "sql", "terraform"},
		RawText: "text",
	})
	scored.Features = map[string]float64{"years_exp": 3}
	scored.Score = &resume.Score{Label: "strong", Class: 2, Confidence: 0.91}

	unscored := resume.NewCandidate("other.txt", &resume.Parsed{
		Name:    "Bob Smith",
		Emails:  []string{"bob@example.com"},
		RawText: "other text",
	})

	return &resume.Candidates{Items: []*resume.Candidate{scored, unscored}}
}

func TestRenderCandidates(t *testing.T) {
	var buf bytes.Buffer
	RenderCandidates(&buf, testCandidates())

	out := buf.String()
	for _, want := range []string{"Alice B", "alice@example.com", "strong", "0.91", "Bob Smith"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	// sixth skill collapses into a counter
	if !strings.Contains(out, "(+1)") {
		t.Fatalf("expected skill overflow marker, got:\n%s", out)
	}

	if strings.Contains(out, "ai fit") || strings.Contains(out, "AI FIT") {
		t.Fatalf("did not expect AI columns, got:\n%s", out)
	}
}

func TestRenderCandidatesWithAI(t *testing.T) {
	candidates := testCandidates()
	candidates.Items[0].AI = &resume.AIAssessment{Fit: true, Score: 0.85}

	var buf bytes.Buffer
	RenderCandidates(&buf, candidates)

	out := buf.String()
	if !strings.Contains(out, "0.85") {
		t.Fatalf("expected ai score in output, got:\n%s", out)
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, testCandidates(), false)

	out := buf.String()
	if !strings.Contains(out, "2 candidates") {
		t.Fatalf("expected candidate count, got: %s", out)
	}
	if !strings.Contains(out, "strong: 1") || !strings.Contains(out, "unscored: 1") {
		t.Fatalf("expected label counts, got: %s", out)
	}
}

func TestFormatSkills(t *testing.T) {
	c := resume.NewCandidate("cv.txt", &resume.Parsed{
		Skills:  []string{"a", "b"},
		RawText: "text",
	})
	if got := formatSkills(c); got != "a, b" {
		t.Fatalf("expected plain join, got %q", got)
	}
}
