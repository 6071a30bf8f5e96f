// Package features turns a parsed résumé into the fixed numeric vector the
// scorer consumes.
package features

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmarkhas/resume-triage/internal/resume"
)

const (
	KeyYearsExp           = "years_exp"
	KeySkillCount         = "skill_count"
	KeyFormatScore        = "format_score"
	KeyNumExperienceItems = "num_experience_items"
)

var yearRe = regexp.MustCompile(`\d{4}`)

var nowYear = func() int { return time.Now().Year() }

// Vector is the feature summary of a single résumé.
type Vector struct {
	YearsExp           float64
	SkillCount         float64
	FormatScore        float64
	NumExperienceItems float64
}

// Extract computes the feature vector for a parsed résumé.
func Extract(p *resume.Parsed) *Vector {
	return &Vector{
		YearsExp:           estimateYears(p),
		SkillCount:         float64(len(p.Skills)),
		FormatScore:        formatScore(p),
		NumExperienceItems: float64(len(p.Experience)),
	}
}

// Map returns the vector keyed by feature name, the shape the scorer expects.
func (v *Vector) Map() map[string]float64 {
	return map[string]float64{
		KeyYearsExp:           v.YearsExp,
		KeySkillCount:         v.SkillCount,
		KeyFormatScore:        v.FormatScore,
		KeyNumExperienceItems: v.NumExperienceItems,
	}
}

// estimateYears is a naive years-of-experience estimator over the date_text
// fields. Two years in a range count the span, a single year counts as one,
// and an open range ("present") counts up to the current year. Résumés with
// no usable dates fall back to a bullet-count heuristic capped at 20.
func estimateYears(p *resume.Parsed) float64 {
	var years []int
	for _, exp := range p.Experience {
		found := yearRe.FindAllString(exp.DateText, -1)
		switch {
		case len(found) >= 2:
			start, err1 := strconv.Atoi(found[0])
			end, err2 := strconv.Atoi(found[1])
			if err1 != nil || err2 != nil {
				continue
			}
			if span := end - start; span > 0 {
				years = append(years, span)
			} else {
				years = append(years, 0)
			}
		case len(found) == 1 && isOpenRange(exp.DateText):
			start, err := strconv.Atoi(found[0])
			if err != nil {
				continue
			}
			if span := nowYear() - start; span > 0 {
				years = append(years, span)
			} else {
				years = append(years, 0)
			}
		case len(found) == 1:
			years = append(years, 1)
		}
	}

	if len(years) == 0 {
		bullets := countBullets(p)
		est := 1.0 + float64(bullets)*0.5
		if est > 20.0 {
			est = 20.0
		}
		return est
	}

	total := 0
	for _, y := range years {
		total += y
	}
	return float64(total)
}

func isOpenRange(dateText string) bool {
	low := strings.ToLower(dateText)
	return strings.Contains(low, "present") ||
		strings.Contains(low, "current") ||
		strings.HasSuffix(strings.TrimSpace(low), "now")
}

// formatScore rewards structure: sections found, contact info present,
// bulleted experience.
func formatScore(p *resume.Parsed) float64 {
	score := 0.0

	nSections := len(p.Sections)
	if nSections > 5 {
		nSections = 5
	}
	score += float64(nSections) * 2.0

	if len(p.Emails) > 0 {
		score += 3.0
	}
	if len(p.Phones) > 0 {
		score += 2.0
	}

	bullets := countBullets(p)
	if bullets > 10 {
		bullets = 10
	}
	score += float64(bullets) * 0.5

	return score
}

func countBullets(p *resume.Parsed) int {
	n := 0
	for _, exp := range p.Experience {
		n += len(exp.Bullets)
	}
	return n
}
