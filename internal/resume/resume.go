package resume

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	CandidateIDField    = "ID"
	CandidateEmailField = "Email"
)

// Score is the classifier verdict attached to a candidate.
type Score struct {
	Label      string  `json:"label"`
	Class      int     `json:"class"`
	Confidence float64 `json:"confidence"`
}

// AIAssessment holds the optional model-based fit evaluation for a candidate.
type AIAssessment struct {
	Fit    bool    `json:"fit"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
	Raw    string  `json:"raw,omitempty"`
	Error  string  `json:"error,omitempty"`
}

type Candidates struct {
	Items []*Candidate
}

// Candidate is a single résumé moving through the pipeline: the parsed
// document plus everything later stages attach to it.
type Candidate struct {
	ID       string             `json:"id"`
	Source   string             `json:"source,omitempty"`
	Parsed   *Parsed            `json:"parsed"`
	Features map[string]float64 `json:"features,omitempty"`
	Score    *Score             `json:"score,omitempty"`
	AI       *AIAssessment      `json:"ai,omitempty"`
}

// NewCandidate builds a candidate from a parsed résumé. The candidate ID is
// the first extracted email, falling back to a hash of the raw text for
// résumés without one.
func NewCandidate(source string, parsed *Parsed) *Candidate {
	c := &Candidate{
		ID:     candidateID(parsed),
		Source: source,
		Parsed: parsed,
	}
	return c
}

func candidateID(parsed *Parsed) string {
	if parsed == nil {
		return ""
	}
	if len(parsed.Emails) > 0 {
		return parsed.Emails[0]
	}
	sum := sha256.Sum256([]byte(parsed.RawText))
	return fmt.Sprintf("%x", sum[:6])
}

func (c *Candidate) Name() string {
	if c.Parsed == nil {
		return ""
	}
	return c.Parsed.Name
}

func (c *Candidate) Email() string {
	if c.Parsed == nil || len(c.Parsed.Emails) == 0 {
		return ""
	}
	return c.Parsed.Emails[0]
}

// HasContact reports whether the résumé yielded at least one email or phone.
func (c *Candidate) HasContact() bool {
	return c.Parsed != nil && (len(c.Parsed.Emails) > 0 || len(c.Parsed.Phones) > 0)
}

func (c *Candidate) Label() string {
	if c.Score == nil {
		return ""
	}
	return c.Score.Label
}

func (c *Candidate) GetStringField(name string) string {
	switch name {
	case CandidateIDField:
		return c.ID
	case CandidateEmailField:
		return c.Email()
	default:
		return ""
	}
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

func (c *Candidates) FindByID(id string) *Candidate {
	for _, candidate := range c.Items {
		if candidate.ID == id {
			return candidate
		}
	}
	return nil
}

func (c *Candidates) IDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, candidate := range c.Items {
		ids = append(ids, candidate.ID)
	}
	return ids
}

// Exclude removes candidates from the list by the named string field.
func (c *Candidates) Exclude(name string, targets []string) []string {
	var excluded []string
	for _, target := range targets {
		for idx, candidate := range c.Items {
			if candidate.GetStringField(name) == target {
				c.RemoveByIndex(idx)
				excluded = append(excluded, candidate.ID)
				break
			}
		}
	}
	return excluded
}

// ExcludeWithoutContact removes every candidate that has no email and no phone.
func (c *Candidates) ExcludeWithoutContact() []string {
	var excluded []string
	kept := make([]*Candidate, 0, len(c.Items))
	for _, candidate := range c.Items {
		if candidate.HasContact() {
			kept = append(kept, candidate)
			continue
		}
		excluded = append(excluded, candidate.ID)
	}
	c.Items = kept
	return excluded
}

// RemoveByIndex removes a candidate from the list by index. Does not preserve order.
func (c *Candidates) RemoveByIndex(idx int) {
	c.Items[idx] = c.Items[len(c.Items)-1]
	c.Items = c.Items[:len(c.Items)-1]
}

// GetCandidatesFromFile loads a candidate list from a JSON file. Missing or
// empty files yield an empty list.
func GetCandidatesFromFile(path string) (*Candidates, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Candidates{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &Candidates{}, nil
	}

	var candidates Candidates
	if err := json.NewDecoder(file).Decode(&candidates); err != nil {
		return nil, err
	}
	return &candidates, nil
}

func (c *Candidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

func (c *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByLabel groups candidates by classifier label for quick review.
func (c *Candidates) ReportByLabel() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, candidate := range c.Items {
		label := candidate.Label()
		if label == "" {
			label = "unscored"
		}

		entry := map[string]string{
			"id":     candidate.ID,
			"name":   candidate.Name(),
			"source": candidate.Source,
		}
		if candidate.Parsed != nil {
			entry["skills"] = strings.Join(candidate.Parsed.Skills, ", ")
		}
		if candidate.Score != nil {
			entry["confidence"] = strconv.FormatFloat(candidate.Score.Confidence, 'f', 2, 64)
		}
		if candidate.Features != nil {
			entry["years_exp"] = strconv.FormatFloat(candidate.Features["years_exp"], 'f', 1, 64)
		}
		if candidate.AI != nil {
			if candidate.AI.Error != "" {
				entry["ai_error"] = candidate.AI.Error
			} else {
				entry["ai_fit"] = strconv.FormatBool(candidate.AI.Fit)
				entry["ai_score"] = strconv.FormatFloat(candidate.AI.Score, 'f', 2, 64)
				if candidate.AI.Reason != "" {
					entry["ai_reason"] = candidate.AI.Reason
				}
			}
		}

		report[label] = append(report[label], entry)
	}
	return report
}
