// Package report renders triage results for the terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/dmarkhas/resume-triage/internal/features"
	"github.com/dmarkhas/resume-triage/internal/resume"
)

// Table wraps tablewriter with the rendition used across the CLI.
type Table struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
}

// NewTable creates a table writing to w.
func NewTable(w io.Writer, headers []string) *Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	return &Table{table: table, header: headers}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

// Render outputs the table.
func (t *Table) Render() {
	t.table.Header(t.header)
	t.table.Bulk(t.rows)
	t.table.Render()
}

// RenderCandidates prints the candidate table. AI columns appear only when at
// least one candidate carries an assessment.
func RenderCandidates(w io.Writer, c *resume.Candidates) {
	withAI := false
	for _, candidate := range c.Items {
		if candidate.AI != nil {
			withAI = true
			break
		}
	}

	headers := []string{"name", "id", "years", "skills", "label", "confidence"}
	if withAI {
		headers = append(headers, "ai fit", "ai score")
	}

	table := NewTable(w, headers)
	for _, candidate := range c.Items {
		row := []string{
			candidate.Name(),
			candidate.ID,
			formatFeature(candidate, features.KeyYearsExp),
			formatSkills(candidate),
			candidate.Label(),
			formatConfidence(candidate),
		}
		if withAI {
			row = append(row, formatAIFit(candidate), formatAIScore(candidate))
		}
		table.AddRow(row)
	}
	table.Render()
}

// PrintSummary prints per-label candidate counts, colored by label.
func PrintSummary(w io.Writer, c *resume.Candidates, useColors bool) {
	counts := make(map[string]int)
	for _, candidate := range c.Items {
		label := candidate.Label()
		if label == "" {
			label = "unscored"
		}
		counts[label]++
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		part := fmt.Sprintf("%s: %d", label, counts[label])
		if useColors {
			part = labelColor(label).Sprint(part)
		}
		parts = append(parts, part)
	}

	fmt.Fprintf(w, "%d candidates (%s)\n", c.Len(), strings.Join(parts, ", "))
}

// UseColors reports whether colored output is appropriate for the current
// environment.
func UseColors() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

func labelColor(label string) *color.Color {
	switch label {
	case "strong":
		return color.New(color.FgGreen)
	case "review":
		return color.New(color.FgYellow)
	case "reject":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgWhite)
	}
}

func formatFeature(c *resume.Candidate, key string) string {
	if c.Features == nil {
		return ""
	}
	return strconv.FormatFloat(c.Features[key], 'f', 1, 64)
}

func formatSkills(c *resume.Candidate) string {
	if c.Parsed == nil {
		return ""
	}
	skills := c.Parsed.Skills
	if len(skills) > 5 {
		return strings.Join(skills[:5], ", ") + fmt.Sprintf(" (+%d)", len(skills)-5)
	}
	return strings.Join(skills, ", ")
}

func formatConfidence(c *resume.Candidate) string {
	if c.Score == nil {
		return ""
	}
	return strconv.FormatFloat(c.Score.Confidence, 'f', 2, 64)
}

func formatAIFit(c *resume.Candidate) string {
	if c.AI == nil {
		return ""
	}
	if c.AI.Error != "" {
		return "error"
	}
	return strconv.FormatBool(c.AI.Fit)
}

func formatAIScore(c *resume.Candidate) string {
	if c.AI == nil || c.AI.Error != "" {
		return ""
	}
	return strconv.FormatFloat(c.AI.Score, 'f', 2, 64)
}
