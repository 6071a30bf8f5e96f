package resume

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Parsed is the structured form of a plain-text résumé.
type Parsed struct {
	Name       string   `json:"name"`
	Emails     []string `json:"emails"`
	Phones     []string `json:"phones"`
	Skills     []string `json:"skills"`
	Experience []*Entry `json:"experience"`
	Education  []string `json:"education"`
	Sections   []string `json:"sections"`
	RawText    string   `json:"raw_text"`
}

// Entry is a single experience block: a title line, the date range found on or
// near it, and the descriptive lines that follow.
type Entry struct {
	Title    string   `json:"title"`
	DateText string   `json:"date_text"`
	Bullets  []string `json:"bullets"`
}

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	phoneRe = regexp.MustCompile(`(\+?\d{1,4}[\s-]?)?(\(?\d{2,4}\)?[\s-]?)?[\d\s-]{6,12}`)

	// A date range opens with a month name or a 4-digit year and closes with a
	// 4-digit year or an open-range marker, within 30 characters and without
	// crossing a comma or line break.
	dateRangeRe = regexp.MustCompile(`(?i)((?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec|` +
		`january|february|march|april|june|july|august|september|october|november|december|\d{4})` +
		`[^,\n\r]{0,30}(?:\d{4}|present|current|now))`)

	nameWordRe = regexp.MustCompile(`^[A-Za-z'.-]+$`)
)

var sectionHeaders = []string{
	"experience", "work experience", "professional experience",
	"education", "skills", "projects", "certifications", "summary", "objective",
}

// Parser turns raw résumé text into a Parsed document. The zero-argument
// constructor uses the built-in skills seed.
type Parser struct {
	skills []string
}

func NewParser(skills []string) *Parser {
	if len(skills) == 0 {
		skills = SkillsSeed
	}
	return &Parser{skills: skills}
}

// Parse is the main entry point: plain (already OCRed) text in, structured
// document out.
func (p *Parser) Parse(text string) (*Parsed, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty resume text")
	}

	sections, order := splitSections(text)

	parsed := &Parsed{
		Name:     extractName(text),
		Emails:   ExtractEmails(text),
		Phones:   ExtractPhones(text),
		Skills:   ExtractSkills(text, p.skills),
		Sections: order,
		RawText:  text,
	}

	for _, key := range order {
		if strings.Contains(key, "experience") || strings.Contains(key, "work") {
			parsed.Experience = append(parsed.Experience, parseExperience(sections[key])...)
		}
	}

	for _, key := range order {
		if !strings.Contains(key, "education") {
			continue
		}
		for _, line := range strings.Split(sections[key], "\n") {
			if line = strings.TrimSpace(line); line != "" {
				parsed.Education = append(parsed.Education, line)
			}
		}
	}

	return parsed, nil
}

// ExtractEmails returns the distinct email addresses in the text, in order of
// first appearance.
func ExtractEmails(text string) []string {
	var emails []string
	seen := make(map[string]struct{})
	for _, m := range emailRe.FindAllString(text, -1) {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		emails = append(emails, m)
	}
	return emails
}

// ExtractPhones returns the distinct phone-looking sequences in the text.
// Matches with fewer than 6 digits are discarded to keep the permissive
// pattern from picking up whitespace runs.
func ExtractPhones(text string) []string {
	var phones []string
	seen := make(map[string]struct{})
	for _, m := range phoneRe.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if countDigits(m) < 6 {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		phones = append(phones, m)
	}
	return phones
}

// ExtractSkills matches the seed list against the text. Plain alphanumeric
// seeds match on word boundaries; seeds with punctuation (c++, scikit-learn)
// fall back to substring matching.
func ExtractSkills(text string, seed []string) []string {
	textLow := strings.ToLower(text)
	found := make(map[string]struct{})
	for _, s := range seed {
		low := strings.ToLower(strings.TrimSpace(s))
		if low == "" {
			continue
		}
		if skillMatches(textLow, low) {
			found[low] = struct{}{}
		}
	}

	skills := make([]string, 0, len(found))
	for s := range found {
		skills = append(skills, s)
	}
	sort.Strings(skills)
	return skills
}

func skillMatches(textLow, skill string) bool {
	plain := true
	for _, r := range skill {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
			plain = false
			break
		}
	}
	if !plain {
		return strings.Contains(textLow, skill)
	}

	idx := 0
	for {
		rel := strings.Index(textLow[idx:], skill)
		if rel < 0 {
			return false
		}
		start := idx + rel
		end := start + len(skill)
		if !isWordByte(textLow, start-1) && !isWordByte(textLow, end) {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	b := s[i]
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// splitSections is a naive section splitter: a line containing a known header
// keyword with at most 5 words starts a new section. Content before the first
// header accumulates under "header". Returns the sections and the order in
// which they first appeared.
func splitSections(text string) (map[string]string, []string) {
	sections := make(map[string]string)
	var order []string

	current := "header"
	var buffer []string

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		if _, ok := sections[current]; !ok {
			order = append(order, current)
		}
		sections[current] += strings.Join(buffer, "\n") + "\n"
		buffer = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			// blank lines act as separators
			flush()
			continue
		}

		low := strings.TrimSpace(strings.Trim(strings.ToLower(line), ":"))
		if isSectionHeader(low) && len(strings.Fields(line)) <= 5 {
			flush()
			current = low
			continue
		}

		buffer = append(buffer, line)
	}
	flush()

	return sections, order
}

func isSectionHeader(low string) bool {
	for _, h := range sectionHeaders {
		if strings.Contains(low, h) {
			return true
		}
	}
	return false
}

// parseExperience splits an experience section into entries. A line carrying a
// date range starts an entry; an undated line immediately followed by a dated
// one is treated as a title with the date on the next line.
func parseExperience(block string) []*Entry {
	var lines []string
	for _, raw := range strings.Split(block, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	var out []*Entry
	i := 0
	for i < len(lines) {
		line := lines[i]

		if date := dateRangeRe.FindString(line); date != "" {
			title := strings.SplitN(line, " - ", 2)[0]

			var bullets []string
			j := i + 1
			for j < len(lines) && len(strings.Fields(lines[j])) > 2 {
				if dateRangeRe.MatchString(lines[j]) {
					break
				}
				bullets = append(bullets, lines[j])
				j++
			}

			out = append(out, &Entry{
				Title:    strings.TrimSpace(title),
				DateText: strings.TrimSpace(date),
				Bullets:  bullets,
			})
			i = j
			continue
		}

		if i+1 < len(lines) {
			if date := dateRangeRe.FindString(lines[i+1]); date != "" {
				var bullets []string
				j := i + 2
				for j < len(lines) && !dateRangeRe.MatchString(lines[j]) {
					bullets = append(bullets, lines[j])
					j++
				}

				out = append(out, &Entry{
					Title:    strings.TrimSpace(line),
					DateText: strings.TrimSpace(date),
					Bullets:  bullets,
				})
				i = j
				continue
			}
		}

		// short project/summary line without dates
		out = append(out, &Entry{Title: line})
		i++
	}

	return out
}

// extractName scans the first lines for something that looks like a person
// name: 2-4 words without digits or an email. Single-letter initials count as
// words; section headers never do. Falls back to the first non-empty,
// non-header line when it is short enough.
func extractName(text string) string {
	lines := strings.Split(text, "\n")

	seen := 0
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		seen++
		if seen > 5 {
			break
		}
		if strings.Contains(line, "@") || countDigits(line) >= 6 {
			continue
		}
		if isSectionHeader(strings.Trim(strings.ToLower(line), ":")) {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		isName := true
		for _, word := range words {
			if !nameWordRe.MatchString(word) {
				isName = false
				break
			}
		}
		if isName {
			return line
		}
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if isSectionHeader(strings.Trim(strings.ToLower(line), ":")) {
			continue
		}
		if len(strings.Fields(line)) <= 4 {
			return line
		}
		break
	}

	return ""
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
