package resume

import (
	"reflect"
	"testing"
)

const sampleResume = `Alice B
alice@example.com
+1 555-123-4567

Professional Experience
ML Engineer - Acme Corp, Feb 2019 - Sep 2022
Built fraud detection models in Python
Deployed services on AWS with Docker

Education
B.S. Computer Science, State University

Skills
Python, TensorFlow, PyTorch, Docker, AWS
`

func TestParse(t *testing.T) {
	parsed, err := NewParser(nil).Parse(sampleResume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Name != "Alice B" {
		t.Fatalf("expected name %q, got %q", "Alice B", parsed.Name)
	}

	wantSections := []string{"header", "professional experience", "education", "skills"}
	if !reflect.DeepEqual(parsed.Sections, wantSections) {
		t.Fatalf("expected sections %v, got %v", wantSections, parsed.Sections)
	}

	if !reflect.DeepEqual(parsed.Emails, []string{"alice@example.com"}) {
		t.Fatalf("unexpected emails: %v", parsed.Emails)
	}

	if len(parsed.Phones) != 1 || parsed.Phones[0] != "+1 555-123-4567" {
		t.Fatalf("unexpected phones: %v", parsed.Phones)
	}

	wantSkills := []string{"aws", "docker", "python", "pytorch", "tensorflow"}
	if !reflect.DeepEqual(parsed.Skills, wantSkills) {
		t.Fatalf("expected skills %v, got %v", wantSkills, parsed.Skills)
	}

	if len(parsed.Experience) != 1 {
		t.Fatalf("expected 1 experience entry, got %d", len(parsed.Experience))
	}

	entry := parsed.Experience[0]
	if entry.Title != "ML Engineer" {
		t.Fatalf("expected title %q, got %q", "ML Engineer", entry.Title)
	}
	if entry.DateText != "Feb 2019 - Sep 2022" {
		t.Fatalf("expected date %q, got %q", "Feb 2019 - Sep 2022", entry.DateText)
	}
	if len(entry.Bullets) != 2 {
		t.Fatalf("expected 2 bullets, got %v", entry.Bullets)
	}

	if len(parsed.Education) != 1 || parsed.Education[0] != "B.S. Computer Science, State University" {
		t.Fatalf("unexpected education: %v", parsed.Education)
	}
}

func TestParseEmptyText(t *testing.T) {
	if _, err := NewParser(nil).Parse("  \n\t "); err == nil {
		t.Fatal("expected an error for empty text")
	}
}

func TestParseExperienceTitleOnSeparateLine(t *testing.T) {
	text := `Bob Smith

Experience

Senior Developer
Jan 2015 - Dec 2018
Led a team of five engineers
`

	parsed, err := NewParser(nil).Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(parsed.Experience) != 1 {
		t.Fatalf("expected 1 experience entry, got %d", len(parsed.Experience))
	}

	entry := parsed.Experience[0]
	if entry.Title != "Senior Developer" {
		t.Fatalf("expected title %q, got %q", "Senior Developer", entry.Title)
	}
	if entry.DateText != "Jan 2015 - Dec 2018" {
		t.Fatalf("expected date %q, got %q", "Jan 2015 - Dec 2018", entry.DateText)
	}
	if len(entry.Bullets) != 1 {
		t.Fatalf("expected 1 bullet, got %v", entry.Bullets)
	}
}

func TestParseExperienceBareEntry(t *testing.T) {
	entries := parseExperience("Internal tooling project\n")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Title != "Internal tooling project" || entries[0].DateText != "" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestExtractEmailsDeduplicates(t *testing.T) {
	text := "a@b.com c@d.org a@b.com"
	want := []string{"a@b.com", "c@d.org"}
	if got := ExtractEmails(text); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractPhonesSkipsShortMatches(t *testing.T) {
	if got := ExtractPhones("call 12345 maybe"); len(got) != 0 {
		t.Fatalf("expected no phones, got %v", got)
	}

	got := ExtractPhones("call +7 (999) 123-45-67 now")
	if len(got) != 1 {
		t.Fatalf("expected 1 phone, got %v", got)
	}
}

func TestExtractSkillsWordBoundaries(t *testing.T) {
	seed := []string{"go", "c++", "java"}

	got := ExtractSkills("experienced with golang and c++ templates", seed)
	if !reflect.DeepEqual(got, []string{"c++"}) {
		t.Fatalf("expected only c++, got %v", got)
	}

	got = ExtractSkills("writes go and java services", seed)
	if !reflect.DeepEqual(got, []string{"go", "java"}) {
		t.Fatalf("expected go and java, got %v", got)
	}
}

func TestSplitSectionsDefaultHeader(t *testing.T) {
	sections, order := splitSections("Some intro line\n\nSkills:\nPython\n")

	wantOrder := []string{"header", "skills"}
	if !reflect.DeepEqual(order, wantOrder) {
		t.Fatalf("expected order %v, got %v", wantOrder, order)
	}
	if sections["skills"] != "Python\n" {
		t.Fatalf("unexpected skills section: %q", sections["skills"])
	}
}

func TestExtractNameWithInitial(t *testing.T) {
	got := extractName("Alice B\nalice@example.com\n+1 555-123-4567\n")
	if got != "Alice B" {
		t.Fatalf("expected %q, got %q", "Alice B", got)
	}
}

func TestExtractNameSkipsSectionHeaders(t *testing.T) {
	got := extractName("Professional Experience\nJane Q. Doe\njane@example.com\n")
	if got != "Jane Q. Doe" {
		t.Fatalf("expected %q, got %q", "Jane Q. Doe", got)
	}
}

func TestExtractNameFallback(t *testing.T) {
	name := extractName("J. Random Hacker III IV V is a very long headline here\n")
	if name != "" {
		t.Fatalf("expected empty name, got %q", name)
	}

	if got := extractName("carol white\ncarol@example.com\n"); got != "carol white" {
		t.Fatalf("expected %q, got %q", "carol white", got)
	}
}
