package resume

import (
	"path/filepath"
	"reflect"
	"testing"
)

func candidateWithEmail(email string) *Candidate {
	return NewCandidate("cv.txt", &Parsed{
		Name:    "Test Person",
		Emails:  []string{email},
		RawText: "raw " + email,
	})
}

func TestNewCandidateID(t *testing.T) {
	c := candidateWithEmail("a@b.com")
	if c.ID != "a@b.com" {
		t.Fatalf("expected email as id, got %q", c.ID)
	}

	anon := NewCandidate("cv.txt", &Parsed{RawText: "no contact at all"})
	if len(anon.ID) != 12 {
		t.Fatalf("expected a 12 char hash id, got %q", anon.ID)
	}

	same := NewCandidate("other.txt", &Parsed{RawText: "no contact at all"})
	if anon.ID != same.ID {
		t.Fatal("expected identical raw text to produce identical ids")
	}
}

func TestCandidatesExclude(t *testing.T) {
	candidates := &Candidates{Items: []*Candidate{
		candidateWithEmail("a@b.com"),
		candidateWithEmail("c@d.com"),
		candidateWithEmail("e@f.com"),
	}}

	excluded := candidates.Exclude(CandidateIDField, []string{"c@d.com", "missing@x.com"})
	if !reflect.DeepEqual(excluded, []string{"c@d.com"}) {
		t.Fatalf("unexpected excluded ids: %v", excluded)
	}
	if candidates.Len() != 2 {
		t.Fatalf("expected 2 candidates left, got %d", candidates.Len())
	}
	if candidates.FindByID("c@d.com") != nil {
		t.Fatal("excluded candidate still present")
	}
}

func TestExcludeWithoutContact(t *testing.T) {
	candidates := &Candidates{Items: []*Candidate{
		NewCandidate("a.txt", &Parsed{RawText: "first without contact"}),
		NewCandidate("b.txt", &Parsed{RawText: "second without contact"}),
		candidateWithEmail("keep@me.com"),
		NewCandidate("c.txt", &Parsed{RawText: "third without contact"}),
	}}

	excluded := candidates.ExcludeWithoutContact()
	if len(excluded) != 3 {
		t.Fatalf("expected 3 excluded, got %v", excluded)
	}
	if candidates.Len() != 1 || candidates.Items[0].ID != "keep@me.com" {
		t.Fatalf("unexpected survivors: %v", candidates.IDs())
	}
}

func TestCandidatesFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortlist.json")

	missing, err := GetCandidatesFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error for missing file: %v", err)
	}
	if missing.Len() != 0 {
		t.Fatalf("expected empty list, got %d items", missing.Len())
	}

	candidates := &Candidates{Items: []*Candidate{candidateWithEmail("a@b.com")}}
	if err := candidates.ToFile(path); err != nil {
		t.Fatalf("writing candidates: %v", err)
	}

	loaded, err := GetCandidatesFromFile(path)
	if err != nil {
		t.Fatalf("loading candidates: %v", err)
	}
	if loaded.Len() != 1 || loaded.Items[0].ID != "a@b.com" {
		t.Fatalf("unexpected loaded candidates: %v", loaded.IDs())
	}
}

func TestExcludedCandidatesRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded.json")

	candidates := &Candidates{Items: []*Candidate{candidateWithEmail("a@b.com")}}

	excluded, err := GetExcludedCandidatesFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error for missing file: %v", err)
	}

	excluded.Append(candidates.ToExcluded(ExcludeActorUser, "not a fit"))
	if err := excluded.ToFile(path); err != nil {
		t.Fatalf("writing exclude file: %v", err)
	}

	loaded, err := GetExcludedCandidatesFromFile(path)
	if err != nil {
		t.Fatalf("loading exclude file: %v", err)
	}
	if !reflect.DeepEqual(loaded.IDs(), []string{"a@b.com"}) {
		t.Fatalf("unexpected ids: %v", loaded.IDs())
	}
	if loaded.Items[0].Actor != ExcludeActorUser || loaded.Items[0].Reason != "not a fit" {
		t.Fatalf("unexpected record: %+v", loaded.Items[0])
	}
}

func TestHistoryRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	candidate := candidateWithEmail("a@b.com")
	candidate.Score = &Score{Label: "review", Class: 1, Confidence: 0.7}
	candidates := &Candidates{Items: []*Candidate{candidate}}

	history, err := GetHistoryFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error for missing file: %v", err)
	}

	history.Append(candidates.ToHistory()...)
	if err := history.ToFile(path); err != nil {
		t.Fatalf("writing history: %v", err)
	}

	loaded, err := GetHistoryFromFile(path)
	if err != nil {
		t.Fatalf("loading history: %v", err)
	}
	if !reflect.DeepEqual(loaded.IDs(), []string{"a@b.com"}) {
		t.Fatalf("unexpected ids: %v", loaded.IDs())
	}
	if loaded.Items[0].Label != "review" || loaded.Items[0].Confidence != 0.7 {
		t.Fatalf("unexpected entry: %+v", loaded.Items[0])
	}
}

func TestReportByLabel(t *testing.T) {
	scored := candidateWithEmail("a@b.com")
	scored.Score = &Score{Label: "strong", Class: 2, Confidence: 0.9}

	candidates := &Candidates{Items: []*Candidate{
		scored,
		candidateWithEmail("c@d.com"),
	}}

	report := candidates.ReportByLabel()
	if len(report["strong"]) != 1 || len(report["unscored"]) != 1 {
		t.Fatalf("unexpected report: %v", report)
	}
	if report["strong"][0]["id"] != "a@b.com" {
		t.Fatalf("unexpected strong entry: %v", report["strong"][0])
	}
}
