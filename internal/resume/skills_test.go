package resume

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadSkills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.txt")
	content := "# custom list\npython\n\n  rust  \nc++\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing skills file: %v", err)
	}

	skills, err := LoadSkills(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"python", "rust", "c++"}
	if !reflect.DeepEqual(skills, want) {
		t.Fatalf("expected %v, got %v", want, skills)
	}
}

func TestLoadSkillsMissingFile(t *testing.T) {
	if _, err := LoadSkills(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
