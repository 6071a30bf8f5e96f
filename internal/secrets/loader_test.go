package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  secret-value\n"), 0o600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	got, err := Load(Source{Name: "api key", File: path, Value: "ignored"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "secret-value" {
		t.Fatalf("expected trimmed file value, got %q", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RESUME_TRIAGE_TEST_SECRET", "env-value")

	got, err := Load(Source{Name: "api key", Env: "RESUME_TRIAGE_TEST_SECRET"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "env-value" {
		t.Fatalf("expected env value, got %q", got)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	if _, err := Load(Source{Name: "api key", File: path}); err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestLoadUnconfigured(t *testing.T) {
	if _, err := Load(Source{Name: "api key"}); err == nil {
		t.Fatalf("expected error when nothing is configured")
	}
}
