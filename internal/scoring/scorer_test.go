package scoring

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBaselinePredict(t *testing.T) {
	model, err := Baseline()
	if err != nil {
		t.Fatalf("loading baseline model: %v", err)
	}

	empty, err := model.Predict(map[string]float64{})
	if err != nil {
		t.Fatalf("predicting empty features: %v", err)
	}
	if empty.Label != "reject" {
		t.Fatalf("expected reject for empty features, got %q", empty.Label)
	}

	strong, err := model.Predict(map[string]float64{
		"years_exp":            10,
		"skill_count":          12,
		"format_score":         15,
		"num_experience_items": 4,
	})
	if err != nil {
		t.Fatalf("predicting strong features: %v", err)
	}
	if strong.Label != "strong" {
		t.Fatalf("expected strong, got %q with confidence %v", strong.Label, strong.Confidence)
	}
	if strong.Confidence <= 0 || strong.Confidence > 1 {
		t.Fatalf("confidence out of range: %v", strong.Confidence)
	}
}

func TestLoadModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	content := `features:
  - years_exp
classes:
  - reject
  - accept
intercepts:
  - 1.0
  - -1.0
weights:
  - [-0.5]
  - [0.5]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing model file: %v", err)
	}

	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("loading model: %v", err)
	}

	result, err := model.Predict(map[string]float64{"years_exp": 10})
	if err != nil {
		t.Fatalf("predicting: %v", err)
	}
	if result.Label != "accept" || result.Class != 1 {
		t.Fatalf("expected accept, got %+v", result)
	}

	low, err := model.Predict(map[string]float64{"years_exp": 0})
	if err != nil {
		t.Fatalf("predicting: %v", err)
	}
	if low.Label != "reject" {
		t.Fatalf("expected reject, got %+v", low)
	}
}

func TestLoadModelMissingFile(t *testing.T) {
	if _, err := LoadModel(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing model file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		model Model
	}{
		{"no features", Model{Classes: []string{"a", "b"}, Intercepts: []float64{0, 0}, Weights: [][]float64{{}, {}}}},
		{"one class", Model{Features: []string{"x"}, Classes: []string{"a"}, Intercepts: []float64{0}, Weights: [][]float64{{0}}}},
		{"intercept mismatch", Model{Features: []string{"x"}, Classes: []string{"a", "b"}, Intercepts: []float64{0}, Weights: [][]float64{{0}, {0}}}},
		{"weight row mismatch", Model{Features: []string{"x"}, Classes: []string{"a", "b"}, Intercepts: []float64{0, 0}, Weights: [][]float64{{0}}}},
		{"weight width mismatch", Model{Features: []string{"x", "y"}, Classes: []string{"a", "b"}, Intercepts: []float64{0, 0}, Weights: [][]float64{{0, 0}, {0}}}},
	}

	for _, tc := range cases {
		if err := tc.model.Validate(); err == nil {
			t.Fatalf("%s: expected a validation error", tc.name)
		}
	}
}
