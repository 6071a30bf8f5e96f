// Package scoring wraps an inference-only multinomial logistic classifier
// over résumé feature vectors. Training happens elsewhere; this package only
// loads coefficients and predicts.
package scoring

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

//go:embed model.yaml
var baselineModel []byte

// Model holds the classifier coefficients: one weight row and intercept per
// class, over a named feature order.
type Model struct {
	Features   []string    `mapstructure:"features"`
	Classes    []string    `mapstructure:"classes"`
	Intercepts []float64   `mapstructure:"intercepts"`
	Weights    [][]float64 `mapstructure:"weights"`
}

// Result is the classifier verdict: the winning class label and the softmax
// probability behind it.
type Result struct {
	Label      string
	Class      int
	Confidence float64
}

// Baseline returns the embedded hand-tuned model.
func Baseline() (*Model, error) {
	return decodeModel(baselineModel)
}

// LoadModel reads classifier coefficients from a YAML model file.
func LoadModel(path string) (*Model, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}

	return decodeSettings(v.AllSettings())
}

func decodeModel(data []byte) (*Model, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}

	return decodeSettings(v.AllSettings())
}

func decodeSettings(settings map[string]any) (*Model, error) {
	var model Model
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &model,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}

	return &model, nil
}

// Validate checks that the coefficient matrix is consistent with the declared
// features and classes.
func (m *Model) Validate() error {
	if len(m.Features) == 0 {
		return errors.New("model declares no features")
	}
	if len(m.Classes) < 2 {
		return errors.New("model must declare at least two classes")
	}
	if len(m.Intercepts) != len(m.Classes) {
		return fmt.Errorf("model has %d intercepts for %d classes", len(m.Intercepts), len(m.Classes))
	}
	if len(m.Weights) != len(m.Classes) {
		return fmt.Errorf("model has %d weight rows for %d classes", len(m.Weights), len(m.Classes))
	}
	for i, row := range m.Weights {
		if len(row) != len(m.Features) {
			return fmt.Errorf("weight row %d has %d coefficients for %d features", i, len(row), len(m.Features))
		}
	}
	return nil
}

// Predict maps a feature map to a class label and confidence. Features the
// model knows but the map lacks are read as zero.
func (m *Model) Predict(feats map[string]float64) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	scores := make([]float64, len(m.Classes))
	for c := range m.Classes {
		s := m.Intercepts[c]
		for f, name := range m.Features {
			s += m.Weights[c][f] * feats[name]
		}
		scores[c] = s
	}

	probs := softmax(scores)

	best := 0
	for c := range probs {
		if probs[c] > probs[best] {
			best = c
		}
	}

	return &Result{
		Label:      m.Classes[best],
		Class:      best,
		Confidence: probs[best],
	}, nil
}

func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	probs := make([]float64, len(scores))
	sum := 0.0
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
