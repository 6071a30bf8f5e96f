package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/dmarkhas/resume-triage/internal/features"
	"github.com/dmarkhas/resume-triage/internal/logger"
	"github.com/dmarkhas/resume-triage/internal/resume"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var parseCmd = &cobra.Command{
	Use:   "parse <resume-file>",
	Short: "Parse a single resume and print the extracted data as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		parse(args[0])
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func parse(path string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	parser, err := buildParser(config)
	if err != nil {
		logger.Fatal("building the parser", zap.Error(err))
	}

	model, err := buildModel(config)
	if err != nil {
		logger.Fatal("loading the scoring model", zap.Error(err))
	}

	text, err := resume.Load(path)
	if err != nil {
		logger.Fatal("loading the resume", zap.String("path", path), zap.Error(err))
	}

	parsed, err := parser.Parse(text)
	if err != nil {
		logger.Fatal("parsing the resume", zap.String("path", path), zap.Error(err))
	}

	feats := features.Extract(parsed).Map()

	out := struct {
		Parsed   *resume.Parsed     `json:"parsed"`
		Features map[string]float64 `json:"features"`
		Score    *resume.Score      `json:"score,omitempty"`
	}{
		Parsed:   parsed,
		Features: feats,
	}

	if result, err := model.Predict(feats); err != nil {
		logger.Warn("scoring failed", zap.String("path", path), zap.Error(err))
	} else {
		out.Score = &resume.Score{
			Label:      result.Label,
			Class:      result.Class,
			Confidence: result.Confidence,
		}
	}

	pretty, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Fatal("encoding the result", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
