package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dmarkhas/resume-triage/internal/ai"
	"github.com/dmarkhas/resume-triage/internal/ai/gemini"
	"github.com/dmarkhas/resume-triage/internal/features"
	"github.com/dmarkhas/resume-triage/internal/logger"
	"github.com/dmarkhas/resume-triage/internal/report"
	"github.com/dmarkhas/resume-triage/internal/resume"
	"github.com/dmarkhas/resume-triage/internal/scoring"
	"github.com/dmarkhas/resume-triage/internal/secrets"
	"github.com/dmarkhas/resume-triage/internal/triage"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes                 = "Shortlist all"
	PromptNo                  = "No"
	PromptBack                = "back"
	PromptReportByLabel       = "Report by label"
	PromptManualReview        = "Review candidates one by one"
	PromptAppendToExcludeFile = "Append all candidates to exclude file"
	PromptCandidatesToFile    = "Dump candidates to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo, PromptReportByLabel, PromptManualReview, PromptCandidatesToFile, PromptAppendToExcludeFile},
}

var scoreCmd = &cobra.Command{
	Use:   "score <resume-file> [resume-file...]",
	Short: "Parse, score and triage the given resume files",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().BoolP("rescore", "f", false, "score resumes even if already present in the history file")
	scoreCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation, shortlist every candidate left after triage")
	scoreCmd.Flags().StringP("exclude-file", "e", "", "special file with candidates to exclude. Default is unset.")

	viper.BindPFlag("exclude-file", scoreCmd.Flags().Lookup("exclude-file"))
}

// score is the main command for the cli.
func score(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-triage", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	parser, err := buildParser(config)
	if err != nil {
		logger.Fatal("building the parser", zap.Error(err))
	}

	model, err := buildModel(config)
	if err != nil {
		logger.Fatal("loading the scoring model", zap.Error(err))
	}

	candidates := loadCandidates(args, parser, model, logger)
	if candidates.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates parsed"))
		return
	}

	logger.Info("scored candidates", zap.Int("count", candidates.Len()))

	// Snapshot before filters so history records everything scored this run.
	scored := candidates.ToHistory()

	triageCfg := buildTriageConfig(config)

	steps := []triage.Filter{
		triage.NewContact(),
		triage.NewHistory(cmd),
		triage.NewExcludeFile(),
		triage.NewMinConfidence(),
		triage.NewAIFit(),
	}

	if !triageCfg.RequireContact {
		triage.DisableByName(steps, "contact", "disabled in config")
	}

	deps := triage.Deps{Logger: logger}
	if config.AI != nil && config.AI.Enabled {
		matcher, job, err := prepareAI(ctx, config, logger)
		if err != nil {
			logger.Warn("skipping AI step", zap.Error(err))
			triage.DisableByName(steps, "ai_fit", err.Error())
		} else {
			deps.Matcher = matcher
			deps.Job = job
		}
	} else {
		triage.DisableByName(steps, "ai_fit", "disabled in config")
	}

	filtered, assessments, err := triage.Run(ctx, triageCfg, deps, steps, candidates)
	if err != nil {
		logger.Fatal("triage failed", zap.Error(err))
	}
	candidates = filtered

	logger.Debug("collected AI assessments", zap.Int("count", len(assessments)))

	if config.HistoryFile != "" {
		if err := appendHistory(config.HistoryFile, scored); err != nil {
			logger.Warn("failed to update history file",
				zap.String("path", config.HistoryFile),
				zap.Error(err),
			)
		}
	}

	if candidates.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after triage"))
		return
	}

	report.RenderCandidates(os.Stdout, candidates)
	report.PrintSummary(os.Stdout, candidates, report.UseColors())

	action := PromptYes
	for {
		var err error
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of candidates", zap.Int("count", candidates.Len()))

		if err := handleAction(action, logger, config, candidates); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, candidates *resume.Candidates) error {
	switch action {
	case PromptYes:
		if err := shortlist(logger, config.ShortlistFile, candidates); err != nil {
			return err
		}
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptManualReview:
		return manualReview(logger, config, candidates)
	case PromptReportByLabel:
		pretty, _ := json.MarshalIndent(candidates.ReportByLabel(), "", "  ")
		logger.Info(string(pretty), zap.Int("candidates count", candidates.Len()))
		return nil
	case PromptCandidatesToFile:
		filename, err := candidates.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendAllToExcludeFile(logger, candidates)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func manualReview(logger *zap.Logger, config *Config, candidates *resume.Candidates) error {
	for {
		items := make([]string, 0)

		for _, candidate := range candidates.Items {
			label := fmt.Sprintf("%s %s / %s / conf %.2f",
				candidate.ID, candidate.Name(), candidate.Label(), confidence(candidate),
			)

			items = append(items, label)
		}

		excludeFile := viper.GetString("exclude-file")
		if excludeFile != "" && candidates.Len() != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
		}

		_, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}

		switch selected {
		case PromptBack:
			return nil
		case PromptAppendToExcludeFile:
			excluded, err := resume.GetExcludedCandidatesFromFile(excludeFile)
			if err != nil {
				return err
			}

			excluded.Append(candidates.ToExcluded(resume.ExcludeActorUser, "excluded from manual review"))

			if err = excluded.ToFile(excludeFile); err != nil {
				return err
			}

			logger.Info("appended to exclude file", zap.String("filename", excludeFile))

			candidates.Exclude(resume.CandidateIDField, excluded.IDs())
		default:
			candidateID := strings.Split(selected, " ")[0]

			candidate := candidates.FindByID(candidateID)
			if candidate == nil {
				return fmt.Errorf("there is no such candidate id %s", candidateID)
			}

			picked := &resume.Candidates{Items: []*resume.Candidate{candidate}}
			if err = shortlist(logger, config.ShortlistFile, picked); err != nil {
				return err
			}

			candidates.Exclude(resume.CandidateIDField, []string{candidateID})
		}
	}
}

func appendAllToExcludeFile(logger *zap.Logger, candidates *resume.Candidates) error {
	excludeFile := viper.GetString("exclude-file")
	if excludeFile == "" {
		return errors.New("exclude file is not configured")
	}

	excluded, err := resume.GetExcludedCandidatesFromFile(excludeFile)
	if err != nil {
		return err
	}

	excluded.Append(candidates.ToExcluded(resume.ExcludeActorUser, "excluded from prompt"))

	if err := excluded.ToFile(excludeFile); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", excludeFile))

	candidates.Exclude(resume.CandidateIDField, excluded.IDs())
	return errExit
}

// shortlist appends candidates to the shortlist file, skipping duplicates.
func shortlist(logger *zap.Logger, path string, candidates *resume.Candidates) error {
	if path == "" {
		return errors.New("shortlist file is not configured")
	}

	existing, err := resume.GetCandidatesFromFile(path)
	if err != nil {
		return fmt.Errorf("load shortlist: %w", err)
	}

	added := 0
	for _, candidate := range candidates.Items {
		if existing.FindByID(candidate.ID) != nil {
			continue
		}
		existing.Items = append(existing.Items, candidate)
		added++
	}

	if err := existing.ToFile(path); err != nil {
		return fmt.Errorf("write shortlist: %w", err)
	}

	logger.Info("candidates shortlisted",
		zap.Int("count", added),
		zap.String("filename", path),
	)
	return nil
}

func appendHistory(path string, entries []*resume.HistoryEntry) error {
	history, err := resume.GetHistoryFromFile(path)
	if err != nil {
		return err
	}

	known := make(map[string]bool)
	for _, id := range history.IDs() {
		known[id] = true
	}

	for _, entry := range entries {
		if known[entry.ID] {
			continue
		}
		history.Append(entry)
	}

	return history.ToFile(path)
}

func loadCandidates(paths []string, parser *resume.Parser, model *scoring.Model, logger *zap.Logger) *resume.Candidates {
	candidates := &resume.Candidates{}
	for _, path := range paths {
		text, err := resume.Load(path)
		if err != nil {
			logger.Warn("skipping resume file", zap.String("path", path), zap.Error(err))
			continue
		}

		parsed, err := parser.Parse(text)
		if err != nil {
			logger.Warn("skipping unparseable resume", zap.String("path", path), zap.Error(err))
			continue
		}

		candidate := resume.NewCandidate(path, parsed)
		candidate.Features = features.Extract(parsed).Map()

		result, err := model.Predict(candidate.Features)
		if err != nil {
			logger.Warn("scoring failed", zap.String("path", path), zap.Error(err))
		} else {
			candidate.Score = &resume.Score{
				Label:      result.Label,
				Class:      result.Class,
				Confidence: result.Confidence,
			}
		}

		candidates.Items = append(candidates.Items, candidate)

		logger.Debug("parsed resume",
			zap.String("path", path),
			zap.String("candidate_id", candidate.ID),
			zap.String("label", candidate.Label()),
		)
	}
	return candidates
}

func buildParser(config *Config) (*resume.Parser, error) {
	if config.Parser == nil || config.Parser.SkillsFile == "" {
		return resume.NewParser(nil), nil
	}

	skills, err := resume.LoadSkills(config.Parser.SkillsFile)
	if err != nil {
		return nil, fmt.Errorf("loading skills file: %w", err)
	}
	return resume.NewParser(skills), nil
}

func buildModel(config *Config) (*scoring.Model, error) {
	if config.Scoring == nil || config.Scoring.ModelFile == "" {
		return scoring.Baseline()
	}
	return scoring.LoadModel(config.Scoring.ModelFile)
}

func buildTriageConfig(config *Config) *triage.Config {
	cfg := &triage.Config{
		RequireContact: true,
		HistoryFile:    config.HistoryFile,
		ExcludeFile:    viper.GetString("exclude-file"),
	}

	if config.Triage != nil {
		cfg.MinimumConfidence = config.Triage.MinimumConfidence
		cfg.RequireContact = config.Triage.RequireContact
	}

	if config.AI != nil {
		cfg.AI = &triage.AIConfig{
			Enabled:         config.AI.Enabled,
			Provider:        config.AI.Provider,
			MinimumFitScore: config.AI.MinimumFitScore,
		}
		if config.AI.Gemini != nil {
			cfg.AI.Gemini = &triage.GeminiConfig{
				Model:        config.AI.Gemini.Model,
				MaxRetries:   config.AI.Gemini.MaxRetries,
				MaxLogLength: config.AI.Gemini.MaxLogLength,
			}
		}
	}

	return cfg
}

func prepareAI(ctx context.Context, config *Config, logger *zap.Logger) (ai.Matcher, *ai.Job, error) {
	job, err := loadJob(config)
	if err != nil {
		return nil, nil, err
	}

	matcher, err := newAIMatcher(ctx, config.AI, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("building ai matcher: %w", err)
	}

	return matcher, job, nil
}

func loadJob(config *Config) (*ai.Job, error) {
	if config.Job == nil {
		return nil, errors.New("job section is required for AI evaluation")
	}

	description := config.Job.Description
	if config.Job.DescriptionFile != "" {
		data, err := os.ReadFile(config.Job.DescriptionFile)
		if err != nil {
			return nil, fmt.Errorf("reading job description file: %w", err)
		}
		description = strings.TrimSpace(string(data))
	}

	if config.Job.Title == "" && description == "" {
		return nil, errors.New("job title or description is required for AI evaluation")
	}

	return &ai.Job{
		Title:       config.Job.Title,
		Description: description,
	}, nil
}

func newAIMatcher(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Matcher, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKeyFile := strings.TrimSpace(cfg.Gemini.APIKeyFile)
	if apiKeyFile == "" {
		apiKeyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: apiKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	matcherLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
		zap.Float64("minimum_fit_score", minScore),
	)

	return gemini.NewMatcher(generator, matcherLogger, minScore, cfg.Gemini.MaxRetries, cfg.Gemini.MaxLogLength), nil
}

func confidence(c *resume.Candidate) float64 {
	if c.Score == nil {
		return 0
	}
	return c.Score.Confidence
}
