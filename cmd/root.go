package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resume-triage"
)

type Config struct {
	Parser *struct {
		SkillsFile string `mapstructure:"skills-file"`
	} `mapstructure:"parser"`
	Scoring *struct {
		ModelFile string `mapstructure:"model-file"`
	} `mapstructure:"scoring"`
	Triage *struct {
		MinimumConfidence float64 `mapstructure:"minimum-confidence"`
		RequireContact    bool    `mapstructure:"require-contact"`
	} `mapstructure:"triage"`
	HistoryFile   string     `mapstructure:"history-file"`
	ExcludeFile   string     `mapstructure:"exclude-file"`
	ShortlistFile string     `mapstructure:"shortlist-file"`
	Job           *JobConfig `mapstructure:"job"`
	AI            *AIConfig  `mapstructure:"ai"`
}

type JobConfig struct {
	Title           string `mapstructure:"title"`
	Description     string `mapstructure:"description"`
	DescriptionFile string `mapstructure:"description-file"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-triage is a simple cli for parsing, scoring and triaging resumes",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-triage.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("triage.require-contact", true)
	viper.SetDefault("shortlist-file", "shortlist.json")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(app)
	}

	// A missing default config is fine, an explicit or broken one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}
