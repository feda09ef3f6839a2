package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/interview-coach/internal/classify"
	"github.com/spigell/interview-coach/internal/questions"
	"github.com/spigell/interview-coach/internal/scoring"
)

const (
	app = "interview-coach"
)

type Config struct {
	Classifier string            `mapstructure:"classifier"`
	Scoring    *ScoringConfig    `mapstructure:"scoring"`
	Questions  *QuestionsConfig  `mapstructure:"questions"`
	Difficulty *DifficultyConfig `mapstructure:"difficulty"`
	Followup   *FollowupConfig   `mapstructure:"followup"`
	Session    *SessionConfig    `mapstructure:"session"`
	AI         *AIConfig         `mapstructure:"ai"`
	Metrics    *MetricsConfig    `mapstructure:"metrics"`
}

type ScoringConfig struct {
	Mode                string          `mapstructure:"mode"`
	MinWords            int             `mapstructure:"min-words"`
	RelevanceFloor      float64         `mapstructure:"relevance-floor"`
	Weights             scoring.Weights `mapstructure:"weights"`
	GoodAnswerThreshold int             `mapstructure:"good-answer-threshold"`
}

type QuestionsConfig struct {
	Strategy    string `mapstructure:"strategy"`
	TargetCount int    `mapstructure:"target-count"`
	MaxAttempts int    `mapstructure:"max-attempts"`
	OnExhausted string `mapstructure:"on-exhausted"`
	// DisabledFilters names question filters the generative strategy skips.
	DisabledFilters []string `mapstructure:"disabled-filters"`
	// Seed makes question selection reproducible. Zero seeds from the clock.
	Seed uint64 `mapstructure:"seed"`
}

type DifficultyConfig struct {
	EasyMax   int `mapstructure:"easy-max"`
	MediumMax int `mapstructure:"medium-max"`
}

type FollowupConfig struct {
	Interrupts        bool `mapstructure:"interrupts"`
	GenerateReactions bool `mapstructure:"generate-reactions"`
}

type SessionConfig struct {
	SweepAfter    time.Duration `mapstructure:"sweep-after"`
	SweepInterval time.Duration `mapstructure:"sweep-interval"`
}

type AIConfig struct {
	Provider           string        `mapstructure:"provider"`
	EmbeddingCacheSize int           `mapstructure:"embedding-cache-size"`
	Gemini             *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	MaxRetries     int    `mapstructure:"max-retries"`
	MaxLogLength   int    `mapstructure:"max-log-length"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "interview-coach runs mock interviews generated from a resume and scores the answers",
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

	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is interview-coach.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("metrics.addr", rootCmd.PersistentFlags().Lookup("metrics-addr"))
}

func setDefaults(v *viper.Viper) {
	rubric := scoring.DefaultRubricOptions()
	difficulty := questions.DefaultDifficultyThresholds()

	v.SetDefault("classifier", classify.StrategyKeyword)

	v.SetDefault("scoring.mode", scoring.ModeRubric)
	v.SetDefault("scoring.min-words", rubric.MinWords)
	v.SetDefault("scoring.relevance-floor", rubric.RelevanceFloor)
	v.SetDefault("scoring.weights.technical", rubric.Weights.Technical)
	v.SetDefault("scoring.weights.clarity", rubric.Weights.Clarity)
	v.SetDefault("scoring.weights.communication", rubric.Weights.Communication)
	v.SetDefault("scoring.good-answer-threshold", 7)

	v.SetDefault("questions.strategy", questions.StrategyTemplate)
	v.SetDefault("questions.target-count", 5)
	v.SetDefault("questions.max-attempts", 0)
	v.SetDefault("questions.on-exhausted", questions.ExhaustRepeat)
	v.SetDefault("questions.seed", 0)
	v.SetDefault("questions.disabled-filters", []string{})

	v.SetDefault("difficulty.easy-max", difficulty.EasyMax)
	v.SetDefault("difficulty.medium-max", difficulty.MediumMax)

	v.SetDefault("followup.interrupts", false)
	v.SetDefault("followup.generate-reactions", false)

	v.SetDefault("session.sweep-after", 30*time.Minute)
	v.SetDefault("session.sweep-interval", time.Minute)

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.embedding-cache-size", 4096)
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.embedding-model", "text-embedding-004")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 400)
}

func initConfig() {
	// version needs no config.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
	case cfgFile == "" && errors.As(err, &notFound):
		// Defaults are enough to run without a config file.
	default:
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Validate checks the values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if c == nil || c.Scoring == nil || c.Questions == nil || c.Difficulty == nil ||
		c.Followup == nil || c.Session == nil || c.AI == nil || c.AI.Gemini == nil || c.Metrics == nil {
		return errors.New("config sections are missing")
	}

	switch c.Classifier {
	case classify.StrategyKeyword, classify.StrategyEmbedding:
	default:
		return fmt.Errorf("unknown classifier: %q", c.Classifier)
	}

	switch c.Scoring.Mode {
	case scoring.ModeRubric, scoring.ModeSimple:
	default:
		return fmt.Errorf("unknown scoring mode: %q", c.Scoring.Mode)
	}
	if c.Scoring.GoodAnswerThreshold < 1 || c.Scoring.GoodAnswerThreshold > 10 {
		return fmt.Errorf("scoring.good-answer-threshold must be within 1..10, got %d", c.Scoring.GoodAnswerThreshold)
	}

	switch c.Questions.Strategy {
	case questions.StrategyTemplate, questions.StrategyGenerative:
	default:
		return fmt.Errorf("unknown question strategy: %q", c.Questions.Strategy)
	}
	switch c.Questions.OnExhausted {
	case questions.ExhaustRepeat, questions.ExhaustError:
	default:
		return fmt.Errorf("unknown questions.on-exhausted value: %q", c.Questions.OnExhausted)
	}
	if c.Questions.TargetCount <= 0 {
		return fmt.Errorf("questions.target-count must be positive, got %d", c.Questions.TargetCount)
	}

	if c.Difficulty.EasyMax > c.Difficulty.MediumMax {
		return fmt.Errorf("difficulty.easy-max (%d) exceeds difficulty.medium-max (%d)", c.Difficulty.EasyMax, c.Difficulty.MediumMax)
	}

	if c.AI.Provider != "" && c.AI.Provider != "gemini" {
		return fmt.Errorf("unsupported ai provider: %s", c.AI.Provider)
	}

	return nil
}

// needsAI reports whether the configuration calls the model just to produce
// questions.
func (c *Config) needsAI() bool {
	return c.Classifier == classify.StrategyEmbedding || c.Questions.Strategy == questions.StrategyGenerative
}
