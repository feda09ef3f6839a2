package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/ai/gemini"
	"github.com/spigell/interview-coach/internal/classify"
	"github.com/spigell/interview-coach/internal/coach"
	"github.com/spigell/interview-coach/internal/followup"
	"github.com/spigell/interview-coach/internal/interview"
	"github.com/spigell/interview-coach/internal/logger"
	"github.com/spigell/interview-coach/internal/metrics"
	"github.com/spigell/interview-coach/internal/questions"
	"github.com/spigell/interview-coach/internal/scoring"
	"github.com/spigell/interview-coach/internal/secrets"
	"github.com/spigell/interview-coach/internal/session"
)

const metricsShutdownTimeout = 5 * time.Second

// backend is everything a command needs to talk to the coach.
type backend struct {
	service *coach.Service
	memory  *session.Memory
	metrics *metrics.Metrics
}

// newBackend wires the pipeline described by config. The model client is
// created only when scoring is requested or the question path needs it.
func newBackend(ctx context.Context, config *Config, scoringNeeded bool, log *zap.Logger) (*backend, error) {
	m := metrics.New()
	mem := session.NewMemory(nil)
	seed := config.Questions.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	var (
		generator ai.Generator
		embedder  ai.Embedder
	)
	if scoringNeeded || config.needsAI() {
		client, err := newGeminiClient(ctx, config.AI, log)
		if err != nil {
			return nil, err
		}

		generator = metrics.InstrumentGenerator(client, m)
		cached, err := ai.NewCachedEmbedder(metrics.InstrumentEmbedder(client, m), config.AI.EmbeddingCacheSize)
		if err != nil {
			return nil, err
		}
		embedder = cached
	}

	classifier, err := newClassifier(config, embedder)
	if err != nil {
		return nil, err
	}

	synthesizer, err := newSynthesizer(config, generator, newRand(seed, 1), log)
	if err != nil {
		return nil, err
	}

	deps := coach.Deps{
		Classifier:  classifier,
		Synthesizer: synthesizer,
		Progress:    mem.Progress,
		Reactions:   mem.Reactions,
		Answers:     mem.Answers,
		Metrics:     m,
		Logger:      log,
		Rand:        newRand(seed, 2),
	}

	if generator != nil {
		scorer, err := scoring.New(scoring.Config{
			Mode: config.Scoring.Mode,
			Rubric: scoring.RubricOptions{
				MinWords:       config.Scoring.MinWords,
				RelevanceFloor: config.Scoring.RelevanceFloor,
				Weights:        config.Scoring.Weights,
			},
		}, embedder, log.With(zap.String("scoring_mode", config.Scoring.Mode)))
		if err != nil {
			return nil, fmt.Errorf("create scorer: %w", err)
		}

		engine, err := followup.NewEngine(generator, newRand(seed, 3), followup.Options{
			GoodThreshold:     config.Scoring.GoodAnswerThreshold,
			Interrupts:        config.Followup.Interrupts,
			GenerateReactions: config.Followup.GenerateReactions,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("create follow-up engine: %w", err)
		}

		deps.Scorer = scorer
		deps.Followup = engine
		deps.Generator = generator
	}

	service, err := coach.New(coach.Config{
		TargetCount: config.Questions.TargetCount,
		Difficulty: questions.DifficultyThresholds{
			EasyMax:   config.Difficulty.EasyMax,
			MediumMax: config.Difficulty.MediumMax,
		},
	}, deps)
	if err != nil {
		return nil, fmt.Errorf("create coach: %w", err)
	}

	return &backend{service: service, memory: mem, metrics: m}, nil
}

func newGeminiClient(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*gemini.Client, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	clientLogger := logger.WithCommonFields(log, "gemini", cfg.Gemini.Model).With(
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	return gemini.New(ctx, gemini.Config{
		APIKey:         apiKey,
		Model:          cfg.Gemini.Model,
		EmbeddingModel: cfg.Gemini.EmbeddingModel,
		MaxRetries:     cfg.Gemini.MaxRetries,
		MaxLogLength:   cfg.Gemini.MaxLogLength,
	}, clientLogger)
}

func newClassifier(config *Config, embedder ai.Embedder) (classify.Classifier, error) {
	switch config.Classifier {
	case classify.StrategyEmbedding:
		if embedder == nil {
			return nil, errors.New("embedding classifier needs an ai provider")
		}
		return classify.NewEmbeddingClassifier(embedder, 0)
	default:
		return classify.NewKeywordClassifier(), nil
	}
}

func newSynthesizer(config *Config, generator ai.Generator, r *rand.Rand, log *zap.Logger) (questions.Synthesizer, error) {
	padding := questions.PaddingOptions{
		MaxAttempts: config.Questions.MaxAttempts,
		OnExhausted: config.Questions.OnExhausted,
	}

	switch config.Questions.Strategy {
	case questions.StrategyGenerative:
		if generator == nil {
			return nil, errors.New("generative questions need an ai provider")
		}
		return questions.NewGenerativeSynthesizer(generator, r, questions.GenerativeOptions{
			Padding:         padding,
			DisabledFilters: config.Questions.DisabledFilters,
		}, log)
	default:
		opts := questions.DefaultTemplateOptions()
		opts.Padding = padding
		return questions.NewTemplateSynthesizer(r, opts, log), nil
	}
}

// newRand derives an independent stream per component, so that components
// never share a generator across their own locks.
func newRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// startBackground runs the session sweeper and, when configured, the metrics
// endpoint until ctx is done.
func (b *backend) startBackground(ctx context.Context, config *Config, log *zap.Logger) {
	go b.memory.RunSweeper(ctx, config.Session.SweepInterval, config.Session.SweepAfter, log, func(ids []string) {
		b.metrics.Swept(len(ids))
	})

	if config.Metrics.Addr == "" {
		return
	}

	srv := &http.Server{
		Addr:              config.Metrics.Addr,
		Handler:           b.metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("serving metrics", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutting down metrics server", zap.Error(err))
		}
	}()
}

func parsePersonality(s string) (interview.Personality, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return interview.ParsePersonality(s)
}

// setup is the common prologue of every command: logger, config and backend.
func setup(ctx context.Context, scoringNeeded bool) (*zap.Logger, *Config, *backend) {
	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	zl.Info("starting the "+app, zap.String("version", version))

	b, err := newBackend(ctx, config, scoringNeeded, zl)
	if err != nil {
		zl.Fatal("creating the interview backend", zap.Error(err))
	}
	b.startBackground(ctx, config, zl)

	return zl, config, b
}
