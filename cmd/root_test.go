package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai/aitest"
	"github.com/spigell/interview-coach/internal/coach"
	"github.com/spigell/interview-coach/internal/interview"
	"github.com/spigell/interview-coach/internal/questions"
	"github.com/spigell/interview-coach/internal/scoring"
)

func defaultConfig(t *testing.T, overrides map[string]any) *Config {
	t.Helper()

	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}

	var config *Config
	require.NoError(t, v.Unmarshal(&config))
	return config
}

func TestDefaultsAreValid(t *testing.T) {
	config := defaultConfig(t, nil)
	require.NoError(t, config.Validate())

	assert.Equal(t, "keyword", config.Classifier)
	assert.Equal(t, scoring.ModeRubric, config.Scoring.Mode)
	assert.Equal(t, scoring.DefaultRubricOptions().Weights, config.Scoring.Weights)
	assert.Equal(t, 15, config.Scoring.MinWords)
	assert.Equal(t, 7, config.Scoring.GoodAnswerThreshold)
	assert.Equal(t, questions.StrategyTemplate, config.Questions.Strategy)
	assert.Equal(t, 5, config.Questions.TargetCount)
	assert.Equal(t, questions.ExhaustRepeat, config.Questions.OnExhausted)
	assert.Equal(t, 3, config.Difficulty.EasyMax)
	assert.Equal(t, 6, config.Difficulty.MediumMax)
	assert.Equal(t, 30*time.Minute, config.Session.SweepAfter)
	assert.False(t, config.needsAI())
}

func TestDurationsDecodeFromStrings(t *testing.T) {
	config := defaultConfig(t, map[string]any{"session.sweep-after": "90s"})
	assert.Equal(t, 90*time.Second, config.Session.SweepAfter)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
	}{
		{"classifier", map[string]any{"classifier": "tfidf"}},
		{"scoring mode", map[string]any{"scoring.mode": "bleu"}},
		{"good threshold", map[string]any{"scoring.good-answer-threshold": 11}},
		{"strategy", map[string]any{"questions.strategy": "random"}},
		{"on exhausted", map[string]any{"questions.on-exhausted": "panic"}},
		{"target count", map[string]any{"questions.target-count": 0}},
		{"difficulty order", map[string]any{"difficulty.easy-max": 7, "difficulty.medium-max": 5}},
		{"provider", map[string]any{"ai.provider": "openai"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, defaultConfig(t, tt.overrides).Validate())
		})
	}

	var empty *Config
	assert.Error(t, empty.Validate())
}

func TestNeedsAI(t *testing.T) {
	assert.True(t, defaultConfig(t, map[string]any{"classifier": "embedding"}).needsAI())
	assert.True(t, defaultConfig(t, map[string]any{"questions.strategy": "generative"}).needsAI())
}

func TestOfflineBackendSynthesizesQuestions(t *testing.T) {
	config := defaultConfig(t, map[string]any{"questions.seed": 42, "questions.target-count": 4})

	b, err := newBackend(context.Background(), config, false, zap.NewNop())
	require.NoError(t, err)

	session, err := b.service.StartSession(context.Background(), coach.StartRequest{
		SessionID:   "cli",
		ResumeText:  "Developed a Go backend service with Docker and Kubernetes\nBuilt SQL reporting dashboards",
		Personality: interview.PersonalityTechnical,
	})
	require.NoError(t, err)
	assert.Equal(t, interview.CategoryIT, session.Category)
	assert.Len(t, session.Questions, 4)

	_, err = b.service.ScoreBatch(context.Background(), coach.BatchRequest{SessionID: "cli", Items: []coach.Item{{Question: "Q?", Answer: "A"}}})
	assert.ErrorIs(t, err, coach.ErrScoringUnavailable)

	var out bytes.Buffer
	require.NoError(t, writeJSON(&out, session))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "cli", decoded["session_id"])
	assert.Len(t, decoded["questions"], 4)
}

func TestBackendNeedsAPIKeyForScoring(t *testing.T) {
	config := defaultConfig(t, nil)

	_, err := newBackend(context.Background(), config, true, zap.NewNop())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "GEMINI_API_KEY_FILE"))
}

func TestBackendRejectsAIStrategiesWithoutKey(t *testing.T) {
	config := defaultConfig(t, map[string]any{"questions.strategy": "generative"})

	_, err := newBackend(context.Background(), config, false, zap.NewNop())
	assert.Error(t, err)
}

func TestBackendRejectsUnknownDisabledFilter(t *testing.T) {
	config := defaultConfig(t, map[string]any{
		"questions.strategy":         "generative",
		"questions.disabled-filters": []string{"no_such_filter"},
	})

	_, err := newSynthesizer(config, &aitest.Generator{}, newRand(1, 1), zap.NewNop())
	assert.ErrorContains(t, err, "no_such_filter")

	config = defaultConfig(t, map[string]any{
		"questions.strategy":         "generative",
		"questions.disabled-filters": []string{"min_length"},
	})
	assert.Equal(t, []string{"min_length"}, config.Questions.DisabledFilters)

	_, err = newSynthesizer(config, &aitest.Generator{}, newRand(1, 1), zap.NewNop())
	assert.NoError(t, err)
}

func TestParsePersonality(t *testing.T) {
	p, err := parsePersonality("  ")
	require.NoError(t, err)
	assert.Empty(t, p)

	p, err = parsePersonality("HR")
	require.NoError(t, err)
	assert.Equal(t, interview.PersonalityHR, p)

	_, err = parsePersonality("pirate")
	assert.Error(t, err)
}
