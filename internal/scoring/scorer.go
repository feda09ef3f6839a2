// Package scoring grades a candidate answer against an ideal answer using
// embedding similarity.
package scoring

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/interview"
)

const (
	ModeRubric = "rubric"
	ModeSimple = "simple"
)

// Scorer grades one answer. Degenerate answers never produce an error; only
// embedding failures do.
type Scorer interface {
	Mode() string
	Score(ctx context.Context, userAnswer, idealAnswer string) (interview.ScoreResult, error)
}

// Config selects and tunes a scorer.
type Config struct {
	Mode   string
	Rubric RubricOptions
}

// New returns the scorer selected by cfg.Mode. An empty mode means rubric and
// zero rubric options mean DefaultRubricOptions.
func New(cfg Config, embedder ai.Embedder, logger *zap.Logger) (Scorer, error) {
	if cfg.Rubric == (RubricOptions{}) {
		cfg.Rubric = DefaultRubricOptions()
	}

	switch cfg.Mode {
	case ModeRubric, "":
		return NewRubricScorer(embedder, cfg.Rubric, logger)
	case ModeSimple:
		return NewSimpleScorer(embedder, logger)
	default:
		return nil, fmt.Errorf("unknown scoring mode: %q", cfg.Mode)
	}
}
