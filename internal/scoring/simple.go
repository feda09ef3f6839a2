package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/interview"
)

const (
	simpleMaxScore = 100

	simpleShortWords  = 20
	simpleWeakBelow   = 0.6
	simpleStrongAbove = 0.8

	FeedbackTooShort = "Your answer is too short. Add more depth."
	FeedbackMissing  = "Your answer is missing key concepts."
	FeedbackStrong   = "Great job! Very close to the ideal response."
)

// SimpleScorer maps similarity straight onto 0..100 and adds textual feedback.
type SimpleScorer struct {
	embedder ai.Embedder
	logger   *zap.Logger
}

// NewSimpleScorer creates a simple scorer.
func NewSimpleScorer(embedder ai.Embedder, logger *zap.Logger) (*SimpleScorer, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required for simple scoring")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimpleScorer{embedder: embedder, logger: logger}, nil
}

func (s *SimpleScorer) Mode() string { return ModeSimple }

func (s *SimpleScorer) Score(ctx context.Context, userAnswer, idealAnswer string) (interview.ScoreResult, error) {
	result := interview.ScoreResult{MaxScore: simpleMaxScore, Mode: ModeSimple}

	answer := strings.TrimSpace(userAnswer)
	if answer == "" || strings.TrimSpace(idealAnswer) == "" {
		result.Feedback = []string{FeedbackTooShort, FeedbackMissing}
		return result, nil
	}

	sim, err := similarity(ctx, s.embedder, answer, strings.TrimSpace(idealAnswer))
	if err != nil {
		return interview.ScoreResult{}, err
	}

	result.Similarity = sim
	result.Score = int(math.RoundToEven(min(simpleMaxScore, max(0, sim*100))))

	if WordCount(answer) < simpleShortWords {
		result.Feedback = append(result.Feedback, FeedbackTooShort)
	}
	if sim < simpleWeakBelow {
		result.Feedback = append(result.Feedback, FeedbackMissing)
	}
	if sim > simpleStrongAbove {
		result.Feedback = append(result.Feedback, FeedbackStrong)
	}

	s.logger.Debug("answer scored",
		zap.String("mode", ModeSimple),
		zap.Float64("similarity", sim),
		zap.Int("score", result.Score),
	)

	return result, nil
}
