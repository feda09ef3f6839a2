package scoring

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/interview"
)

const (
	rubricMaxScore = 10
	subScoreMax    = 10
	weakSubScore   = 5

	// Word count per communication point, and its floor.
	wordsPerCommunicationPoint = 20
	minCommunication           = 4

	clarityScale = 8

	ReasonTooShort    = "Answer too short"
	ReasonNotRelevant = "Answer not relevant to the question"

	reasonTechnical     = "Technical depth was limited compared to the ideal answer"
	reasonClarity       = "Explanation lacked clarity and structure"
	reasonCommunication = "Answer needed more detail and elaboration"
	reasonStrong        = "Strong answer covering the key points"
)

// Weights of the rubric sub-scores in the final score.
type Weights struct {
	Technical     float64 `mapstructure:"technical"`
	Clarity       float64 `mapstructure:"clarity"`
	Communication float64 `mapstructure:"communication"`
}

// RubricOptions tunes the rubric scorer.
type RubricOptions struct {
	// MinWords is the word count below which no embedding is computed.
	MinWords int
	// RelevanceFloor is the cosine similarity under which an answer is
	// considered off-topic.
	RelevanceFloor float64
	Weights        Weights
}

// DefaultRubricOptions returns the 15 word gate, the 0.35 relevance floor and
// the 50/30/20 weighting.
func DefaultRubricOptions() RubricOptions {
	return RubricOptions{
		MinWords:       15,
		RelevanceFloor: 0.35,
		Weights:        Weights{Technical: 0.5, Clarity: 0.3, Communication: 0.2},
	}
}

func (o RubricOptions) validate() error {
	if o.MinWords < 0 {
		return fmt.Errorf("min words must not be negative, got %d", o.MinWords)
	}
	if o.RelevanceFloor < -1 || o.RelevanceFloor > 1 {
		return fmt.Errorf("relevance floor must be within [-1, 1], got %v", o.RelevanceFloor)
	}
	w := o.Weights
	if w.Technical < 0 || w.Clarity < 0 || w.Communication < 0 {
		return fmt.Errorf("rubric weights must not be negative: %+v", w)
	}
	return nil
}

// RubricScorer grades answers on a 0..10 scale from their similarity to the
// ideal answer and their length.
type RubricScorer struct {
	embedder ai.Embedder
	opts     RubricOptions
	logger   *zap.Logger
}

// NewRubricScorer creates a rubric scorer.
func NewRubricScorer(embedder ai.Embedder, opts RubricOptions, logger *zap.Logger) (*RubricScorer, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required for rubric scoring")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RubricScorer{embedder: embedder, opts: opts, logger: logger}, nil
}

func (s *RubricScorer) Mode() string { return ModeRubric }

func (s *RubricScorer) Score(ctx context.Context, userAnswer, idealAnswer string) (interview.ScoreResult, error) {
	answer := Preprocess(userAnswer)
	ideal := Preprocess(idealAnswer)
	wc := WordCount(answer)

	result := interview.ScoreResult{MaxScore: rubricMaxScore, Mode: ModeRubric}

	if wc < s.opts.MinWords {
		result.WhyLost = []string{ReasonTooShort}
		return result, nil
	}

	if ideal == "" {
		result.WhyLost = []string{ReasonNotRelevant}
		return result, nil
	}

	sim, err := similarity(ctx, s.embedder, answer, ideal)
	if err != nil {
		return interview.ScoreResult{}, err
	}
	result.Similarity = sim

	if sim < s.opts.RelevanceFloor {
		result.WhyLost = []string{ReasonNotRelevant}
		return result, nil
	}

	b := interview.Breakdown{
		Technical:     clampSubScore(int(math.Floor(sim * 10))),
		Communication: clampSubScore(max(minCommunication, wc/wordsPerCommunicationPoint)),
		Clarity:       clampSubScore(int(math.Floor(sim * clarityScale))),
	}
	result.Breakdown = b
	result.Score = s.final(b)
	result.WhyLost = whyLost(b)

	s.logger.Debug("answer scored",
		zap.String("mode", ModeRubric),
		zap.Int("words", wc),
		zap.Float64("similarity", sim),
		zap.Int("score", result.Score),
	)

	return result, nil
}

// final combines the sub-scores. Explicit conversions rule out fused
// multiply-add.
func (s *RubricScorer) final(b interview.Breakdown) int {
	w := s.opts.Weights
	total := float64(float64(b.Technical)*w.Technical) +
		float64(float64(b.Clarity)*w.Clarity) +
		float64(float64(b.Communication)*w.Communication)
	return min(rubricMaxScore, int(math.Floor(total)))
}

func whyLost(b interview.Breakdown) []string {
	var reasons []string
	if b.Technical < weakSubScore {
		reasons = append(reasons, reasonTechnical)
	}
	if b.Clarity < weakSubScore {
		reasons = append(reasons, reasonClarity)
	}
	if b.Communication < weakSubScore {
		reasons = append(reasons, reasonCommunication)
	}
	if len(reasons) == 0 {
		reasons = []string{reasonStrong}
	}
	return reasons
}

func clampSubScore(v int) int {
	return min(subScoreMax, max(0, v))
}
