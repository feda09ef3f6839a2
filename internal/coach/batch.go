package coach

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/followup"
	"github.com/spigell/interview-coach/internal/interview"
	"github.com/spigell/interview-coach/internal/logger"
)

// Reactor produces the interviewer's reaction to a scored answer.
type Reactor interface {
	React(ctx context.Context, in followup.Input) (followup.Outcome, error)
}

// Item is one answered question.
type Item struct {
	Question string `json:"question" mapstructure:"question"`
	Answer   string `json:"answer" mapstructure:"answer"`
}

// BatchRequest is a set of answers scored together for one session.
type BatchRequest struct {
	SessionID   string
	Personality interview.Personality
	Items       []Item
}

// ItemResult is the scoring outcome of a single Item.
type ItemResult struct {
	Question         string                `json:"question"`
	Answer           string                `json:"answer"`
	IdealAnswer      string                `json:"ideal_answer"`
	Result           interview.ScoreResult `json:"result"`
	Reaction         interview.Reaction    `json:"reaction"`
	FollowupQuestion string                `json:"followup_question,omitempty"`
	NextDifficulty   interview.Difficulty  `json:"next_difficulty"`
}

// BatchResult aggregates a scored batch.
type BatchResult struct {
	SessionID string `json:"session_id"`
	// OverallScore is the percentage of the maximum attainable score.
	OverallScore int                  `json:"overall_score"`
	Details      []ItemResult         `json:"details"`
	Reactions    []interview.Reaction `json:"reactions"`
}

// ScoreBatch scores items strictly in order. Progress and the reaction log
// are reset when the batch starts and torn down when it returns, whatever the
// outcome. Batches for the same session never interleave.
func (s *Service) ScoreBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	if req.SessionID == "" {
		return nil, ErrMissingSessionID
	}
	if !s.canScore() {
		return nil, ErrScoringUnavailable
	}

	unlock, err := s.deps.Locks.Lock(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("wait for session %s: %w", req.SessionID, err)
	}
	defer unlock()

	done := s.deps.Metrics.BatchStarted()
	defer done()

	log := logger.WithSession(s.deps.Logger, req.SessionID, string(req.Personality), "")

	s.deps.Progress.Init(req.SessionID, len(req.Items))
	s.deps.Reactions.Init(req.SessionID)
	defer func() {
		s.deps.Progress.Clear(req.SessionID)
		s.deps.Reactions.Clear(req.SessionID)
	}()

	result := &BatchResult{SessionID: req.SessionID, Details: make([]ItemResult, 0, len(req.Items))}
	total, maxTotal := 0, 0

	for i, item := range req.Items {
		if err := ctx.Err(); err != nil {
			log.Warn("scoring batch cancelled", zap.Int("scored", i), zap.Error(err))
			return nil, fmt.Errorf("score batch: %w", err)
		}

		detail, err := s.scoreItem(ctx, req.Personality, item)
		if err != nil {
			log.Error("failed to score answer", zap.Int("item", i), zap.Error(err))
			return nil, fmt.Errorf("score item %d: %w", i+1, err)
		}

		s.deps.Reactions.Add(req.SessionID, detail.Reaction)
		s.deps.Progress.Increment(req.SessionID)

		total += detail.Result.Score
		maxTotal += detail.Result.MaxScore
		result.Details = append(result.Details, detail)
	}

	result.OverallScore = overallScore(total, maxTotal)
	result.Reactions = s.deps.Reactions.List(req.SessionID)

	log.Info("scoring batch finished",
		zap.Int("items", len(req.Items)),
		zap.Int("overall_score", result.OverallScore),
	)

	return result, nil
}

func (s *Service) scoreItem(ctx context.Context, personality interview.Personality, item Item) (ItemResult, error) {
	ideal, err := s.IdealAnswer(ctx, item.Question)
	if err != nil {
		return ItemResult{}, err
	}

	scored, err := s.deps.Scorer.Score(ctx, item.Answer, ideal)
	if err != nil {
		return ItemResult{}, fmt.Errorf("score answer: %w", err)
	}
	normalized := scored.Normalized()
	s.deps.Metrics.AnswerScored(scored.Mode, normalized)

	outcome, err := s.deps.Followup.React(ctx, followup.Input{
		Question:    item.Question,
		Answer:      item.Answer,
		Score:       normalized,
		Personality: personality,
	})
	if err != nil {
		return ItemResult{}, err
	}
	s.deps.Metrics.Reaction(string(outcome.Reaction.Type), string(personality))

	return ItemResult{
		Question:         item.Question,
		Answer:           item.Answer,
		IdealAnswer:      ideal,
		Result:           scored,
		Reaction:         outcome.Reaction,
		FollowupQuestion: outcome.FollowupQuestion,
		NextDifficulty:   s.NextDifficulty(normalized),
	}, nil
}

// overallScore is floor(total / maxTotal * 100), zero for an empty batch.
func overallScore(total, maxTotal int) int {
	if maxTotal <= 0 {
		return 0
	}
	return int(float64(total) / float64(maxTotal) * 100)
}
