package coach

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/interview"
)

// LiveRequest is a single answer given during an interactive interview.
type LiveRequest struct {
	SessionID   string
	Personality interview.Personality
	Question    string
	Answer      string
}

// LiveFollowup scores one answer and returns the interviewer's reaction. A
// follow-up question is included only for answers below the good threshold.
// With a session id the reaction joins that session's reaction log, which the
// next batch for the session starts afresh.
func (s *Service) LiveFollowup(ctx context.Context, req LiveRequest) (*ItemResult, error) {
	if !s.canScore() {
		return nil, ErrScoringUnavailable
	}

	detail, err := s.scoreItem(ctx, req.Personality, Item{Question: req.Question, Answer: req.Answer})
	if err != nil {
		s.deps.Logger.Error("live follow-up failed", zap.String("session_id", req.SessionID), zap.Error(err))
		return nil, fmt.Errorf("live follow-up: %w", err)
	}

	if req.SessionID == "" {
		return &detail, nil
	}

	unlock, err := s.deps.Locks.Lock(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("wait for session %s: %w", req.SessionID, err)
	}
	defer unlock()

	if s.deps.Reactions.List(req.SessionID) == nil {
		s.deps.Reactions.Init(req.SessionID)
	}
	s.deps.Reactions.Add(req.SessionID, detail.Reaction)

	return &detail, nil
}
