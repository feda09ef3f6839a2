package coach

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/classify"
	"github.com/spigell/interview-coach/internal/interview"
	"github.com/spigell/interview-coach/internal/logger"
	"github.com/spigell/interview-coach/internal/questions"
	"github.com/spigell/interview-coach/internal/resume"
)

// StartRequest opens a session. An empty Personality is drawn at random.
type StartRequest struct {
	SessionID    string
	ResumeText   string
	AlreadyAsked []string
	Personality  interview.Personality
}

// Session is the outcome of StartSession.
type Session struct {
	ID          string                        `json:"session_id"`
	Category    interview.Category            `json:"category"`
	Personality interview.Personality         `json:"personality"`
	Classifier  string                        `json:"classifier"`
	Strategy    string                        `json:"strategy"`
	Intro       string                        `json:"intro"`
	Signals     []string                      `json:"signals"`
	Questions   []interview.GeneratedQuestion `json:"questions"`
}

// StartSession classifies the resume, assigns a personality and synthesizes
// the first batch of questions at Easy difficulty.
func (s *Service) StartSession(ctx context.Context, req StartRequest) (*Session, error) {
	normalized := resume.Normalize(req.ResumeText)

	category, err := s.deps.Classifier.Classify(ctx, normalized)
	if err != nil {
		s.deps.Logger.Error("failed to classify resume", zap.String("session_id", req.SessionID), zap.Error(err))
		return nil, fmt.Errorf("classify resume: %w", err)
	}

	personality := req.Personality
	if personality == "" {
		s.randMu.Lock()
		personality = classify.PickPersonality(s.deps.Rand)
		s.randMu.Unlock()
	}

	log := logger.WithSession(s.deps.Logger, req.SessionID, string(personality), string(category))

	signals := resume.Texts(resume.ExtractSignals(normalized))

	batch, err := s.deps.Synthesizer.Synthesize(ctx, questions.Request{
		Signals:      signals,
		ResumeText:   normalized,
		Category:     category,
		Personality:  personality,
		Difficulty:   interview.DifficultyEasy,
		AlreadyAsked: req.AlreadyAsked,
		TargetCount:  s.cfg.TargetCount,
	})
	switch {
	case errors.Is(err, questions.ErrExhausted):
		log.Warn("question pool exhausted, continuing with a partial batch",
			zap.Int("questions", len(batch)), zap.Int("target", s.cfg.TargetCount))
	case err != nil:
		log.Error("failed to synthesize questions", zap.Error(err))
		return nil, fmt.Errorf("synthesize questions: %w", err)
	}

	generic := 0
	for _, q := range batch {
		if questions.IsGeneric(q.Text) {
			generic++
		}
	}
	s.deps.Metrics.QuestionsSynthesized(s.deps.Synthesizer.Name(), len(batch)-generic, generic)

	log.Info("session started",
		zap.Int("signals", len(signals)),
		zap.Int("questions", len(batch)),
		zap.Int("generic", generic),
	)

	return &Session{
		ID:          req.SessionID,
		Category:    category,
		Personality: personality,
		Classifier:  s.deps.Classifier.Name(),
		Strategy:    s.deps.Synthesizer.Name(),
		Intro:       personality.Profile().Intro,
		Signals:     signals,
		Questions:   batch,
	}, nil
}

// NextDifficulty picks the difficulty of the next question from the last
// answer's 0..10 score.
func (s *Service) NextDifficulty(score int) interview.Difficulty {
	return questions.NextDifficulty(score, s.cfg.Difficulty)
}

// Progress reports the running batch of a session, zero when none is running.
func (s *Service) Progress(sessionID string) interview.Progress {
	return s.deps.Progress.Get(sessionID)
}
