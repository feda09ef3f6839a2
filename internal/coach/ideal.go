package coach

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/utils"
)

const idealAnswerPrompt = "Provide an ideal interview answer:\n"

// IdealAnswer returns the reference answer for question, generating it once
// per question text. Concurrent callers asking for the same question share a
// single generation call; each of them stops waiting when its own ctx is
// done, without cancelling the others.
func (s *Service) IdealAnswer(ctx context.Context, question string) (string, error) {
	if s.deps.Generator == nil {
		return "", ErrScoringUnavailable
	}

	if answer, ok := s.deps.Answers.Get(question); ok {
		s.deps.Metrics.CacheLookup(true)
		return answer, nil
	}
	s.deps.Metrics.CacheLookup(false)

	ch := s.ideal.DoChan(question, func() (any, error) {
		if answer, ok := s.deps.Answers.Get(question); ok {
			return answer, nil
		}

		// The generation is shared by every caller waiting on this question,
		// so it must outlive the one that started it.
		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.IdealAnswerTimeout)
		defer cancel()

		raw, err := s.deps.Generator.Generate(genCtx, idealAnswerPrompt+question, ai.Greedy(s.cfg.IdealAnswerMaxTokens))
		if err != nil {
			return "", err
		}

		answer := strings.TrimSpace(raw)
		if answer == "" {
			return "", ai.ErrEmptyResponse
		}

		s.deps.Answers.Set(question, answer)
		s.deps.Logger.Debug("ideal answer generated",
			zap.String("question", utils.TruncateForLog(question, maxLogLength)),
			zap.String("answer", utils.TruncateForLog(answer, maxLogLength)),
		)
		return answer, nil
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("generate ideal answer: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", fmt.Errorf("generate ideal answer: %w", res.Err)
		}
		return res.Val.(string), nil
	}
}
