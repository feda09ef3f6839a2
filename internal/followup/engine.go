package followup

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/interview"
	"github.com/spigell/interview-coach/internal/scoring"
	"github.com/spigell/interview-coach/internal/utils"
)

const (
	generationMaxTokens   = 64
	generationTemperature = 0.85
	maxSampleAttempts     = 3
	maxLogLength          = 200
)

// Input is one answered question. Score is on the 0..10 scale.
type Input struct {
	Question    string
	Answer      string
	Score       int
	Personality interview.Personality
}

// Outcome is the interviewer's reaction and, for answers below the good
// threshold, a follow-up question.
type Outcome struct {
	Reaction         interview.Reaction `json:"reaction"`
	FollowupQuestion string             `json:"followup_question,omitempty"`
}

// Engine turns scored answers into reactions. It keeps no per-session state.
type Engine struct {
	generator ai.Generator
	opts      Options
	logger    *zap.Logger

	mu   sync.Mutex
	rand *rand.Rand
}

// NewEngine creates an engine asking generator for follow-up questions.
func NewEngine(generator ai.Generator, r *rand.Rand, opts Options, logger *zap.Logger) (*Engine, error) {
	if generator == nil {
		return nil, errors.New("generator is required for follow-ups")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{generator: generator, opts: opts.withDefaults(), logger: logger, rand: r}, nil
}

// GoodThreshold is the score from which no follow-up is asked.
func (e *Engine) GoodThreshold() int { return e.opts.GoodThreshold }

func (e *Engine) React(ctx context.Context, in Input) (Outcome, error) {
	wc := scoring.WordCount(in.Answer)
	reactionType := Classify(in.Score, wc, e.opts)

	var out Outcome
	if reactionType == interview.ReactionAcknowledge || !e.opts.GenerateReactions {
		out.Reaction = interview.Reaction{Type: reactionType, Text: e.pick(reactionPools[reactionType])}
	} else {
		text, err := e.sample(ctx, reactionPrompt(in, reactionType))
		if err != nil {
			return Outcome{}, fmt.Errorf("generate %s reaction: %w", reactionType, err)
		}
		out.Reaction = interview.Reaction{Type: reactionType, Text: text}
	}

	if in.Score >= e.opts.GoodThreshold {
		return out, nil
	}

	b := bandFor(in.Score, scoring.Preprocess(in.Answer) != "")
	question, err := e.sample(ctx, followupPrompt(in, b))
	if err != nil {
		return Outcome{}, fmt.Errorf("generate follow-up question: %w", err)
	}
	out.FollowupQuestion = question

	e.logger.Debug("follow-up generated",
		zap.String("reaction", string(reactionType)),
		zap.Int("score", in.Score),
		zap.String("followup", utils.TruncateForLog(question, maxLogLength)),
	)

	return out, nil
}

// sample calls the generator and re-samples when it returns nothing usable.
func (e *Engine) sample(ctx context.Context, prompt string) (string, error) {
	for attempt := 1; attempt <= maxSampleAttempts; attempt++ {
		raw, err := e.generator.Generate(ctx, prompt, ai.Sampling(generationMaxTokens, generationTemperature, 0))
		if err != nil && !errors.Is(err, ai.ErrEmptyResponse) {
			return "", err
		}

		if text := firstSentence(raw); text != "" {
			return text, nil
		}
		e.logger.Debug("empty generation, re-sampling", zap.Int("attempt", attempt))
	}
	return "", ai.ErrEmptyResponse
}

// firstSentence keeps the first non-blank line, cut after its first "?" if
// it has one.
func firstSentence(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "\"'`")
		if line == "" {
			continue
		}
		if idx := strings.Index(line, "?"); idx >= 0 {
			line = line[:idx+1]
		}
		return strings.TrimSpace(line)
	}
	return ""
}

func (e *Engine) pick(pool []string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return pool[e.rand.IntN(len(pool))]
}
