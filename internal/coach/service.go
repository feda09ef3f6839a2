// Package coach drives an interview: it starts sessions from a resume, scores
// answered batches and reacts to single answers.
package coach

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/classify"
	"github.com/spigell/interview-coach/internal/metrics"
	"github.com/spigell/interview-coach/internal/questions"
	"github.com/spigell/interview-coach/internal/scoring"
	"github.com/spigell/interview-coach/internal/session"
)

const (
	defaultTargetCount          = 5
	defaultIdealAnswerMaxTokens = 96
	defaultIdealAnswerTimeout   = time.Minute
	maxLogLength                = 200
)

var (
	// ErrMissingSessionID is returned when a batch has no session identifier.
	ErrMissingSessionID = errors.New("missing session id")
	// ErrScoringUnavailable is returned by scoring operations of a service
	// built without a generator, scorer or follow-up engine.
	ErrScoringUnavailable = errors.New("scoring is not configured")
)

// Config tunes the orchestration.
type Config struct {
	TargetCount          int
	Difficulty           questions.DifficultyThresholds
	IdealAnswerMaxTokens int32
	// IdealAnswerTimeout bounds a shared ideal answer generation.
	IdealAnswerTimeout time.Duration
}

// Deps are the collaborators of a Service. Scorer, Followup and Generator are
// needed only for scoring; Metrics may be nil.
type Deps struct {
	Classifier  classify.Classifier
	Synthesizer questions.Synthesizer
	Scorer      scoring.Scorer
	Followup    Reactor
	Generator   ai.Generator

	Progress  session.ProgressStore
	Reactions session.ReactionLog
	Answers   session.IdealAnswerCache
	Locks     *session.KeyedMutex

	Metrics *metrics.Metrics
	Logger  *zap.Logger
	Rand    *rand.Rand
}

// Service wires the pipeline together. It is safe for concurrent use; work on
// the same session id is serialised.
type Service struct {
	cfg  Config
	deps Deps

	ideal singleflight.Group

	randMu sync.Mutex
}

// New validates deps and fills config defaults.
func New(cfg Config, deps Deps) (*Service, error) {
	switch {
	case deps.Classifier == nil:
		return nil, fmt.Errorf("classifier is required")
	case deps.Synthesizer == nil:
		return nil, fmt.Errorf("question synthesizer is required")
	case deps.Rand == nil:
		return nil, fmt.Errorf("random source is required")
	}

	if deps.Progress == nil || deps.Reactions == nil || deps.Answers == nil {
		mem := session.NewMemory(nil)
		if deps.Progress == nil {
			deps.Progress = mem.Progress
		}
		if deps.Reactions == nil {
			deps.Reactions = mem.Reactions
		}
		if deps.Answers == nil {
			deps.Answers = mem.Answers
		}
	}
	if deps.Locks == nil {
		deps.Locks = session.NewKeyedMutex()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	if cfg.TargetCount <= 0 {
		cfg.TargetCount = defaultTargetCount
	}
	if cfg.Difficulty == (questions.DifficultyThresholds{}) {
		cfg.Difficulty = questions.DefaultDifficultyThresholds()
	}
	if cfg.IdealAnswerMaxTokens <= 0 {
		cfg.IdealAnswerMaxTokens = defaultIdealAnswerMaxTokens
	}
	if cfg.IdealAnswerTimeout <= 0 {
		cfg.IdealAnswerTimeout = defaultIdealAnswerTimeout
	}

	return &Service{cfg: cfg, deps: deps}, nil
}

func (s *Service) canScore() bool {
	return s.deps.Scorer != nil && s.deps.Followup != nil && s.deps.Generator != nil
}
