// Package questions synthesizes interview questions from resume signals,
// either from curated templates or through a text generator.
package questions

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spigell/interview-coach/internal/interview"
)

const (
	StrategyTemplate   = "template"
	StrategyGenerative = "generative"

	ExhaustRepeat = "repeat"
	ExhaustError  = "error"
)

// ErrExhausted is returned, together with the partial batch, when distinct
// questions ran out and the synthesizer is configured not to repeat.
var ErrExhausted = errors.New("distinct questions exhausted")

// Request describes one batch of questions.
type Request struct {
	Signals      []string
	ResumeText   string
	Category     interview.Category
	Personality  interview.Personality
	Difficulty   interview.Difficulty
	AlreadyAsked []string
	TargetCount  int
}

// Synthesizer produces exactly TargetCount questions, none of which appears in
// AlreadyAsked or twice in the batch.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, req Request) ([]interview.GeneratedQuestion, error)
}

// PaddingOptions controls the generic fallback loop.
type PaddingOptions struct {
	// MaxAttempts bounds the generic × tone loop. Zero tries every
	// combination once.
	MaxAttempts int
	// OnExhausted is ExhaustRepeat or ExhaustError.
	OnExhausted string
}

func newSeen(asked []string) map[string]struct{} {
	seen := make(map[string]struct{}, len(asked))
	for _, q := range asked {
		seen[q] = struct{}{}
	}
	return seen
}

// padGeneric tops out up to req.TargetCount with generic questions. Every
// generic × tone combination is tried at most once, in shuffled order.
func padGeneric(r *rand.Rand, opts PaddingOptions, out []interview.GeneratedQuestion, seen map[string]struct{}, req Request) ([]interview.GeneratedQuestion, error) {
	tones := tonesFor(req.Personality)

	add := func(text string) bool {
		if _, dup := seen[text]; dup {
			return false
		}
		seen[text] = struct{}{}
		out = append(out, interview.GeneratedQuestion{Text: text, Difficulty: req.Difficulty})
		return true
	}

	combos := make([]string, 0, len(GenericQuestions)*len(tones))
	for _, generic := range GenericQuestions {
		for _, tone := range tones {
			combos = append(combos, tone+" "+generic)
		}
	}
	r.Shuffle(len(combos), func(i, j int) { combos[i], combos[j] = combos[j], combos[i] })

	maxAttempts := len(combos)
	if opts.MaxAttempts > 0 && opts.MaxAttempts < maxAttempts {
		maxAttempts = opts.MaxAttempts
	}

	for attempt := 0; len(out) < req.TargetCount && attempt < maxAttempts; attempt++ {
		add(combos[attempt])
	}

	if len(out) >= req.TargetCount {
		return out, nil
	}

	if opts.OnExhausted == ExhaustError {
		return out, fmt.Errorf("%w: produced %d of %d questions", ErrExhausted, len(out), req.TargetCount)
	}

	// Numbered repeats are distinct strings, so every round makes progress
	// unless the caller already asked all of them.
	for round := 2; len(out) < req.TargetCount; round++ {
		for _, generic := range GenericQuestions {
			if len(out) >= req.TargetCount {
				break
			}
			add(fmt.Sprintf("Follow-up %d: %s %s", round, tones[r.IntN(len(tones))], generic))
		}
	}

	return out, nil
}

// terminate cuts text after its first question mark. ok is false when there
// is none.
func terminate(text string) (string, bool) {
	idx := strings.Index(text, "?")
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(text[:idx+1]), true
}
