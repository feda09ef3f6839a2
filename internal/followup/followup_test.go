package followup

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/ai/aitest"
	"github.com/spigell/interview-coach/internal/interview"
)

const longAnswer = "I designed the caching layer with a write-through strategy and measured latency before and after the rollout in production"

func newEngine(t *testing.T, gen *aitest.Generator, opts Options) *Engine {
	t.Helper()
	e, err := NewEngine(gen, rand.New(rand.NewPCG(1, 2)), opts, nil)
	require.NoError(t, err)
	return e
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		score  int
		words  int
		opts   Options
		expect interview.ReactionType
	}{
		{name: "zero", score: 0, words: 40, expect: interview.ReactionProbe},
		{name: "below probe", score: 3, words: 40, expect: interview.ReactionProbe},
		{name: "clarify lower bound", score: 4, words: 40, expect: interview.ReactionClarify},
		{name: "clarify upper bound", score: 6, words: 40, expect: interview.ReactionClarify},
		{name: "good", score: 7, words: 40, expect: interview.ReactionAcknowledge},
		{name: "short without interrupts", score: 2, words: 3, expect: interview.ReactionProbe},
		{name: "short with interrupts", score: 8, words: 3, opts: Options{Interrupts: true}, expect: interview.ReactionInterrupt},
		{name: "long with interrupts", score: 8, words: 15, opts: Options{Interrupts: true}, expect: interview.ReactionAcknowledge},
		{name: "custom threshold", score: 7, words: 40, opts: Options{GoodThreshold: 9}, expect: interview.ReactionClarify},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, Classify(tt.score, tt.words, tt.opts))
		})
	}
}

func TestReactAcknowledgesGoodAnswers(t *testing.T) {
	gen := &aitest.Generator{}
	e := newEngine(t, gen, DefaultOptions())

	got, err := e.React(context.Background(), Input{Question: "Q?", Answer: longAnswer, Score: 8, Personality: interview.PersonalityMentor})
	require.NoError(t, err)

	assert.Equal(t, interview.ReactionAcknowledge, got.Reaction.Type)
	assert.Contains(t, reactionPools[interview.ReactionAcknowledge], got.Reaction.Text)
	assert.Empty(t, got.FollowupQuestion)
	assert.Empty(t, gen.Calls())
}

func TestReactAsksFollowupForWeakAnswers(t *testing.T) {
	tests := []struct {
		personality interview.Personality
		score       int
		answer      string
		reaction    interview.ReactionType
		hint        string
	}{
		{personality: interview.PersonalityMentor, score: 2, answer: longAnswer, reaction: interview.ReactionProbe, hint: bandClarification.hint},
		{personality: interview.PersonalityTechnical, score: 5, answer: longAnswer, reaction: interview.ReactionClarify, hint: bandDepth.hint},
		{personality: interview.PersonalityHR, score: 6, answer: longAnswer, reaction: interview.ReactionClarify, hint: bandAdvanced.hint},
		{personality: interview.PersonalityManager, score: 0, answer: "...", reaction: interview.ReactionProbe, hint: bandRephrase.hint},
	}

	for _, tt := range tests {
		t.Run(string(tt.personality), func(t *testing.T) {
			gen := &aitest.Generator{}
			gen.Enqueue(aitest.Response{Text: "  \"What metrics did you watch during the rollout? And why?\"\nextra line"})
			e := newEngine(t, gen, DefaultOptions())

			got, err := e.React(context.Background(), Input{Question: "How did you build the cache?", Answer: tt.answer, Score: tt.score, Personality: tt.personality})
			require.NoError(t, err)

			assert.Equal(t, tt.reaction, got.Reaction.Type)
			assert.Contains(t, reactionPools[tt.reaction], got.Reaction.Text)
			assert.Equal(t, "What metrics did you watch during the rollout?", got.FollowupQuestion)

			calls := gen.Calls()
			require.Len(t, calls, 1)
			prompt := calls[0].Prompt
			assert.Contains(t, prompt, tt.personality.Profile().FollowupInstruction)
			assert.Contains(t, prompt, tt.hint)
			assert.Contains(t, prompt, "How did you build the cache?")
			assert.Contains(t, prompt, tt.answer)
			require.NotNil(t, calls[0].Opts.Temperature)
			assert.InDelta(t, 0.85, *calls[0].Opts.Temperature, 1e-6)
		})
	}
}

func TestReactResamplesEmptyOutput(t *testing.T) {
	gen := &aitest.Generator{}
	gen.Enqueue(
		aitest.Response{Text: "   \n  "},
		aitest.Response{Err: ai.ErrEmptyResponse},
		aitest.Response{Text: "Which cache eviction policy did you choose?"},
	)
	e := newEngine(t, gen, DefaultOptions())

	got, err := e.React(context.Background(), Input{Question: "Q?", Answer: longAnswer, Score: 3})
	require.NoError(t, err)
	assert.Equal(t, "Which cache eviction policy did you choose?", got.FollowupQuestion)
	assert.Len(t, gen.Calls(), 3)
}

func TestReactGivesUpAfterRepeatedEmptyOutput(t *testing.T) {
	gen := &aitest.Generator{Fallback: ""}
	e := newEngine(t, gen, DefaultOptions())

	_, err := e.React(context.Background(), Input{Question: "Q?", Answer: longAnswer, Score: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrEmptyResponse)
	assert.Len(t, gen.Calls(), maxSampleAttempts)
}

func TestReactSurfacesGeneratorErrors(t *testing.T) {
	boom := errors.New("upstream unavailable")
	gen := &aitest.Generator{}
	gen.Enqueue(aitest.Response{Err: boom})
	e := newEngine(t, gen, DefaultOptions())

	_, err := e.React(context.Background(), Input{Question: "Q?", Answer: longAnswer, Score: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, gen.Calls(), 1)
}

func TestReactGeneratesReactionsWhenEnabled(t *testing.T) {
	gen := &aitest.Generator{Respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Respond with ONE sentence only.") {
			return "Hold on, can you be more specific about the numbers?", nil
		}
		return "What did the latency numbers look like?", nil
	}}

	e := newEngine(t, gen, Options{Interrupts: true, GenerateReactions: true})

	got, err := e.React(context.Background(), Input{Question: "Q?", Answer: "It was fast.", Score: 0})
	require.NoError(t, err)

	assert.Equal(t, interview.ReactionInterrupt, got.Reaction.Type)
	assert.Equal(t, "Hold on, can you be more specific about the numbers?", got.Reaction.Text)
	assert.Equal(t, "What did the latency numbers look like?", got.FollowupQuestion)
	assert.Equal(t, 1, gen.CallsContaining(reactionInstructions[interview.ReactionInterrupt]))
}

func TestReactShortGoodAnswerInterruptsWithoutFollowup(t *testing.T) {
	gen := &aitest.Generator{}
	e := newEngine(t, gen, Options{Interrupts: true})

	got, err := e.React(context.Background(), Input{Question: "Q?", Answer: "Done.", Score: 9})
	require.NoError(t, err)
	assert.Equal(t, interview.ReactionInterrupt, got.Reaction.Type)
	assert.Empty(t, got.FollowupQuestion)
	assert.Empty(t, gen.Calls())
}

func TestNewEngineRequiresGenerator(t *testing.T) {
	_, err := NewEngine(nil, rand.New(rand.NewPCG(1, 1)), DefaultOptions(), nil)
	assert.Error(t, err)
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "Why?", firstSentence("\n\n 'Why? Because.'"))
	assert.Equal(t, "Tell me more.", firstSentence("Tell me more.\nSecond"))
	assert.Equal(t, "", firstSentence(" \n\t"))
}
