package scoring

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/interview-coach/internal/ai/aitest"
	"github.com/spigell/interview-coach/internal/interview"
)

const ideal = "Ideal answer: design the cache, measure latency."

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("Cache, latency! ", n/2) + strings.Repeat("metric ", n%2))
}

// at returns a unit vector whose cosine with [1, 0] is s.
func at(s float64) []float32 {
	return []float32{float32(s), float32(math.Sqrt(1 - s*s))}
}

func embedderFor(answer string, sim float64) *aitest.Embedder {
	return &aitest.Embedder{Vectors: map[string][]float32{
		Preprocess(ideal):  {1, 0},
		Preprocess(answer): at(sim),
	}}
}

func newRubric(t *testing.T, e *aitest.Embedder) *RubricScorer {
	t.Helper()
	s, err := NewRubricScorer(e, DefaultRubricOptions(), nil)
	require.NoError(t, err)
	return s
}

func TestPreprocess(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		words int
	}{
		{"  Hello,   WORLD!!\n42 ", "hello world 42", 3},
		{"?!... ", "", 0},
		{"C++/Go", "cgo", 1},
		{"one-two three", "onetwo three", 2},
		{"don't stop", "dont stop", 2},
		{"state-of-the-art low-latency", "stateoftheart lowlatency", 2},
		{"tabs\tand\nnew lines", "tabs and new lines", 4},
	}

	for _, tt := range tests {
		got := Preprocess(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.words, WordCount(got), tt.in)
	}
}

func TestRubricHyphenatedShortAnswerIsGated(t *testing.T) {
	answer := "I shipped state-of-the-art low-latency in-memory caches, don't you think"
	e := &aitest.Embedder{}

	got, err := newRubric(t, e).Score(context.Background(), answer, ideal)
	require.NoError(t, err)

	assert.Equal(t, 9, WordCount(Preprocess(answer)))
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, []string{ReasonTooShort}, got.WhyLost)
	assert.Equal(t, 0, e.Calls())
}

func TestRubricShortAnswerSkipsEmbedding(t *testing.T) {
	for _, answer := range []string{"", "   ", "too short answer", words(14), "!!! ??? ... --- ,,, ;;;"} {
		e := &aitest.Embedder{}
		got, err := newRubric(t, e).Score(context.Background(), answer, ideal)
		require.NoError(t, err)

		assert.Equal(t, 0, got.Score)
		assert.Equal(t, interview.Breakdown{}, got.Breakdown)
		assert.Equal(t, []string{ReasonTooShort}, got.WhyLost)
		assert.Equal(t, 10, got.MaxScore)
		assert.Equal(t, 0, e.Calls(), "no embeddings for %q", answer)
	}
}

func TestRubricIrrelevantAnswer(t *testing.T) {
	answer := words(30)
	e := embedderFor(answer, 0.3)

	got, err := newRubric(t, e).Score(context.Background(), answer, ideal)
	require.NoError(t, err)

	assert.Equal(t, 0, got.Score)
	assert.Equal(t, interview.Breakdown{}, got.Breakdown)
	assert.Equal(t, []string{ReasonNotRelevant}, got.WhyLost)
	assert.InDelta(t, 0.3, got.Similarity, 1e-6)
	assert.Equal(t, 2, e.Calls())
	assert.Equal(t, []string{Preprocess(answer), Preprocess(ideal)}, e.Texts())
}

func TestRubricBlankIdealIsIrrelevant(t *testing.T) {
	e := &aitest.Embedder{}
	got, err := newRubric(t, e).Score(context.Background(), words(20), " ... ")
	require.NoError(t, err)
	assert.Equal(t, []string{ReasonNotRelevant}, got.WhyLost)
	assert.Equal(t, 0, e.Calls())
}

func TestRubricScores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		sim       float64
		words     int
		breakdown interview.Breakdown
		score     int
		whyLost   []string
	}{
		{
			name:      "solid but brief",
			sim:       0.87,
			words:     45,
			breakdown: interview.Breakdown{Technical: 8, Clarity: 6, Communication: 4},
			score:     6,
			whyLost:   []string{reasonCommunication},
		},
		{
			name:      "strong",
			sim:       0.95,
			words:     120,
			breakdown: interview.Breakdown{Technical: 9, Clarity: 7, Communication: 6},
			score:     7,
			whyLost:   []string{reasonStrong},
		},
		{
			name:      "weak",
			sim:       0.52,
			words:     20,
			breakdown: interview.Breakdown{Technical: 5, Clarity: 4, Communication: 4},
			score:     4,
			whyLost:   []string{reasonClarity, reasonCommunication},
		},
		{
			name:      "barely relevant",
			sim:       0.36,
			words:     15,
			breakdown: interview.Breakdown{Technical: 3, Clarity: 2, Communication: 4},
			score:     2,
			whyLost:   []string{reasonTechnical, reasonClarity, reasonCommunication},
		},
		{
			name:      "communication capped",
			sim:       1,
			words:     250,
			breakdown: interview.Breakdown{Technical: 10, Clarity: 8, Communication: 10},
			score:     9,
			whyLost:   []string{reasonStrong},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			answer := words(tt.words)
			e := embedderFor(answer, tt.sim)

			got, err := newRubric(t, e).Score(context.Background(), answer, ideal)
			require.NoError(t, err)

			assert.Equal(t, tt.breakdown, got.Breakdown)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.whyLost, got.WhyLost)
			assert.Equal(t, ModeRubric, got.Mode)
		})
	}
}

func TestRubricBoundsHoldForRandomInputs(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))

	for i := 0; i < 500; i++ {
		answer := words(r.IntN(600))
		vec := []float32{float32(r.NormFloat64()), float32(r.NormFloat64()), float32(r.NormFloat64())}
		e := &aitest.Embedder{Vectors: map[string][]float32{Preprocess(ideal): {1, 0.5, -0.25}, Preprocess(answer): vec}}

		got, err := newRubric(t, e).Score(context.Background(), answer, ideal)
		require.NoError(t, err)

		for _, v := range []int{got.Breakdown.Technical, got.Breakdown.Clarity, got.Breakdown.Communication} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 10)
		}
		assert.GreaterOrEqual(t, got.Score, 0)
		assert.LessOrEqual(t, got.Score, 10)
		assert.NotEmpty(t, got.WhyLost)
	}
}

func TestRubricEmbeddingErrorIsReturned(t *testing.T) {
	boom := errors.New("quota exceeded")
	e := &aitest.Embedder{Err: boom}

	_, err := newRubric(t, e).Score(context.Background(), words(30), ideal)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "embed answer")
}

func TestRubricCustomOptions(t *testing.T) {
	answer := words(6)
	e := embedderFor(answer, 0.2)

	opts := RubricOptions{MinWords: 5, RelevanceFloor: 0.1, Weights: Weights{Technical: 1}}
	s, err := NewRubricScorer(e, opts, nil)
	require.NoError(t, err)

	got, err := s.Score(context.Background(), answer, ideal)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Breakdown.Technical)
	assert.Equal(t, 2, got.Score)

	_, err = NewRubricScorer(e, RubricOptions{MinWords: -1}, nil)
	assert.Error(t, err)
	_, err = NewRubricScorer(e, RubricOptions{RelevanceFloor: 2}, nil)
	assert.Error(t, err)
	_, err = NewRubricScorer(nil, DefaultRubricOptions(), nil)
	assert.Error(t, err)
}

func TestSimpleScorer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		words    int
		sim      float64
		score    int
		feedback []string
	}{
		{name: "short and close", words: 10, sim: 0.85, score: 85, feedback: []string{FeedbackTooShort, FeedbackStrong}},
		{name: "long and weak", words: 25, sim: 0.5, score: 50, feedback: []string{FeedbackMissing}},
		{name: "middling", words: 40, sim: 0.7, score: 70, feedback: nil},
		{name: "opposite", words: 40, sim: -0.5, score: 0, feedback: []string{FeedbackMissing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			answer := words(tt.words)
			e := &aitest.Embedder{Vectors: map[string][]float32{ideal: {1, 0}, answer: at(tt.sim)}}

			s, err := NewSimpleScorer(e, nil)
			require.NoError(t, err)

			got, err := s.Score(context.Background(), answer, ideal)
			require.NoError(t, err)

			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.feedback, got.Feedback)
			assert.Equal(t, 100, got.MaxScore)
			assert.Equal(t, ModeSimple, got.Mode)
			assert.Equal(t, interview.Breakdown{}, got.Breakdown)
		})
	}
}

func TestSimpleScorerEmptyAnswer(t *testing.T) {
	e := &aitest.Embedder{}
	s, err := NewSimpleScorer(e, nil)
	require.NoError(t, err)

	got, err := s.Score(context.Background(), "  ", ideal)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, []string{FeedbackTooShort, FeedbackMissing}, got.Feedback)
	assert.Equal(t, 0, e.Calls())
}

func TestNew(t *testing.T) {
	e := &aitest.Embedder{}

	s, err := New(Config{}, e, nil)
	require.NoError(t, err)
	assert.Equal(t, ModeRubric, s.Mode())
	assert.Equal(t, DefaultRubricOptions(), s.(*RubricScorer).opts)

	s, err = New(Config{Mode: ModeSimple}, e, nil)
	require.NoError(t, err)
	assert.Equal(t, ModeSimple, s.Mode())

	_, err = New(Config{Mode: "vibes"}, e, nil)
	assert.Error(t, err)
}
