package scoring

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/spigell/interview-coach/internal/ai"
)

// Preprocess lower-cases text, drops every rune that is neither alphanumeric
// nor whitespace and collapses the whitespace. Punctuation inside a word
// joins its parts: "don't" is one word, so is "state-of-the-art".
func Preprocess(text string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, text)
	return strings.Join(strings.Fields(mapped), " ")
}

// WordCount counts whitespace separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func similarity(ctx context.Context, embedder ai.Embedder, answer, ideal string) (float64, error) {
	a, err := embedder.Embed(ctx, answer)
	if err != nil {
		return 0, fmt.Errorf("embed answer: %w", err)
	}

	b, err := embedder.Embed(ctx, ideal)
	if err != nil {
		return 0, fmt.Errorf("embed ideal answer: %w", err)
	}

	return ai.CosineSimilarity(a, b), nil
}
