package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/interview"
)

// Descriptions are embedded once and compared against the resume embedding.
var Descriptions = map[interview.Category]string{
	interview.CategoryIT:         "software developer programming python java backend frontend database cloud devops",
	interview.CategoryHR:         "human resources recruitment hiring payroll employee relations hr policies onboarding",
	interview.CategoryManagerial: "project management leadership strategy operations planning budgeting team lead",
}

// EmbeddingClassifier picks the category whose description embedding is most
// similar to the resume embedding.
type EmbeddingClassifier struct {
	embedder ai.Embedder
	// minSimilarity is what a category has to exceed to beat General.
	minSimilarity float64

	mu          sync.Mutex
	descVectors map[interview.Category][]float32
}

// NewEmbeddingClassifier builds a classifier on top of embedder.
func NewEmbeddingClassifier(embedder ai.Embedder, minSimilarity float64) (*EmbeddingClassifier, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required for the embedding classifier")
	}
	return &EmbeddingClassifier{embedder: embedder, minSimilarity: minSimilarity}, nil
}

func (e *EmbeddingClassifier) Name() string { return StrategyEmbedding }

// Classify returns General for blank text without calling the embedder.
func (e *EmbeddingClassifier) Classify(ctx context.Context, text string) (interview.Category, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return interview.CategoryGeneral, nil
	}

	descs, err := e.descriptions(ctx)
	if err != nil {
		return "", err
	}

	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("embed resume: %w", err)
	}

	best := interview.CategoryGeneral
	bestSim := e.minSimilarity
	for _, category := range keywordOrder {
		sim := ai.CosineSimilarity(vec, descs[category])
		if sim > bestSim {
			best = category
			bestSim = sim
		}
	}

	return best, nil
}

func (e *EmbeddingClassifier) descriptions(ctx context.Context) (map[interview.Category][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.descVectors != nil {
		return e.descVectors, nil
	}

	vectors := make(map[interview.Category][]float32, len(Descriptions))
	for _, category := range keywordOrder {
		vec, err := e.embedder.Embed(ctx, Descriptions[category])
		if err != nil {
			return nil, fmt.Errorf("embed %s description: %w", category, err)
		}
		vectors[category] = vec
	}

	e.descVectors = vectors
	return vectors, nil
}
