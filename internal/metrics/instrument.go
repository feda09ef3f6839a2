package metrics

import (
	"context"
	"time"

	"github.com/spigell/interview-coach/internal/ai"
)

type instrumentedGenerator struct {
	next    ai.Generator
	metrics *Metrics
}

// InstrumentGenerator times every Generate call of next.
func InstrumentGenerator(next ai.Generator, m *Metrics) ai.Generator {
	if m == nil {
		return next
	}
	return &instrumentedGenerator{next: next, metrics: m}
}

func (g *instrumentedGenerator) Generate(ctx context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
	start := time.Now()
	text, err := g.next.Generate(ctx, prompt, opts)
	g.metrics.ObserveAICall("generate", err, time.Since(start))
	return text, err
}

type instrumentedEmbedder struct {
	next    ai.Embedder
	metrics *Metrics
}

// InstrumentEmbedder times every Embed call of next.
func InstrumentEmbedder(next ai.Embedder, m *Metrics) ai.Embedder {
	if m == nil {
		return next
	}
	return &instrumentedEmbedder{next: next, metrics: m}
}

func (e *instrumentedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vec, err := e.next.Embed(ctx, text)
	e.metrics.ObserveAICall("embed", err, time.Since(start))
	return vec, err
}
