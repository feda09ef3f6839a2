package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/interview-coach/internal/ai"
)

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeModels struct {
	mu         sync.Mutex
	generate   []fakeResponse
	embeddings []*genai.EmbedContentResponse
	embedErr   error
	configs    []*genai.GenerateContentConfig
	models     []string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs = append(f.configs, config)
	f.models = append(f.models, model)
	if len(f.generate) == 0 {
		return nil, errors.New("unexpected call")
	}
	next := f.generate[0]
	f.generate = f.generate[1:]
	return next.resp, next.err
}

func (f *fakeModels) EmbedContent(_ context.Context, model string, _ []*genai.Content, _ *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models = append(f.models, model)
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if len(f.embeddings) == 0 {
		return nil, errors.New("unexpected call")
	}
	next := f.embeddings[0]
	f.embeddings = f.embeddings[1:]
	return next, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func noWait(t *testing.T) {
	t.Helper()
	original := wait
	wait = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { wait = original })
}

func TestClientRetriesOnTemporaryError(t *testing.T) {
	noWait(t)

	models := &fakeModels{generate: []fakeResponse{
		{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}},
		{resp: textResponse("  retry ok  ")},
	}}

	c := newClient(models, Config{Model: "gemini-pro", MaxRetries: 2}, zap.NewNop())

	output, err := c.Generate(context.Background(), "prompt", ai.Greedy(32))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(models.configs) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.configs))
	}

	for _, cfg := range models.configs {
		if cfg.MaxOutputTokens != 32 {
			t.Fatalf("expected max output tokens 32, got %d", cfg.MaxOutputTokens)
		}
		if cfg.Temperature == nil || *cfg.Temperature != 0 {
			t.Fatalf("expected greedy temperature 0")
		}
	}
}

func TestClientStopsAfterRetriesExhausted(t *testing.T) {
	noWait(t)

	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	models := &fakeModels{generate: []fakeResponse{{err: tempErr}, {err: tempErr}}}

	c := newClient(models, Config{MaxRetries: 2}, zap.NewNop())

	_, err := c.Generate(context.Background(), "prompt", ai.Greedy(0))
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	if len(models.configs) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.configs))
	}
}

func TestClientDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	noWait(t)

	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}
	models := &fakeModels{generate: []fakeResponse{{err: quotaErr}}}

	c := newClient(models, Config{MaxRetries: 3}, zap.NewNop())

	_, err := c.Generate(context.Background(), "prompt", ai.Greedy(0))
	if err == nil {
		t.Fatal("expected error when quota delay too long")
	}

	if len(models.configs) != 1 {
		t.Fatalf("expected single call, got %d", len(models.configs))
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	noWait(t)

	models := &fakeModels{generate: []fakeResponse{
		{err: genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}},
	}}

	c := newClient(models, Config{MaxRetries: 3}, zap.NewNop())

	if _, err := c.Generate(context.Background(), "prompt", ai.Greedy(0)); err == nil {
		t.Fatal("expected error")
	}

	if len(models.configs) != 1 {
		t.Fatalf("expected single call, got %d", len(models.configs))
	}
}

func TestClientSamplingOptionsArePassed(t *testing.T) {
	models := &fakeModels{generate: []fakeResponse{{resp: textResponse("q?")}}}
	c := newClient(models, Config{}, zap.NewNop())

	if _, err := c.Generate(context.Background(), "prompt", ai.Sampling(64, 0.9, 0.95)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := models.configs[0]
	if cfg.Temperature == nil || *cfg.Temperature != 0.9 {
		t.Fatalf("expected temperature 0.9, got %v", cfg.Temperature)
	}
	if cfg.TopP == nil || *cfg.TopP != 0.95 {
		t.Fatalf("expected top-p 0.95, got %v", cfg.TopP)
	}
	if models.models[0] != defaultModel {
		t.Fatalf("expected default model, got %q", models.models[0])
	}
}

func TestClientEmptyResponse(t *testing.T) {
	models := &fakeModels{generate: []fakeResponse{{resp: textResponse("   ")}}}
	c := newClient(models, Config{}, zap.NewNop())

	_, err := c.Generate(context.Background(), "prompt", ai.Greedy(0))
	if !errors.Is(err, ai.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestClientRejectsEmptyPrompt(t *testing.T) {
	c := newClient(&fakeModels{}, Config{}, zap.NewNop())

	if _, err := c.Generate(context.Background(), "  ", ai.Greedy(0)); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

func TestClientEmbed(t *testing.T) {
	models := &fakeModels{embeddings: []*genai.EmbedContentResponse{{
		Embeddings: []*genai.ContentEmbedding{{Values: []float32{0.1, 0.2}}},
	}}}
	c := newClient(models, Config{EmbeddingModel: "embed-x"}, zap.NewNop())

	vec, err := c.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vec) != 2 || vec[1] != 0.2 {
		t.Fatalf("unexpected vector: %v", vec)
	}

	if models.models[0] != "embed-x" {
		t.Fatalf("expected embedding model to be used, got %q", models.models[0])
	}
}

func TestClientEmbedEmptyResult(t *testing.T) {
	models := &fakeModels{embeddings: []*genai.EmbedContentResponse{{}}}
	c := newClient(models, Config{}, zap.NewNop())

	_, err := c.Embed(context.Background(), "hello")
	if !errors.Is(err, ai.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestClientEmbedFailureIsWrapped(t *testing.T) {
	models := &fakeModels{embedErr: errors.New("network down")}
	c := newClient(models, Config{MaxRetries: 1}, zap.NewNop())

	_, err := c.Embed(context.Background(), "hello")
	if err == nil || !errors.Is(err, models.embedErr) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
