package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a provider answers with no usable text.
var ErrEmptyResponse = errors.New("ai provider returned empty response")

// GenerateOptions controls a single generation call. Nil sampling fields mean
// greedy decoding.
type GenerateOptions struct {
	MaxTokens   int32
	Temperature *float32
	TopP        *float32
}

// Sampled reports whether the call asks for non-deterministic output.
func (o GenerateOptions) Sampled() bool {
	return o.Temperature != nil || o.TopP != nil
}

// Greedy returns options for deterministic decoding.
func Greedy(maxTokens int32) GenerateOptions {
	return GenerateOptions{MaxTokens: maxTokens}
}

// Sampling returns options for temperature / top-p sampling. A non-positive
// topP is left unset.
func Sampling(maxTokens int32, temperature, topP float32) GenerateOptions {
	opts := GenerateOptions{MaxTokens: maxTokens, Temperature: &temperature}
	if topP > 0 {
		opts.TopP = &topP
	}
	return opts
}

// Generator maps a prompt to generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Embedder maps text to a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
