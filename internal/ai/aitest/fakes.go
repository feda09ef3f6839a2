// Package aitest provides in-memory generators and embedders for tests.
package aitest

import (
	"context"
	"strings"
	"sync"

	"github.com/spigell/interview-coach/internal/ai"
)

// Embedder returns vectors from a lookup table. Texts missing from the table
// get Default. Every call is counted.
type Embedder struct {
	mu      sync.Mutex
	Vectors map[string][]float32
	Default []float32
	Err     error
	calls   []string
}

func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls = append(e.calls, text)
	if e.Err != nil {
		return nil, e.Err
	}
	if vec, ok := e.Vectors[text]; ok {
		return vec, nil
	}
	if e.Default != nil {
		return e.Default, nil
	}
	return []float32{1, 0, 0}, nil
}

// Calls returns how many times Embed was invoked.
func (e *Embedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

// Texts returns every text passed to Embed, in call order.
func (e *Embedder) Texts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// Call records a single Generate invocation.
type Call struct {
	Prompt string
	Opts   ai.GenerateOptions
}

// Generator replays queued responses. When the queue is empty it answers with
// Respond (if set) or Fallback.
type Generator struct {
	mu       sync.Mutex
	queue    []Response
	Respond  func(prompt string) (string, error)
	Fallback string
	calls    []Call
}

// Response is a queued generator answer.
type Response struct {
	Text string
	Err  error
}

// Enqueue appends responses returned in FIFO order.
func (g *Generator) Enqueue(responses ...Response) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queue = append(g.queue, responses...)
}

func (g *Generator) Generate(_ context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, Call{Prompt: prompt, Opts: opts})
	if len(g.queue) > 0 {
		next := g.queue[0]
		g.queue = g.queue[1:]
		return next.Text, next.Err
	}
	if g.Respond != nil {
		return g.Respond(prompt)
	}
	return g.Fallback, nil
}

// Calls returns a copy of the recorded calls.
func (g *Generator) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Call(nil), g.calls...)
}

// CallsContaining counts prompts containing substr.
func (g *Generator) CallsContaining(substr string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if strings.Contains(c.Prompt, substr) {
			n++
		}
	}
	return n
}
