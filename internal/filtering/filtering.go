// Package filtering runs generated question candidates through a sequence of
// filter steps before they are accepted into a batch.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to candidates.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, deps Deps, c *Candidates) (*Candidates, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
	// Asked holds every question that must not be produced again: the
	// caller's history plus questions already accepted into the batch.
	Asked map[string]struct{}
}

// Candidates is the working set of question texts.
type Candidates struct {
	Items []string
}

// Len returns the number of candidates.
func (c *Candidates) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// keep retains items for which fn returns the (possibly rewritten) text and true.
func (c *Candidates) keep(fn func(string) (string, bool)) []string {
	kept := c.Items[:0]
	var dropped []string
	for _, item := range c.Items {
		if next, ok := fn(item); ok {
			kept = append(kept, next)
			continue
		}
		dropped = append(dropped, item)
	}
	c.Items = kept
	return dropped
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
// It reports whether such a filter exists.
func DisableByName(steps []Filter, name, reason string) bool {
	found := false
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
			found = true
		}
	}
	return found
}

// Run executes the supplied filters sequentially and returns the surviving candidates.
func Run(ctx context.Context, deps Deps, steps []Filter, c *Candidates) (*Candidates, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}

		next, info, err := step.Apply(ctx, deps, c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if info.Dropped > 0 {
			logger.Debug("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		c = next
		if c.Len() == 0 {
			break
		}
	}

	return c, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		status := Status{Name: step.Name(), Enabled: step.IsEnabled()}
		if r, ok := step.(interface{ DisabledReason() string }); ok {
			status.Reason = r.DisabledReason()
		}
		statuses = append(statuses, status)
	}
	return statuses
}
