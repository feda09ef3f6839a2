package filtering

import (
	"context"
	"strings"
	"unicode/utf8"
)

const defaultMinQuestionLength = 10

// base carries the enable/disable bookkeeping shared by all steps.
type base struct {
	disabled bool
	reason   string
}

func (b *base) Disable(reason string) {
	b.disabled = true
	b.reason = reason
}

func (b *base) IsEnabled() bool { return !b.disabled }

func (b *base) DisabledReason() string { return b.reason }

func apply(c *Candidates, fn func(string) (string, bool)) (*Candidates, Step) {
	initial := c.Len()
	dropped := c.keep(fn)
	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}
}

type trimFilter struct{ base }

// NewTrim creates a filter that trims quotes, list markers and whitespace and
// drops blank candidates.
func NewTrim() Filter { return &trimFilter{} }

func (f *trimFilter) Name() string { return "trim" }

func (f *trimFilter) Apply(_ context.Context, _ Deps, c *Candidates) (*Candidates, Step, error) {
	next, step := apply(c, func(item string) (string, bool) {
		item = strings.TrimSpace(item)
		item = strings.TrimLeft(item, "-*•0123456789.) ")
		item = strings.Trim(item, "\"'` ")
		item = strings.TrimPrefix(item, "Question:")
		item = strings.TrimSpace(item)
		return item, item != ""
	})
	return next, step, nil
}

type questionMarkFilter struct{ base }

// NewQuestionMark creates a filter that cuts candidates after the first "?"
// and drops those without one.
func NewQuestionMark() Filter { return &questionMarkFilter{} }

func (f *questionMarkFilter) Name() string { return "question_mark" }

func (f *questionMarkFilter) Apply(_ context.Context, _ Deps, c *Candidates) (*Candidates, Step, error) {
	next, step := apply(c, func(item string) (string, bool) {
		idx := strings.Index(item, "?")
		if idx < 0 {
			return "", false
		}
		return strings.TrimSpace(item[:idx+1]), true
	})
	return next, step, nil
}

type minLengthFilter struct {
	base
	min int
}

// NewMinLength creates a filter that drops trivial candidates shorter than min runes.
func NewMinLength(min int) Filter {
	if min <= 0 {
		min = defaultMinQuestionLength
	}
	return &minLengthFilter{min: min}
}

func (f *minLengthFilter) Name() string { return "min_length" }

func (f *minLengthFilter) Apply(_ context.Context, _ Deps, c *Candidates) (*Candidates, Step, error) {
	next, step := apply(c, func(item string) (string, bool) {
		return item, utf8.RuneCountInString(item) >= f.min
	})
	return next, step, nil
}

type alreadyAskedFilter struct{ base }

// NewAlreadyAsked creates a filter that drops candidates found in deps.Asked.
func NewAlreadyAsked() Filter { return &alreadyAskedFilter{} }

func (f *alreadyAskedFilter) Name() string { return "already_asked" }

func (f *alreadyAskedFilter) Apply(_ context.Context, deps Deps, c *Candidates) (*Candidates, Step, error) {
	next, step := apply(c, func(item string) (string, bool) {
		_, asked := deps.Asked[item]
		return item, !asked
	})
	return next, step, nil
}

type batchDuplicatesFilter struct{ base }

// NewBatchDuplicates creates a filter that keeps the first of identical candidates.
func NewBatchDuplicates() Filter { return &batchDuplicatesFilter{} }

func (f *batchDuplicatesFilter) Name() string { return "batch_duplicates" }

func (f *batchDuplicatesFilter) Apply(_ context.Context, _ Deps, c *Candidates) (*Candidates, Step, error) {
	seen := make(map[string]struct{}, c.Len())
	next, step := apply(c, func(item string) (string, bool) {
		if _, dup := seen[item]; dup {
			return item, false
		}
		seen[item] = struct{}{}
		return item, true
	})
	return next, step, nil
}

// Default returns the standard candidate pipeline.
func Default() []Filter {
	return []Filter{
		NewTrim(),
		NewQuestionMark(),
		NewMinLength(defaultMinQuestionLength),
		NewAlreadyAsked(),
		NewBatchDuplicates(),
	}
}
