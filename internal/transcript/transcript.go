// Package transcript reads answered question batches and writes results.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/interview-coach/internal/coach"
	"github.com/spigell/interview-coach/internal/interview"
)

// ErrMismatchedBatch is returned in strict mode when the parallel question
// and answer lists differ in length.
var ErrMismatchedBatch = errors.New("questions and answers differ in length")

// Batch is a decoded transcript. It accepts either an items list
//
//	{"session_id": "42", "items": [{"question": "...", "answer": "..."}]}
//
// or the parallel form
//
//	{"session_id": 42, "questions": ["..."], "answers": ["..."]}
//
// where surplus entries of the longer list are dropped.
type Batch struct {
	SessionID   string                `json:"session_id"`
	Personality interview.Personality `json:"personality,omitempty"`
	Items       []coach.Item          `json:"items"`
	// Dropped counts unpaired entries discarded from the parallel form.
	Dropped int `json:"-"`
}

type rawBatch struct {
	SessionID   string       `mapstructure:"session_id"`
	Personality string       `mapstructure:"personality"`
	Items       []coach.Item `mapstructure:"items"`
	Questions   []string     `mapstructure:"questions"`
	Answers     []string     `mapstructure:"answers"`
}

// Options control decoding.
type Options struct {
	// Strict rejects parallel lists of different length.
	Strict bool
}

// Load decodes the transcript stored at path.
func Load(path string, opts Options) (*Batch, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	defer file.Close()

	return Decode(file, opts)
}

// Decode reads a transcript from r.
func Decode(r io.Reader, opts Options) (*Batch, error) {
	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing transcript json: %w", err)
	}

	var raw rawBatch
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &raw,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating transcript decoder: %w", err)
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding transcript: %w", err)
	}

	batch := &Batch{SessionID: raw.SessionID, Items: raw.Items}

	if raw.Personality != "" {
		p, err := interview.ParsePersonality(raw.Personality)
		if err != nil {
			return nil, err
		}
		batch.Personality = p
	}

	if len(raw.Questions) > 0 || len(raw.Answers) > 0 {
		if len(raw.Items) > 0 {
			return nil, errors.New("transcript has both items and questions/answers")
		}
		if opts.Strict && len(raw.Questions) != len(raw.Answers) {
			return nil, fmt.Errorf("%w: %d questions, %d answers", ErrMismatchedBatch, len(raw.Questions), len(raw.Answers))
		}

		n := min(len(raw.Questions), len(raw.Answers))
		batch.Items = make([]coach.Item, 0, n)
		for i := 0; i < n; i++ {
			batch.Items = append(batch.Items, coach.Item{Question: raw.Questions[i], Answer: raw.Answers[i]})
		}
		batch.Dropped = len(raw.Questions) + len(raw.Answers) - 2*n
	}

	return batch, nil
}

// Request turns the batch into a scoring request. fallback is used when the
// transcript names no personality.
func (b *Batch) Request(fallback interview.Personality) coach.BatchRequest {
	personality := b.Personality
	if personality == "" {
		personality = fallback
	}
	return coach.BatchRequest{SessionID: b.SessionID, Personality: personality, Items: b.Items}
}

// DumpToTmpFile writes v as indented JSON into a new temporary file and
// returns its name.
func DumpToTmpFile(v any, pattern string) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return file.Name(), nil
}
