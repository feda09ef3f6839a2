package questions

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/filtering"
	"github.com/spigell/interview-coach/internal/interview"
)

const (
	defaultMaxAttempts = 30
	chunkSize          = 400
	maxChunkedChars    = 2500
	chunkPlaceholder   = "{chunk}"

	generationMaxTokens   = 64
	generationTemperature = 0.9
	generationTopP        = 0.95
)

// GenerativeOptions tunes the generative synthesizer.
type GenerativeOptions struct {
	// MaxAttempts bounds generator calls per batch.
	MaxAttempts int
	Padding     PaddingOptions
	// DisabledFilters names candidate filters to switch off.
	DisabledFilters []string
}

// GenerativeSynthesizer asks a text generator for questions, re-sampling until
// enough novel ones are collected or the attempt budget is spent. Generator
// failures are swallowed; the remainder is padded with generic questions.
type GenerativeSynthesizer struct {
	generator ai.Generator
	filters   []filtering.Filter
	opts      GenerativeOptions
	logger    *zap.Logger

	mu   sync.Mutex
	rand *rand.Rand
}

// NewGenerativeSynthesizer creates a synthesizer backed by generator.
func NewGenerativeSynthesizer(generator ai.Generator, r *rand.Rand, opts GenerativeOptions, logger *zap.Logger) (*GenerativeSynthesizer, error) {
	if generator == nil {
		return nil, errors.New("generator is required for generative synthesis")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}

	filters := filtering.Default()
	for _, name := range opts.DisabledFilters {
		if !filtering.DisableByName(filters, name, "disabled by configuration") {
			return nil, fmt.Errorf("unknown question filter: %q", name)
		}
	}
	logger.Debug("question filters", zap.Any("filters", filtering.Describe(filters)))

	return &GenerativeSynthesizer{
		generator: generator,
		filters:   filters,
		opts:      opts,
		logger:    logger,
		rand:      r,
	}, nil
}

func (g *GenerativeSynthesizer) Name() string { return StrategyGenerative }

func (g *GenerativeSynthesizer) Synthesize(ctx context.Context, req Request) ([]interview.GeneratedQuestion, error) {
	if req.TargetCount <= 0 {
		return nil, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	source := req.ResumeText
	if strings.TrimSpace(source) == "" {
		source = strings.Join(req.Signals, ". ")
	}
	chunks := chunkText(source)
	g.rand.Shuffle(len(chunks), func(i, j int) { chunks[i], chunks[j] = chunks[j], chunks[i] })

	prompts := promptsFor(req.Category, req.Difficulty)
	seen := newSeen(req.AlreadyAsked)
	deps := filtering.Deps{Logger: g.logger, Asked: seen}

	out := make([]interview.GeneratedQuestion, 0, req.TargetCount)
	attempts, failures := 0, 0
	for ; len(out) < req.TargetCount && attempts < g.opts.MaxAttempts && len(chunks) > 0; attempts++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		chunk := chunks[g.rand.IntN(len(chunks))]
		prompt := strings.Replace(prompts[g.rand.IntN(len(prompts))], chunkPlaceholder, chunk, 1)

		raw, err := g.generator.Generate(ctx, prompt, ai.Sampling(generationMaxTokens, generationTemperature, generationTopP))
		if err != nil {
			failures++
			g.logger.Debug("question generation attempt failed", zap.Int("attempt", attempts+1), zap.Error(err))
			continue
		}

		candidates, err := filtering.Run(ctx, deps, g.filters, &filtering.Candidates{Items: strings.Split(raw, "\n")})
		if err != nil {
			failures++
			continue
		}

		for _, text := range candidates.Items {
			if len(out) >= req.TargetCount {
				break
			}
			seen[text] = struct{}{}
			out = append(out, interview.GeneratedQuestion{Text: text, Difficulty: req.Difficulty})
		}
	}

	generated := len(out)
	out, err := padGeneric(g.rand, g.opts.Padding, out, seen, req)

	g.logger.Debug("generative questions synthesized",
		zap.String("category", string(req.Category)),
		zap.String("difficulty", string(req.Difficulty)),
		zap.Int("attempts", attempts),
		zap.Int("failures", failures),
		zap.Int("generated", generated),
		zap.Int("padded", len(out)-generated),
	)

	return out, err
}

// chunkText splits the first maxChunkedChars runes of text into chunkSize pieces.
func chunkText(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) > maxChunkedChars {
		runes = runes[:maxChunkedChars]
	}

	var chunks []string
	for i := 0; i < len(runes); i += chunkSize {
		end := min(i+chunkSize, len(runes))
		if chunk := strings.TrimSpace(string(runes[i:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}
