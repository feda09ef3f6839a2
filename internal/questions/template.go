package questions

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/interview"
	"github.com/spigell/interview-coach/internal/resume"
)

const (
	defaultRewriteHowProb  = 0.3
	defaultRewriteWhatProb = 0.2
	defaultMaxSignalWords  = 20
)

var signalNoise = map[string]struct{}{
	"successfully": {}, "responsible": {}, "for": {}, "helped": {}, "to": {},
	"i": {}, "was": {}, "actively": {}, "also": {},
}

// TemplateOptions tunes the template synthesizer.
type TemplateOptions struct {
	RewriteHowProb  float64
	RewriteWhatProb float64
	MaxSignalWords  int
	Padding         PaddingOptions
}

// DefaultTemplateOptions returns the stock rewrite probabilities and limits.
func DefaultTemplateOptions() TemplateOptions {
	return TemplateOptions{
		RewriteHowProb:  defaultRewriteHowProb,
		RewriteWhatProb: defaultRewriteWhatProb,
		MaxSignalWords:  defaultMaxSignalWords,
		Padding:         PaddingOptions{OnExhausted: ExhaustRepeat},
	}
}

// TemplateSynthesizer fills category templates with resume signals. With a
// pinned seed its output is fully reproducible.
type TemplateSynthesizer struct {
	mu     sync.Mutex
	rand   *rand.Rand
	opts   TemplateOptions
	logger *zap.Logger
}

// NewTemplateSynthesizer creates a synthesizer drawing from r.
func NewTemplateSynthesizer(r *rand.Rand, opts TemplateOptions, logger *zap.Logger) *TemplateSynthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxSignalWords <= 0 {
		opts.MaxSignalWords = defaultMaxSignalWords
	}
	return &TemplateSynthesizer{rand: r, opts: opts, logger: logger}
}

func (s *TemplateSynthesizer) Name() string { return StrategyTemplate }

func (s *TemplateSynthesizer) Synthesize(_ context.Context, req Request) ([]interview.GeneratedQuestion, error) {
	if req.TargetCount <= 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := newSeen(req.AlreadyAsked)
	pool := templatesFor(req.Category)
	tones := tonesFor(req.Personality)

	signals := append([]string(nil), req.Signals...)
	s.rand.Shuffle(len(signals), func(i, j int) { signals[i], signals[j] = signals[j], signals[i] })

	out := make([]interview.GeneratedQuestion, 0, req.TargetCount)
	skipped := 0
	for _, signal := range signals {
		if len(out) >= req.TargetCount {
			break
		}

		text, ok := s.fromSignal(pool, tones, signal)
		if !ok {
			skipped++
			continue
		}
		if _, dup := seen[text]; dup {
			skipped++
			continue
		}

		seen[text] = struct{}{}
		out = append(out, interview.GeneratedQuestion{Text: text, Difficulty: req.Difficulty})
	}

	fromSignals := len(out)
	out, err := padGeneric(s.rand, s.opts.Padding, out, seen, req)

	s.logger.Debug("template questions synthesized",
		zap.String("category", string(req.Category)),
		zap.String("personality", string(req.Personality)),
		zap.Int("from_signals", fromSignals),
		zap.Int("skipped", skipped),
		zap.Int("padded", len(out)-fromSignals),
	)

	return out, err
}

func (s *TemplateSynthesizer) fromSignal(pool, tones []string, signal string) (string, bool) {
	tmpl := pool[s.rand.IntN(len(pool))]

	if s.rand.Float64() < s.opts.RewriteHowProb {
		tmpl = strings.Replace(tmpl, "How did you", "Can you explain how you", 1)
	}
	if s.rand.Float64() < s.opts.RewriteWhatProb {
		tmpl = rewriteWhat(tmpl)
	}

	tone := tones[s.rand.IntN(len(tones))]

	if !strings.Contains(tmpl, placeholder) {
		return "", false
	}

	filler := SimplifySignal(signal, s.opts.MaxSignalWords)
	if filler == "" {
		return "", false
	}

	question, ok := terminate(strings.Replace(tmpl, placeholder, filler, 1))
	if !ok || question == "" {
		return "", false
	}

	return tone + " " + question, true
}

// rewriteWhat turns the first sentence-initial "What" into "Could you describe what".
func rewriteWhat(tmpl string) string {
	idx := strings.Index(tmpl, ". What ")
	if idx >= 0 {
		return tmpl[:idx+2] + "Could you describe what" + tmpl[idx+len(". What"):]
	}
	if strings.HasPrefix(tmpl, "What ") {
		return "Could you describe what" + strings.TrimPrefix(tmpl, "What")
	}
	return tmpl
}

// SimplifySignal strips leading action verbs and filler words, trailing
// punctuation, capitalises the first letter and keeps at most maxWords words.
func SimplifySignal(signal string, maxWords int) string {
	words := strings.Fields(signal)

	start := 0
	for start < len(words) {
		w := strings.ToLower(strings.Trim(words[start], ".,;:"))
		_, noise := signalNoise[w]
		if !noise && !resume.IsActionVerb(w) {
			break
		}
		start++
	}
	if start == len(words) {
		start = 0
	}
	words = words[start:]

	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}

	text := strings.TrimRight(strings.Join(words, " "), ".,;:!? ")
	text = strings.ReplaceAll(text, "?", "")
	if text == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(text)
	return string(unicode.ToUpper(r)) + text[size:]
}
