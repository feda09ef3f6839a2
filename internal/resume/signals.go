package resume

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxSignals caps how many signals a single resume yields.
	MaxSignals = 10
	// MinSignals is the floor below which generic signals are added.
	MinSignals = 5

	minClauseLen      = 25
	minProjectWords   = 8
	fallbackSignalCnt = 5
)

// Signal is a clause describing something the candidate did.
type Signal struct {
	Text string
	// Offset is the byte offset of Text in the normalized resume. Generic
	// fallback signals have Offset -1.
	Offset int
}

var clauseBoundary = regexp.MustCompile(`[.!?;]+(?:\s+|$)|\s*[\n•●▪◦■►]+\s*|(?:^|\s+)[-*–]\s+`)

var bannedMarkers = []string{
	"skills", "education", "hobbies", "interests", "languages", "references",
	"certifications", "contact", "email", "phone", "linkedin", "github.com",
}

var actionVerbs = toSet(
	"developed", "built", "led", "optimized", "optimised", "designed", "implemented",
	"created", "managed", "improved", "automated", "deployed", "migrated", "architected",
	"launched", "delivered", "reduced", "increased", "integrated", "maintained", "mentored",
	"coordinated", "analyzed", "analysed", "engineered", "refactored", "scaled", "established",
	"streamlined", "spearheaded", "collaborated", "trained", "wrote", "tested", "configured",
	"researched", "organized", "negotiated", "recruited", "supervised", "owned", "drove",
)

var projectNouns = toSet(
	"project", "projects", "system", "systems", "model", "models", "application", "applications",
	"app", "platform", "service", "services", "pipeline", "pipelines", "api", "apis", "tool",
	"tools", "dashboard", "website", "framework", "module", "product", "infrastructure",
)

// FallbackSignals are used when a resume yields too few usable clauses.
var FallbackSignals = []string{
	"worked on a challenging project under a tight deadline",
	"collaborated with a team to deliver an important feature",
	"solved a difficult problem at work",
	"improved an existing process or system",
	"learned a new technology or skill quickly",
}

// ExtractSignals splits normalized resume text into clauses and keeps those
// that look like concrete work. The result is in document order, free of
// case-insensitive duplicates and at most MaxSignals long. When fewer than
// MinSignals clauses survive, FallbackSignals are appended.
func ExtractSignals(normalized string) []Signal {
	seen := make(map[string]struct{})
	signals := make([]Signal, 0, MaxSignals)

	for _, clause := range splitClauses(normalized) {
		if len(signals) >= MaxSignals {
			break
		}
		if !isExperience(clause.Text) {
			continue
		}

		key := strings.ToLower(clause.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		signals = append(signals, clause)
	}

	if len(signals) >= MinSignals {
		return signals
	}

	for _, fallback := range FallbackSignals[:fallbackSignalCnt] {
		if len(signals) >= MaxSignals {
			break
		}
		key := strings.ToLower(fallback)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		signals = append(signals, Signal{Text: fallback, Offset: -1})
	}

	return signals
}

// Texts returns the signal texts in order.
func Texts(signals []Signal) []string {
	out := make([]string, 0, len(signals))
	for _, s := range signals {
		out = append(out, s.Text)
	}
	return out
}

func splitClauses(text string) []Signal {
	var clauses []Signal
	add := func(start, end int) {
		raw := text[start:end]
		trimmed := strings.TrimLeftFunc(raw, isBulletOrSpace)
		offset := start + len(raw) - len(trimmed)
		trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
		if trimmed != "" {
			clauses = append(clauses, Signal{Text: trimmed, Offset: offset})
		}
	}

	start := 0
	for _, loc := range clauseBoundary.FindAllStringIndex(text, -1) {
		if loc[0] > start {
			add(start, loc[0])
		}
		start = loc[1]
	}
	if start < len(text) {
		add(start, len(text))
	}

	return clauses
}

func isBulletOrSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '*' || r == '–'
}

func isExperience(clause string) bool {
	if utf8.RuneCountInString(clause) < minClauseLen {
		return false
	}

	lower := strings.ToLower(clause)
	for _, marker := range bannedMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}

	words := words(lower)
	hasNoun := false
	for _, w := range words {
		if _, ok := actionVerbs[w]; ok {
			return true
		}
		if _, ok := projectNouns[w]; ok {
			hasNoun = true
		}
	}

	return hasNoun && len(words) >= minProjectWords
}

// words splits s on anything that is not a letter, digit or apostrophe.
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// IsActionVerb reports whether w (any case) is one of the recognised action verbs.
func IsActionVerb(w string) bool {
	_, ok := actionVerbs[strings.ToLower(w)]
	return ok
}

func toSet(items ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
