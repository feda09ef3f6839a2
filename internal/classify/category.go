// Package classify maps resume text to a category and assigns interviewer
// personalities.
package classify

import (
	"context"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/spigell/interview-coach/internal/interview"
)

const (
	StrategyKeyword   = "keyword"
	StrategyEmbedding = "embedding"
)

// Classifier resolves a resume to exactly one category.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string) (interview.Category, error)
}

// Keywords per category, matched as whole words or phrases.
var Keywords = map[interview.Category][]string{
	interview.CategoryIT: {
		"python", "java", "javascript", "react", "node", "sql",
		"machine learning", "deep learning", "api", "backend", "frontend",
		"docker", "kubernetes", "cloud", "aws", "azure", "devops",
	},
	interview.CategoryHR: {
		"recruitment", "talent", "hr", "human resource", "human resources",
		"payroll", "onboarding", "compliance", "employee relations",
	},
	interview.CategoryManagerial: {
		"manager", "leadership", "team lead", "project management",
		"stakeholder", "strategy", "planning", "execution",
	},
}

// keywordOrder is the tie-break order between categories.
var keywordOrder = []interview.Category{interview.CategoryIT, interview.CategoryHR, interview.CategoryManagerial}

// KeywordClassifier counts keyword occurrences per category.
type KeywordClassifier struct {
	patterns map[interview.Category][]*regexp.Regexp
}

// NewKeywordClassifier compiles the keyword lists.
func NewKeywordClassifier() *KeywordClassifier {
	patterns := make(map[interview.Category][]*regexp.Regexp, len(Keywords))
	for category, keywords := range Keywords {
		for _, kw := range keywords {
			patterns[category] = append(patterns[category], regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
	}
	return &KeywordClassifier{patterns: patterns}
}

func (k *KeywordClassifier) Name() string { return StrategyKeyword }

// Classify never fails. The category with most keyword occurrences wins;
// ties go to the earliest of IT, HR, Managerial; no hits at all yields General.
func (k *KeywordClassifier) Classify(_ context.Context, text string) (interview.Category, error) {
	counts := k.Counts(text)

	best := interview.CategoryGeneral
	bestCount := 0
	for _, category := range keywordOrder {
		if counts[category] > bestCount {
			best = category
			bestCount = counts[category]
		}
	}

	return best, nil
}

// Counts returns the keyword occurrence count for each keyword category.
func (k *KeywordClassifier) Counts(text string) map[interview.Category]int {
	lower := strings.ToLower(text)
	counts := make(map[interview.Category]int, len(keywordOrder))
	for _, category := range keywordOrder {
		for _, re := range k.patterns[category] {
			counts[category] += len(re.FindAllStringIndex(lower, -1))
		}
	}
	return counts
}

// PickPersonality draws a personality uniformly at random.
func PickPersonality(r *rand.Rand) interview.Personality {
	return interview.Personalities[r.IntN(len(interview.Personalities))]
}
