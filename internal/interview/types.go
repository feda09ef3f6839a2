// Package interview holds the domain types shared by the question, scoring
// and follow-up pipelines.
package interview

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryIT         Category = "IT"
	CategoryHR         Category = "HR"
	CategoryManagerial Category = "Managerial"
	CategoryGeneral    Category = "General"
)

// Categories lists every category in enumeration order. Tie-breaks between
// categories follow this order.
var Categories = []Category{CategoryIT, CategoryHR, CategoryManagerial, CategoryGeneral}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty resolves a difficulty name case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty: %q", s)
}

// GeneratedQuestion is a single interview question. Text always ends in "?".
type GeneratedQuestion struct {
	Text       string     `json:"question"`
	Difficulty Difficulty `json:"difficulty"`
}

// Texts returns the question texts in order.
func Texts(questions []GeneratedQuestion) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.Text)
	}
	return out
}

// Breakdown holds the rubric sub-scores, each in the 0..10 range.
type Breakdown struct {
	Technical     int `json:"technical"`
	Clarity       int `json:"clarity"`
	Communication int `json:"communication"`
}

// ScoreResult is produced once per (question, answer) pair.
type ScoreResult struct {
	Score      int       `json:"score"`
	MaxScore   int       `json:"max_score"`
	Mode       string    `json:"mode"`
	Breakdown  Breakdown `json:"breakdown"`
	WhyLost    []string  `json:"why_lost,omitempty"`
	Feedback   []string  `json:"feedback,omitempty"`
	Similarity float64   `json:"similarity"`
}

// Normalized maps the score onto the 0..10 scale regardless of mode.
func (r ScoreResult) Normalized() int {
	if r.MaxScore <= 0 || r.MaxScore == 10 {
		return r.Score
	}
	return r.Score * 10 / r.MaxScore
}

type ReactionType string

const (
	ReactionProbe       ReactionType = "probe"
	ReactionClarify     ReactionType = "clarify"
	ReactionAcknowledge ReactionType = "acknowledge"
	ReactionInterrupt   ReactionType = "interrupt"
)

// Reaction is what the interviewer says right after an answer.
type Reaction struct {
	Type ReactionType `json:"type"`
	Text string       `json:"text"`
}

// Progress describes how far a scoring batch has gone.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}
