// Package followup decides how the interviewer reacts to an answer and, for
// weak answers, asks a follow-up question.
package followup

import (
	"github.com/spigell/interview-coach/internal/interview"
)

const (
	defaultProbeBelow    = 4
	defaultGoodThreshold = 7
	interruptBelowWords  = 15
)

// Options tunes the reaction rules.
type Options struct {
	// ProbeBelow is the score under which the interviewer probes.
	ProbeBelow int
	// GoodThreshold is the score from which an answer is acknowledged and no
	// follow-up question is generated.
	GoodThreshold int
	// Interrupts enables the short-answer interrupt reaction.
	Interrupts bool
	// GenerateReactions asks the generator for reaction text instead of
	// picking from the static pools.
	GenerateReactions bool
}

// DefaultOptions returns probe below 4 and acknowledge from 7.
func DefaultOptions() Options {
	return Options{ProbeBelow: defaultProbeBelow, GoodThreshold: defaultGoodThreshold}
}

func (o Options) withDefaults() Options {
	if o.ProbeBelow <= 0 {
		o.ProbeBelow = defaultProbeBelow
	}
	if o.GoodThreshold <= 0 {
		o.GoodThreshold = defaultGoodThreshold
	}
	return o
}

// Classify derives the reaction type from a 0..10 score and the answer's word
// count.
func Classify(score, wordCount int, opts Options) interview.ReactionType {
	opts = opts.withDefaults()

	switch {
	case opts.Interrupts && wordCount < interruptBelowWords:
		return interview.ReactionInterrupt
	case score < opts.ProbeBelow:
		return interview.ReactionProbe
	case score < opts.GoodThreshold:
		return interview.ReactionClarify
	default:
		return interview.ReactionAcknowledge
	}
}
