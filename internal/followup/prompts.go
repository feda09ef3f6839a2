package followup

import (
	"fmt"

	"github.com/spigell/interview-coach/internal/interview"
)

var reactionPools = map[interview.ReactionType][]string{
	interview.ReactionAcknowledge: {
		"Good answer, let's move to the next question.",
		"Thanks, that was clear.",
		"Great, that covers it well.",
	},
	interview.ReactionProbe: {
		"Let's dig into that a little more.",
		"I'd like to understand your reasoning better.",
		"Let's unpack that together.",
	},
	interview.ReactionClarify: {
		"Could you make that more concrete?",
		"I think I follow, but let's sharpen it.",
		"Let's pin down the specifics.",
	},
	interview.ReactionInterrupt: {
		"Let me stop you there for a moment.",
		"Sorry to interrupt, could you be more specific?",
		"Let me jump in here.",
	},
}

var reactionInstructions = map[interview.ReactionType]string{
	interview.ReactionInterrupt: "Politely interrupt and ask the candidate to be more specific.",
	interview.ReactionProbe:     "Ask a probing follow-up to understand their reasoning.",
	interview.ReactionClarify:   "Ask for clarification with a concrete example.",
}

// Score bands of the follow-up prompt. Each band sets the framing of the
// candidate's answer and how hard the follow-up should push.
type band struct {
	lead string
	hint string
}

var (
	bandRephrase = band{
		lead: "The candidate gave a meaningless answer.",
		hint: "Ask them to rephrase or explain more clearly.",
	}
	bandClarification = band{
		lead: "The candidate's answer was unclear.",
		hint: "Ask a simple clarification question based on the candidate's weak answer.",
	}
	bandDepth = band{
		lead: "The candidate answered but lacked depth.",
		hint: "Ask a follow-up question that probes deeper understanding.",
	}
	bandAdvanced = band{
		lead: "The candidate answered well.",
		hint: "Ask an advanced follow-up question that challenges the candidate.",
	}
)

func bandFor(score int, meaningful bool) band {
	switch {
	case !meaningful:
		return bandRephrase
	case score < 3:
		return bandClarification
	case score < 6:
		return bandDepth
	default:
		return bandAdvanced
	}
}

func followupPrompt(in Input, b band) string {
	profile := in.Personality.Profile()
	return fmt.Sprintf(`You are a professional interviewer. Your style is %s.

%s

Original Question:
%s

Candidate Answer:
%s

Instruction:
%s %s

Generate ONE concise follow-up interview question.`,
		profile.Style, b.lead, in.Question, in.Answer, profile.FollowupInstruction, b.hint)
}

func reactionPrompt(in Input, reaction interview.ReactionType) string {
	return fmt.Sprintf(`You are a real interviewer.

Original Question:
%s

Candidate Answer:
%s

Instruction:
%s

Respond with ONE sentence only.`, in.Question, in.Answer, reactionInstructions[reaction])
}
