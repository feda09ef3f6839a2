package interview

import (
	"fmt"
	"strings"
)

type Personality string

const (
	PersonalityTechnical Personality = "technical"
	PersonalityMentor    Personality = "mentor"
	PersonalityHR        Personality = "hr"
	PersonalityManager   Personality = "manager"
)

// Personalities lists the closed set of interviewer personalities.
var Personalities = []Personality{PersonalityTechnical, PersonalityMentor, PersonalityHR, PersonalityManager}

// ParsePersonality resolves a personality name case-insensitively.
func ParsePersonality(s string) (Personality, error) {
	for _, p := range Personalities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown personality: %q", s)
}

// Profile describes how a personality sounds and which follow-ups it prefers.
type Profile struct {
	Intro        string
	Style        string
	FollowupBias string
	// Tone is the lead-in sentence attached to synthesized questions.
	Tone string
	// FollowupInstruction is passed to the generator when a follow-up is needed.
	FollowupInstruction string
}

var profiles = map[Personality]Profile{
	PersonalityMentor: {
		Intro:               "I'm here to understand your experience and help you explain your thinking clearly.",
		Style:               "supportive and encouraging",
		FollowupBias:        "clarification",
		Tone:                "Take your time and walk me through it.",
		FollowupInstruction: "Gently ask the candidate to clarify the part of their answer that was vague.",
	},
	PersonalityTechnical: {
		Intro:               "I will focus on technical depth, decisions, and correctness.",
		Style:               "direct and detail-oriented",
		FollowupBias:        "deep_probe",
		Tone:                "Be precise about the technical details.",
		FollowupInstruction: "Probe deeper into the implementation details, trade-offs and edge cases.",
	},
	PersonalityHR: {
		Intro:               "I want to understand how you work with people and handle situations.",
		Style:               "behavioral and empathetic",
		FollowupBias:        "reflection",
		Tone:                "Think about the people involved.",
		FollowupInstruction: "Ask a behavioral follow-up about teamwork, communication or conflict.",
	},
	PersonalityManager: {
		Intro:               "I will challenge your decisions and ownership under pressure.",
		Style:               "challenging and analytical",
		FollowupBias:        "challenge",
		Tone:                "Focus on the decisions you owned.",
		FollowupInstruction: "Challenge the candidate on ownership, impact and the decisions they made.",
	},
}

// Profile returns the profile for p. Unknown personalities get the mentor profile.
func (p Personality) Profile() Profile {
	if prof, ok := profiles[p]; ok {
		return prof
	}
	return profiles[PersonalityMentor]
}
