package questions

import (
	"strings"

	"github.com/spigell/interview-coach/internal/interview"
)

// placeholder is substituted with the simplified resume signal.
const placeholder = "{signal}"

// Template families. Every template contains the placeholder once and a
// single question sentence.
var (
	coreTemplates = []string{
		"Your resume mentions: {signal}. How did you approach this work?",
		"Let's talk about this: {signal}. What was your exact role?",
		"You listed: {signal}. What problem were you solving?",
		"About this experience: {signal}. How did you measure success?",
	}

	technicalTemplates = []string{
		"Consider this work: {signal}. How did you design the technical solution?",
		"Regarding: {signal}. What trade-offs did you make in the implementation?",
		"On this item: {signal}. How did you test and validate it?",
		"Thinking about: {signal}. What would you change to make it scale further?",
	}

	behavioralTemplates = []string{
		"Your resume says: {signal}. How did you handle disagreements along the way?",
		"About this: {signal}. What did you learn about working with others?",
		"Looking at: {signal}. How did you keep people informed?",
	}

	managerialTemplates = []string{
		"You mention: {signal}. How did you prioritise competing demands?",
		"On this point: {signal}. What decisions did you own and why?",
		"Regarding: {signal}. How did you align stakeholders?",
	}

	reflectiveTemplates = []string{
		"Looking back at this: {signal}. What would you do differently?",
		"Reflecting on: {signal}. What was the hardest part for you?",
	}
)

// GenericQuestions pad a batch when resume signals run out.
var GenericQuestions = []string{
	"Can you tell me about yourself?",
	"What are your greatest strengths?",
	"Where do you see yourself in 5 years?",
	"Why do you want to work here?",
	"Can you describe a challenging project you worked on?",
}

// Generic tone lead-ins, used together with the personality tone.
var genericTones = []string{
	"Please elaborate.",
	"Give a real example.",
	"Explain your reasoning.",
}

func templatesFor(category interview.Category) []string {
	var families [][]string
	switch category {
	case interview.CategoryIT:
		families = [][]string{coreTemplates, technicalTemplates, reflectiveTemplates}
	case interview.CategoryHR:
		families = [][]string{coreTemplates, behavioralTemplates, reflectiveTemplates}
	case interview.CategoryManagerial:
		families = [][]string{coreTemplates, managerialTemplates, behavioralTemplates, reflectiveTemplates}
	default:
		families = [][]string{coreTemplates, behavioralTemplates, reflectiveTemplates}
	}

	var pool []string
	for _, family := range families {
		pool = append(pool, family...)
	}
	return pool
}

// tonesFor returns the tone lead-ins available to a personality.
func tonesFor(p interview.Personality) []string {
	return append([]string{p.Profile().Tone}, genericTones...)
}

// Prompt pools for the generative strategy.
var categoryPrompts = map[interview.Category][]string{
	interview.CategoryIT: {
		"Based on the resume below, ask ONE open-ended interview question. Do NOT ask factual, exam-style, or reading-comprehension questions. Focus on experience, decisions, challenges, or implementation. Resume: {chunk}",
		"Based on the following resume content, ask ONE clear technical interview question:\n{chunk}",
		"Generate ONE coding or problem-solving interview question using this resume:\n{chunk}",
		"Ask ONE backend, frontend, or system-design interview question from the resume below:\n{chunk}",
		"Create ONE real-world software engineering interview question grounded in this resume:\n{chunk}",
		"Focus on skills, projects, APIs, databases, or architecture. Avoid repetition.\n{chunk}",
	},
	interview.CategoryHR: {
		"Based on the resume below, ask ONE HR interview question:\n{chunk}",
		"Generate ONE behavioral interview question related to HR responsibilities from this resume:\n{chunk}",
		"Ask ONE interview question about recruitment, onboarding, compliance, or employee relations:\n{chunk}",
		"Create ONE situational HR interview question based on the resume below:\n{chunk}",
		"Focus on communication, conflict resolution, and people management. Avoid repetition.\n{chunk}",
	},
	interview.CategoryManagerial: {
		"Based on the resume below, ask ONE leadership interview question:\n{chunk}",
		"Generate ONE project-management interview question from this resume:\n{chunk}",
		"Ask ONE decision-making or strategy interview question using this resume:\n{chunk}",
		"Create ONE interview question about stakeholder or team management:\n{chunk}",
		"Focus on leadership, planning, execution, and ownership. Avoid repetition.\n{chunk}",
	},
	interview.CategoryGeneral: {
		"Ask ONE general interview question based on the resume below:\n{chunk}",
		"Generate ONE experience-based interview question from this resume:\n{chunk}",
		"Ask ONE role-agnostic interview question using the resume content:\n{chunk}",
		"Focus on strengths, experience, and problem-solving. Avoid repetition.\n{chunk}",
	},
}

var difficultyPrompts = map[interview.Difficulty][]string{
	interview.DifficultyEasy: {
		"Ask ONE simple beginner-level interview question based on this resume:\n{chunk}",
		"Generate ONE basic conceptual interview question from the resume:\n{chunk}",
	},
	interview.DifficultyMedium: {
		"Ask ONE intermediate-level interview question requiring explanation or examples:\n{chunk}",
		"Generate ONE practical interview question based on the resume:\n{chunk}",
	},
	interview.DifficultyHard: {
		"Ask ONE advanced interview question involving edge cases or optimization:\n{chunk}",
		"Generate ONE deep technical or analytical interview question from the resume:\n{chunk}",
	},
}

func promptsFor(category interview.Category, difficulty interview.Difficulty) []string {
	pool := append([]string(nil), categoryPrompts[category]...)
	if len(pool) == 0 {
		pool = append(pool, categoryPrompts[interview.CategoryGeneral]...)
	}
	if extra, ok := difficultyPrompts[difficulty]; ok {
		pool = append(pool, extra...)
	} else {
		pool = append(pool, difficultyPrompts[interview.DifficultyEasy]...)
	}
	return pool
}

// IsGeneric reports whether text came from the generic padding pool rather
// than from a resume signal or the generator.
func IsGeneric(text string) bool {
	for _, generic := range GenericQuestions {
		if strings.HasSuffix(text, generic) {
			return true
		}
	}
	return false
}
