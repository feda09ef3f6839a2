package questions

import "github.com/spigell/interview-coach/internal/interview"

// DifficultyThresholds maps a 0..10 score to the next question difficulty.
type DifficultyThresholds struct {
	EasyMax   int
	MediumMax int
}

// DefaultDifficultyThresholds returns score ≤3 → Easy, ≤6 → Medium, else Hard.
func DefaultDifficultyThresholds() DifficultyThresholds {
	return DifficultyThresholds{EasyMax: 3, MediumMax: 6}
}

// NextDifficulty picks the difficulty of the question following an answer
// that scored score.
func NextDifficulty(score int, th DifficultyThresholds) interview.Difficulty {
	switch {
	case score <= th.EasyMax:
		return interview.DifficultyEasy
	case score <= th.MediumMax:
		return interview.DifficultyMedium
	default:
		return interview.DifficultyHard
	}
}
