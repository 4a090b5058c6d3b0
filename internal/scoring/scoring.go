package scoring

import (
	"math"

	"progress-service/internal/models"
)

// Grade is the derived state of a single answer. IsCorrect is nil when the
// answer is free text and needs manual review.
type Grade struct {
	IsCorrect    *bool   `json:"is_correct"`
	PointsEarned float64 `json:"points_earned"`
}

// GradeAnswer applies the answer correctness rules for one question.
// An option id wins over free text; a selected option that does not exist on
// the question grades as incorrect. An empty submission is a valid incorrect
// answer, not an error.
func GradeAnswer(question models.Question, selectedOptionID, answerText string) Grade {
	if selectedOptionID != "" {
		correct := false
		for _, opt := range question.Options {
			if opt.ID == selectedOptionID {
				correct = opt.IsCorrect
				break
			}
		}
		points := 0.0
		if correct {
			points = question.Points
		}
		return Grade{IsCorrect: &correct, PointsEarned: points}
	}

	if answerText != "" {
		// Free text needs manual grading; no points until then.
		return Grade{IsCorrect: nil, PointsEarned: 0}
	}

	incorrect := false
	return Grade{IsCorrect: &incorrect, PointsEarned: 0}
}

// AttemptScore converts earned points into a 0-100 percentage. A quiz with no
// possible points scores 0 rather than erroring.
func AttemptScore(totalPossible, earned float64) float64 {
	if totalPossible == 0 {
		return 0
	}
	return Round2(earned / totalPossible * 100)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
