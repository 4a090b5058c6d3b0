package models

import "time"

// QuizAnswer holds one answer per (attempt, question) pair. Resubmitting the
// same question overwrites the prior document. IsCorrect is nil for free-text
// answers, which stay ungraded.
type QuizAnswer struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	AttemptID        string    `bson:"attempt_id" json:"attempt_id"`
	QuestionID       string    `bson:"question_id" json:"question_id"`
	SelectedOptionID string    `bson:"selected_option_id,omitempty" json:"selected_option_id,omitempty"`
	AnswerText       string    `bson:"answer_text,omitempty" json:"answer_text,omitempty"`
	IsCorrect        *bool     `bson:"is_correct,omitempty" json:"is_correct,omitempty"`
	PointsEarned     float64   `bson:"points_earned" json:"points_earned"`
	AnsweredAt       time.Time `bson:"answered_at" json:"answered_at"`
}
