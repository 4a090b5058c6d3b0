package models

import "time"

// QuizAttempt is one user's run through a quiz. Score and Passed stay nil
// while the attempt is in progress and are set together on completion.
type QuizAttempt struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	UserID      string     `bson:"user_id" json:"user_id"`
	QuizID      string     `bson:"quiz_id" json:"quiz_id"`
	StartedAt   time.Time  `bson:"started_at" json:"started_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	Score       *float64   `bson:"score,omitempty" json:"score,omitempty"`
	Passed      *bool      `bson:"passed,omitempty" json:"passed,omitempty"`
}

func (a *QuizAttempt) Completed() bool {
	return a.CompletedAt != nil
}

func (a *QuizAttempt) InProgress() bool {
	return !a.Completed()
}
