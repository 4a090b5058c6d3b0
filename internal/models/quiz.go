package models

import "time"

type Option struct {
	ID        string `bson:"id" json:"id"`
	Content   string `bson:"content" json:"content"`
	IsCorrect bool   `bson:"is_correct" json:"is_correct"`
}

type Question struct {
	ID      string   `bson:"id" json:"id"`
	Content string   `bson:"content" json:"content"`
	Points  float64  `bson:"points" json:"points"`
	Options []Option `bson:"options" json:"options"`
}

// Quiz is a read-only snapshot owned by the content side. Questions are
// stored in evaluation order; the engine never re-sorts them.
type Quiz struct {
	ID               string     `bson:"_id,omitempty" json:"id"`
	CourseID         string     `bson:"course_id" json:"course_id"`
	Title            string     `bson:"title" json:"title"`
	PassingScore     *float64   `bson:"passing_score,omitempty" json:"passing_score,omitempty"`
	TimeLimitMinutes *int       `bson:"time_limit_minutes,omitempty" json:"time_limit_minutes,omitempty"`
	MaxAttempts      *int       `bson:"max_attempts,omitempty" json:"max_attempts,omitempty"`
	Questions        []Question `bson:"questions" json:"questions"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
}

const DefaultPassingScore = 70.0

func (q *Quiz) PassingScoreOrDefault() float64 {
	if q.PassingScore == nil {
		return DefaultPassingScore
	}
	return *q.PassingScore
}

func (q *Quiz) TotalPoints() float64 {
	total := 0.0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

func (q *Quiz) QuestionCount() int {
	return len(q.Questions)
}

func (q *Quiz) FindQuestion(questionID string) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == questionID {
			return &q.Questions[i]
		}
	}
	return nil
}
