package models

import "time"

// LessonProgress is the per-(user, lesson) completion fact. A zero-progress
// document is seeded for every course lesson at enrollment time so later
// toggles always have a row to flip.
type LessonProgress struct {
	ID               string     `bson:"_id,omitempty" json:"id"`
	UserID           string     `bson:"user_id" json:"user_id"`
	LessonID         string     `bson:"lesson_id" json:"lesson_id"`
	CourseID         string     `bson:"course_id" json:"course_id"`
	Completed        bool       `bson:"completed" json:"completed"`
	CompletedAt      *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	TimeSpentMinutes int        `bson:"time_spent_minutes" json:"time_spent_minutes"`
}
