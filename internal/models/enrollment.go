package models

import "time"

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentDropped   = "dropped"
)

// Enrollment progress is derived from lesson completion facts. The status
// transition to completed is one-way.
type Enrollment struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	UserID      string     `bson:"user_id" json:"user_id"`
	CourseID    string     `bson:"course_id" json:"course_id"`
	EnrolledAt  time.Time  `bson:"enrolled_at" json:"enrolled_at"`
	Status      string     `bson:"status" json:"status"`
	Progress    float64    `bson:"progress" json:"progress"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}
