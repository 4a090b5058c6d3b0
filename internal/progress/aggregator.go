// Package progress computes enrollment completion from lesson facts. Like the
// attempt engine it is snapshot-in, mutation-out.
package progress

import (
	"time"

	"progress-service/internal/models"
	"progress-service/internal/scoring"
)

// Update is the mutation to apply to an enrollment after a recompute.
// JustCompleted marks the one-time transition into completed status.
type Update struct {
	Progress      float64    `json:"progress"`
	Status        string     `json:"status"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	JustCompleted bool       `json:"just_completed"`
}

// Recompute derives progress from the supplied counts. A course with no
// lessons reports zero progress and never auto-completes. The transition to
// completed is one-way: once an enrollment completed, a later drop in the
// completed-lesson count lowers the percentage but not the status.
func Recompute(enr *models.Enrollment, totalLessons, completedLessons int, now time.Time) Update {
	update := Update{Status: enr.Status, CompletedAt: enr.CompletedAt}

	if totalLessons == 0 {
		update.Progress = 0
		return update
	}

	pct := scoring.Round2(float64(completedLessons) / float64(totalLessons) * 100)
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	update.Progress = pct

	if pct >= 100 && enr.Status != models.EnrollmentCompleted {
		update.Status = models.EnrollmentCompleted
		update.CompletedAt = &now
		update.JustCompleted = true
	}

	return update
}

// NewEnrollment builds the initial active enrollment document.
func NewEnrollment(userID, courseID string, now time.Time) *models.Enrollment {
	return &models.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: now,
		Status:     models.EnrollmentActive,
		Progress:   0,
	}
}
