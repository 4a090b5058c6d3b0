package progress

import (
	"testing"
	"time"

	"progress-service/internal/models"
)

func TestRecomputeEmptyCourse(t *testing.T) {
	enr := NewEnrollment("user-1", "course-1", time.Now())

	update := Recompute(enr, 0, 0, time.Now())
	if update.Progress != 0 {
		t.Errorf("Expected progress 0 for empty course, got %.2f", update.Progress)
	}
	if update.Status != models.EnrollmentActive {
		t.Errorf("Expected status to stay active, got %s", update.Status)
	}
	if update.JustCompleted {
		t.Error("Empty course must never auto-complete")
	}
}

func TestRecomputePercentage(t *testing.T) {
	testCases := []struct {
		name      string
		total     int
		completed int
		expected  float64
	}{
		{"none done", 4, 0, 0},
		{"one of three rounds", 3, 1, 33.33},
		{"half done", 4, 2, 50},
		{"overshoot clamps", 4, 5, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			enr := NewEnrollment("user-1", "course-1", time.Now())
			update := Recompute(enr, tc.total, tc.completed, time.Now())
			if update.Progress != tc.expected {
				t.Errorf("Expected progress %.2f, got %.2f", tc.expected, update.Progress)
			}
		})
	}
}

func TestCourseCompletesExactlyOnce(t *testing.T) {
	enr := NewEnrollment("user-1", "course-1", time.Now())

	// Four lessons completed one at a time.
	transitions := 0
	for done := 1; done <= 4; done++ {
		update := Recompute(enr, 4, done, time.Now())
		if update.JustCompleted {
			transitions++
		}
		enr.Progress = update.Progress
		enr.Status = update.Status
		enr.CompletedAt = update.CompletedAt
	}

	if enr.Progress != 100 {
		t.Errorf("Expected progress 100 after all lessons, got %.2f", enr.Progress)
	}
	if enr.Status != models.EnrollmentCompleted {
		t.Errorf("Expected completed status, got %s", enr.Status)
	}
	if enr.CompletedAt == nil {
		t.Error("Expected completed_at to be set")
	}
	if transitions != 1 {
		t.Errorf("Expected exactly one completion transition, got %d", transitions)
	}

	// Recomputing at 100%% again must not re-transition.
	again := Recompute(enr, 4, 4, time.Now().Add(time.Hour))
	if again.JustCompleted {
		t.Error("Already-completed enrollment must not re-complete")
	}
	if !again.CompletedAt.Equal(*enr.CompletedAt) {
		t.Error("completed_at must not move on recompute")
	}
}

func TestCompletionIsOneWay(t *testing.T) {
	enr := NewEnrollment("user-1", "course-1", time.Now())
	update := Recompute(enr, 2, 2, time.Now())
	enr.Progress = update.Progress
	enr.Status = update.Status
	enr.CompletedAt = update.CompletedAt

	// A lesson gets un-marked afterwards: percentage reflects fresh counts,
	// status does not regress.
	down := Recompute(enr, 2, 1, time.Now())
	if down.Progress != 50 {
		t.Errorf("Expected progress to reflect fresh counts (50), got %.2f", down.Progress)
	}
	if down.Status != models.EnrollmentCompleted {
		t.Errorf("Expected status to remain completed, got %s", down.Status)
	}
	if down.JustCompleted {
		t.Error("Downward recompute must not report a transition")
	}
}
