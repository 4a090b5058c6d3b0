package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"progress-service/internal/event"
	"progress-service/internal/models"
	"progress-service/internal/progress"
	"progress-service/internal/repository"
)

type CourseStore interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type EnrollmentStore interface {
	Create(ctx context.Context, enr *models.Enrollment) error
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	FindByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
	ApplyProgress(ctx context.Context, id string, progress float64, status string, completedAt *time.Time) error
}

type LessonProgressStore interface {
	SeedZero(ctx context.Context, userID, courseID string, lessonIDs []string) error
	SetCompleted(ctx context.Context, userID, lessonID, courseID string, completed bool, now time.Time) (*models.LessonProgress, error)
	AddTime(ctx context.Context, userID, lessonID string, minutes int) error
	CountCompletedByUserAndCourse(ctx context.Context, userID, courseID string) (int, error)
	FindByUserAndCourse(ctx context.Context, userID, courseID string) ([]models.LessonProgress, error)
}

// EnrollmentService owns the lesson-completion cascade: flip the lesson fact,
// recompute the enrollment percentage, apply the one-way completion
// transition, then run achievements and events.
type EnrollmentService struct {
	Courses      CourseStore
	Enrollments  EnrollmentStore
	Lessons      LessonProgressStore
	Achievements *AchievementService
	Publisher    *event.EventPublisher
}

func NewEnrollmentService(courses CourseStore, enrollments EnrollmentStore, lessons LessonProgressStore, achievements *AchievementService, publisher *event.EventPublisher) *EnrollmentService {
	return &EnrollmentService{
		Courses:      courses,
		Enrollments:  enrollments,
		Lessons:      lessons,
		Achievements: achievements,
		Publisher:    publisher,
	}
}

func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	enr := progress.NewEnrollment(userID, courseID, time.Now())
	if err := s.Enrollments.Create(ctx, enr); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}

	// The enrollment insert is committed at this point; a seeding failure
	// surfaces to the caller, and later toggles upsert any missing rows.
	if err := s.Lessons.SeedZero(ctx, userID, courseID, course.LessonIDs); err != nil {
		return nil, fmt.Errorf("seed lesson progress: %w", err)
	}

	s.Publisher.Publish("enrollment.created", map[string]interface{}{
		"enrollment_id": enr.ID,
		"user_id":       userID,
		"course_id":     courseID,
	})
	return enr, nil
}

// LessonToggleOutcome reports the full effect of a lesson completion toggle.
type LessonToggleOutcome struct {
	LessonProgress  *models.LessonProgress `json:"lesson_progress"`
	Enrollment      *models.Enrollment     `json:"enrollment"`
	JustCompleted   bool                   `json:"course_completed"`
	NewAchievements []string               `json:"new_achievements,omitempty"`
}

// SetLessonCompleted toggles one lesson fact and recomputes the enrollment.
// Marking a lesson complete twice is a no-op at the progress level; unmarking
// lowers the percentage but never reverts a completed enrollment.
func (s *EnrollmentService) SetLessonCompleted(ctx context.Context, userID, courseID, lessonID string, completed bool, timeSpentMinutes int) (*LessonToggleOutcome, error) {
	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if !containsLesson(course, lessonID) {
		return nil, ErrLessonNotInCourse
	}

	enr, err := s.Enrollments.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	if enr == nil {
		return nil, ErrNotEnrolled
	}

	now := time.Now()
	lp, err := s.Lessons.SetCompleted(ctx, userID, lessonID, courseID, completed, now)
	if err != nil {
		return nil, fmt.Errorf("update lesson progress: %w", err)
	}
	if timeSpentMinutes > 0 {
		if err := s.Lessons.AddTime(ctx, userID, lessonID, timeSpentMinutes); err != nil {
			log.Printf("Failed to add time for user %s lesson %s: %v", userID, lessonID, err)
		} else {
			lp.TimeSpentMinutes += timeSpentMinutes
		}
	}

	completedCount, err := s.Lessons.CountCompletedByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("count completed lessons: %w", err)
	}

	update := progress.Recompute(enr, len(course.LessonIDs), completedCount, now)
	if err := s.Enrollments.ApplyProgress(ctx, enr.ID, update.Progress, update.Status, update.CompletedAt); err != nil {
		return nil, fmt.Errorf("apply enrollment progress: %w", err)
	}
	enr.Progress = update.Progress
	enr.Status = update.Status
	enr.CompletedAt = update.CompletedAt

	s.Publisher.Publish("enrollment.progress_updated", map[string]interface{}{
		"enrollment_id": enr.ID,
		"user_id":       userID,
		"course_id":     courseID,
		"lesson_id":     lessonID,
		"progress":      update.Progress,
	})
	if update.JustCompleted {
		s.Publisher.Publish("enrollment.completed", map[string]interface{}{
			"enrollment_id": enr.ID,
			"user_id":       userID,
			"course_id":     courseID,
		})
	}

	outcome := &LessonToggleOutcome{
		LessonProgress: lp,
		Enrollment:     enr,
		JustCompleted:  update.JustCompleted,
	}

	awarded, err := s.Achievements.EvaluateForUser(ctx, userID)
	if err != nil {
		log.Printf("Achievement evaluation failed for user %s: %v", userID, err)
	}
	outcome.NewAchievements = awarded
	return outcome, nil
}

// EnrollmentDetail bundles the enrollment with its per-lesson facts.
type EnrollmentDetail struct {
	Enrollment *models.Enrollment      `json:"enrollment"`
	Lessons    []models.LessonProgress `json:"lessons"`
}

func (s *EnrollmentService) GetEnrollment(ctx context.Context, userID, courseID string) (*EnrollmentDetail, error) {
	enr, err := s.Enrollments.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	if enr == nil {
		return nil, ErrEnrollmentNotFound
	}

	lessons, err := s.Lessons.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("load lesson progress: %w", err)
	}
	return &EnrollmentDetail{Enrollment: enr, Lessons: lessons}, nil
}

func (s *EnrollmentService) ListEnrollments(ctx context.Context, userID string) ([]models.Enrollment, error) {
	return s.Enrollments.FindByUser(ctx, userID)
}

func containsLesson(course *models.Course, lessonID string) bool {
	for _, id := range course.LessonIDs {
		if id == lessonID {
			return true
		}
	}
	return false
}
