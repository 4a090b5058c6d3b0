package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"progress-service/internal/models"
	"progress-service/internal/repository"
)

// In-memory stores backing the service tests. They mirror the mongo
// repositories' contracts: copies out, (nil, nil) on missing documents,
// duplicate-key behavior where the real collection has a unique index.

type memQuizStore struct {
	quizzes map[string]*models.Quiz
}

func (s *memQuizStore) FindByID(_ context.Context, id string) (*models.Quiz, error) {
	quiz, ok := s.quizzes[id]
	if !ok {
		return nil, nil
	}
	copied := *quiz
	return &copied, nil
}

type memCourseStore struct {
	courses map[string]*models.Course
}

func (s *memCourseStore) FindByID(_ context.Context, id string) (*models.Course, error) {
	course, ok := s.courses[id]
	if !ok {
		return nil, nil
	}
	copied := *course
	return &copied, nil
}

type memAttemptStore struct {
	attempts    map[string]*models.QuizAttempt
	seq         int
	completeErr error
}

func (s *memAttemptStore) Create(_ context.Context, att *models.QuizAttempt) error {
	s.seq++
	att.ID = fmt.Sprintf("attempt-%d", s.seq)
	stored := *att
	s.attempts[att.ID] = &stored
	return nil
}

func (s *memAttemptStore) FindByID(_ context.Context, id string) (*models.QuizAttempt, error) {
	att, ok := s.attempts[id]
	if !ok {
		return nil, nil
	}
	copied := *att
	return &copied, nil
}

func (s *memAttemptStore) FindByUserAndQuiz(_ context.Context, userID, quizID string) ([]models.QuizAttempt, error) {
	var out []models.QuizAttempt
	for _, att := range s.attempts {
		if att.UserID == userID && att.QuizID == quizID {
			out = append(out, *att)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (s *memAttemptStore) CountByUserAndQuiz(_ context.Context, userID, quizID string) (int, error) {
	count := 0
	for _, att := range s.attempts {
		if att.UserID == userID && att.QuizID == quizID {
			count++
		}
	}
	return count, nil
}

func (s *memAttemptStore) Complete(_ context.Context, id string, score float64, passed bool, completedAt time.Time) error {
	if s.completeErr != nil {
		return s.completeErr
	}
	att, ok := s.attempts[id]
	if !ok || att.CompletedAt != nil {
		return nil
	}
	att.Score = &score
	att.Passed = &passed
	att.CompletedAt = &completedAt
	return nil
}

func (s *memAttemptStore) AverageScoreByQuiz(_ context.Context, quizID string) (float64, int, error) {
	sum, count := 0.0, 0
	for _, att := range s.attempts {
		if att.QuizID == quizID && att.CompletedAt != nil && att.Score != nil {
			sum += *att.Score
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}

func (s *memAttemptStore) CountPassedByUser(_ context.Context, userID string) (int, error) {
	count := 0
	for _, att := range s.attempts {
		if att.UserID == userID && att.Passed != nil && *att.Passed {
			count++
		}
	}
	return count, nil
}

func (s *memAttemptStore) HasPerfectScore(_ context.Context, userID string) (bool, error) {
	for _, att := range s.attempts {
		if att.UserID == userID && att.Score != nil && *att.Score >= 100 {
			return true, nil
		}
	}
	return false, nil
}

type memAnswerStore struct {
	answers map[string][]models.QuizAnswer
}

func (s *memAnswerStore) Upsert(_ context.Context, answer *models.QuizAnswer) error {
	existing := s.answers[answer.AttemptID]
	for i := range existing {
		if existing[i].QuestionID == answer.QuestionID {
			existing[i] = *answer
			return nil
		}
	}
	s.answers[answer.AttemptID] = append(existing, *answer)
	return nil
}

func (s *memAnswerStore) FindByAttempt(_ context.Context, attemptID string) ([]models.QuizAnswer, error) {
	return append([]models.QuizAnswer(nil), s.answers[attemptID]...), nil
}

type memEnrollmentStore struct {
	byID  map[string]*models.Enrollment
	byKey map[string]string
	seq   int
}

func enrollmentKey(userID, courseID string) string { return userID + "|" + courseID }

func (s *memEnrollmentStore) Create(_ context.Context, enr *models.Enrollment) error {
	key := enrollmentKey(enr.UserID, enr.CourseID)
	if _, exists := s.byKey[key]; exists {
		return repository.ErrDuplicate
	}
	s.seq++
	enr.ID = fmt.Sprintf("enrollment-%d", s.seq)
	stored := *enr
	s.byID[enr.ID] = &stored
	s.byKey[key] = enr.ID
	return nil
}

func (s *memEnrollmentStore) FindByUserAndCourse(_ context.Context, userID, courseID string) (*models.Enrollment, error) {
	id, ok := s.byKey[enrollmentKey(userID, courseID)]
	if !ok {
		return nil, nil
	}
	copied := *s.byID[id]
	return &copied, nil
}

func (s *memEnrollmentStore) FindByUser(_ context.Context, userID string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, enr := range s.byID {
		if enr.UserID == userID {
			out = append(out, *enr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrolledAt.After(out[j].EnrolledAt) })
	return out, nil
}

func (s *memEnrollmentStore) ApplyProgress(_ context.Context, id string, progress float64, status string, completedAt *time.Time) error {
	enr, ok := s.byID[id]
	if !ok {
		return nil
	}
	enr.Progress = progress
	enr.Status = status
	if completedAt != nil {
		enr.CompletedAt = completedAt
	}
	return nil
}

type memLessonStore struct {
	rows    map[string]*models.LessonProgress
	seq     int
	seedErr error
}

func lessonKey(userID, lessonID string) string { return userID + "|" + lessonID }

func (s *memLessonStore) SeedZero(_ context.Context, userID, courseID string, lessonIDs []string) error {
	if s.seedErr != nil {
		return s.seedErr
	}
	for _, lessonID := range lessonIDs {
		key := lessonKey(userID, lessonID)
		if _, exists := s.rows[key]; exists {
			continue
		}
		s.seq++
		s.rows[key] = &models.LessonProgress{
			ID:       fmt.Sprintf("lp-%d", s.seq),
			UserID:   userID,
			LessonID: lessonID,
			CourseID: courseID,
		}
	}
	return nil
}

func (s *memLessonStore) SetCompleted(_ context.Context, userID, lessonID, courseID string, completed bool, now time.Time) (*models.LessonProgress, error) {
	key := lessonKey(userID, lessonID)
	row, ok := s.rows[key]
	if !ok {
		s.seq++
		row = &models.LessonProgress{
			ID:       fmt.Sprintf("lp-%d", s.seq),
			UserID:   userID,
			LessonID: lessonID,
		}
		s.rows[key] = row
	}
	row.CourseID = courseID
	row.Completed = completed
	if completed {
		at := now
		row.CompletedAt = &at
	} else {
		row.CompletedAt = nil
	}
	copied := *row
	return &copied, nil
}

func (s *memLessonStore) AddTime(_ context.Context, userID, lessonID string, minutes int) error {
	if row, ok := s.rows[lessonKey(userID, lessonID)]; ok {
		row.TimeSpentMinutes += minutes
	}
	return nil
}

func (s *memLessonStore) CountCompletedByUserAndCourse(_ context.Context, userID, courseID string) (int, error) {
	count := 0
	for _, row := range s.rows {
		if row.UserID == userID && row.CourseID == courseID && row.Completed {
			count++
		}
	}
	return count, nil
}

func (s *memLessonStore) CountCompletedByUser(_ context.Context, userID string) (int, error) {
	count := 0
	for _, row := range s.rows {
		if row.UserID == userID && row.Completed {
			count++
		}
	}
	return count, nil
}

func (s *memLessonStore) FindByUserAndCourse(_ context.Context, userID, courseID string) ([]models.LessonProgress, error) {
	var out []models.LessonProgress
	for _, row := range s.rows {
		if row.UserID == userID && row.CourseID == courseID {
			out = append(out, *row)
		}
	}
	return out, nil
}

type memAchievementStore struct {
	defs   map[string]*models.Achievement
	awards []models.UserAchievement
	seq    int
}

func (s *memAchievementStore) FindOrCreateByTitle(_ context.Context, def *models.Achievement) (*models.Achievement, error) {
	if existing, ok := s.defs[def.Title]; ok {
		copied := *existing
		return &copied, nil
	}
	s.seq++
	stored := *def
	stored.ID = fmt.Sprintf("achievement-%d", s.seq)
	stored.CreatedAt = time.Now()
	s.defs[def.Title] = &stored
	copied := stored
	return &copied, nil
}

func (s *memAchievementStore) Award(_ context.Context, award *models.UserAchievement) (bool, error) {
	for _, existing := range s.awards {
		if existing.UserID == award.UserID && existing.AchievementID == award.AchievementID {
			return false, nil
		}
	}
	s.seq++
	award.ID = fmt.Sprintf("award-%d", s.seq)
	s.awards = append(s.awards, *award)
	return true, nil
}

func (s *memAchievementStore) EarnedTitles(_ context.Context, userID string) (map[string]bool, error) {
	earned := make(map[string]bool)
	for _, award := range s.awards {
		if award.UserID == userID {
			earned[award.Title] = true
		}
	}
	return earned, nil
}

func (s *memAchievementStore) ListByUser(_ context.Context, userID string) ([]models.UserAchievement, error) {
	var out []models.UserAchievement
	for _, award := range s.awards {
		if award.UserID == userID {
			out = append(out, award)
		}
	}
	return out, nil
}

func (s *memAchievementStore) ListDefinitions(_ context.Context) ([]models.Achievement, error) {
	var out []models.Achievement
	for _, def := range s.defs {
		out = append(out, *def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Points < out[j].Points })
	return out, nil
}

// testEnv wires every service over the in-memory stores, the same shape
// main.go builds over mongo.
type testEnv struct {
	quizzes     *memQuizStore
	courses     *memCourseStore
	attempts    *memAttemptStore
	answers     *memAnswerStore
	enrollments *memEnrollmentStore
	lessons     *memLessonStore
	awards      *memAchievementStore

	attemptSvc     *AttemptService
	enrollmentSvc  *EnrollmentService
	achievementSvc *AchievementService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		quizzes:     &memQuizStore{quizzes: make(map[string]*models.Quiz)},
		courses:     &memCourseStore{courses: make(map[string]*models.Course)},
		attempts:    &memAttemptStore{attempts: make(map[string]*models.QuizAttempt)},
		answers:     &memAnswerStore{answers: make(map[string][]models.QuizAnswer)},
		enrollments: &memEnrollmentStore{byID: make(map[string]*models.Enrollment), byKey: make(map[string]string)},
		lessons:     &memLessonStore{rows: make(map[string]*models.LessonProgress)},
		awards:      &memAchievementStore{defs: make(map[string]*models.Achievement)},
	}
	env.achievementSvc = NewAchievementService(env.awards, env.lessons, env.attempts, nil)
	env.attemptSvc = NewAttemptService(env.quizzes, env.attempts, env.answers, env.achievementSvc, repository.NewMemoryLockRepository(), nil)
	env.enrollmentSvc = NewEnrollmentService(env.courses, env.enrollments, env.lessons, env.achievementSvc, nil)
	return env
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func twoQuestionQuiz(id, courseID string) *models.Quiz {
	return &models.Quiz{
		ID:       id,
		CourseID: courseID,
		Title:    "Unit check",
		Questions: []models.Question{
			{
				ID:     "q1",
				Points: 5,
				Options: []models.Option{
					{ID: "q1a", IsCorrect: false},
					{ID: "q1b", IsCorrect: true},
				},
			},
			{
				ID:     "q2",
				Points: 5,
				Options: []models.Option{
					{ID: "q2a", IsCorrect: true},
					{ID: "q2b", IsCorrect: false},
				},
			},
		},
	}
}
