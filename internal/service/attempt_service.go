package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"progress-service/internal/attempt"
	"progress-service/internal/event"
	"progress-service/internal/models"
	"progress-service/internal/scoring"
)

type QuizStore interface {
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
}

type AttemptStore interface {
	Create(ctx context.Context, att *models.QuizAttempt) error
	FindByID(ctx context.Context, id string) (*models.QuizAttempt, error)
	FindByUserAndQuiz(ctx context.Context, userID, quizID string) ([]models.QuizAttempt, error)
	CountByUserAndQuiz(ctx context.Context, userID, quizID string) (int, error)
	Complete(ctx context.Context, id string, score float64, passed bool, completedAt time.Time) error
	AverageScoreByQuiz(ctx context.Context, quizID string) (float64, int, error)
}

type AnswerStore interface {
	Upsert(ctx context.Context, answer *models.QuizAnswer) error
	FindByAttempt(ctx context.Context, attemptID string) ([]models.QuizAnswer, error)
}

// Locker serializes the read-grade-write cycle per attempt.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

// AttemptService orchestrates the attempt state machine: load snapshots, run
// the engine, persist the mutation, then fire side effects (events,
// achievement evaluation).
type AttemptService struct {
	Quizzes      QuizStore
	Attempts     AttemptStore
	Answers      AnswerStore
	Achievements *AchievementService
	Locks        Locker
	Publisher    *event.EventPublisher
}

func NewAttemptService(quizzes QuizStore, attempts AttemptStore, answers AnswerStore, achievements *AchievementService, locks Locker, publisher *event.EventPublisher) *AttemptService {
	return &AttemptService{
		Quizzes:      quizzes,
		Attempts:     attempts,
		Answers:      answers,
		Achievements: achievements,
		Locks:        locks,
		Publisher:    publisher,
	}
}

func (s *AttemptService) StartAttempt(ctx context.Context, userID, quizID string) (*models.QuizAttempt, error) {
	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}

	prior, err := s.Attempts.CountByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("count attempts: %w", err)
	}
	if err := attempt.CheckStart(quiz, prior); err != nil {
		return nil, err
	}

	att := attempt.NewAttempt(userID, quiz, time.Now())
	if err := s.Attempts.Create(ctx, att); err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	s.Publisher.Publish("quiz.attempt.started", map[string]interface{}{
		"attempt_id": att.ID,
		"user_id":    userID,
		"quiz_id":    quizID,
		"attempt_no": prior + 1,
	})
	return att, nil
}

// SubmitOutcome is what an answer submission or explicit completion returns.
// NewAchievements lists titles awarded by the completion cascade, if any.
type SubmitOutcome struct {
	Attempt         *models.QuizAttempt `json:"attempt"`
	Answer          *models.QuizAnswer  `json:"answer,omitempty"`
	Completed       bool                `json:"completed"`
	NewAchievements []string            `json:"new_achievements,omitempty"`
}

// SubmitAnswer grades and stores one answer under the attempt lock. When the
// answer set covers the quiz the attempt completes in the same call and the
// achievement rules run before returning.
func (s *AttemptService) SubmitAnswer(ctx context.Context, userID, attemptID, questionID, selectedOptionID, answerText string) (*SubmitOutcome, error) {
	release, err := s.Locks.Acquire(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("acquire attempt lock: %w", err)
	}
	defer release()

	att, quiz, err := s.loadAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}

	answers, err := s.Answers.FindByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}

	result, err := attempt.SubmitAnswer(quiz, att, answers, questionID, selectedOptionID, answerText, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.Answers.Upsert(ctx, &result.Answer); err != nil {
		return nil, fmt.Errorf("store answer: %w", err)
	}

	s.Publisher.Publish("quiz.answer.submitted", map[string]interface{}{
		"attempt_id":  attemptID,
		"user_id":     userID,
		"question_id": questionID,
		"is_correct":  result.Answer.IsCorrect,
	})

	outcome := &SubmitOutcome{Attempt: att, Answer: &result.Answer}
	if result.Completed {
		awarded, err := s.applyCompletion(ctx, att, quiz, result.Completion)
		if err != nil {
			return nil, err
		}
		outcome.Completed = true
		outcome.NewAchievements = awarded
	}
	return outcome, nil
}

// CompleteAttempt finalizes an attempt explicitly, scoring whatever answers
// exist. Completing an already-completed attempt returns its stored result.
func (s *AttemptService) CompleteAttempt(ctx context.Context, userID, attemptID string) (*SubmitOutcome, error) {
	release, err := s.Locks.Acquire(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("acquire attempt lock: %w", err)
	}
	defer release()

	att, quiz, err := s.loadAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}

	answers, err := s.Answers.FindByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}

	completion := attempt.Complete(quiz, att, answers, time.Now())
	if completion.AlreadyCompleted {
		return &SubmitOutcome{Attempt: att, Completed: true}, nil
	}

	awarded, err := s.applyCompletion(ctx, att, quiz, completion)
	if err != nil {
		return nil, err
	}
	return &SubmitOutcome{Attempt: att, Completed: true, NewAchievements: awarded}, nil
}

// applyCompletion persists the completion mutation and runs the side effects.
// A persist failure is returned before any effect fires, so the caller never
// reports a completion that is not stored. Achievement evaluation failures
// are logged, not returned; the completion is already committed at that point.
func (s *AttemptService) applyCompletion(ctx context.Context, att *models.QuizAttempt, quiz *models.Quiz, completion *attempt.Completion) ([]string, error) {
	if err := s.Attempts.Complete(ctx, att.ID, completion.Score, completion.Passed, completion.CompletedAt); err != nil {
		return nil, fmt.Errorf("persist completion: %w", err)
	}
	att.Score = &completion.Score
	att.Passed = &completion.Passed
	att.CompletedAt = &completion.CompletedAt

	s.Publisher.Publish("quiz.attempt.completed", map[string]interface{}{
		"attempt_id": att.ID,
		"user_id":    att.UserID,
		"quiz_id":    quiz.ID,
		"score":      completion.Score,
		"passed":     completion.Passed,
	})

	awarded, err := s.Achievements.EvaluateForUser(ctx, att.UserID)
	if err != nil {
		log.Printf("Achievement evaluation failed for user %s: %v", att.UserID, err)
	}
	return awarded, nil
}

// AttemptStatus is the live view of an attempt: its answers plus the timing
// fields derived from the quiz's time limit.
type AttemptStatus struct {
	Attempt       *models.QuizAttempt `json:"attempt"`
	Answers       []models.QuizAnswer `json:"answers"`
	TimeRemaining *int                `json:"time_remaining,omitempty"`
	TimedOut      bool                `json:"timed_out"`
	Duration      *float64            `json:"duration_minutes,omitempty"`
}

func (s *AttemptService) GetAttemptStatus(ctx context.Context, userID, attemptID string) (*AttemptStatus, error) {
	att, quiz, err := s.loadAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	answers, err := s.Answers.FindByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}

	now := time.Now()
	return &AttemptStatus{
		Attempt:       att,
		Answers:       answers,
		TimeRemaining: attempt.TimeRemaining(quiz, att, now),
		TimedOut:      attempt.TimedOut(quiz, att, now),
		Duration:      attempt.Duration(att),
	}, nil
}

// AttemptHistory lists a user's attempts for one quiz, newest first, with the
// best completed score pulled out.
type AttemptHistory struct {
	Attempts []models.QuizAttempt `json:"attempts"`
	Best     *models.QuizAttempt  `json:"best_attempt,omitempty"`
}

func (s *AttemptService) ListAttempts(ctx context.Context, userID, quizID string) (*AttemptHistory, error) {
	attempts, err := s.Attempts.FindByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	history := &AttemptHistory{Attempts: attempts}
	for i := range attempts {
		a := &attempts[i]
		if a.Score == nil {
			continue
		}
		if history.Best == nil || *a.Score > *history.Best.Score {
			history.Best = a
		}
	}
	return history, nil
}

// QuizStats is the per-quiz aggregate over completed attempts.
type QuizStats struct {
	QuizID            string  `json:"quiz_id"`
	AverageScore      float64 `json:"average_score"`
	CompletedAttempts int     `json:"completed_attempts"`
}

func (s *AttemptService) GetQuizStats(ctx context.Context, quizID string) (*QuizStats, error) {
	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}

	avg, count, err := s.Attempts.AverageScoreByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("aggregate scores: %w", err)
	}
	return &QuizStats{
		QuizID:            quizID,
		AverageScore:      scoring.Round2(avg),
		CompletedAttempts: count,
	}, nil
}

// loadAttempt fetches the attempt and its quiz snapshot, scoped to the
// requesting user. Another user's attempt reads as not found.
func (s *AttemptService) loadAttempt(ctx context.Context, userID, attemptID string) (*models.QuizAttempt, *models.Quiz, error) {
	att, err := s.Attempts.FindByID(ctx, attemptID)
	if err != nil {
		return nil, nil, fmt.Errorf("load attempt: %w", err)
	}
	if att == nil || att.UserID != userID {
		return nil, nil, ErrAttemptNotFound
	}

	quiz, err := s.Quizzes.FindByID(ctx, att.QuizID)
	if err != nil {
		return nil, nil, fmt.Errorf("load quiz: %w", err)
	}
	if quiz == nil {
		return nil, nil, ErrQuizNotFound
	}
	return att, quiz, nil
}
