// Package attempt implements the quiz attempt state machine. It operates on
// entity snapshots supplied by the caller and returns mutation instructions;
// persistence is the service layer's job.
package attempt

import (
	"errors"
	"math"
	"time"

	"progress-service/internal/models"
	"progress-service/internal/scoring"
)

var (
	ErrAttemptLimitExceeded    = errors.New("attempt limit exceeded for this quiz")
	ErrAttemptAlreadyCompleted = errors.New("attempt already completed")
	ErrQuestionNotInQuiz       = errors.New("question does not belong to this quiz")
)

// CheckStart guards attempt creation against the quiz's max_attempts setting.
// priorAttempts is the user's existing attempt count for this quiz.
func CheckStart(quiz *models.Quiz, priorAttempts int) error {
	if quiz.MaxAttempts != nil && priorAttempts >= *quiz.MaxAttempts {
		return ErrAttemptLimitExceeded
	}
	return nil
}

// NewAttempt builds the in-progress attempt document.
func NewAttempt(userID string, quiz *models.Quiz, now time.Time) *models.QuizAttempt {
	return &models.QuizAttempt{
		UserID:    userID,
		QuizID:    quiz.ID,
		StartedAt: now,
	}
}

// Completion is the mutation produced by completing an attempt. When the
// attempt was already completed the values echo the stored ones and
// AlreadyCompleted is set; re-completing never rewrites state.
type Completion struct {
	Score            float64   `json:"score"`
	Passed           bool      `json:"passed"`
	CompletedAt      time.Time `json:"completed_at"`
	AlreadyCompleted bool      `json:"already_completed"`
}

// SubmitResult carries the graded answer to upsert plus the implicit
// completion triggered when the answer set covers every question. Submitting
// the final answer and completing the attempt are one operation.
type SubmitResult struct {
	Answer     models.QuizAnswer `json:"answer"`
	Completed  bool              `json:"completed"`
	Completion *Completion       `json:"completion,omitempty"`
}

// SubmitAnswer grades one (attempt, question) answer against the quiz
// snapshot. answers is the attempt's current answer set; a prior answer for
// the same question is overwritten, not duplicated. When the distinct
// answered count reaches the quiz's question count the attempt completes as
// part of the same operation.
func SubmitAnswer(quiz *models.Quiz, att *models.QuizAttempt, answers []models.QuizAnswer, questionID, selectedOptionID, answerText string, now time.Time) (*SubmitResult, error) {
	if att.Completed() {
		return nil, ErrAttemptAlreadyCompleted
	}

	question := quiz.FindQuestion(questionID)
	if question == nil {
		return nil, ErrQuestionNotInQuiz
	}

	grade := scoring.GradeAnswer(*question, selectedOptionID, answerText)
	answer := models.QuizAnswer{
		AttemptID:        att.ID,
		QuestionID:       questionID,
		SelectedOptionID: selectedOptionID,
		AnswerText:       answerText,
		IsCorrect:        grade.IsCorrect,
		PointsEarned:     grade.PointsEarned,
		AnsweredAt:       now,
	}

	merged := mergeAnswer(answers, answer)
	result := &SubmitResult{Answer: answer}

	if len(merged) >= quiz.QuestionCount() && quiz.QuestionCount() > 0 {
		result.Completed = true
		result.Completion = Complete(quiz, att, merged, now)
	}

	return result, nil
}

// Complete sums earned points over the answer set and derives score, passed
// and completed_at. Idempotent: a completed attempt is echoed back unchanged.
func Complete(quiz *models.Quiz, att *models.QuizAttempt, answers []models.QuizAnswer, now time.Time) *Completion {
	if att.Completed() {
		c := &Completion{CompletedAt: *att.CompletedAt, AlreadyCompleted: true}
		if att.Score != nil {
			c.Score = *att.Score
		}
		if att.Passed != nil {
			c.Passed = *att.Passed
		}
		return c
	}

	earned := 0.0
	for _, a := range answers {
		earned += a.PointsEarned
	}

	score := scoring.AttemptScore(quiz.TotalPoints(), earned)
	return &Completion{
		Score:       score,
		Passed:      score >= quiz.PassingScoreOrDefault(),
		CompletedAt: now,
	}
}

// Duration reports completed-attempt length in minutes, rounded to two
// decimals. Nil while in progress.
func Duration(att *models.QuizAttempt) *float64 {
	if att.CompletedAt == nil {
		return nil
	}
	minutes := scoring.Round2(att.CompletedAt.Sub(att.StartedAt).Minutes())
	return &minutes
}

// TimeRemaining returns whole minutes left on a timed attempt, floored at
// zero, or nil when the quiz has no time limit. Elapsed time rounds up, so a
// started minute counts as spent.
func TimeRemaining(quiz *models.Quiz, att *models.QuizAttempt, now time.Time) *int {
	if quiz.TimeLimitMinutes == nil {
		return nil
	}
	elapsed := int(math.Ceil(now.Sub(att.StartedAt).Minutes()))
	remaining := *quiz.TimeLimitMinutes - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// TimedOut reports whether a timed attempt has run out. The engine does not
// enforce a lockout; callers decide what to do with an expired attempt.
func TimedOut(quiz *models.Quiz, att *models.QuizAttempt, now time.Time) bool {
	remaining := TimeRemaining(quiz, att, now)
	return remaining != nil && *remaining == 0
}

func mergeAnswer(answers []models.QuizAnswer, latest models.QuizAnswer) []models.QuizAnswer {
	merged := make([]models.QuizAnswer, 0, len(answers)+1)
	replaced := false
	for _, a := range answers {
		if a.QuestionID == latest.QuestionID {
			merged = append(merged, latest)
			replaced = true
			continue
		}
		merged = append(merged, a)
	}
	if !replaced {
		merged = append(merged, latest)
	}
	return merged
}
