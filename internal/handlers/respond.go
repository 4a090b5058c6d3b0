package handlers

import (
	"errors"
	"net/http"

	"progress-service/internal/attempt"
	"progress-service/internal/service"
	"progress-service/internal/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps domain errors onto HTTP statuses: missing entities
// to 404, state conflicts to 409, bad references to 400, the rest to 500.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrQuizNotFound),
		errors.Is(err, service.ErrAttemptNotFound),
		errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrEnrollmentNotFound):
		utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, service.ErrAlreadyEnrolled),
		errors.Is(err, service.ErrNotEnrolled),
		errors.Is(err, attempt.ErrAttemptLimitExceeded),
		errors.Is(err, attempt.ErrAttemptAlreadyCompleted):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, attempt.ErrQuestionNotInQuiz),
		errors.Is(err, service.ErrLessonNotInCourse):
		utils.BadRequestResponse(c, err.Error())
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, fallback, err)
	}
}
