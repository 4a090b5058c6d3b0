package handlers

import (
	"context"

	"progress-service/internal/service"
	"progress-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	Service *service.AttemptService
}

func NewAttemptHandler(s *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{Service: s}
}

// StartAttempt opens a new attempt on a quiz for the current user.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	att, err := h.Service.StartAttempt(context.Background(), userID, c.Param("quizId"))
	if err != nil {
		respondServiceError(c, err, "Failed to start attempt")
		return
	}
	utils.CreatedResponse(c, "Attempt started", att)
}

// SubmitAnswer records one answer on an attempt. Submitting the last
// unanswered question also completes the attempt.
func (h *AttemptHandler) SubmitAnswer(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	var req struct {
		QuestionID       string `json:"question_id" binding:"required"`
		SelectedOptionID string `json:"selected_option_id"`
		AnswerText       string `json:"answer_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format: "+err.Error())
		return
	}

	outcome, err := h.Service.SubmitAnswer(context.Background(), userID, c.Param("id"), req.QuestionID, req.SelectedOptionID, req.AnswerText)
	if err != nil {
		respondServiceError(c, err, "Failed to submit answer")
		return
	}

	message := "Answer submitted"
	if outcome.Completed {
		message = "Answer submitted, attempt completed"
	}
	utils.SuccessResponse(c, message, outcome)
}

// CompleteAttempt finalizes an attempt regardless of unanswered questions.
func (h *AttemptHandler) CompleteAttempt(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	outcome, err := h.Service.CompleteAttempt(context.Background(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to complete attempt")
		return
	}
	utils.SuccessResponse(c, "Attempt completed", outcome)
}

// GetAttemptStatus returns the attempt with its answers and timing view.
func (h *AttemptHandler) GetAttemptStatus(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	status, err := h.Service.GetAttemptStatus(context.Background(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load attempt")
		return
	}
	utils.SuccessResponse(c, "Attempt status", status)
}

// ListAttempts returns the user's attempt history for a quiz.
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	history, err := h.Service.ListAttempts(context.Background(), userID, c.Param("quizId"))
	if err != nil {
		respondServiceError(c, err, "Failed to list attempts")
		return
	}
	utils.SuccessResponse(c, "Attempt history", history)
}

// GetQuizStats returns the average score over completed attempts.
func (h *AttemptHandler) GetQuizStats(c *gin.Context) {
	stats, err := h.Service.GetQuizStats(context.Background(), c.Param("quizId"))
	if err != nil {
		respondServiceError(c, err, "Failed to load quiz stats")
		return
	}
	utils.SuccessResponse(c, "Quiz stats", stats)
}
