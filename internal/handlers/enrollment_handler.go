package handlers

import (
	"context"

	"progress-service/internal/service"
	"progress-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	Service *service.EnrollmentService
}

func NewEnrollmentHandler(s *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{Service: s}
}

// Enroll adds the current user to a course and seeds its lesson progress.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	enr, err := h.Service.Enroll(context.Background(), userID, c.Param("courseId"))
	if err != nil {
		respondServiceError(c, err, "Failed to enroll")
		return
	}
	utils.CreatedResponse(c, "Enrolled", enr)
}

// SetLessonProgress toggles a lesson's completion state and recomputes the
// enrollment. Omitting "completed" marks the lesson done.
func (h *EnrollmentHandler) SetLessonProgress(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	var req struct {
		CourseID         string `json:"course_id" binding:"required"`
		Completed        *bool  `json:"completed"`
		TimeSpentMinutes int    `json:"time_spent_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format: "+err.Error())
		return
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}
	if req.TimeSpentMinutes < 0 {
		utils.BadRequestResponse(c, "time_spent_minutes must not be negative")
		return
	}

	outcome, err := h.Service.SetLessonCompleted(context.Background(), userID, req.CourseID, c.Param("lessonId"), completed, req.TimeSpentMinutes)
	if err != nil {
		respondServiceError(c, err, "Failed to update lesson progress")
		return
	}

	message := "Lesson progress updated"
	if outcome.JustCompleted {
		message = "Lesson progress updated, course completed"
	}
	utils.SuccessResponse(c, message, outcome)
}

// GetEnrollment returns the enrollment with its per-lesson facts.
func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	detail, err := h.Service.GetEnrollment(context.Background(), userID, c.Param("courseId"))
	if err != nil {
		respondServiceError(c, err, "Failed to load enrollment")
		return
	}
	utils.SuccessResponse(c, "Enrollment", detail)
}

// ListEnrollments returns the user's enrollments, newest first.
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	enrollments, err := h.Service.ListEnrollments(context.Background(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to list enrollments")
		return
	}
	utils.SuccessResponse(c, "Enrollments", enrollments)
}
