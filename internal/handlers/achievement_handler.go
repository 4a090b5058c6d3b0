package handlers

import (
	"context"

	"progress-service/internal/service"
	"progress-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type AchievementHandler struct {
	Service *service.AchievementService
}

func NewAchievementHandler(s *service.AchievementService) *AchievementHandler {
	return &AchievementHandler{Service: s}
}

// ListMine returns the current user's earned achievements.
func (h *AchievementHandler) ListMine(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	awards, err := h.Service.ListUserAchievements(context.Background(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to list achievements")
		return
	}
	utils.SuccessResponse(c, "Achievements", awards)
}

// ListDefinitions returns the achievement catalog created so far.
func (h *AchievementHandler) ListDefinitions(c *gin.Context) {
	defs, err := h.Service.ListDefinitions(context.Background())
	if err != nil {
		respondServiceError(c, err, "Failed to list achievement definitions")
		return
	}
	utils.SuccessResponse(c, "Achievement definitions", defs)
}

// Dashboard returns the user's learning summary: fact counts, earned
// achievements and total achievement points.
func (h *AchievementHandler) Dashboard(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	summary, err := h.Service.Dashboard(context.Background(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to build dashboard")
		return
	}
	utils.SuccessResponse(c, "Dashboard", summary)
}
