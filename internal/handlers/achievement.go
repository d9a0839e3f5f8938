package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isekai-health/backend/internal/services"
)

type AchievementHandler struct {
	achievementService services.AchievementService
}

func NewAchievementHandler(achievementService services.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementService: achievementService}
}

func (ah *AchievementHandler) Create(c *gin.Context) {
	var input services.AchievementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	achievement, err := ah.achievementService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, achievement)
}

func (ah *AchievementHandler) List(c *gin.Context) {
	achievements, err := ah.achievementService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, achievements)
}

func (ah *AchievementHandler) GetByID(c *gin.Context) {
	achievementID, err := uuid.Parse(c.Param("achievement_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("achievement id is not a valid uuid"))
		return
	}
	achievement, err := ah.achievementService.GetByID(c.Request.Context(), achievementID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, achievement)
}

func (ah *AchievementHandler) Update(c *gin.Context) {
	achievementID, err := uuid.Parse(c.Param("achievement_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("achievement id is not a valid uuid"))
		return
	}
	var input services.AchievementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	achievement, err := ah.achievementService.Update(c.Request.Context(), achievementID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, achievement)
}

func (ah *AchievementHandler) Delete(c *gin.Context) {
	achievementID, err := uuid.Parse(c.Param("achievement_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("achievement id is not a valid uuid"))
		return
	}
	if err := ah.achievementService.Delete(c.Request.Context(), achievementID); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "achievement deleted"})
}
