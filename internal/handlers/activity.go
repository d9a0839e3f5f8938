package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isekai-health/backend/internal/services"
)

type ActivityHandler struct {
	activityService services.ActivityService
}

func NewActivityHandler(activityService services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (ah *ActivityHandler) Create(c *gin.Context) {
	var input services.ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	activity, err := ah.activityService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, activity)
}

func (ah *ActivityHandler) List(c *gin.Context) {
	activities, err := ah.activityService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, activities)
}

func (ah *ActivityHandler) GetByID(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("activity_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("activity id is not a valid uuid"))
		return
	}
	activity, err := ah.activityService.GetByID(c.Request.Context(), activityID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, activity)
}

func (ah *ActivityHandler) Update(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("activity_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("activity id is not a valid uuid"))
		return
	}
	var input services.ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	activity, err := ah.activityService.Update(c.Request.Context(), activityID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, activity)
}

func (ah *ActivityHandler) Delete(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("activity_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("activity id is not a valid uuid"))
		return
	}
	if err := ah.activityService.Delete(c.Request.Context(), activityID); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "activity deleted"})
}
