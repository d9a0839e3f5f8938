package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isekai-health/backend/internal/requestdata"
	"github.com/isekai-health/backend/internal/services"
)

type UserHandler struct {
	progressionService services.ProgressionService
}

func NewUserHandler(progressionService services.ProgressionService) *UserHandler {
	return &UserHandler{progressionService: progressionService}
}

func (uh *UserHandler) GetProfile(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", fmt.Errorf("request data not set"))
		return
	}
	profile, err := uh.progressionService.GetProfile(c.Request.Context(), rd.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, profile)
}

func (uh *UserHandler) CompleteTherapy(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", fmt.Errorf("request data not set"))
		return
	}
	therapyID, err := uuid.Parse(c.Param("therapy_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("therapy id is not a valid uuid"))
		return
	}
	summary, err := uh.progressionService.CompleteTherapy(c.Request.Context(), rd.UserID, therapyID, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, summary)
}
