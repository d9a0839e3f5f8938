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

type MoodHandler struct {
	moodService services.MoodService
}

func NewMoodHandler(moodService services.MoodService) *MoodHandler {
	return &MoodHandler{moodService: moodService}
}

func (mh *MoodHandler) Record(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", fmt.Errorf("request data not set"))
		return
	}
	var req struct {
		Mood  string `json:"mood"`
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	entry, err := mh.moodService.RecordEntry(c.Request.Context(), rd.UserID, req.Mood, req.Notes, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (mh *MoodHandler) History(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", fmt.Errorf("request data not set"))
		return
	}
	entries, err := mh.moodService.History(c.Request.Context(), rd.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, entries)
}
