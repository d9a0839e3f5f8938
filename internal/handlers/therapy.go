package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isekai-health/backend/internal/services"
)

type TherapyHandler struct {
	therapyService services.TherapyService
}

func NewTherapyHandler(therapyService services.TherapyService) *TherapyHandler {
	return &TherapyHandler{therapyService: therapyService}
}

func (th *TherapyHandler) Create(c *gin.Context) {
	var input services.TherapyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	therapy, err := th.therapyService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, therapy)
}

func (th *TherapyHandler) List(c *gin.Context) {
	therapies, err := th.therapyService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, therapies)
}

func (th *TherapyHandler) GetByID(c *gin.Context) {
	therapyID, err := uuid.Parse(c.Param("therapy_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("therapy id is not a valid uuid"))
		return
	}
	therapy, err := th.therapyService.GetByID(c.Request.Context(), therapyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, therapy)
}

func (th *TherapyHandler) Update(c *gin.Context) {
	therapyID, err := uuid.Parse(c.Param("therapy_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("therapy id is not a valid uuid"))
		return
	}
	var input services.TherapyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	therapy, err := th.therapyService.Update(c.Request.Context(), therapyID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, therapy)
}

func (th *TherapyHandler) Delete(c *gin.Context) {
	therapyID, err := uuid.Parse(c.Param("therapy_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("therapy id is not a valid uuid"))
		return
	}
	if err := th.therapyService.Delete(c.Request.Context(), therapyID); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "therapy deleted"})
}
