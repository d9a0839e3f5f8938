package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isekai-health/backend/internal/services"
)

type ChallengeHandler struct {
	challengeService services.ChallengeService
}

func NewChallengeHandler(challengeService services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

func (ch *ChallengeHandler) Create(c *gin.Context) {
	var input services.ChallengeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	challenge, err := ch.challengeService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, challenge)
}

func (ch *ChallengeHandler) List(c *gin.Context) {
	challenges, err := ch.challengeService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, challenges)
}

func (ch *ChallengeHandler) GetByID(c *gin.Context) {
	challengeID, err := uuid.Parse(c.Param("challenge_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("challenge id is not a valid uuid"))
		return
	}
	challenge, err := ch.challengeService.GetByID(c.Request.Context(), challengeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, challenge)
}

func (ch *ChallengeHandler) Update(c *gin.Context) {
	challengeID, err := uuid.Parse(c.Param("challenge_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("challenge id is not a valid uuid"))
		return
	}
	var input services.ChallengeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	challenge, err := ch.challengeService.Update(c.Request.Context(), challengeID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, challenge)
}

func (ch *ChallengeHandler) Delete(c *gin.Context) {
	challengeID, err := uuid.Parse(c.Param("challenge_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("challenge id is not a valid uuid"))
		return
	}
	if err := ch.challengeService.Delete(c.Request.Context(), challengeID); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "challenge deleted"})
}
