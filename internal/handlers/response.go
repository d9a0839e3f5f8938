package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isekai-health/backend/internal/progression"
	"github.com/isekai-health/backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondServiceError maps the sentinel errors the services return onto HTTP
// statuses and stable error codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err)
	case errors.Is(err, services.ErrNameTaken):
		RespondError(c, http.StatusConflict, "NAME_TAKEN", err)
	case errors.Is(err, services.ErrUserNotFound):
		RespondError(c, http.StatusNotFound, "USER_NOT_FOUND", err)
	case errors.Is(err, services.ErrTherapyNotFound):
		RespondError(c, http.StatusNotFound, "THERAPY_NOT_FOUND", err)
	case errors.Is(err, services.ErrAchievementNotFound):
		RespondError(c, http.StatusNotFound, "ACHIEVEMENT_NOT_FOUND", err)
	case errors.Is(err, services.ErrChallengeNotFound):
		RespondError(c, http.StatusNotFound, "CHALLENGE_NOT_FOUND", err)
	case errors.Is(err, services.ErrActivityNotFound):
		RespondError(c, http.StatusNotFound, "ACTIVITY_NOT_FOUND", err)
	case errors.Is(err, services.ErrNotActive):
		RespondError(c, http.StatusNotFound, "NOT_ACTIVE", err)
	case errors.Is(err, services.ErrConcurrentUpdate):
		RespondError(c, http.StatusConflict, "CONCURRENT_UPDATE", err)
	case errors.Is(err, progression.ErrTherapyInactive):
		RespondError(c, http.StatusBadRequest, "THERAPY_INACTIVE", err)
	case errors.Is(err, progression.ErrLevelTooLow):
		RespondError(c, http.StatusForbidden, "LEVEL_TOO_LOW", err)
	case errors.Is(err, progression.ErrAlreadyCompleted):
		RespondError(c, http.StatusConflict, "ALREADY_COMPLETED", err)
	default:
		RespondError(c, http.StatusInternalServerError, "INTERNAL", err)
	}
}
