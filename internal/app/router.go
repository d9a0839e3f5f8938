package app

import (
	"github.com/gin-gonic/gin"

	"github.com/isekai-health/backend/internal/server"
)

func wireRouter(handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:        handlerset.Auth,
		AuthMiddleware:     mw.Auth,
		UserHandler:        handlerset.User,
		TherapyHandler:     handlerset.Therapy,
		AchievementHandler: handlerset.Achievement,
		ChallengeHandler:   handlerset.Challenge,
		ActivityHandler:    handlerset.Activity,
		MoodHandler:        handlerset.Mood,
	})
}
