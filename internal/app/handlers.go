package app

import (
	"github.com/isekai-health/backend/internal/handlers"
	"github.com/isekai-health/backend/internal/logger"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Therapy     *handlers.TherapyHandler
	Achievement *handlers.AchievementHandler
	Challenge   *handlers.ChallengeHandler
	Activity    *handlers.ActivityHandler
	Mood        *handlers.MoodHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:        handlers.NewAuthHandler(serviceset.Auth),
		User:        handlers.NewUserHandler(serviceset.Progression),
		Therapy:     handlers.NewTherapyHandler(serviceset.Therapy),
		Achievement: handlers.NewAchievementHandler(serviceset.Achievement),
		Challenge:   handlers.NewChallengeHandler(serviceset.Challenge),
		Activity:    handlers.NewActivityHandler(serviceset.Activity),
		Mood:        handlers.NewMoodHandler(serviceset.Mood),
	}
}
