package app

import (
	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/repos"
)

type Repos struct {
	User            repos.UserRepo
	UserToken       repos.UserTokenRepo
	UserProgression repos.UserProgressionRepo
	Therapy         repos.TherapyRepo
	Achievement     repos.AchievementRepo
	Challenge       repos.ChallengeRepo
	Activity        repos.ActivityRepo
	MoodEntry       repos.MoodEntryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:            repos.NewUserRepo(db, log),
		UserToken:       repos.NewUserTokenRepo(db, log),
		UserProgression: repos.NewUserProgressionRepo(db, log),
		Therapy:         repos.NewTherapyRepo(db, log),
		Achievement:     repos.NewAchievementRepo(db, log),
		Challenge:       repos.NewChallengeRepo(db, log),
		Activity:        repos.NewActivityRepo(db, log),
		MoodEntry:       repos.NewMoodEntryRepo(db, log),
	}
}
