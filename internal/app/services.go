package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/isekai-health/backend/internal/cache"
	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/progression"
	"github.com/isekai-health/backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Progression services.ProgressionService
	Therapy     services.TherapyService
	Achievement services.AchievementService
	Challenge   services.ChallengeService
	Activity    services.ActivityService
	Mood        services.MoodService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, *cache.CatalogCache, error) {
	log.Info("Wiring services...")

	levels := progression.DefaultLevelTable()
	if cfg.LevelTablePath != "" {
		loaded, err := progression.LoadLevelTable(cfg.LevelTablePath)
		if err != nil {
			return Services{}, nil, fmt.Errorf("load level table: %w", err)
		}
		levels = loaded
		log.Info("Level table loaded", "path", cfg.LevelTablePath, "steps", len(levels))
	}

	rdb := cache.NewRedisClient(log)
	catalogCache := cache.NewCatalogCache(rdb, log, reposet.Achievement, reposet.Challenge, cfg.CatalogCacheTTL)

	authService := services.NewAuthService(db, log, reposet.User, reposet.UserToken, reposet.UserProgression, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	progressionService := services.NewProgressionService(log, reposet.User, reposet.UserProgression, reposet.Therapy, reposet.MoodEntry, catalogCache, levels)
	therapyService := services.NewTherapyService(db, log, reposet.Therapy)
	achievementService := services.NewAchievementService(db, log, reposet.Achievement, catalogCache)
	challengeService := services.NewChallengeService(db, log, reposet.Challenge, catalogCache)
	activityService := services.NewActivityService(db, log, reposet.Activity)
	moodService := services.NewMoodService(db, log, reposet.MoodEntry, progressionService)

	return Services{
		Auth:        authService,
		Progression: progressionService,
		Therapy:     therapyService,
		Achievement: achievementService,
		Challenge:   challengeService,
		Activity:    activityService,
		Mood:        moodService,
	}, catalogCache, nil
}
