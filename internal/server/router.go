package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/isekai-health/backend/internal/handlers"
	"github.com/isekai-health/backend/internal/middleware"
	"github.com/isekai-health/backend/internal/types"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	UserHandler        *handlers.UserHandler
	TherapyHandler     *handlers.TherapyHandler
	AchievementHandler *handlers.AchievementHandler
	ChallengeHandler   *handlers.ChallengeHandler
	ActivityHandler    *handlers.ActivityHandler
	MoodHandler        *handlers.MoodHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware("isekai-backend"))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.Healthcheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)
	}

	// Protected
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/logout", cfg.AuthHandler.Logout)

		// User progression
		protected.GET("/user/profile", cfg.UserHandler.GetProfile)
		protected.POST("/user/therapies/:therapy_id/complete",
			cfg.AuthMiddleware.RequireRole(types.RolePatient),
			cfg.UserHandler.CompleteTherapy)

		// Mood
		protected.POST("/mood", cfg.MoodHandler.Record)
		protected.GET("/mood/history", cfg.MoodHandler.History)

		// Catalog reads
		protected.GET("/therapies", cfg.TherapyHandler.List)
		protected.GET("/therapies/:therapy_id", cfg.TherapyHandler.GetByID)
		protected.GET("/achievements", cfg.AchievementHandler.List)
		protected.GET("/achievements/:achievement_id", cfg.AchievementHandler.GetByID)
		protected.GET("/challenges", cfg.ChallengeHandler.List)
		protected.GET("/challenges/:challenge_id", cfg.ChallengeHandler.GetByID)
		protected.GET("/activities", cfg.ActivityHandler.List)
		protected.GET("/activities/:activity_id", cfg.ActivityHandler.GetByID)
	}

	// Catalog writes are staff only
	staff := protected.Group("/")
	staff.Use(cfg.AuthMiddleware.RequireRole(types.RoleTherapist, types.RoleAdmin))
	{
		staff.POST("/therapies", cfg.TherapyHandler.Create)
		staff.PUT("/therapies/:therapy_id", cfg.TherapyHandler.Update)
		staff.DELETE("/therapies/:therapy_id", cfg.TherapyHandler.Delete)

		staff.POST("/achievements", cfg.AchievementHandler.Create)
		staff.PUT("/achievements/:achievement_id", cfg.AchievementHandler.Update)
		staff.DELETE("/achievements/:achievement_id", cfg.AchievementHandler.Delete)

		staff.POST("/challenges", cfg.ChallengeHandler.Create)
		staff.PUT("/challenges/:challenge_id", cfg.ChallengeHandler.Update)
		staff.DELETE("/challenges/:challenge_id", cfg.ChallengeHandler.Delete)

		staff.POST("/activities", cfg.ActivityHandler.Create)
		staff.PUT("/activities/:activity_id", cfg.ActivityHandler.Update)
		staff.DELETE("/activities/:activity_id", cfg.ActivityHandler.Delete)
	}

	return router
}
