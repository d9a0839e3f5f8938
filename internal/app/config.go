package app

import (
	"time"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/utils"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	LevelTablePath  string
	CatalogCacheTTL time.Duration
	Environment     string
	Version         string
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	levelTablePath := utils.GetEnv("LEVEL_TABLE_PATH", "", log)
	catalogCacheTTLSeconds := utils.GetEnvAsInt("CATALOG_CACHE_TTL", 60, log)
	environment := utils.GetEnv("APP_ENV", "development", log)
	version := utils.GetEnv("APP_VERSION", "dev", log)
	return Config{
		Port:            port,
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		LevelTablePath:  levelTablePath,
		CatalogCacheTTL: time.Duration(catalogCacheTTLSeconds) * time.Second,
		Environment:     environment,
		Version:         version,
	}
}
