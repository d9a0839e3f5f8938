package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/isekai-health/backend/internal/logger"
	"github.com/isekai-health/backend/internal/repos"
	"github.com/isekai-health/backend/internal/types"
	"github.com/isekai-health/backend/internal/utils"
)

const (
	activeAchievementsKey = "catalog:achievements:active"
	activeChallengesKey   = "catalog:challenges:active"
)

// CatalogCache serves the active achievement and challenge definitions from
// redis with a short TTL, falling back to postgres. The definitions are
// read-only reference data for the awarders, so staleness up to the TTL is
// acceptable; catalog writes invalidate eagerly. A nil redis client degrades
// to plain repo reads.
type CatalogCache struct {
	rdb             *redis.Client
	log             *logger.Logger
	achievementRepo repos.AchievementRepo
	challengeRepo   repos.ChallengeRepo
	ttl             time.Duration
}

func NewRedisClient(log *logger.Logger) *redis.Client {
	addr := utils.GetEnv("REDIS_ADDR", "", log)
	if addr == "" {
		log.Info("REDIS_ADDR not set, catalog cache disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetEnv("REDIS_PASSWORD", "", log),
		DB:       utils.GetEnvAsInt("REDIS_DB", 0, log),
	})
}

func NewCatalogCache(rdb *redis.Client, log *logger.Logger, achievementRepo repos.AchievementRepo, challengeRepo repos.ChallengeRepo, ttl time.Duration) *CatalogCache {
	cacheLog := log.With("service", "CatalogCache")
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CatalogCache{
		rdb:             rdb,
		log:             cacheLog,
		achievementRepo: achievementRepo,
		challengeRepo:   challengeRepo,
		ttl:             ttl,
	}
}

func (cc *CatalogCache) ListActiveAchievements(ctx context.Context) ([]*types.Achievement, error) {
	var cached []*types.Achievement
	if cc.readCached(ctx, activeAchievementsKey, &cached) {
		return cached, nil
	}
	defs, err := cc.achievementRepo.List(ctx, nil, true)
	if err != nil {
		return nil, err
	}
	cc.writeCached(ctx, activeAchievementsKey, defs)
	return defs, nil
}

func (cc *CatalogCache) ListActiveChallenges(ctx context.Context) ([]*types.Challenge, error) {
	var cached []*types.Challenge
	if cc.readCached(ctx, activeChallengesKey, &cached) {
		return cached, nil
	}
	defs, err := cc.challengeRepo.List(ctx, nil, true)
	if err != nil {
		return nil, err
	}
	cc.writeCached(ctx, activeChallengesKey, defs)
	return defs, nil
}

// InvalidateAchievements drops the cached achievement list after a catalog write.
func (cc *CatalogCache) InvalidateAchievements(ctx context.Context) {
	cc.invalidate(ctx, activeAchievementsKey)
}

// InvalidateChallenges drops the cached challenge list after a catalog write.
func (cc *CatalogCache) InvalidateChallenges(ctx context.Context) {
	cc.invalidate(ctx, activeChallengesKey)
}

func (cc *CatalogCache) readCached(ctx context.Context, key string, out interface{}) bool {
	if cc.rdb == nil {
		return false
	}
	raw, err := cc.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cc.log.Warn("Catalog cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		cc.log.Warn("Catalog cache entry is corrupt, dropping", "key", key, "error", err)
		cc.invalidate(ctx, key)
		return false
	}
	return true
}

func (cc *CatalogCache) writeCached(ctx context.Context, key string, val interface{}) {
	if cc.rdb == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		cc.log.Warn("Catalog cache marshal failed", "key", key, "error", err)
		return
	}
	if err := cc.rdb.Set(ctx, key, raw, cc.ttl).Err(); err != nil {
		cc.log.Warn("Catalog cache write failed", "key", key, "error", err)
	}
}

func (cc *CatalogCache) invalidate(ctx context.Context, key string) {
	if cc.rdb == nil {
		return
	}
	if err := cc.rdb.Del(ctx, key).Err(); err != nil {
		cc.log.Warn("Catalog cache invalidation failed", "key", key, "error", err)
	}
}
