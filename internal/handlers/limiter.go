package handlers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

// rateLimiter gates run submissions per (client IP, user id).
type rateLimiter interface {
	Allow(ctx context.Context, key string) error
}

// redisLimiter is a fixed-window limiter backed by Redis INCR+EXPIRE.
// Redis trouble fails open: submissions keep working without the
// limiter.
type redisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
	logger *zap.SugaredLogger
}

func (l *redisLimiter) Allow(ctx context.Context, key string) error {
	if l.client == nil || l.max <= 0 {
		return nil
	}

	redisKey := "ratelimit:" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.Warnw("rate limiter unavailable", "error", err)
		return nil
	}
	if count == 1 {
		l.client.Expire(ctx, redisKey, l.window)
	}
	if count > int64(l.max) {
		return models.ErrRateLimited
	}
	return nil
}
