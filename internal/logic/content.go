package logic

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dreamcore/leaderboard-api/internal/models"
	"github.com/dreamcore/leaderboard-api/internal/store"
)

// Content serves the static card/relic/event lists with a Redis
// read-through cache. Static content changes only on deploys, so a
// short TTL is plenty; player and leaderboard state is never cached.
type Content struct {
	store  store.Store
	redis  RedisClient
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewContent(st store.Store, rdb RedisClient, ttl time.Duration, logger *zap.SugaredLogger) *Content {
	return &Content{store: st, redis: rdb, ttl: ttl, logger: logger}
}

func (s *Content) List(ctx context.Context, kind string) ([]models.ContentItem, error) {
	key := "content:" + kind

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, key).Result()
		if err == nil {
			var items []models.ContentItem
			if err := json.Unmarshal([]byte(cached), &items); err == nil {
				return items, nil
			}
			s.logger.Warnw("corrupt content cache entry, refetching", "key", key)
		} else if err != redis.Nil {
			// Cache trouble must not take the endpoint down.
			s.logger.Warnw("content cache read failed", "key", key, "error", err)
		}
	}

	items, err := s.store.ListContent(ctx, kind)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.ContentItem{}
	}

	if s.redis != nil {
		if encoded, err := json.Marshal(items); err == nil {
			if err := s.redis.Set(ctx, key, encoded, s.ttl).Err(); err != nil {
				s.logger.Warnw("content cache write failed", "key", key, "error", err)
			}
		}
	}
	return items, nil
}
