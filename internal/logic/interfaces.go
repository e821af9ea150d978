// Package logic holds the core services between HTTP handlers and the
// store. Handlers depend on these interfaces so tests can mock them.
package logic

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

// IngestService applies validated run submissions.
type IngestService interface {
	Submit(ctx context.Context, sub *models.RunSubmission) (*models.SubmitResult, error)
}

// LeaderboardService serves the ranked top-N view.
type LeaderboardService interface {
	Top(ctx context.Context, limit int) (*models.LeaderboardResponse, error)
}

// PlayerService serves player profiles.
type PlayerService interface {
	Profile(ctx context.Context, userID string) (*models.Player, error)
	Upsert(ctx context.Context, req *models.PlayerUpsertRequest) (*models.Player, error)
}

// DeckService resolves a player's current deck snapshot.
type DeckService interface {
	Resolve(ctx context.Context, userID string) (*models.DeckResponse, error)
}

// ContentService serves the static card/relic/event lists.
type ContentService interface {
	List(ctx context.Context, kind string) ([]models.ContentItem, error)
}

// RunSink receives accepted runs for asynchronous processing. Enqueue
// must never block the ingestion path; it reports false when the run
// was dropped.
type RunSink interface {
	Enqueue(run *models.Run) bool
}

// RedisClient is the slice of the go-redis API the content cache needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}
