package logic

import (
	"context"

	"go.uber.org/zap"

	"github.com/dreamcore/leaderboard-api/internal/models"
	"github.com/dreamcore/leaderboard-api/internal/store"
)

// Leaderboard serves the ranked view of the bounded ranking table.
type Leaderboard struct {
	store        store.Store
	defaultLimit int
	maxLimit     int
	logger       *zap.SugaredLogger
}

func NewLeaderboard(st store.Store, defaultLimit, maxLimit int, logger *zap.SugaredLogger) *Leaderboard {
	return &Leaderboard{store: st, defaultLimit: defaultLimit, maxLimit: maxLimit, logger: logger}
}

// Top returns up to limit entries with 1-based ranks. A non-positive
// limit falls back to the default; anything above the cap is clamped.
func (s *Leaderboard) Top(ctx context.Context, limit int) (*models.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	entries, err := s.store.ListLeaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	if entries == nil {
		entries = []models.RankedEntry{}
	}
	return &models.LeaderboardResponse{Entries: entries, Limit: limit}, nil
}
