package logic

import (
	"context"

	"go.uber.org/zap"

	"github.com/dreamcore/leaderboard-api/internal/models"
	"github.com/dreamcore/leaderboard-api/internal/store"
)

// Players serves profile reads and explicit profile upserts.
type Players struct {
	store  store.Store
	logger *zap.SugaredLogger
}

func NewPlayers(st store.Store, logger *zap.SugaredLogger) *Players {
	return &Players{store: st, logger: logger}
}

func (s *Players) Profile(ctx context.Context, userID string) (*models.Player, error) {
	return s.store.GetPlayerByUserID(ctx, userID)
}

func (s *Players) Upsert(ctx context.Context, req *models.PlayerUpsertRequest) (*models.Player, error) {
	player, err := s.store.UpsertPlayerProfile(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("player profile upserted", "user_id", player.UserID, "nickname", player.Nickname)
	return player, nil
}
