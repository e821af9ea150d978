package handlers

import (
	"context"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

type mockIngest struct {
	SubmitFunc func(ctx context.Context, sub *models.RunSubmission) (*models.SubmitResult, error)
}

func (m *mockIngest) Submit(ctx context.Context, sub *models.RunSubmission) (*models.SubmitResult, error) {
	return m.SubmitFunc(ctx, sub)
}

type mockLeaderboard struct {
	TopFunc func(ctx context.Context, limit int) (*models.LeaderboardResponse, error)
}

func (m *mockLeaderboard) Top(ctx context.Context, limit int) (*models.LeaderboardResponse, error) {
	return m.TopFunc(ctx, limit)
}

type mockPlayers struct {
	ProfileFunc func(ctx context.Context, userID string) (*models.Player, error)
	UpsertFunc  func(ctx context.Context, req *models.PlayerUpsertRequest) (*models.Player, error)
}

func (m *mockPlayers) Profile(ctx context.Context, userID string) (*models.Player, error) {
	return m.ProfileFunc(ctx, userID)
}

func (m *mockPlayers) Upsert(ctx context.Context, req *models.PlayerUpsertRequest) (*models.Player, error) {
	return m.UpsertFunc(ctx, req)
}

type mockDeck struct {
	ResolveFunc func(ctx context.Context, userID string) (*models.DeckResponse, error)
}

func (m *mockDeck) Resolve(ctx context.Context, userID string) (*models.DeckResponse, error) {
	return m.ResolveFunc(ctx, userID)
}

type mockContent struct {
	ListFunc func(ctx context.Context, kind string) ([]models.ContentItem, error)
}

func (m *mockContent) List(ctx context.Context, kind string) ([]models.ContentItem, error) {
	return m.ListFunc(ctx, kind)
}

type mockLimiter struct {
	AllowFunc func(ctx context.Context, key string) error
	keys      []string
}

func (m *mockLimiter) Allow(ctx context.Context, key string) error {
	m.keys = append(m.keys, key)
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key)
	}
	return nil
}

type mockQueue struct {
	depth int
}

func (m *mockQueue) QueueDepth() int { return m.depth }
