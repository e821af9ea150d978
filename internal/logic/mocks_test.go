package logic

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dreamcore/leaderboard-api/internal/models"
	"github.com/dreamcore/leaderboard-api/internal/store"
)

// mockStore implements store.Store with overridable funcs.
type mockStore struct {
	WithTxFunc              func(ctx context.Context, fn func(tx store.Tx) error) error
	GetPlayerByUserIDFunc   func(ctx context.Context, userID string) (*models.Player, error)
	UpsertPlayerProfileFunc func(ctx context.Context, req *models.PlayerUpsertRequest) (*models.Player, error)
	GetRunByIDFunc          func(ctx context.Context, id uuid.UUID) (*models.Run, error)
	ListRecentRunsFunc      func(ctx context.Context, playerID uuid.UUID, limit int) ([]models.Run, error)
	ListLeaderboardFunc     func(ctx context.Context, limit int) ([]models.RankedEntry, error)
	ListContentFunc         func(ctx context.Context, kind string) ([]models.ContentItem, error)
	SchemaReadyFunc         func(ctx context.Context) (bool, error)
}

func (m *mockStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, fn)
	}
	return fn(&mockTx{})
}

func (m *mockStore) GetPlayerByUserID(ctx context.Context, userID string) (*models.Player, error) {
	if m.GetPlayerByUserIDFunc != nil {
		return m.GetPlayerByUserIDFunc(ctx, userID)
	}
	return nil, models.ErrNotFound
}

func (m *mockStore) UpsertPlayerProfile(ctx context.Context, req *models.PlayerUpsertRequest) (*models.Player, error) {
	if m.UpsertPlayerProfileFunc != nil {
		return m.UpsertPlayerProfileFunc(ctx, req)
	}
	return nil, models.ErrNotFound
}

func (m *mockStore) GetRunByID(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	if m.GetRunByIDFunc != nil {
		return m.GetRunByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *mockStore) ListRecentRuns(ctx context.Context, playerID uuid.UUID, limit int) ([]models.Run, error) {
	if m.ListRecentRunsFunc != nil {
		return m.ListRecentRunsFunc(ctx, playerID, limit)
	}
	return nil, nil
}

func (m *mockStore) ListLeaderboard(ctx context.Context, limit int) ([]models.RankedEntry, error) {
	if m.ListLeaderboardFunc != nil {
		return m.ListLeaderboardFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockStore) ListContent(ctx context.Context, kind string) ([]models.ContentItem, error) {
	if m.ListContentFunc != nil {
		return m.ListContentFunc(ctx, kind)
	}
	return nil, nil
}

func (m *mockStore) SchemaReady(ctx context.Context) (bool, error) {
	if m.SchemaReadyFunc != nil {
		return m.SchemaReadyFunc(ctx)
	}
	return true, nil
}

// mockTx implements store.Tx. The zero value acts as an empty database
// for a fresh player; tests override funcs or inspect the recorded
// writes.
type mockTx struct {
	Player      *models.Player
	ExistingRun *models.Run
	Best        int64

	InsertedRun   *models.Run
	InsertedEntry *models.LeaderboardEntry
	EvictedCalls  []int
	BestUpdates   []int64

	UpsertPlayerFunc func(ctx context.Context, userID, nickname string, now time.Time) (*models.Player, error)
	InsertRunFunc    func(ctx context.Context, run *models.Run) error
	EvictFunc        func(ctx context.Context, keep int) (int64, error)
}

func (m *mockTx) UpsertPlayer(ctx context.Context, userID, nickname string, now time.Time) (*models.Player, error) {
	if m.UpsertPlayerFunc != nil {
		return m.UpsertPlayerFunc(ctx, userID, nickname, now)
	}
	if m.Player == nil {
		m.Player = &models.Player{
			ID:        uuid.New(),
			UserID:    userID,
			Nickname:  nickname,
			FirstSeen: now,
			LastSeen:  now,
		}
	} else {
		m.Player.Nickname = nickname
		m.Player.LastSeen = now
	}
	return m.Player, nil
}

func (m *mockTx) FindRunByKey(ctx context.Context, playerID uuid.UUID, runSeed int64, result models.RunResult) (*models.Run, error) {
	if m.ExistingRun != nil && m.ExistingRun.RunSeed == runSeed && m.ExistingRun.Result == result {
		return m.ExistingRun, nil
	}
	return nil, nil
}

func (m *mockTx) InsertRun(ctx context.Context, run *models.Run) error {
	if m.InsertRunFunc != nil {
		return m.InsertRunFunc(ctx, run)
	}
	m.InsertedRun = run
	return nil
}

func (m *mockTx) InsertLeaderboardEntry(ctx context.Context, entry *models.LeaderboardEntry) error {
	m.InsertedEntry = entry
	return nil
}

func (m *mockTx) EvictOverflow(ctx context.Context, keep int) (int64, error) {
	m.EvictedCalls = append(m.EvictedCalls, keep)
	if m.EvictFunc != nil {
		return m.EvictFunc(ctx, keep)
	}
	return 0, nil
}

func (m *mockTx) PlayerBestForUpdate(ctx context.Context, playerID uuid.UUID) (int64, error) {
	return m.Best, nil
}

func (m *mockTx) UpdatePlayerBest(ctx context.Context, playerID, runID uuid.UUID, best int64) error {
	m.Best = best
	m.BestUpdates = append(m.BestUpdates, best)
	if m.Player != nil {
		m.Player.BestScore = best
		m.Player.BestRunID = &runID
	}
	return nil
}
