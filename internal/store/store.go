// Package store is the PostgreSQL persistence layer. The service layer
// depends on the Store and Tx interfaces so tests can swap in mocks.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

// Store is the persistence surface outside a transaction.
type Store interface {
	// WithTx runs fn inside a single transaction. fn returning an error
	// rolls everything back.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	GetPlayerByUserID(ctx context.Context, userID string) (*models.Player, error)
	UpsertPlayerProfile(ctx context.Context, req *models.PlayerUpsertRequest) (*models.Player, error)
	GetRunByID(ctx context.Context, id uuid.UUID) (*models.Run, error)
	ListRecentRuns(ctx context.Context, playerID uuid.UUID, limit int) ([]models.Run, error)
	ListLeaderboard(ctx context.Context, limit int) ([]models.RankedEntry, error)
	ListContent(ctx context.Context, kind string) ([]models.ContentItem, error)
	SchemaReady(ctx context.Context) (bool, error)
}

// Tx is the write surface available inside an ingestion transaction.
type Tx interface {
	UpsertPlayer(ctx context.Context, userID, nickname string, now time.Time) (*models.Player, error)
	FindRunByKey(ctx context.Context, playerID uuid.UUID, runSeed int64, result models.RunResult) (*models.Run, error)
	InsertRun(ctx context.Context, run *models.Run) error
	InsertLeaderboardEntry(ctx context.Context, entry *models.LeaderboardEntry) error
	EvictOverflow(ctx context.Context, keep int) (int64, error)
	PlayerBestForUpdate(ctx context.Context, playerID uuid.UUID) (int64, error)
	UpdatePlayerBest(ctx context.Context, playerID, runID uuid.UUID, best int64) error
}

// ErrDuplicateSubmission reports that a concurrent transaction inserted
// the same (player, run_seed, run_result) tuple first. The submission
// is safe to retry; the retry takes the idempotent replay path.
var ErrDuplicateSubmission = errors.New("duplicate run submission")

// Postgres error codes.
const (
	// undefinedTable is raised when a query hits a table that does not
	// exist yet, i.e. migrations have not been applied.
	undefinedTable = "42P01"
	// uniqueViolation is raised when an insert loses a race on a unique
	// constraint.
	uniqueViolation = "23505"
)

// translate maps low-level pgx errors onto the domain error set.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return models.ErrSchemaMissing
	}
	return err
}
