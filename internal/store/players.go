package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

const playerColumns = `id, user_id, nickname, platform, platform_user_id, app_version,
	avatar_url, best_score, best_run_id, first_seen, last_seen, created_at, updated_at`

func (p *Postgres) GetPlayerByUserID(ctx context.Context, userID string) (*models.Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE user_id = $1`, playerColumns)
	player, err := scanPlayer(p.pool.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, translate(err)
	}
	return player, nil
}

// UpsertPlayerProfile applies an explicit profile update. Unlike the
// ingestion upsert it may set platform metadata and the avatar, but it
// still never touches best_score or best_run_id.
func (p *Postgres) UpsertPlayerProfile(ctx context.Context, req *models.PlayerUpsertRequest) (*models.Player, error) {
	query := fmt.Sprintf(`
		INSERT INTO players (id, user_id, nickname, platform, platform_user_id, app_version,
			avatar_url, first_seen, last_seen, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, $8, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			nickname         = EXCLUDED.nickname,
			platform         = COALESCE(NULLIF(EXCLUDED.platform, ''), players.platform),
			platform_user_id = COALESCE(NULLIF(EXCLUDED.platform_user_id, ''), players.platform_user_id),
			app_version      = COALESCE(NULLIF(EXCLUDED.app_version, ''), players.app_version),
			avatar_url       = COALESCE(NULLIF(EXCLUDED.avatar_url, ''), players.avatar_url),
			last_seen        = EXCLUDED.last_seen,
			updated_at       = EXCLUDED.updated_at
		RETURNING %s`, playerColumns)

	now := time.Now().UTC()
	player, err := scanPlayer(p.pool.QueryRow(ctx, query,
		uuid.New(), req.UserID, req.Nickname, req.Platform, req.PlatformUserID,
		req.AppVersion, req.AvatarURL, now,
	))
	if err != nil {
		return nil, translate(fmt.Errorf("upserting player profile: %w", err))
	}
	return player, nil
}

// UpsertPlayer is the ingestion-path upsert: create on first contact,
// otherwise refresh nickname and last_seen only.
func (t *pgTx) UpsertPlayer(ctx context.Context, userID, nickname string, now time.Time) (*models.Player, error) {
	query := fmt.Sprintf(`
		INSERT INTO players (id, user_id, nickname, first_seen, last_seen, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4, $4, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			nickname   = EXCLUDED.nickname,
			last_seen  = EXCLUDED.last_seen,
			updated_at = EXCLUDED.updated_at
		RETURNING %s`, playerColumns)

	player, err := scanPlayer(t.q.QueryRow(ctx, query, uuid.New(), userID, nickname, now))
	if err != nil {
		return nil, translate(fmt.Errorf("upserting player: %w", err))
	}
	return player, nil
}

// PlayerBestForUpdate reads the player's best score under a row lock so
// concurrent submissions for the same player serialize their
// read-then-write instead of racing on a stale snapshot.
func (t *pgTx) PlayerBestForUpdate(ctx context.Context, playerID uuid.UUID) (int64, error) {
	var best int64
	err := t.q.QueryRow(ctx,
		`SELECT best_score FROM players WHERE id = $1 FOR UPDATE`, playerID,
	).Scan(&best)
	if err != nil {
		return 0, translate(fmt.Errorf("locking player best: %w", err))
	}
	return best, nil
}

func (t *pgTx) UpdatePlayerBest(ctx context.Context, playerID, runID uuid.UUID, best int64) error {
	_, err := t.q.Exec(ctx, `
		UPDATE players
		SET best_score = $2, best_run_id = $3, updated_at = $4
		WHERE id = $1`, playerID, best, runID, time.Now().UTC())
	if err != nil {
		return translate(fmt.Errorf("updating player best: %w", err))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var player models.Player
	err := row.Scan(
		&player.ID,
		&player.UserID,
		&player.Nickname,
		&player.Platform,
		&player.PlatformUserID,
		&player.AppVersion,
		&player.AvatarURL,
		&player.BestScore,
		&player.BestRunID,
		&player.FirstSeen,
		&player.LastSeen,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &player, nil
}
