package store

import (
	"context"
	"fmt"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

// ListLeaderboard returns up to limit rows ordered by (score desc,
// created_at asc), each joined with its run detail. A dangling run
// reference yields a row with nil detail rather than an error.
func (p *Postgres) ListLeaderboard(ctx context.Context, limit int) ([]models.RankedEntry, error) {
	const query = `
		SELECT l.id, l.run_id, l.player_id, l.user_id, l.nickname, l.score, l.created_at,
		       r.end_deck, r.end_relics, r.current_floor, r.run_result
		FROM leaderboard l
		LEFT JOIN runs r ON r.id = l.run_id
		ORDER BY l.score DESC, l.created_at ASC
		LIMIT $1`

	rows, err := p.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, translate(fmt.Errorf("listing leaderboard: %w", err))
	}
	defer rows.Close()

	var entries []models.RankedEntry
	for rows.Next() {
		var (
			entry        models.RankedEntry
			endDeck      []byte
			endRelics    []byte
			currentFloor *int
			result       *models.RunResult
		)
		err := rows.Scan(
			&entry.ID,
			&entry.RunID,
			&entry.PlayerID,
			&entry.UserID,
			&entry.Nickname,
			&entry.Score,
			&entry.CreatedAt,
			&endDeck,
			&endRelics,
			&currentFloor,
			&result,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		if result != nil {
			entry.Run = &models.LeaderboardRunDetail{
				EndDeck:      models.Document(endDeck),
				EndRelics:    models.Document(endRelics),
				CurrentFloor: *currentFloor,
				Result:       *result,
			}
		}
		entries = append(entries, entry)
	}
	return entries, translate(rows.Err())
}

func (t *pgTx) InsertLeaderboardEntry(ctx context.Context, entry *models.LeaderboardEntry) error {
	err := t.q.QueryRow(ctx, `
		INSERT INTO leaderboard (run_id, player_id, user_id, nickname, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		entry.RunID, entry.PlayerID, entry.UserID, entry.Nickname, entry.Score, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return translate(fmt.Errorf("inserting leaderboard entry: %w", err))
	}
	return nil
}

// EvictOverflow deletes every row ranked beyond keep. Ranking order
// matches the read path exactly so the kept set is the visible top-N.
func (t *pgTx) EvictOverflow(ctx context.Context, keep int) (int64, error) {
	tag, err := t.q.Exec(ctx, `
		DELETE FROM leaderboard
		WHERE id IN (
			SELECT id FROM leaderboard
			ORDER BY score DESC, created_at ASC
			OFFSET $1
		)`, keep)
	if err != nil {
		return 0, translate(fmt.Errorf("evicting leaderboard overflow: %w", err))
	}
	return tag.RowsAffected(), nil
}
