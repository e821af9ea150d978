package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

const runColumns = `id, player_id, user_id, nickname_snapshot, score, seed, run_seed,
	run_time_ms, version, current_floor, start_class, end_class, start_deck, start_relics,
	end_deck, end_relics, floor_events, nodes_state, inputs_hash, proof_hash, flags,
	run_result, created_at`

func (p *Postgres) GetRunByID(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	query := fmt.Sprintf(`SELECT %s FROM runs WHERE id = $1`, runColumns)
	run, err := scanRun(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return run, nil
}

// ListRecentRuns returns the player's newest runs first.
func (p *Postgres) ListRecentRuns(ctx context.Context, playerID uuid.UUID, limit int) ([]models.Run, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM runs
		WHERE player_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, runColumns)

	rows, err := p.pool.Query(ctx, query, playerID, limit)
	if err != nil {
		return nil, translate(fmt.Errorf("listing recent runs: %w", err))
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, translate(rows.Err())
}

// FindRunByKey looks up the idempotency tuple. A nil run with nil error
// means no prior submission exists.
func (t *pgTx) FindRunByKey(ctx context.Context, playerID uuid.UUID, runSeed int64, result models.RunResult) (*models.Run, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM runs
		WHERE player_id = $1 AND run_seed = $2 AND run_result = $3`, runColumns)

	run, err := scanRun(t.q.QueryRow(ctx, query, playerID, runSeed, result))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, translate(fmt.Errorf("finding run by key: %w", err))
	}
	return run, nil
}

func (t *pgTx) InsertRun(ctx context.Context, run *models.Run) error {
	_, err := t.q.Exec(ctx, `
		INSERT INTO runs (id, player_id, user_id, nickname_snapshot, score, seed, run_seed,
			run_time_ms, version, current_floor, start_class, end_class, start_deck,
			start_relics, end_deck, end_relics, floor_events, nodes_state, inputs_hash,
			proof_hash, flags, run_result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23)`,
		run.ID, run.PlayerID, run.UserID, run.NicknameSnapshot, run.Score, run.Seed,
		run.RunSeed, run.RunTimeMS, run.Version, run.CurrentFloor, run.StartClass,
		run.EndClass, []byte(run.StartDeck), []byte(run.StartRelics), []byte(run.EndDeck),
		[]byte(run.EndRelics), []byte(run.FloorEvents), []byte(run.NodesState),
		run.InputsHash, run.ProofHash, nullableDoc(run.Flags), run.Result, run.CreatedAt,
	)
	if err != nil {
		if duplicateRunKey(err) {
			return ErrDuplicateSubmission
		}
		return translate(fmt.Errorf("inserting run: %w", err))
	}
	return nil
}

// duplicateRunKey reports whether err is the unique violation on the
// (player_id, run_seed, run_result) submission tuple.
func duplicateRunKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolation &&
		pgErr.ConstraintName == "runs_submission_key"
}

// nullableDoc maps an absent document onto SQL NULL instead of an empty
// byte slice, which jsonb columns reject.
func nullableDoc(d models.Document) any {
	if len(d) == 0 {
		return nil
	}
	return []byte(d)
}

func scanRun(row rowScanner) (*models.Run, error) {
	var (
		run   models.Run
		flags []byte
	)
	err := row.Scan(
		&run.ID,
		&run.PlayerID,
		&run.UserID,
		&run.NicknameSnapshot,
		&run.Score,
		&run.Seed,
		&run.RunSeed,
		&run.RunTimeMS,
		&run.Version,
		&run.CurrentFloor,
		&run.StartClass,
		&run.EndClass,
		(*[]byte)(&run.StartDeck),
		(*[]byte)(&run.StartRelics),
		(*[]byte)(&run.EndDeck),
		(*[]byte)(&run.EndRelics),
		(*[]byte)(&run.FloorEvents),
		(*[]byte)(&run.NodesState),
		&run.InputsHash,
		&run.ProofHash,
		&flags,
		&run.Result,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Flags = models.Document(flags)
	return &run, nil
}
