package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// txTimeout bounds a whole ingestion transaction, lock waits included.
const txTimeout = 45 * time.Second

// Postgres implements Store over a pgx connection pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.SugaredLogger) *Postgres {
	return &Postgres{pool: pool, logger: logger}
}

// Pool exposes the underlying pool for health checks.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *Postgres) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return translate(fmt.Errorf("begin tx: %w", err))
	}
	// Rollback after commit is a no-op.
	defer tx.Rollback(ctx)

	if err := fn(&pgTx{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translate(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// SchemaReady reports whether the core tables exist. to_regclass
// returns NULL for missing relations without raising an error.
func (p *Postgres) SchemaReady(ctx context.Context) (bool, error) {
	const query = `
		SELECT to_regclass('public.players') IS NOT NULL
		   AND to_regclass('public.runs') IS NOT NULL
		   AND to_regclass('public.leaderboard') IS NOT NULL
	`
	var ready bool
	if err := p.pool.QueryRow(ctx, query).Scan(&ready); err != nil {
		return false, fmt.Errorf("checking schema: %w", err)
	}
	return ready, nil
}

// ApplyMigrations executes the SQL file at path as one script.
func (p *Postgres) ApplyMigrations(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading migration %s: %w", path, err)
	}
	if _, err := p.pool.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("executing migration %s: %w", path, err)
	}
	p.logger.Infow("migration applied", "path", path)
	return nil
}

// pgTx wraps a live pgx transaction behind the Tx interface.
type pgTx struct {
	q pgx.Tx
}

// contentTables whitelists the static-content kinds; anything else is a
// routing bug, not user input.
var contentTables = map[string]string{
	"cards":  "cards",
	"relics": "relics",
	"events": "events",
}

func contentTable(kind string) (string, error) {
	table, ok := contentTables[strings.ToLower(kind)]
	if !ok {
		return "", fmt.Errorf("unknown content kind %q", kind)
	}
	return table, nil
}
