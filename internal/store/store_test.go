package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

func TestTranslateNoRows(t *testing.T) {
	err := translate(fmt.Errorf("loading player: %w", pgx.ErrNoRows))
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTranslateUndefinedTable(t *testing.T) {
	pgErr := &pgconn.PgError{Code: undefinedTable, Message: `relation "runs" does not exist`}
	err := translate(fmt.Errorf("inserting run: %w", pgErr))
	if !errors.Is(err, models.ErrSchemaMissing) {
		t.Errorf("expected ErrSchemaMissing, got %v", err)
	}
}

func TestTranslatePassthrough(t *testing.T) {
	if translate(nil) != nil {
		t.Error("nil must stay nil")
	}

	other := errors.New("connection reset")
	if got := translate(other); got != other {
		t.Errorf("unrelated errors must pass through, got %v", got)
	}

	pgErr := &pgconn.PgError{Code: "23505"}
	if got := translate(pgErr); !errors.Is(got, pgErr) {
		t.Errorf("other pg errors must pass through, got %v", got)
	}
}

func TestDuplicateRunKey(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "runs_submission_key"}
	if !duplicateRunKey(fmt.Errorf("inserting run: %w", dup)) {
		t.Error("submission-tuple violations must be recognized")
	}

	otherConstraint := &pgconn.PgError{Code: "23505", ConstraintName: "players_user_id_key"}
	if duplicateRunKey(otherConstraint) {
		t.Error("violations of other constraints must not be recognized")
	}
	if duplicateRunKey(errors.New("connection reset")) {
		t.Error("non-pg errors must not be recognized")
	}
}

func TestContentTableWhitelist(t *testing.T) {
	for kind, want := range map[string]string{"cards": "cards", "Relics": "relics", "EVENTS": "events"} {
		got, err := contentTable(kind)
		if err != nil || got != want {
			t.Errorf("contentTable(%q) = %q, %v; want %q", kind, got, err, want)
		}
	}
	if _, err := contentTable("players"); err == nil {
		t.Error("non-content tables must be rejected")
	}
}
