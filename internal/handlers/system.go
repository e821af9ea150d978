package handlers

import (
	"net/http"
	"os"
	"strings"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

const (
	postgresMigration   = "migrations/postgres/001_initial_schema.sql"
	clickhouseMigration = "migrations/clickhouse/001_initial_schema.sql"
)

// InstallDatabase applies the initial schema to Postgres and
// ClickHouse. Safe to re-run: the migrations are written with
// IF NOT EXISTS guards.
// @Summary Install Database Schema
// @Tags System
// @Produce json
// @Param X-Api-Key header string false "API key"
// @Success 200 {object} models.InstallResponse "Applied Migrations"
// @Failure 500 {object} map[string]string "Migration Failed"
// @Router /system/install [post]
func (h *Handler) InstallDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applied := []string{}

	if err := h.migrator.ApplyMigrations(ctx, postgresMigration); err != nil {
		h.logger.Errorw("failed to apply postgres migration", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "postgres migration failed")
		return
	}
	applied = append(applied, postgresMigration)

	chSQL, err := os.ReadFile(clickhouseMigration)
	if err != nil {
		h.logger.Errorw("failed to read clickhouse migration", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "migration file missing")
		return
	}
	// ClickHouse takes one statement per Exec.
	for _, stmt := range strings.Split(string(chSQL), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := h.ch.Exec(ctx, stmt); err != nil {
			h.logger.Errorw("failed to apply clickhouse migration", "error", err, "statement", stmt)
			h.errorResponse(w, http.StatusInternalServerError, "clickhouse migration failed")
			return
		}
	}
	applied = append(applied, clickhouseMigration)

	h.logger.Infow("database install complete", "applied", applied)
	h.jsonResponse(w, http.StatusOK, models.InstallResponse{
		Applied: applied,
		Status:  "ok",
	})
}
