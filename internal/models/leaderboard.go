package models

import (
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry is one ranking-table row, tied to a single accepted
// run. The table is kept bounded: rows ranked beyond the configured
// maximum by (score desc, created_at asc) are evicted at insert time.
type LeaderboardEntry struct {
	ID        int64     `json:"-"`
	RunID     uuid.UUID `json:"run_id"`
	PlayerID  uuid.UUID `json:"-"`
	UserID    string    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// LeaderboardRunDetail is the denormalized run payload attached to a
// leaderboard row. It is nil when the referenced run no longer exists;
// the query degrades instead of failing.
type LeaderboardRunDetail struct {
	EndDeck      Document  `json:"end_deck"`
	EndRelics    Document  `json:"end_relics"`
	CurrentFloor int       `json:"current_floor"`
	Result       RunResult `json:"run_result"`
}

// RankedEntry is a leaderboard row annotated with its 1-based rank and
// optional run detail.
type RankedEntry struct {
	Rank int `json:"rank"`
	LeaderboardEntry
	Run *LeaderboardRunDetail `json:"run,omitempty"`
}
