package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

type PlayerUpsertRequest struct {
	UserID         string `json:"user_id" validate:"required,max=64"`
	Nickname       string `json:"nickname" validate:"required,nickname"`
	Platform       string `json:"platform" validate:"omitempty,max=32"`
	PlatformUserID string `json:"platform_user_id" validate:"omitempty,max=128"`
	AppVersion     string `json:"app_version" validate:"omitempty,max=32"`
	AvatarURL      string `json:"avatar_url" validate:"omitempty,url,max=512"`
}

type PlayerProfileResponse struct {
	UserID    string     `json:"user_id"`
	Nickname  string     `json:"nickname"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	BestScore int64      `json:"best_score"`
	BestRunID *uuid.UUID `json:"best_run_id,omitempty"`
	FirstSeen string     `json:"first_seen"` // ISO8601
	LastSeen  string     `json:"last_seen"`  // ISO8601
}

type LeaderboardResponse struct {
	Entries []RankedEntry `json:"entries"`
	Limit   int           `json:"limit"`
}

// DeckResponse is the latest-deck payload. SourceRunID identifies the
// run the collections were taken from; it is nil when the player exists
// but has no deck yet. Elements stay opaque: clients define the card
// and relic shapes.
type DeckResponse struct {
	UserID      string            `json:"user_id"`
	SourceRunID *uuid.UUID        `json:"source_run_id,omitempty"`
	Source      string            `json:"source"` // "best", "recent" or "none"
	Deck        []json.RawMessage `json:"deck"`
	Relics      []json.RawMessage `json:"relics"`
	Class       PlayerClass       `json:"class,omitempty"`
	Floor       int               `json:"floor"`
}

type ContentItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Rarity   string   `json:"rarity,omitempty"`
	Class    string   `json:"class,omitempty"`
	Cost     *int     `json:"cost,omitempty"`
	Metadata Document `json:"metadata,omitempty"`
}

type InstallResponse struct {
	Applied []string `json:"applied"`
	Status  string   `json:"status"`
}
