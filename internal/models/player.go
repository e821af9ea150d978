package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayerClass is the character class at the start or end of a run.
type PlayerClass string

const (
	ClassTitan     PlayerClass = "titan"
	ClassArcane    PlayerClass = "arcane"
	ClassUmbralist PlayerClass = "umbralist"
	ClassNone      PlayerClass = "no_class"
)

// ValidPlayerClass reports whether c is one of the known classes.
func ValidPlayerClass(c PlayerClass) bool {
	switch c {
	case ClassTitan, ClassArcane, ClassUmbralist, ClassNone:
		return true
	}
	return false
}

// Player is one registered user identity. best_score always equals the
// maximum score across the player's accepted runs, 0 when there are
// none; BestRunID is nil exactly in that no-runs case.
type Player struct {
	ID             uuid.UUID  `json:"id"`
	UserID         string     `json:"user_id"`
	Nickname       string     `json:"nickname"`
	Platform       string     `json:"platform,omitempty"`
	PlatformUserID string     `json:"platform_user_id,omitempty"`
	AppVersion     string     `json:"app_version,omitempty"`
	AvatarURL      string     `json:"avatar_url,omitempty"`
	BestScore      int64      `json:"best_score"`
	BestRunID      *uuid.UUID `json:"best_run_id,omitempty"`
	FirstSeen      time.Time  `json:"first_seen"`
	LastSeen       time.Time  `json:"last_seen"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
