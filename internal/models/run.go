package models

import (
	"time"

	"github.com/google/uuid"
)

// RunResult is the canonical outcome of a run.
type RunResult string

const (
	ResultVictory RunResult = "victory"
	ResultDefeat  RunResult = "defeat"
)

// NormalizeRunResult maps client synonyms onto the canonical outcomes.
// The second return is false for unknown values.
func NormalizeRunResult(s string) (RunResult, bool) {
	switch s {
	case "victory", "win":
		return ResultVictory, true
	case "defeat", "loss":
		return ResultDefeat, true
	}
	return "", false
}

// MaxRunTimeMS bounds run_time_ms to 24 hours.
const MaxRunTimeMS = 24 * 60 * 60 * 1000

// Run is an immutable record of one completed game attempt. The tuple
// (PlayerID, RunSeed, Result) identifies a submission: resubmitting the
// same tuple never creates a second row.
type Run struct {
	ID               uuid.UUID   `json:"id"`
	PlayerID         uuid.UUID   `json:"player_id"`
	UserID           string      `json:"user_id"`
	NicknameSnapshot string      `json:"nickname_snapshot"`
	Score            int64       `json:"score"`
	Seed             string      `json:"seed"`
	RunSeed          int64       `json:"run_seed"`
	RunTimeMS        int64       `json:"run_time_ms"`
	Version          string      `json:"version"`
	CurrentFloor     int         `json:"current_floor"`
	StartClass       PlayerClass `json:"start_class"`
	EndClass         PlayerClass `json:"end_class"`
	StartDeck        Document    `json:"start_deck"`
	StartRelics      Document    `json:"start_relics"`
	EndDeck          Document    `json:"end_deck"`
	EndRelics        Document    `json:"end_relics"`
	FloorEvents      Document    `json:"floor_events"`
	NodesState       Document    `json:"nodes_state"`
	InputsHash       string      `json:"inputs_hash,omitempty"`
	ProofHash        string      `json:"proof_hash,omitempty"`
	Flags            Document    `json:"flags,omitempty"`
	Result           RunResult   `json:"run_result"`
	CreatedAt        time.Time   `json:"created_at"`
}

// RunSubmission is a fully validated submit-run payload.
type RunSubmission struct {
	UserID       string
	Nickname     string
	Score        int64
	Seed         string
	RunSeed      int64
	RunTimeMS    int64
	Version      string
	CurrentFloor int
	StartClass   PlayerClass
	EndClass     PlayerClass
	StartDeck    Document
	StartRelics  Document
	EndDeck      Document
	EndRelics    Document
	FloorEvents  Document
	NodesState   Document
	InputsHash   string
	ProofHash    string
	Flags        Document
	Result       RunResult
}

// SubmitResult is returned by the ingestion transaction. Duplicate is
// set when an identical (player, run_seed, result) tuple had already
// been accepted and no new rows were written.
type SubmitResult struct {
	RunID     uuid.UUID `json:"run_id"`
	BestScore int64     `json:"best_score"`
	Duplicate bool      `json:"-"`
}
