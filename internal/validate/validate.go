// Package validate checks raw submit-run payloads before any state is
// touched. All rule violations are collected and reported together so a
// client can fix a payload in one round trip.
package validate

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

// Violation codes are stable machine-readable identifiers; clients match
// on them, so they must never change meaning.
const (
	CodePayloadInvalid      = "payload_invalid"
	CodeUserIDRequired      = "user_id_required"
	CodeNicknameRequired    = "nickname_required"
	CodeNicknameTrim        = "nickname_trim"
	CodeNicknameLength      = "nickname_length"
	CodeScoreInvalid        = "score_invalid"
	CodeSeedRequired        = "seed_required"
	CodeRunSeedInvalid      = "run_seed_invalid"
	CodeRunTimeMSInvalid    = "run_time_ms_invalid"
	CodeVersionRequired     = "version_required"
	CodeCurrentFloorInvalid = "current_floor_invalid"
	CodeStartClassInvalid   = "start_class_invalid"
	CodeStartDeckRequired   = "start_deck_required"
	CodeStartRelicsRequired = "start_relics_required"
	CodeEndClassInvalid     = "end_class_invalid"
	CodeEndDeckRequired     = "end_deck_required"
	CodeEndRelicsRequired   = "end_relics_required"
	CodeFloorEventsRequired = "floor_events_required"
	CodeNodesStateRequired  = "nodes_state_required"
	CodeRunResultInvalid    = "run_result_invalid"
	CodeInputsHashLength    = "inputs_hash_length"
	CodeProofHashLength     = "proof_hash_length"
	CodeFlagsInvalid        = "flags_invalid"
	CodeRunNotCompleted     = "run_not_completed"
)

const maxHashLen = 256

// Run validates a raw submit-run body. It returns either a fully
// populated submission or the ordered list of violation codes. The two
// outcomes are exclusive: a nil code slice is the only success signal.
func Run(raw []byte) (*models.RunSubmission, []string) {
	fields, ok := decodeObject(raw)
	if !ok {
		return nil, []string{CodePayloadInvalid}
	}

	var codes []string
	fail := func(code string) { codes = append(codes, code) }

	userID := strings.TrimSpace(stringField(fields, "user_id"))
	if userID == "" {
		fail(CodeUserIDRequired)
	}

	nickname := stringField(fields, "nickname")
	if nickname == "" {
		fail(CodeNicknameRequired)
	}
	if nickname != "" && strings.TrimSpace(nickname) != nickname {
		fail(CodeNicknameTrim)
	}
	// Length counts characters, not bytes; multibyte nicknames are
	// legal on the submit path.
	if n := utf8.RuneCountInString(nickname); n < 3 || n > 16 {
		fail(CodeNicknameLength)
	}

	score, ok := intField(fields, "score")
	if !ok || score < 0 {
		fail(CodeScoreInvalid)
	}

	seed := stringField(fields, "seed")
	if seed == "" {
		fail(CodeSeedRequired)
	}

	// run_seed may exceed the float64 53-bit safe range, so it is parsed
	// straight from the JSON token rather than through a float.
	runSeed, ok := intField(fields, "run_seed")
	if !ok || runSeed < 0 {
		fail(CodeRunSeedInvalid)
	}

	runTimeMS, ok := intField(fields, "run_time_ms")
	if !ok || runTimeMS < 0 || runTimeMS > models.MaxRunTimeMS {
		fail(CodeRunTimeMSInvalid)
	}

	version := stringField(fields, "version")
	if version == "" {
		fail(CodeVersionRequired)
	}

	currentFloor, ok := intField(fields, "current_floor")
	if !ok || currentFloor < 0 {
		fail(CodeCurrentFloorInvalid)
	}

	startClass := models.PlayerClass(stringField(fields, "start_class"))
	if !models.ValidPlayerClass(startClass) {
		fail(CodeStartClassInvalid)
	}
	endClass := models.PlayerClass(stringField(fields, "end_class"))
	if !models.ValidPlayerClass(endClass) {
		fail(CodeEndClassInvalid)
	}

	startDeck := docField(fields, "start_deck")
	if !startDeck.IsStructured() {
		fail(CodeStartDeckRequired)
	}
	startRelics := docField(fields, "start_relics")
	if !startRelics.IsStructured() {
		fail(CodeStartRelicsRequired)
	}
	endDeck := docField(fields, "end_deck")
	if !endDeck.IsStructured() {
		fail(CodeEndDeckRequired)
	}
	endRelics := docField(fields, "end_relics")
	if !endRelics.IsStructured() {
		fail(CodeEndRelicsRequired)
	}
	floorEvents := docField(fields, "floor_events")
	if !floorEvents.IsStructured() {
		fail(CodeFloorEventsRequired)
	}
	nodesState := docField(fields, "nodes_state")
	if !nodesState.IsStructured() {
		fail(CodeNodesStateRequired)
	}

	result, ok := models.NormalizeRunResult(stringField(fields, "run_result"))
	if !ok {
		fail(CodeRunResultInvalid)
	}

	inputsHash := stringField(fields, "inputs_hash")
	if len(inputsHash) > maxHashLen {
		fail(CodeInputsHashLength)
	}
	proofHash := stringField(fields, "proof_hash")
	if len(proofHash) > maxHashLen {
		fail(CodeProofHashLength)
	}

	flags := docField(fields, "flags")
	if !flags.IsEmpty() && !flags.IsStructured() {
		fail(CodeFlagsInvalid)
	} else if completed, present, err := flags.BoolField("completed"); err != nil {
		fail(CodeFlagsInvalid)
	} else if present && !completed {
		fail(CodeRunNotCompleted)
	}

	if len(codes) > 0 {
		return nil, codes
	}

	return &models.RunSubmission{
		UserID:       userID,
		Nickname:     nickname,
		Score:        score,
		Seed:         seed,
		RunSeed:      runSeed,
		RunTimeMS:    runTimeMS,
		Version:      version,
		CurrentFloor: int(currentFloor),
		StartClass:   startClass,
		EndClass:     endClass,
		StartDeck:    startDeck,
		StartRelics:  startRelics,
		EndDeck:      endDeck,
		EndRelics:    endRelics,
		FloorEvents:  floorEvents,
		NodesState:   nodesState,
		InputsHash:   inputsHash,
		ProofHash:    proofHash,
		Flags:        flags,
		Result:       result,
	}, nil
}

// decodeObject unmarshals one level deep so each field can be checked
// against its own rule without losing the rest of the payload.
func decodeObject(raw []byte) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// stringField returns the field's string value, or "" when the field is
// absent or not a JSON string. Type mismatches surface through the same
// required/invalid codes as missing fields.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// intField parses the field as a base-10 integer directly from the JSON
// token. Floats, exponents and quoted numbers are rejected.
func intField(fields map[string]json.RawMessage, key string) (int64, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(string(bytes.TrimSpace(raw)), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func docField(fields map[string]json.RawMessage, key string) models.Document {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	return models.Document(raw)
}
