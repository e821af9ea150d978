package validate

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

// validPayload returns a minimal payload that passes every rule.
// Tests mutate or delete keys to trigger specific violations.
func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":       "user-1",
		"nickname":      "Hero",
		"score":         1200,
		"seed":          "seed-abc",
		"run_seed":      42,
		"run_time_ms":   90000,
		"version":       "1.0.3",
		"current_floor": 12,
		"start_class":   "titan",
		"end_class":     "titan",
		"start_deck":    []interface{}{map[string]interface{}{"card_id": "strike"}},
		"start_relics":  []interface{}{},
		"end_deck":      []interface{}{map[string]interface{}{"card_id": "strike"}},
		"end_relics":    []interface{}{map[string]interface{}{"relic_id": "ember"}},
		"floor_events":  []interface{}{},
		"nodes_state":   map[string]interface{}{"floor": 12},
		"run_result":    "victory",
	}
}

func marshal(t *testing.T, payload interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return raw
}

func TestRunValid(t *testing.T) {
	sub, codes := Run(marshal(t, validPayload()))
	if codes != nil {
		t.Fatalf("expected no violations, got %v", codes)
	}
	if sub == nil {
		t.Fatal("expected submission, got nil")
	}
	if sub.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", sub.UserID)
	}
	if sub.Score != 1200 {
		t.Errorf("Score = %d, want 1200", sub.Score)
	}
	if sub.RunSeed != 42 {
		t.Errorf("RunSeed = %d, want 42", sub.RunSeed)
	}
	if sub.Result != models.ResultVictory {
		t.Errorf("Result = %q, want victory", sub.Result)
	}
}

func TestRunNonObjectPayload(t *testing.T) {
	for _, body := range []string{`[]`, `"hello"`, `42`, `null`, ``, `{broken`} {
		_, codes := Run([]byte(body))
		if !reflect.DeepEqual(codes, []string{CodePayloadInvalid}) {
			t.Errorf("Run(%q) codes = %v, want [payload_invalid]", body, codes)
		}
	}
}

func TestRunCollectsAllViolations(t *testing.T) {
	payload := validPayload()
	delete(payload, "user_id")
	delete(payload, "seed")
	payload["score"] = -5

	_, codes := Run(marshal(t, payload))
	want := map[string]bool{
		CodeUserIDRequired: true,
		CodeSeedRequired:   true,
		CodeScoreInvalid:   true,
	}
	if len(codes) != len(want) {
		t.Fatalf("codes = %v, want exactly %d violations", codes, len(want))
	}
	for _, code := range codes {
		if !want[code] {
			t.Errorf("unexpected code %q in %v", code, codes)
		}
	}
}

func TestRunFieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		code   string
	}{
		{"nickname missing", func(p map[string]interface{}) { delete(p, "nickname") }, CodeNicknameRequired},
		{"nickname padded", func(p map[string]interface{}) { p["nickname"] = " Hero " }, CodeNicknameTrim},
		{"nickname too short", func(p map[string]interface{}) { p["nickname"] = "ab" }, CodeNicknameLength},
		{"nickname too long", func(p map[string]interface{}) { p["nickname"] = "abcdefghijklmnopq" }, CodeNicknameLength},
		{"score float", func(p map[string]interface{}) { p["score"] = 10.5 }, CodeScoreInvalid},
		{"score string", func(p map[string]interface{}) { p["score"] = "100" }, CodeScoreInvalid},
		{"run_seed negative", func(p map[string]interface{}) { p["run_seed"] = -1 }, CodeRunSeedInvalid},
		{"run_seed missing", func(p map[string]interface{}) { delete(p, "run_seed") }, CodeRunSeedInvalid},
		{"run_time_ms over 24h", func(p map[string]interface{}) { p["run_time_ms"] = models.MaxRunTimeMS + 1 }, CodeRunTimeMSInvalid},
		{"version empty", func(p map[string]interface{}) { p["version"] = "" }, CodeVersionRequired},
		{"current_floor negative", func(p map[string]interface{}) { p["current_floor"] = -3 }, CodeCurrentFloorInvalid},
		{"start_class unknown", func(p map[string]interface{}) { p["start_class"] = "rogue" }, CodeStartClassInvalid},
		{"end_class missing", func(p map[string]interface{}) { delete(p, "end_class") }, CodeEndClassInvalid},
		{"start_deck scalar", func(p map[string]interface{}) { p["start_deck"] = "deck" }, CodeStartDeckRequired},
		{"start_relics null", func(p map[string]interface{}) { p["start_relics"] = nil }, CodeStartRelicsRequired},
		{"end_deck missing", func(p map[string]interface{}) { delete(p, "end_deck") }, CodeEndDeckRequired},
		{"end_relics number", func(p map[string]interface{}) { p["end_relics"] = 7 }, CodeEndRelicsRequired},
		{"floor_events missing", func(p map[string]interface{}) { delete(p, "floor_events") }, CodeFloorEventsRequired},
		{"nodes_state missing", func(p map[string]interface{}) { delete(p, "nodes_state") }, CodeNodesStateRequired},
		{"run_result unknown", func(p map[string]interface{}) { p["run_result"] = "draw" }, CodeRunResultInvalid},
		{"run_result missing", func(p map[string]interface{}) { delete(p, "run_result") }, CodeRunResultInvalid},
		{"flags scalar", func(p map[string]interface{}) { p["flags"] = "yes" }, CodeFlagsInvalid},
		{"flags completed non-bool", func(p map[string]interface{}) { p["flags"] = map[string]interface{}{"completed": "yes"} }, CodeFlagsInvalid},
		{"flags completed false", func(p map[string]interface{}) { p["flags"] = map[string]interface{}{"completed": false} }, CodeRunNotCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(payload)
			sub, codes := Run(marshal(t, payload))
			if sub != nil {
				t.Fatal("expected nil submission on violation")
			}
			found := false
			for _, code := range codes {
				if code == tt.code {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("codes = %v, want %q present", codes, tt.code)
			}
		})
	}
}

func TestRunNicknameLengthCountsRunes(t *testing.T) {
	// 8 characters but 24 bytes; byte counting would reject it.
	payload := validPayload()
	payload["nickname"] = "夜行者の影追い人"
	sub, codes := Run(marshal(t, payload))
	if codes != nil {
		t.Fatalf("expected no violations for multibyte nickname, got %v", codes)
	}
	if sub.Nickname != "夜行者の影追い人" {
		t.Errorf("Nickname = %q", sub.Nickname)
	}

	// 17 characters is over the limit regardless of encoding.
	payload["nickname"] = "あいうえおかきくけこさしすせそたち"
	_, codes = Run(marshal(t, payload))
	if len(codes) != 1 || codes[0] != CodeNicknameLength {
		t.Errorf("expected [%s], got %v", CodeNicknameLength, codes)
	}
}

func TestRunHashBounds(t *testing.T) {
	long := make([]byte, 257)
	for i := range long {
		long[i] = 'a'
	}

	payload := validPayload()
	payload["inputs_hash"] = string(long)
	payload["proof_hash"] = string(long)
	_, codes := Run(marshal(t, payload))
	wantBoth := map[string]bool{CodeInputsHashLength: true, CodeProofHashLength: true}
	for _, code := range codes {
		delete(wantBoth, code)
	}
	if len(wantBoth) != 0 {
		t.Errorf("codes = %v, missing %v", codes, wantBoth)
	}

	// Exactly 256 chars is allowed.
	payload = validPayload()
	payload["inputs_hash"] = string(long[:256])
	if _, codes := Run(marshal(t, payload)); codes != nil {
		t.Errorf("256-char hash rejected: %v", codes)
	}
}

func TestRunSeedBeyondFloat53(t *testing.T) {
	// 2^53+1 is not representable as a float64; the parser must keep
	// the exact value.
	body := []byte(`{` +
		`"user_id":"user-1","nickname":"Hero","score":10,"seed":"s",` +
		`"run_seed":9007199254740993,"run_time_ms":1000,"version":"1.0",` +
		`"current_floor":1,"start_class":"arcane","end_class":"arcane",` +
		`"start_deck":[],"start_relics":[],"end_deck":[],"end_relics":[],` +
		`"floor_events":[],"nodes_state":{},"run_result":"win"}`)

	sub, codes := Run(body)
	if codes != nil {
		t.Fatalf("expected no violations, got %v", codes)
	}
	if sub.RunSeed != 9007199254740993 {
		t.Errorf("RunSeed = %d, want 9007199254740993", sub.RunSeed)
	}
	if sub.Result != models.ResultVictory {
		t.Errorf("Result = %q, want victory (win normalized)", sub.Result)
	}
}
