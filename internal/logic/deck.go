package logic

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/dreamcore/leaderboard-api/internal/models"
	"github.com/dreamcore/leaderboard-api/internal/store"
)

// Clients store collections either as a plain array or wrapped in an
// object under one of these keys.
var (
	deckKeys  = []string{"deck", "cards", "list"}
	relicKeys = []string{"relics", "items", "list"}
)

// Deck resolves the most meaningful current deck snapshot for a
// player: the best run when it has one, otherwise the newest recent
// run with a non-empty collection.
type Deck struct {
	store     store.Store
	scanDepth int
	logger    *zap.SugaredLogger
}

// NewDeck wires the resolver. scanDepth bounds how many recent runs
// the fallback inspects.
func NewDeck(st store.Store, scanDepth int, logger *zap.SugaredLogger) *Deck {
	return &Deck{store: st, scanDepth: scanDepth, logger: logger}
}

func (s *Deck) Resolve(ctx context.Context, userID string) (*models.DeckResponse, error) {
	player, err := s.store.GetPlayerByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if player.BestRunID != nil {
		run, err := s.store.GetRunByID(ctx, *player.BestRunID)
		switch {
		case errors.Is(err, models.ErrNotFound):
			// Dangling best-run pointer; fall through to the scan.
			s.logger.Warnw("best run missing, falling back to recent runs",
				"user_id", userID, "best_run_id", *player.BestRunID)
		case err != nil:
			return nil, err
		default:
			if resp := deckFromRun(player, run, "best"); resp != nil {
				return resp, nil
			}
		}
	}

	runs, err := s.store.ListRecentRuns(ctx, player.ID, s.scanDepth)
	if err != nil {
		return nil, err
	}
	for i := range runs {
		if resp := deckFromRun(player, &runs[i], "recent"); resp != nil {
			return resp, nil
		}
	}

	// Player exists but no run carries a deck yet.
	return &models.DeckResponse{
		UserID: player.UserID,
		Source: "none",
		Deck:   []json.RawMessage{},
		Relics: []json.RawMessage{},
	}, nil
}

// deckFromRun normalizes the run's end collections; nil when both are
// empty, which tells the caller to keep scanning.
func deckFromRun(player *models.Player, run *models.Run, source string) *models.DeckResponse {
	deck := run.EndDeck.Items(deckKeys...)
	relics := run.EndRelics.Items(relicKeys...)
	if len(deck) == 0 && len(relics) == 0 {
		return nil
	}
	if deck == nil {
		deck = []json.RawMessage{}
	}
	if relics == nil {
		relics = []json.RawMessage{}
	}
	runID := run.ID
	return &models.DeckResponse{
		UserID:      player.UserID,
		SourceRunID: &runID,
		Source:      source,
		Deck:        deck,
		Relics:      relics,
		Class:       run.EndClass,
		Floor:       run.CurrentFloor,
	}
}
