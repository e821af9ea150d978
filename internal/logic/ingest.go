package logic

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/dreamcore/leaderboard-api/internal/models"
	"github.com/dreamcore/leaderboard-api/internal/store"
)

var (
	runsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leaderboard_runs_accepted_total",
		Help: "Total number of newly accepted run submissions",
	})

	runsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leaderboard_runs_duplicate_total",
		Help: "Total number of idempotent duplicate submissions",
	})

	runsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leaderboard_runs_failed_total",
		Help: "Total number of submissions that failed in the store",
	})

	entriesEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leaderboard_entries_evicted_total",
		Help: "Total number of leaderboard rows evicted beyond the cap",
	})

	ingestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "leaderboard_ingest_duration_seconds",
		Help:    "Duration of the run ingestion transaction",
		Buckets: prometheus.DefBuckets,
	})
)

// Ingest runs the submission transaction: upsert player, dedupe,
// insert run and leaderboard entry, evict overflow, bump best score.
type Ingest struct {
	store  store.Store
	sink   RunSink
	keep   int
	logger *zap.SugaredLogger
}

// NewIngest wires the ingestion service. keep is the leaderboard
// capacity; sink may be nil when analytics is disabled.
func NewIngest(st store.Store, sink RunSink, keep int, logger *zap.SugaredLogger) *Ingest {
	return &Ingest{store: st, sink: sink, keep: keep, logger: logger}
}

func (s *Ingest) Submit(ctx context.Context, sub *models.RunSubmission) (*models.SubmitResult, error) {
	start := time.Now()

	var (
		result models.SubmitResult
		run    *models.Run
	)
	txFn := func(tx store.Tx) error {
		run = nil
		now := time.Now().UTC()

		player, err := tx.UpsertPlayer(ctx, sub.UserID, sub.Nickname, now)
		if err != nil {
			return err
		}

		// A resubmitted (player, run_seed, result) tuple short-circuits:
		// the original run id and the current best are returned and no
		// rows are written.
		existing, err := tx.FindRunByKey(ctx, player.ID, sub.RunSeed, sub.Result)
		if err != nil {
			return err
		}
		if existing != nil {
			result = models.SubmitResult{
				RunID:     existing.ID,
				BestScore: player.BestScore,
				Duplicate: true,
			}
			return nil
		}

		run = &models.Run{
			ID:               uuid.New(),
			PlayerID:         player.ID,
			UserID:           player.UserID,
			NicknameSnapshot: player.Nickname,
			Score:            sub.Score,
			Seed:             sub.Seed,
			RunSeed:          sub.RunSeed,
			RunTimeMS:        sub.RunTimeMS,
			Version:          sub.Version,
			CurrentFloor:     sub.CurrentFloor,
			StartClass:       sub.StartClass,
			EndClass:         sub.EndClass,
			StartDeck:        sub.StartDeck,
			StartRelics:      sub.StartRelics,
			EndDeck:          sub.EndDeck,
			EndRelics:        sub.EndRelics,
			FloorEvents:      sub.FloorEvents,
			NodesState:       sub.NodesState,
			InputsHash:       sub.InputsHash,
			ProofHash:        sub.ProofHash,
			Flags:            sub.Flags,
			Result:           sub.Result,
			CreatedAt:        now,
		}
		if err := tx.InsertRun(ctx, run); err != nil {
			return err
		}

		entry := &models.LeaderboardEntry{
			RunID:     run.ID,
			PlayerID:  player.ID,
			UserID:    player.UserID,
			Nickname:  player.Nickname,
			Score:     sub.Score,
			CreatedAt: now,
		}
		if err := tx.InsertLeaderboardEntry(ctx, entry); err != nil {
			return err
		}

		evicted, err := tx.EvictOverflow(ctx, s.keep)
		if err != nil {
			return err
		}
		if evicted > 0 {
			entriesEvicted.Add(float64(evicted))
		}

		// Re-read under a row lock so two concurrent submissions for the
		// same player cannot both decide against the update from stale
		// snapshots.
		best, err := tx.PlayerBestForUpdate(ctx, player.ID)
		if err != nil {
			return err
		}
		if sub.Score > best {
			best = sub.Score
			if err := tx.UpdatePlayerBest(ctx, player.ID, run.ID, best); err != nil {
				return err
			}
		}

		result = models.SubmitResult{RunID: run.ID, BestScore: best}
		return nil
	}

	err := s.store.WithTx(ctx, txFn)
	if errors.Is(err, store.ErrDuplicateSubmission) {
		// Lost an insert race against an identical concurrent
		// submission. The retry finds the winner's row and takes the
		// replay path.
		err = s.store.WithTx(ctx, txFn)
	}
	ingestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		runsFailed.Inc()
		s.logger.Errorw("run ingestion failed",
			"user_id", sub.UserID, "run_seed", sub.RunSeed, "error", err)
		return nil, err
	}

	if result.Duplicate {
		runsDuplicate.Inc()
		s.logger.Infow("duplicate run submission",
			"user_id", sub.UserID, "run_seed", sub.RunSeed, "run_id", result.RunID)
		return &result, nil
	}

	runsAccepted.Inc()
	s.logger.Infow("run accepted",
		"user_id", sub.UserID, "run_id", result.RunID,
		"score", sub.Score, "best_score", result.BestScore)

	if s.sink != nil && run != nil {
		if !s.sink.Enqueue(run) {
			s.logger.Warnw("analytics sink full, run event dropped", "run_id", run.ID)
		}
	}
	return &result, nil
}
