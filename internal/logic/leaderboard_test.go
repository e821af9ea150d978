package logic

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

func TestTopAssignsRanks(t *testing.T) {
	st := &mockStore{
		ListLeaderboardFunc: func(ctx context.Context, limit int) ([]models.RankedEntry, error) {
			entries := make([]models.RankedEntry, 3)
			for i := range entries {
				entries[i].RunID = uuid.New()
				entries[i].Score = int64(300 - i*100)
			}
			return entries, nil
		},
	}
	svc := NewLeaderboard(st, 50, 200, zap.NewNop().Sugar())

	resp, err := svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	for i, entry := range resp.Entries {
		if entry.Rank != i+1 {
			t.Errorf("entry %d rank = %d, want %d", i, entry.Rank, i+1)
		}
	}
}

func TestTopClampsLimit(t *testing.T) {
	var gotLimit int
	st := &mockStore{
		ListLeaderboardFunc: func(ctx context.Context, limit int) ([]models.RankedEntry, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := NewLeaderboard(st, 50, 200, zap.NewNop().Sugar())

	tests := []struct {
		in   int
		want int
	}{
		{0, 50},
		{-7, 50},
		{1, 1},
		{200, 200},
		{5000, 200},
	}
	for _, tt := range tests {
		resp, err := svc.Top(context.Background(), tt.in)
		if err != nil {
			t.Fatalf("Top(%d): %v", tt.in, err)
		}
		if gotLimit != tt.want {
			t.Errorf("Top(%d) queried limit %d, want %d", tt.in, gotLimit, tt.want)
		}
		if resp.Limit != tt.want {
			t.Errorf("Top(%d) reported limit %d, want %d", tt.in, resp.Limit, tt.want)
		}
	}
}

func TestTopEmptyBoard(t *testing.T) {
	svc := NewLeaderboard(&mockStore{}, 50, 200, zap.NewNop().Sugar())
	resp, err := svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if resp.Entries == nil {
		t.Error("empty board must serialize as [], not null")
	}
}
