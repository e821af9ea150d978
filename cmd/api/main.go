package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dreamcore/leaderboard-api/internal/config"
	"github.com/dreamcore/leaderboard-api/internal/handlers"
	"github.com/dreamcore/leaderboard-api/internal/logic"
	"github.com/dreamcore/leaderboard-api/internal/store"
	"github.com/dreamcore/leaderboard-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgCfg, err := pgxpool.ParseConfig(cfg.PostgresURL)
	if err != nil {
		sugar.Fatalw("invalid postgres url", "error", err)
	}
	pg, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		sugar.Fatalw("failed to create postgres pool", "error", err)
	}
	defer pg.Close()

	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		sugar.Fatalw("invalid clickhouse url", "error", err)
	}
	ch, err := clickhouse.Open(chOpts)
	if err != nil {
		sugar.Fatalw("failed to open clickhouse connection", "error", err)
	}
	defer ch.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("invalid redis url", "error", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	// Verify all backends before taking traffic.
	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	g, gctx := errgroup.WithContext(pingCtx)
	g.Go(func() error { return pg.Ping(gctx) })
	g.Go(func() error { return ch.Ping(gctx) })
	g.Go(func() error { return rdb.Ping(gctx).Err() })
	if err := g.Wait(); err != nil {
		sugar.Fatalw("dependency ping failed", "error", err)
	}
	sugar.Infow("connected to postgres, clickhouse and redis")

	st := store.NewPostgres(pg, sugar)
	if ready, err := st.SchemaReady(ctx); err != nil {
		sugar.Warnw("schema check failed", "error", err)
	} else if !ready {
		sugar.Warnw("schema not installed, POST /api/v1/system/install to apply migrations")
	}

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		ClickHouse:    ch,
		Logger:        logger,
	})
	pool.Start(ctx)

	handler := handlers.New(handlers.Config{
		WorkerPool:         pool,
		Postgres:           pg,
		ClickHouse:         ch,
		Redis:              rdb,
		Migrator:           st,
		Logger:             logger,
		APIKey:             cfg.APIKey,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Ingest:             logic.NewIngest(st, pool, cfg.LeaderboardMaxEntries, sugar),
		Leaderboard:        logic.NewLeaderboard(st, cfg.LeaderboardDefaultLimit, cfg.LeaderboardMaxLimit, sugar),
		Players:            logic.NewPlayers(st, sugar),
		Deck:               logic.NewDeck(st, cfg.DeckScanDepth, sugar),
		Content:            logic.NewContent(st, rdb, cfg.ContentCacheTTL, sugar),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler.Router(cfg.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("starting http server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugar.Infow("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("server shutdown failed", "error", err)
	}

	// Drain the analytics queue before closing the ClickHouse conn.
	pool.Stop()
	sugar.Infow("shutdown complete")
}
