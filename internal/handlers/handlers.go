package handlers

import (
	"context"
	"regexp"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dreamcore/leaderboard-api/internal/logic"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// AnalyticsQueue exposes the worker pool depth for readiness checks.
type AnalyticsQueue interface {
	QueueDepth() int
}

// Migrator applies a SQL migration file to Postgres.
type Migrator interface {
	ApplyMigrations(ctx context.Context, path string) error
}

type Config struct {
	WorkerPool AnalyticsQueue
	Postgres   *pgxpool.Pool
	ClickHouse driver.Conn
	Redis      *redis.Client
	Migrator   Migrator
	Logger     *zap.Logger

	APIKey             string
	RateLimitPerMinute int

	// Services
	Ingest      logic.IngestService
	Leaderboard logic.LeaderboardService
	Players     logic.PlayerService
	Deck        logic.DeckService
	Content     logic.ContentService
}

type Handler struct {
	pool      AnalyticsQueue
	pg        *pgxpool.Pool
	ch        driver.Conn
	redis     *redis.Client
	migrator  Migrator
	logger    *zap.SugaredLogger
	validator *validator.Validate

	apiKey  string
	limiter rateLimiter

	ingest      logic.IngestService
	leaderboard logic.LeaderboardService
	players     logic.PlayerService
	deck        logic.DeckService
	content     logic.ContentService
}

var nicknameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,16}$`)

func New(cfg Config) *Handler {
	v := validator.New()
	// "nickname" validates the profile-upsert charset: ASCII letters,
	// digits and underscore, 3 to 16 characters.
	v.RegisterValidation("nickname", func(fl validator.FieldLevel) bool {
		return nicknameRe.MatchString(fl.Field().String())
	})

	sugar := cfg.Logger.Sugar()
	return &Handler{
		pool:      cfg.WorkerPool,
		pg:        cfg.Postgres,
		ch:        cfg.ClickHouse,
		redis:     cfg.Redis,
		migrator:  cfg.Migrator,
		logger:    sugar,
		validator: v,
		apiKey:    cfg.APIKey,
		limiter: &redisLimiter{
			client: cfg.Redis,
			max:    cfg.RateLimitPerMinute,
			window: time.Minute,
			logger: sugar,
		},
		ingest:      cfg.Ingest,
		leaderboard: cfg.Leaderboard,
		players:     cfg.Players,
		deck:        cfg.Deck,
		content:     cfg.Content,
	}
}
