// Package worker implements the buffered worker pool that streams
// accepted runs into ClickHouse for analytics. This decouples HTTP
// request handling from analytics writes, providing:
// - Backpressure handling via load shedding
// - Batch inserts for efficient ClickHouse writes
// - Graceful shutdown with flush guarantees
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/dreamcore/leaderboard-api/internal/models"
)

// Prometheus metrics
var (
	runsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leaderboard_analytics_runs_enqueued_total",
		Help: "Total number of runs enqueued for analytics",
	})

	runsFlushed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leaderboard_analytics_runs_flushed_total",
		Help: "Total number of runs written to ClickHouse",
	})

	runsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leaderboard_analytics_runs_dropped_total",
		Help: "Total number of runs dropped due to load shedding",
	})

	flushFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leaderboard_analytics_flush_failed_total",
		Help: "Total number of runs lost to failed batch inserts",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "leaderboard_analytics_queue_depth",
		Help: "Current depth of the analytics queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "leaderboard_analytics_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})
)

// Job carries one accepted run and its enqueue time.
type Job struct {
	Run      *models.Run
	Received time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Logger        *zap.Logger
}

// Pool manages a pool of workers that batch runs into ClickHouse.
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop gracefully shuts down the worker pool, flushing queued runs.
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")
	p.cancel()
	close(p.jobQueue)
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

// Enqueue adds a run to the queue. Never blocks the ingestion path: a
// full queue sheds the run and returns false.
func (p *Pool) Enqueue(run *models.Run) bool {
	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue run (pool stopped)", "error", r)
		}
	}()

	select {
	case p.jobQueue <- Job{Run: run, Received: time.Now()}:
		runsEnqueued.Inc()
		return true
	default:
		runsDropped.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker processes jobs from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.flushBatch(batch); err != nil {
			p.logger.Errorw("Batch insert failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			flushFailed.Add(float64(len(batch)))
		} else {
			runsFlushed.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				// Channel closed, flush remaining
				flush()
				return
			}

			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-p.ctx.Done():
			flush()
			return
		}
	}
}

// flushBatch writes one batch of runs to ClickHouse.
func (p *Pool) flushBatch(batch []Job) error {
	ctx := context.Background()

	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO leaderboard_analytics.run_events (
			run_id, player_id, user_id, nickname, score, run_seed, run_time_ms,
			version, current_floor, start_class, end_class, run_result,
			created_at, received_at
		)
	`)
	if err != nil {
		return err
	}

	for _, job := range batch {
		run := job.Run
		err := chBatch.Append(
			run.ID,
			run.PlayerID,
			run.UserID,
			run.NicknameSnapshot,
			run.Score,
			run.RunSeed,
			run.RunTimeMS,
			run.Version,
			uint16(run.CurrentFloor),
			string(run.StartClass),
			string(run.EndClass),
			string(run.Result),
			run.CreatedAt,
			job.Received,
		)
		if err != nil {
			p.logger.Warnw("Failed to append run to batch", "error", err, "run_id", run.ID)
			continue
		}
	}

	return chBatch.Send()
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
