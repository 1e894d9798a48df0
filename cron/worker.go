package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	robfig "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	TypeExpirePending = "settlement:expire"

	defaultBatch = 100
)

// Sweeper is the settlement operation the expiry task drives.
type Sweeper interface {
	ExpireStale(ctx context.Context, limit int) (int, error)
}

type ExpirePayload struct {
	Limit int `json:"limit"`
}

func NewExpireTask(limit int) (*asynq.Task, error) {
	b, err := json.Marshal(ExpirePayload{Limit: limit})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeExpirePending, b), nil
}

// Worker runs the periodic expiry sweep on asynq.
type Worker struct {
	redisOpt  asynq.RedisClientOpt
	srv       *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	logger    *zap.Logger
	stop      context.CancelFunc
	started   bool
}

func NewWorker(redisOpt asynq.RedisClientOpt, sweeper Sweeper, logger *zap.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{"default": 1},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExpirePending, handleExpireTask(sweeper, logger))

	return &Worker{
		redisOpt:  redisOpt,
		srv:       srv,
		scheduler: asynq.NewScheduler(redisOpt, nil),
		mux:       mux,
		logger:    logger,
	}
}

// Start registers the sweep under spec (for example "@every 1m") and starts the
// server and scheduler in the background. An empty spec disables the sweep.
func (w *Worker) Start(spec string, batch int) error {
	if spec == "" {
		w.logger.Info("Expiry sweep disabled")
		return nil
	}
	task, err := NewExpireTask(batch)
	if err != nil {
		return err
	}
	// At most one queued sweep per minute.
	if _, err := w.scheduler.Register(spec, task, asynq.MaxRetry(0), asynq.Unique(time.Minute)); err != nil {
		return fmt.Errorf("failed to register expiry sweep %q: %w", spec, err)
	}
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("failed to start expiry worker: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		w.srv.Shutdown()
		return fmt.Errorf("failed to start expiry scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.stop = cancel
	go monitorRedisConnection(ctx, w.redisOpt, w.logger)
	w.started = true

	w.logger.Info("Expiry worker started", zap.String("spec", spec), zap.Int("batch", batch))
	return nil
}

func (w *Worker) Shutdown() {
	if !w.started {
		return
	}
	w.stop()
	w.scheduler.Shutdown()
	w.srv.Shutdown()
}

// RunLocal runs the sweep in process on spec until ctx is done. It stands in for
// the asynq worker when redis is unavailable. An empty spec returns at once.
func RunLocal(ctx context.Context, sweeper Sweeper, spec string, batch int, logger *zap.Logger) error {
	if spec == "" {
		return nil
	}
	schedule, err := robfig.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid expiry sweep spec %q: %w", spec, err)
	}
	handler := handleExpireTask(sweeper, logger)
	task, err := NewExpireTask(batch)
	if err != nil {
		return err
	}

	timer := time.NewTimer(time.Until(schedule.Next(time.Now())))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			// Failures are logged by the handler; the next tick retries.
			_ = handler.ProcessTask(ctx, task)
			timer.Reset(time.Until(schedule.Next(time.Now())))
		}
	}
}

func handleExpireTask(sweeper Sweeper, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ExpirePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid expiry payload", zap.Error(err))
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
		}
		if p.Limit <= 0 {
			p.Limit = defaultBatch
		}

		n, err := sweeper.ExpireStale(ctx, p.Limit)
		if err != nil {
			logger.Error("Expiry sweep failed", zap.Int("settled", n), zap.Error(err))
			return err
		}
		logger.Debug("Expiry sweep done", zap.Int("settled", n))
		return nil
	}
}

// monitorRedisConnection pings the queue DB periodically to surface outages in logs.
func monitorRedisConnection(ctx context.Context, opt asynq.RedisClientOpt, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{Addr: opt.Addr, Password: opt.Password, DB: opt.DB})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("Expiry worker lost redis connection", zap.Error(err))
			}
		}
	}
}
