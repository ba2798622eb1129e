package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"

	"github.com/hibiken/asynq"
)

const (
	TypeReleaseExpiredHolds = "holds:release_expired"

	sweepTimeout = 2 * time.Minute
	queueName    = "booking"
)

// HoldSweeper is the part of the availability engine the worker drives.
type HoldSweeper interface {
	ReleaseExpiredHolds(ctx context.Context) (int, error)
}

var _ HoldSweeper = (commands.AvailabilityEngine)(nil)

// HoldWorker schedules the expired-hold sweep on a cron spec and processes it
// through an asynq server. Sweeps are idempotent, so duplicate runs across
// replicas only cost a query.
type HoldWorker struct {
	sweeper   HoldSweeper
	server    *asynq.Server
	scheduler *asynq.Scheduler
	cronSpec  string
	logger    *slog.Logger
}

func NewHoldWorker(redisCfg config.RedisConfig, bookingCfg config.BookingConfig, sweeper HoldSweeper, logger *slog.Logger) *HoldWorker {
	opt := asynq.RedisClientOpt{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	}
	alog := &asynqLogger{logger: logger.With(slog.String("component", "hold_worker"))}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{queueName: 1},
		Logger:      alog,
		LogLevel:    asynq.WarnLevel,
	})
	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   alog,
		LogLevel: asynq.WarnLevel,
	})

	return &HoldWorker{
		sweeper:   sweeper,
		server:    server,
		scheduler: scheduler,
		cronSpec:  bookingCfg.SweepCron,
		logger:    logger,
	}
}

func NewReleaseExpiredHoldsTask() *asynq.Task {
	return asynq.NewTask(TypeReleaseExpiredHolds, nil)
}

func (w *HoldWorker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReleaseExpiredHolds, w.HandleReleaseExpiredHolds)
	return mux
}

func (w *HoldWorker) HandleReleaseExpiredHolds(ctx context.Context, _ *asynq.Task) error {
	start := time.Now()
	n, err := w.sweeper.ReleaseExpiredHolds(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "hold sweep failed",
			slog.Int("released", n),
			slog.Any("error", err))
		return err
	}
	w.logger.DebugContext(ctx, "hold sweep finished",
		slog.Int("released", n),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (w *HoldWorker) Start() error {
	_, err := w.scheduler.Register(w.cronSpec, NewReleaseExpiredHoldsTask(),
		asynq.Queue(queueName),
		asynq.MaxRetry(0),
		asynq.Timeout(sweepTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to register hold sweep %q: %w", w.cronSpec, err)
	}
	if err := w.server.Start(w.Mux()); err != nil {
		return fmt.Errorf("failed to start hold worker: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return fmt.Errorf("failed to start hold scheduler: %w", err)
	}
	w.logger.Info("hold worker started", slog.String("cron", w.cronSpec))
	return nil
}

func (w *HoldWorker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
	w.logger.Info("hold worker stopped")
}

// asynqLogger routes asynq's internal logging into slog.
type asynqLogger struct {
	logger *slog.Logger
}

func (l *asynqLogger) Debug(args ...interface{}) { l.logger.Debug(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { l.logger.Info(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.logger.Warn(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { l.logger.Error(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...interface{}) { l.logger.Error(fmt.Sprint(args...)) }
