package outbox

import (
	"context"
	"log/slog"
	"time"

	"turnos-core/internal/infra/repository"
	"turnos-core/internal/pkg/clock"
	"turnos-core/internal/pkg/config"
	"turnos-core/internal/usecase/shared"
)

// EventSink delivers a committed booking event to the outside world.
// Delivery is at-least-once; consumers dedupe on the job id.
type EventSink interface {
	Publish(ctx context.Context, kind, topic string, payload []byte) error
}

// LogSink writes events to the structured log. It stands in for a real
// broker in development and in deployments that only need an audit trail.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(_ context.Context, kind, topic string, payload []byte) error {
	s.logger.Info("booking event",
		"kind", kind,
		"topic", topic,
		"payload", string(payload),
	)
	return nil
}

// Dispatcher drains the notification_jobs outbox. Jobs are claimed with
// SKIP LOCKED inside a transaction, so running several replicas is safe.
type Dispatcher struct {
	uow         shared.UnitOfWork
	repo        *repository.NotificationRepository
	sink        EventSink
	clock       clock.Clock
	logger      *slog.Logger
	pollEvery   time.Duration
	batchSize   int
	maxAttempts int
}

func NewDispatcher(
	uow shared.UnitOfWork,
	repo *repository.NotificationRepository,
	sink EventSink,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.OutboxConfig,
) *Dispatcher {
	pollEvery := cfg.PollInterval
	if pollEvery <= 0 {
		pollEvery = 2 * time.Second
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Dispatcher{
		uow:         uow,
		repo:        repo,
		sink:        sink,
		clock:       clk,
		logger:      logger,
		pollEvery:   pollEvery,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.dispatchBatch(ctx); err != nil {
				d.logger.Error("outbox dispatch failed", "err", err)
			}
		}
	}
}

func (d *Dispatcher) dispatchBatch(ctx context.Context) error {
	return d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := d.clock.Now()
		jobs, err := d.repo.ClaimDue(ctx, tx.DB(), now, d.batchSize)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			if err := d.sink.Publish(ctx, job.Kind, job.Topic, job.Payload); err != nil {
				d.logger.Warn("event publish failed",
					"job_id", job.ID,
					"kind", job.Kind,
					"attempts", job.Attempts+1,
					"err", err,
				)
				if err := d.repo.MarkFailed(ctx, tx.DB(), job.ID, err.Error(), d.maxAttempts, now); err != nil {
					return err
				}
				continue
			}
			if err := d.repo.MarkSent(ctx, tx.DB(), job.ID, now); err != nil {
				return err
			}
		}
		return nil
	})
}
