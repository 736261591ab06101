package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/adapters/out/postgres/outboxrepo"
	"marketplace/internal/pkg/logger"
	"marketplace/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const OutboxPublisherJobName = "outbox_publisher"

type outboxStore interface {
	FetchUnpublished(ctx context.Context, limit, maxAttempts int) ([]outboxrepo.Record, error)
	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause error) error
}

// MessagePublisher delivers one outbox record to the broker.
type MessagePublisher interface {
	Publish(ctx context.Context, key, eventType string, payload []byte) error
}

// Lease keeps a single replica draining the outbox at a time.
type Lease interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type OutboxPublisherConfig struct {
	Schedule    string
	BatchSize   int
	MaxAttempts int
}

// OutboxPublisherJob moves committed order events from the outbox table to
// the broker.
type OutboxPublisherJob struct {
	store      outboxStore
	publisher  MessagePublisher
	lease      Lease
	cfg        OutboxPublisherConfig
	orders     *metrics.OrderMetrics
	jobMetrics *metrics.JobMetrics
	logger     *logger.Logger
	cron       *cron.Cron
	now        func() time.Time
}

func NewOutboxPublisherJob(
	store outboxStore,
	publisher MessagePublisher,
	lease Lease,
	cfg OutboxPublisherConfig,
	orderMetrics *metrics.OrderMetrics,
	jobMetrics *metrics.JobMetrics,
	log *logger.Logger,
) *OutboxPublisherJob {
	if cfg.Schedule == "" {
		cfg.Schedule = "*/5 * * * * *"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	return &OutboxPublisherJob{
		store:      store,
		publisher:  publisher,
		lease:      lease,
		cfg:        cfg,
		orders:     orderMetrics,
		jobMetrics: jobMetrics,
		logger:     log.Component(OutboxPublisherJobName),
		cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		now:        time.Now,
	}
}

// RunOnce drains one batch. It returns how many records were published. A
// record that fails to publish is marked failed and does not stop the batch.
func (j *OutboxPublisherJob) RunOnce(ctx context.Context) (int, error) {
	if j.lease != nil {
		acquired, err := j.lease.Acquire(ctx)
		if err != nil {
			return 0, fmt.Errorf("acquire outbox lease: %w", err)
		}
		if !acquired {
			return 0, nil
		}
		defer func() {
			if err := j.lease.Release(ctx); err != nil {
				j.logger.Warn(ctx, "Outbox lease release failed", err)
			}
		}()
	}

	records, err := j.store.FetchUnpublished(ctx, j.cfg.BatchSize, j.cfg.MaxAttempts)
	if err != nil {
		return 0, err
	}

	var (
		published int
		markErrs  []error
	)
	for _, rec := range records {
		if err := j.publisher.Publish(ctx, rec.OrderID, rec.EventType, rec.Payload); err != nil {
			j.orders.IncNotification(rec.EventType, false)
			recCtx := j.logger.WithFields(ctx, map[string]any{
				"outbox_id":  rec.ID.String(),
				"order_id":   rec.OrderID,
				"event_type": rec.EventType,
				"attempt":    rec.AttemptCount + 1,
			})
			j.logger.Warn(recCtx, "Notification publish failed", err)
			if markErr := j.store.MarkFailed(ctx, rec.ID, err); markErr != nil {
				markErrs = append(markErrs, markErr)
			}
			continue
		}

		j.orders.IncNotification(rec.EventType, true)
		if err := j.store.MarkPublished(ctx, rec.ID, j.now()); err != nil {
			markErrs = append(markErrs, err)
			continue
		}
		published++
	}

	return published, errors.Join(markErrs...)
}

func (j *OutboxPublisherJob) run() {
	ctx := context.Background()
	start := time.Now()

	published, err := j.RunOnce(ctx)
	j.jobMetrics.ObserveDuration(OutboxPublisherJobName, time.Since(start))
	if err != nil {
		j.jobMetrics.IncFailure(OutboxPublisherJobName)
		j.logger.Error(ctx, "Outbox publisher job failed", err)
		return
	}
	j.jobMetrics.IncSuccess(OutboxPublisherJobName)
	if published > 0 {
		j.logger.Debug(j.logger.WithField(ctx, "published", published), "Outbox batch published")
	}
}

func (j *OutboxPublisherJob) Start() error {
	if _, err := j.cron.AddFunc(j.cfg.Schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info(context.Background(), "Outbox publisher job started ("+j.cfg.Schedule+")")
	return nil
}

// Stop waits for a running batch to finish.
func (j *OutboxPublisherJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info(context.Background(), "Outbox publisher job stopped")
}
