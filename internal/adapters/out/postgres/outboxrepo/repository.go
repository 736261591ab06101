package outboxrepo

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxErrorLength caps the stored failure text.
const maxErrorLength = 1024

type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Notify enqueues events for publishing. All events are written in one
// statement or none are.
func (r *GormOutboxRepository) Notify(ctx context.Context, events ...order.Event) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]OutboxEventDTO, 0, len(events))
	for _, e := range events {
		row, err := fromEvent(e)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", e.Type, err)
		}
		rows = append(rows, row)
	}

	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert outbox events: %w", err)
	}
	return nil
}

// FetchUnpublished returns the oldest pending rows that still have attempts
// left.
func (r *GormOutboxRepository) FetchUnpublished(ctx context.Context, limit, maxAttempts int) ([]Record, error) {
	var rows []OutboxEventDTO
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL AND attempt_count < ?", maxAttempts).
		Order("occurred_at, created_at").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetch outbox events: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row))
	}
	return records, nil
}

func (r *GormOutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&OutboxEventDTO{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"published_at":  at,
			"attempt_count": gorm.Expr("attempt_count + 1"),
			"last_error":    "",
		}).Error
	if err != nil {
		return fmt.Errorf("mark outbox event published: %w", err)
	}
	return nil
}

func (r *GormOutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, cause error) error {
	msg := truncateError(cause.Error())
	err := r.db.WithContext(ctx).
		Model(&OutboxEventDTO{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempt_count": gorm.Expr("attempt_count + 1"),
			"last_error":    msg,
		}).Error
	if err != nil {
		return fmt.Errorf("mark outbox event failed: %w", err)
	}
	return nil
}

// truncateError cuts msg to at most maxErrorLength bytes on a rune boundary
// so the stored text stays valid UTF-8.
func truncateError(msg string) string {
	if len(msg) <= maxErrorLength {
		return msg
	}
	cut := maxErrorLength
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}
