package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts a new order together with its whole history.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	dto := fromDomain(aggregate)
	if err := db.Create(&dto).Error; err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	rows := historyFromDomain(aggregate.ID(), 0, aggregate.History())
	if len(rows) > 0 {
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert order history: %w", err)
		}
	}

	aggregate.MarkPersisted(aggregate.Version())
	return nil
}

// Update writes the order only if the stored version still equals the
// loaded one, then appends the history entries recorded since loading.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	loaded := aggregate.Version()
	dto := fromDomain(aggregate)
	dto.Version = loaded + 1

	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, loaded).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return fmt.Errorf("update order: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return r.staleWrite(ctx, aggregate.ID(), loaded)
	}

	fresh := aggregate.NewHistory()
	if len(fresh) > 0 {
		firstSeq := len(aggregate.History()) - len(fresh)
		rows := historyFromDomain(aggregate.ID(), firstSeq, fresh)
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("append order history: %w", err)
		}
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

// staleWrite explains a versioned update that matched no row.
func (r *GormOrderRepository) staleWrite(ctx context.Context, id kernel.UUID, expected int64) error {
	var current struct{ Version int64 }
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Select("version").
		Where("id = ?", id.Raw()).
		Take(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return fmt.Errorf("read order version: %w", err)
	}
	return errs.NewConflictError("order", id.String(), expected, current.Version)
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	histories, err := r.loadHistory(ctx, dto.ID)
	if err != nil {
		return nil, err
	}

	return toDomain(dto, histories[dto.ID])
}

// ListOpenPickupRequests returns unassigned pickup requests, most recently
// requested first.
func (r *GormOrderRepository) ListOpenPickupRequests(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND assigned_agent_id IS NULL", order.PickupRequested.String()).
		Order("last_status_change_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, fmt.Errorf("list pickup requests: %w", err)
	}
	if len(dtos) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}
	histories, err := r.loadHistory(ctx, ids...)
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto, histories[dto.ID])
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) loadHistory(ctx context.Context, orderIDs ...uuid.UUID) (map[uuid.UUID][]StatusHistoryDTO, error) {
	var rows []StatusHistoryDTO
	err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("order_id, seq").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load order history: %w", err)
	}

	byOrder := make(map[uuid.UUID][]StatusHistoryDTO, len(orderIDs))
	for _, row := range rows {
		byOrder[row.OrderID] = append(byOrder[row.OrderID], row)
	}
	return byOrder, nil
}
