package agentrepo

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAgentRepository implements AgentRepository using GORM.
type GormAgentRepository struct {
	db *gorm.DB
}

func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

// Add saves a new agent with its service areas.
func (r *GormAgentRepository) Add(ctx context.Context, aggregate *agent.Agent) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return fmt.Errorf("insert agent: %w", err)
	}

	return nil
}

// Update rewrites the profile and replaces the service areas. Wallet and
// delivery counters are left alone.
func (r *GormAgentRepository) Update(ctx context.Context, aggregate *agent.Agent) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	dto := fromDomain(aggregate)

	result := db.Model(&AgentDTO{}).Where("id = ?", dto.ID).Select(profileColumns).Updates(&dto)
	if result.Error != nil {
		return fmt.Errorf("update agent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("agent", aggregate.ID().String())
	}

	if err := db.Where("agent_id = ?", dto.ID).Delete(&ServiceAreaDTO{}).Error; err != nil {
		return fmt.Errorf("clear service areas: %w", err)
	}
	if len(dto.ServiceAreas) > 0 {
		if err := db.Create(&dto.ServiceAreas).Error; err != nil {
			return fmt.Errorf("insert service areas: %w", err)
		}
	}

	return nil
}

func (r *GormAgentRepository) Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AgentDTO
	if err := r.db.WithContext(ctx).Preload("ServiceAreas").First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("agent", id.String())
		}
		return nil, fmt.Errorf("get agent: %w", err)
	}

	return toDomain(dto)
}

// ListEligible returns active shipping agents with an active profile.
func (r *GormAgentRepository) ListEligible(ctx context.Context) ([]*agent.Agent, error) {
	var dtos []AgentDTO
	err := r.db.WithContext(ctx).
		Preload("ServiceAreas").
		Where("role = ? AND user_active AND profile_active", string(kernel.RoleShippingAgent)).
		Order("name").
		Find(&dtos).Error
	if err != nil {
		return nil, fmt.Errorf("list eligible agents: %w", err)
	}

	agents := make([]*agent.Agent, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}

	return agents, nil
}

// CreditDelivery applies a completed delivery as one increment statement.
func (r *GormAgentRepository) CreditDelivery(ctx context.Context, id kernel.UUID, commission decimal.Decimal) error {
	commission = kernel.Round2(commission)
	result := r.db.WithContext(ctx).
		Model(&AgentDTO{}).
		Where("id = ?", id.Raw()).
		Updates(map[string]any{
			"total_deliveries":      gorm.Expr("total_deliveries + 1"),
			"successful_deliveries": gorm.Expr("successful_deliveries + 1"),
			"wallet_balance":        gorm.Expr("wallet_balance + ?", commission),
			"total_earnings":        gorm.Expr("total_earnings + ?", commission),
		})
	if result.Error != nil {
		return fmt.Errorf("credit agent wallet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("agent", id.String())
	}
	return nil
}

// DebitWallet subtracts amount only while the balance still covers it.
func (r *GormAgentRepository) DebitWallet(ctx context.Context, id kernel.UUID, amount decimal.Decimal) error {
	amount = kernel.Round2(amount)
	db := r.db.WithContext(ctx)
	result := db.
		Model(&AgentDTO{}).
		Where("id = ? AND wallet_balance >= ?", id.Raw(), amount).
		Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("debit agent wallet: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var current struct{ WalletBalance decimal.Decimal }
	err := db.Model(&AgentDTO{}).Select("wallet_balance").Where("id = ?", id.Raw()).Take(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("agent", id.String())
	}
	if err != nil {
		return fmt.Errorf("read agent wallet: %w", err)
	}
	return errs.NewInsufficientBalanceError(current.WalletBalance.StringFixed(2), amount.StringFixed(2))
}

func (r *GormAgentRepository) AddPayout(ctx context.Context, payout *agent.Payout) error {
	if err := payout.Validate(); err != nil {
		return err
	}

	dto := payoutFromDomain(payout)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return fmt.Errorf("insert payout: %w", err)
	}
	return nil
}
