// Package agentrepo persists shipping agents, their service areas and payout
// requests. Wallet columns are only changed with SQL-side arithmetic.
package agentrepo

import (
	"time"

	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AgentDTO maps the agents table: the user fields the core needs plus the
// agent profile and wallet counters.
type AgentDTO struct {
	ID                   uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name                 string           `gorm:"type:varchar(255);not null"`
	Phone                string           `gorm:"type:varchar(32)"`
	Rating               float64          `gorm:"not null;default:0"`
	Role                 string           `gorm:"type:varchar(32);not null;index"`
	UserActive           bool             `gorm:"not null;default:true"`
	ProfileActive        bool             `gorm:"not null;default:true"`
	CommissionRate       decimal.Decimal  `gorm:"type:numeric(5,2);not null"`
	BaseDeliveryFee      decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	WalletBalance        decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"`
	TotalEarnings        decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"`
	TotalDeliveries      int              `gorm:"not null;default:0"`
	SuccessfulDeliveries int              `gorm:"not null;default:0"`
	ServiceAreas         []ServiceAreaDTO `gorm:"foreignKey:AgentID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (AgentDTO) TableName() string {
	return "agents"
}

type ServiceAreaDTO struct {
	ID       uint64    `gorm:"primaryKey;autoIncrement"`
	AgentID  uuid.UUID `gorm:"type:uuid;not null;index"`
	District string    `gorm:"type:varchar(255)"`
	City     string    `gorm:"type:varchar(255)"`
	PinCodes []string  `gorm:"type:jsonb;serializer:json"`
}

func (ServiceAreaDTO) TableName() string {
	return "agent_service_areas"
}

type PayoutDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AgentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status      string          `gorm:"type:varchar(16);not null"`
	RequestedAt time.Time       `gorm:"not null"`
}

func (PayoutDTO) TableName() string {
	return "agent_payouts"
}

// profileColumns are the columns Update may overwrite.
var profileColumns = []string{
	"name", "phone", "rating", "role", "user_active", "profile_active", "commission_rate", "base_delivery_fee",
}

func fromDomain(a *agent.Agent) AgentDTO {
	agentID := a.ID().Raw()
	return AgentDTO{
		ID:                   agentID,
		Name:                 a.Name(),
		Phone:                a.Phone(),
		Rating:               a.Rating(),
		Role:                 string(a.Role()),
		UserActive:           a.UserActive(),
		ProfileActive:        a.ProfileActive(),
		CommissionRate:       a.CommissionRate(),
		BaseDeliveryFee:      a.BaseDeliveryFee(),
		WalletBalance:        a.WalletBalance(),
		TotalEarnings:        a.TotalEarnings(),
		TotalDeliveries:      a.TotalDeliveries(),
		SuccessfulDeliveries: a.SuccessfulDeliveries(),
		ServiceAreas:         areasFromDomain(agentID, a.ServiceAreas()),
	}
}

func areasFromDomain(agentID uuid.UUID, areas []agent.ServiceArea) []ServiceAreaDTO {
	out := make([]ServiceAreaDTO, 0, len(areas))
	for _, area := range areas {
		out = append(out, ServiceAreaDTO{
			AgentID:  agentID,
			District: area.District(),
			City:     area.City(),
			PinCodes: area.PinCodes(),
		})
	}
	return out
}

func toDomain(dto AgentDTO) (*agent.Agent, error) {
	id, err := kernel.UUIDOf(dto.ID)
	if err != nil {
		return nil, err
	}

	areas := make([]agent.ServiceArea, 0, len(dto.ServiceAreas))
	for _, a := range dto.ServiceAreas {
		area, areaErr := agent.NewServiceArea(a.District, a.City, a.PinCodes)
		if areaErr != nil {
			return nil, areaErr
		}
		areas = append(areas, area)
	}

	return agent.RestoreAgent(agent.State{
		ID:                   id,
		Name:                 dto.Name,
		Phone:                dto.Phone,
		Rating:               dto.Rating,
		Role:                 kernel.Role(dto.Role),
		UserActive:           dto.UserActive,
		ProfileActive:        dto.ProfileActive,
		CommissionRate:       dto.CommissionRate,
		BaseDeliveryFee:      dto.BaseDeliveryFee,
		ServiceAreas:         areas,
		WalletBalance:        dto.WalletBalance,
		TotalEarnings:        dto.TotalEarnings,
		TotalDeliveries:      dto.TotalDeliveries,
		SuccessfulDeliveries: dto.SuccessfulDeliveries,
	})
}

func payoutFromDomain(p *agent.Payout) PayoutDTO {
	return PayoutDTO{
		ID:          p.ID().Raw(),
		AgentID:     p.AgentID().Raw(),
		Amount:      p.Amount(),
		Status:      string(p.Status()),
		RequestedAt: p.RequestedAt(),
	}
}
