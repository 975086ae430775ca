package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is one service offering shown on the public site and managed from
// the dashboard.
type Service struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title         string          `gorm:"column:title;not null" json:"title"`
	Description   *string         `gorm:"column:description" json:"description"`
	Category      string          `gorm:"column:category" json:"category"`
	StartingPrice decimal.Decimal `gorm:"column:starting_price;type:decimal(18,2);not null" json:"startingPrice"`
	Active        bool            `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (Service) TableName() string {
	return "Services"
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
