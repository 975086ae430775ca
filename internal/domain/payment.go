package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GatewayPayment records one processed payment-gateway webhook event. The
// unique indexes on the gateway reference and event ID give the webhook its
// idempotency; the raw payload is kept for reconciliation.
type GatewayPayment struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	GatewayPaymentRef string          `gorm:"column:gateway_payment_ref;uniqueIndex;not null" json:"gateway_payment_ref"`
	GatewayEventID    string          `gorm:"column:gateway_event_id;uniqueIndex;not null" json:"gateway_event_id"`
	ProjectID         uuid.UUID       `gorm:"column:project_id;type:uuid;not null" json:"project_id"`
	Amount            decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Currency          string          `gorm:"column:currency;not null" json:"currency"`
	Status            string          `gorm:"column:status;not null" json:"status"`
	RawEvent          datatypes.JSON  `gorm:"column:raw_event;type:jsonb;not null" json:"raw_event"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func (GatewayPayment) TableName() string {
	return "GatewayPayments"
}

func (p *GatewayPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
