package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quotation statuses (enum_Quotations_status).
const (
	QuotationDraft    = "draft"
	QuotationSent     = "sent"
	QuotationAccepted = "accepted"
	QuotationRejected = "rejected"
)

// Quotation is a priced offer sent to a prospective client. Line items are
// stored inline as a JSONB array; the total is always recomputed server-side
// from the items, never trusted from the request.
type Quotation struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Number      string          `gorm:"column:number;uniqueIndex;not null" json:"number"`
	ClientName  string          `gorm:"column:client_name;not null" json:"clientName"`
	ClientEmail string          `gorm:"column:client_email" json:"clientEmail"`
	Items       datatypes.JSON  `gorm:"column:items;type:jsonb;not null" json:"items"`
	Total       decimal.Decimal `gorm:"column:total;type:decimal(18,2);not null" json:"total"`
	Currency    string          `gorm:"column:currency;type:varchar(8);not null;default:'INR'" json:"currency"`
	Status      string          `gorm:"column:status;type:varchar(16);not null;default:'draft'" json:"status"`
	ValidUntil  *time.Time      `gorm:"column:valid_until" json:"validUntil"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Quotation) TableName() string {
	return "Quotations"
}

func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// ValidQuotationStatus reports whether s is an allowed status value.
func ValidQuotationStatus(s string) bool {
	switch s {
	case QuotationDraft, QuotationSent, QuotationAccepted, QuotationRejected:
		return true
	}
	return false
}
