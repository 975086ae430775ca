package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is a tracked client engagement with a budget and payment ledger.
// The payment history is persisted inline as a JSONB array and always saved
// with the whole record (last-write-wins, no per-entry merge).
type Project struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name           string          `gorm:"column:name;not null" json:"name"`
	Client         string          `gorm:"column:client" json:"client"`
	Description    *string         `gorm:"column:description" json:"description"`
	Status         string          `gorm:"column:status;type:varchar(32);not null;default:'planning'" json:"status"`
	Priority       string          `gorm:"column:priority;type:varchar(16);not null;default:'medium'" json:"priority"`
	Progress       int             `gorm:"column:progress;not null;default:0" json:"progress"`
	StartDate      *time.Time      `gorm:"column:start_date" json:"startDate"`
	EndDate        *time.Time      `gorm:"column:end_date" json:"endDate"`
	TeamLead       *string         `gorm:"column:team_lead" json:"teamLead"`
	Currency       string          `gorm:"column:currency;type:varchar(8);not null;default:'INR'" json:"currency"`
	Budget         decimal.Decimal `gorm:"column:budget;type:decimal(18,2);not null" json:"budget"`
	PaidAmount     decimal.Decimal `gorm:"column:paid_amount;type:decimal(18,2);not null" json:"paidAmount"`
	PendingAmount  decimal.Decimal `gorm:"column:pending_amount;type:decimal(18,2);not null" json:"pendingAmount"`
	PaymentHistory datatypes.JSON  `gorm:"column:payment_history;type:jsonb;not null" json:"paymentHistory"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (Project) TableName() string {
	return "Projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// OverrideNote is the audit record written whenever a normally-derived
// financial value is manually corrected. Deleting a project deletes its notes.
type OverrideNote struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProjectID      uuid.UUID       `gorm:"column:project_id;type:uuid;not null;index" json:"project_id"`
	EntryID        *string         `gorm:"column:entry_id" json:"entry_id"`
	Field          string          `gorm:"column:field;type:varchar(32);not null" json:"field"`
	PreviousAmount decimal.Decimal `gorm:"column:previous_amount;type:decimal(18,2);not null" json:"previous_amount"`
	NewAmount      decimal.Decimal `gorm:"column:new_amount;type:decimal(18,2);not null" json:"new_amount"`
	Justification  string          `gorm:"column:justification;not null" json:"justification"`
	ActorEmail     *string         `gorm:"column:actor_email" json:"actor_email"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (OverrideNote) TableName() string {
	return "OverrideNotes"
}

func (n *OverrideNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
