package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Application statuses (enum_Applications_status).
const (
	ApplicationNew         = "new"
	ApplicationShortlisted = "shortlisted"
	ApplicationRejected    = "rejected"
	ApplicationHired       = "hired"
)

// Application is a job or internship application submitted from the careers page.
type Application struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Email       string    `gorm:"column:email;not null" json:"email"`
	Phone       *string   `gorm:"column:phone" json:"phone"`
	Position    string    `gorm:"column:position;not null" json:"position"`
	Kind        string    `gorm:"column:kind;type:varchar(16);not null;default:'job'" json:"kind"`
	ResumeURL   *string   `gorm:"column:resume_url" json:"resumeUrl"`
	CoverLetter *string   `gorm:"column:cover_letter" json:"coverLetter"`
	Status      string    `gorm:"column:status;type:varchar(16);not null;default:'new'" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Application) TableName() string {
	return "Applications"
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ValidApplicationStatus reports whether s is an allowed status value.
func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationNew, ApplicationShortlisted, ApplicationRejected, ApplicationHired:
		return true
	}
	return false
}
