package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is a submission from the public website contact form.
type Contact struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Email     string    `gorm:"column:email;not null" json:"email"`
	Phone     *string   `gorm:"column:phone" json:"phone"`
	Subject   *string   `gorm:"column:subject" json:"subject"`
	Message   string    `gorm:"column:message;not null" json:"message"`
	Read      bool      `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Contact) TableName() string {
	return "Contacts"
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
