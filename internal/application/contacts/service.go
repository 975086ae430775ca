package contacts

import (
	"context"
	"errors"

	"nexora-backend/internal/application/emails"
	"nexora-backend/internal/domain"
	"nexora-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrContactNotFound = errors.New("Contact not found")
	ErrInvalidContact  = errors.New("Name, email and message are required")
	ErrInvalidEmail    = errors.New("Invalid email format")
)

type Service struct {
	DB          *gorm.DB
	Mailer      emails.Sender
	NotifyEmail string
}

type CreateContactInput struct {
	Name    string
	Email   string
	Phone   *string
	Subject *string
	Message string
}

// CreateContact stores a public contact form submission and notifies the
// operations inbox. The notification is best-effort; a mail failure never
// fails the submission.
func (s *Service) CreateContact(ctx context.Context, in CreateContactInput) (*domain.Contact, error) {
	if in.Name == "" || in.Email == "" || in.Message == "" {
		return nil, ErrInvalidContact
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	c := &domain.Contact{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	}
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	if s.Mailer != nil && s.NotifyEmail != "" {
		subject := ""
		if in.Subject != nil {
			subject = *in.Subject
		}
		if err := s.Mailer.SendContactNotification(ctx, s.NotifyEmail, in.Name, in.Email, subject, in.Message); err != nil {
			log.Warn().Err(err).Str("contact_id", c.ID.String()).Msg("contact notification email failed")
		}
	}
	return c, nil
}

// GetAllContacts lists submissions newest first and returns the unread count.
func (s *Service) GetAllContacts(ctx context.Context) ([]domain.Contact, int64, error) {
	var contacts []domain.Contact
	if err := s.DB.WithContext(ctx).Order(`"created_at" DESC`).Find(&contacts).Error; err != nil {
		return nil, 0, err
	}
	var unread int64
	if err := s.DB.WithContext(ctx).Model(&domain.Contact{}).Where("read = ?", false).Count(&unread).Error; err != nil {
		return nil, 0, err
	}
	return contacts, unread, nil
}

// SetRead marks a submission read or unread.
func (s *Service) SetRead(ctx context.Context, id uuid.UUID, read bool) (*domain.Contact, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Read = read
	if err := s.DB.WithContext(ctx).Save(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) DeleteContact(ctx context.Context, id uuid.UUID) error {
	c, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(c).Error
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	var c domain.Contact
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &c, nil
}
