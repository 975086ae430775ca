package applications

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
	ErrApplicationNotFound = errors.New("Application not found")
	ErrInvalidApplication  = errors.New("Name, email and position are required")
	ErrInvalidEmail        = errors.New("Invalid email format")
	ErrInvalidStatus       = errors.New("Invalid application status")
)

type Service struct {
	DB     *gorm.DB
	Mailer emails.Sender
}

type CreateApplicationInput struct {
	Name        string
	Email       string
	Phone       *string
	Position    string
	Kind        string
	ResumeURL   *string
	CoverLetter *string
}

// ListFilter narrows the dashboard listing. Zero values mean no filter.
type ListFilter struct {
	Position string
	Status   string
	Kind     string
}

// CreateApplication stores a careers page submission with status "new".
func (s *Service) CreateApplication(ctx context.Context, in CreateApplicationInput) (*domain.Application, error) {
	if in.Name == "" || in.Email == "" || in.Position == "" {
		return nil, ErrInvalidApplication
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	kind := in.Kind
	if kind == "" {
		kind = "job"
	}
	a := &domain.Application{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Position:    in.Position,
		Kind:        kind,
		ResumeURL:   in.ResumeURL,
		CoverLetter: in.CoverLetter,
		Status:      domain.ApplicationNew,
	}
	if err := s.DB.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// GetApplications lists applications newest first, optionally filtered.
func (s *Service) GetApplications(ctx context.Context, f ListFilter) ([]domain.Application, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Application{})
	if f.Position != "" {
		q = q.Where("position = ?", f.Position)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	var apps []domain.Application
	if err := q.Order(`"created_at" DESC`).Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateStatus moves an application through the pipeline and notifies the
// applicant. The notification is best-effort.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Application, error) {
	if !domain.ValidApplicationStatus(status) {
		return nil, ErrInvalidStatus
	}
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == status {
		return a, nil
	}
	a.Status = status
	if err := s.DB.WithContext(ctx).Save(a).Error; err != nil {
		return nil, err
	}
	if s.Mailer != nil && status != domain.ApplicationNew {
		if err := s.Mailer.SendApplicationStatus(ctx, a.Email, a.Name, a.Position, status); err != nil {
			log.Warn().Err(err).Str("application_id", a.ID.String()).Msg("application status email failed")
		}
	}
	return a, nil
}

func (s *Service) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	a, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(a).Error
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	var a domain.Application
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &a, nil
}
