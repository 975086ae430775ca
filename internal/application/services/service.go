package services

import (
	"context"
	"errors"
	"strconv"

	"nexora-backend/internal/domain"
	"nexora-backend/internal/ledger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrServiceNotFound = errors.New("Service not found")
	ErrTitleRequired   = errors.New("Service title is required")
)

type Service struct {
	DB *gorm.DB
}

type CreateServiceInput struct {
	Title         string
	Description   *string
	Category      string
	StartingPrice string // free-form; non-numeric coerces to 0
	Active        *bool
}

func (s *Service) CreateService(ctx context.Context, in CreateServiceInput) (*domain.Service, error) {
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	svc := &domain.Service{
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		StartingPrice: ledger.ParseAmount(in.StartingPrice),
		Active:        active,
	}
	if err := s.DB.WithContext(ctx).Create(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

// GetServices lists offerings; activeOnly is used by the public site.
func (s *Service) GetServices(ctx context.Context, activeOnly bool) ([]domain.Service, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Service{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var list []domain.Service
	if err := q.Order(`"created_at" DESC`).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*domain.Service, error) {
	svc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if v, ok := fields["title"].(string); ok && v != "" {
		svc.Title = v
	}
	if v, ok := fields["description"].(string); ok {
		svc.Description = &v
	}
	if v, ok := fields["category"].(string); ok {
		svc.Category = v
	}
	if raw, ok := fields["startingPrice"]; ok {
		svc.StartingPrice = ledger.ParseAmount(asRawAmount(raw))
	}
	if v, ok := fields["active"].(bool); ok {
		svc.Active = v
	}
	if err := s.DB.WithContext(ctx).Save(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) error {
	svc, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(svc).Error
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	var svc domain.Service
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&svc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &svc, nil
}

func asRawAmount(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	}
	return ""
}
