package quotations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nexora-backend/internal/domain"
	"nexora-backend/internal/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrQuotationNotFound = errors.New("Quotation not found")
	ErrInvalidQuotation  = errors.New("Client name and at least one item are required")
	ErrInvalidStatus     = errors.New("Invalid quotation status")
)

// Item is one line of a quotation. Amounts arrive as free-form strings and
// coerce the same way project budgets do.
type Item struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// LineTotal is quantity times unit price; quantity below 1 counts as 1.
func (it Item) LineTotal() decimal.Decimal {
	qty := it.Quantity
	if qty < 1 {
		qty = 1
	}
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

type Service struct {
	DB *gorm.DB
}

type ItemInput struct {
	Description string
	Quantity    int
	UnitPrice   string
}

type CreateQuotationInput struct {
	ClientName  string
	ClientEmail string
	Currency    string
	ValidUntil  *time.Time
	Items       []ItemInput
}

// CreateQuotation stores a draft quotation. The number is assigned as
// QTN-YYYY-NNNN, sequential within the calendar year, and the total is
// computed from the items.
func (s *Service) CreateQuotation(ctx context.Context, in CreateQuotationInput) (*domain.Quotation, error) {
	if in.ClientName == "" || len(in.Items) == 0 {
		return nil, ErrInvalidQuotation
	}
	items := make([]Item, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, Item{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   ledger.ParseAmount(it.UnitPrice),
		})
	}
	currency := in.Currency
	if currency == "" {
		currency = "INR"
	}

	q := &domain.Quotation{
		ClientName:  in.ClientName,
		ClientEmail: in.ClientEmail,
		Currency:    currency,
		Status:      domain.QuotationDraft,
		ValidUntil:  in.ValidUntil,
		Total:       sumItems(items),
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	q.Items = datatypes.JSON(raw)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextNumber(tx, time.Now().Year())
		if err != nil {
			return err
		}
		q.Number = number
		return tx.Create(q).Error
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) GetQuotations(ctx context.Context, status string) ([]domain.Quotation, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Quotation{})
	if status != "" {
		if !domain.ValidQuotationStatus(status) {
			return nil, ErrInvalidStatus
		}
		q = q.Where("status = ?", status)
	}
	var list []domain.Quotation
	if err := q.Order(`"created_at" DESC`).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) GetQuotation(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	return s.find(ctx, id)
}

// UpdateQuotation edits client fields, status and items. When items change the
// total is recomputed; a total in the request body is ignored.
func (s *Service) UpdateQuotation(ctx context.Context, id uuid.UUID, fields map[string]interface{}, items []ItemInput) (*domain.Quotation, error) {
	q, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if v, ok := fields["clientName"].(string); ok && v != "" {
		q.ClientName = v
	}
	if v, ok := fields["clientEmail"].(string); ok {
		q.ClientEmail = v
	}
	if v, ok := fields["currency"].(string); ok && v != "" {
		q.Currency = v
	}
	if v, ok := fields["status"].(string); ok && v != "" {
		if !domain.ValidQuotationStatus(v) {
			return nil, ErrInvalidStatus
		}
		q.Status = v
	}
	if v, ok := fields["validUntil"].(string); ok && v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q.ValidUntil = &t
		}
	}
	if items != nil {
		parsed := make([]Item, 0, len(items))
		for _, it := range items {
			parsed = append(parsed, Item{
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   ledger.ParseAmount(it.UnitPrice),
			})
		}
		raw, err := json.Marshal(parsed)
		if err != nil {
			return nil, err
		}
		q.Items = datatypes.JSON(raw)
		q.Total = sumItems(parsed)
	}
	if err := s.DB.WithContext(ctx).Save(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) DeleteQuotation(ctx context.Context, id uuid.UUID) error {
	q, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(q).Error
}

// RenderPDF produces the printable quotation document.
func (s *Service) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	q, err := s.find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	items, err := DecodeItems(q.Items)
	if err != nil {
		return nil, "", err
	}
	pdf, err := renderQuotationPDF(q, items)
	if err != nil {
		return nil, "", err
	}
	return pdf, q.Number + ".pdf", nil
}

// DecodeItems parses the stored JSONB items array.
func DecodeItems(raw datatypes.JSON) ([]Item, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func sumItems(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// nextNumber assigns QTN-YYYY-NNNN, sequential within the calendar year.
func nextNumber(tx *gorm.DB, year int) (string, error) {
	prefix := fmt.Sprintf("QTN-%d-", year)
	var count int64
	if err := tx.Model(&domain.Quotation{}).Where("number LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var q domain.Quotation
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&q).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrQuotationNotFound
		}
		return nil, err
	}
	return &q, nil
}
