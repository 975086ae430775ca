package projects

import (
	"context"
	"errors"
	"strconv"
	"time"

	"nexora-backend/internal/domain"
	"nexora-backend/internal/ledger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("Project not found")
	ErrNameRequired    = errors.New("Project name is required")
)

type Service struct {
	DB *gorm.DB
}

// Draft builds the editing draft for a stored project, re-deriving the totals
// (paid = sum of history when history is non-empty; pending = budget - paid).
func Draft(p *domain.Project) (ledger.Draft, error) {
	history, err := ledger.DecodeHistory(p.PaymentHistory)
	if err != nil {
		return ledger.Draft{}, err
	}
	return ledger.NewDraft(p.Budget, p.PaidAmount, history), nil
}

// Apply writes a draft's financials back onto the record. The whole record,
// including the full payment history array, is what gets saved (last-write-wins).
func Apply(p *domain.Project, d ledger.Draft) error {
	raw, err := ledger.EncodeHistory(d.History)
	if err != nil {
		return err
	}
	p.Budget = d.Budget
	p.PaidAmount = d.Paid
	p.PendingAmount = d.Pending
	p.PaymentHistory = datatypes.JSON(raw)
	return nil
}

type CreateProjectInput struct {
	Name        string
	Client      string
	Description *string
	Status      string
	Priority    string
	Progress    int
	StartDate   *time.Time
	EndDate     *time.Time
	TeamLead    *string
	Currency    string
	Budget      string // free-form; non-numeric coerces to 0
	PaidAmount  string // legacy manual value for pre-ledger records; may be blank
}

// CreateProject creates a project with an empty payment history. A manual
// paid amount may be supplied for records migrated from before the ledger.
func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (*domain.Project, error) {
	if in.Name == "" {
		return nil, ErrNameRequired
	}
	status := in.Status
	if status == "" {
		status = "planning"
	}
	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}
	currency := in.Currency
	if currency == "" {
		currency = "INR"
	}

	draft := ledger.NewDraft(ledger.ParseAmount(in.Budget), ledger.ParseAmount(in.PaidAmount), nil)
	p := &domain.Project{
		Name:        in.Name,
		Client:      in.Client,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		Progress:    in.Progress,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		TeamLead:    in.TeamLead,
		Currency:    currency,
	}
	if err := Apply(p, draft); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetAllProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := s.DB.WithContext(ctx).Order(`"created_at" DESC`).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// OpenProject loads a project for editing. The totals are re-derived on every
// open, self-healing any drift from a partial write; healed values are
// persisted before the record is returned.
func (s *Service) OpenProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	draft, err := Draft(p)
	if err != nil {
		return nil, err
	}
	healed := !p.PaidAmount.Equal(draft.Paid) || !p.PendingAmount.Equal(draft.Pending)
	if err := Apply(p, draft); err != nil {
		return nil, err
	}
	if healed {
		if err := s.DB.WithContext(ctx).Save(p).Error; err != nil {
			return nil, err
		}
	}
	return p, nil
}

// UpdateProject updates descriptive fields and, when budget is present,
// reruns the pending derivation. Payment history is never touched here.
func (s *Service) UpdateProject(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*domain.Project, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if v, ok := fields["name"].(string); ok && v != "" {
		p.Name = v
	}
	if v, ok := fields["client"].(string); ok {
		p.Client = v
	}
	if v, ok := fields["description"].(string); ok {
		p.Description = &v
	}
	if v, ok := fields["status"].(string); ok && v != "" {
		p.Status = v
	}
	if v, ok := fields["priority"].(string); ok && v != "" {
		p.Priority = v
	}
	if v, ok := asIntField(fields["progress"]); ok {
		p.Progress = v
	}
	if v, ok := fields["teamLead"].(string); ok {
		p.TeamLead = &v
	}
	if v, ok := fields["currency"].(string); ok && v != "" {
		p.Currency = v
	}
	if v, ok := asTimeField(fields["startDate"]); ok {
		p.StartDate = v
	}
	if v, ok := asTimeField(fields["endDate"]); ok {
		p.EndDate = v
	}

	if raw, ok := fields["budget"]; ok {
		draft, err := Draft(p)
		if err != nil {
			return nil, err
		}
		draft = draft.SetBudget(asRawAmount(raw))
		if err := Apply(p, draft); err != nil {
			return nil, err
		}
	}

	if err := s.DB.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProject removes the project together with its entire payment history
// and audit notes. There is no soft-delete or undo.
func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	p, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&domain.OverrideNote{}).Error; err != nil {
			return err
		}
		return tx.Delete(p).Error
	})
}

// SetBudget replaces the budget from free-form input; non-numeric coerces to
// zero and the operation always succeeds.
func (s *Service) SetBudget(ctx context.Context, id uuid.UUID, raw string) (*domain.Project, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	draft, err := Draft(p)
	if err != nil {
		return nil, err
	}
	draft = draft.SetBudget(raw)
	if err := Apply(p, draft); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// RecordPayment appends a payment entry and saves the whole record. A zero or
// absent amount records nothing; recorded reports whether an entry was added.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, amount, dateStr, mode string) (*domain.Project, bool, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, false, err
	}
	draft, err := Draft(p)
	if err != nil {
		return nil, false, err
	}

	var date ledger.Date
	if dateStr != "" {
		if parsed, err := ledger.ParseDate(dateStr); err == nil {
			date = parsed
		}
	}
	before := len(draft.History)
	draft = draft.RecordPayment(ledger.ParseAmount(amount), date, mode)
	recorded := len(draft.History) > before
	if !recorded {
		return p, false, nil
	}

	if err := Apply(p, draft); err != nil {
		return nil, false, err
	}
	if err := s.DB.WithContext(ctx).Save(p).Error; err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// OverridePayment applies an audited manual correction. The justification is
// mandatory and is persisted as an OverrideNote alongside the changed record.
func (s *Service) OverridePayment(ctx context.Context, id uuid.UUID, o ledger.Override, actorEmail string) (*domain.Project, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	draft, err := Draft(p)
	if err != nil {
		return nil, err
	}

	note := domain.OverrideNote{
		ProjectID:     p.ID,
		Justification: o.Justification,
	}
	if actorEmail != "" {
		note.ActorEmail = &actorEmail
	}
	if o.EntryID != "" {
		note.Field = "entry"
		note.EntryID = &o.EntryID
		for _, e := range draft.History {
			if e.ID == o.EntryID {
				note.PreviousAmount = e.Amount
			}
		}
		note.NewAmount = ledger.ParseAmount(o.Amount)
	} else {
		note.Field = "paid_amount"
		note.PreviousAmount = draft.Paid
		note.NewAmount = ledger.ParseAmount(o.Paid)
	}

	draft, err = draft.ApplyOverride(o)
	if err != nil {
		return nil, err
	}
	if err := Apply(p, draft); err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&note).Error; err != nil {
			return err
		}
		return tx.Save(p).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetOverrideNotes lists the audit trail for a project, newest first.
func (s *Service) GetOverrideNotes(ctx context.Context, id uuid.UUID) ([]domain.OverrideNote, error) {
	var notes []domain.OverrideNote
	if err := s.DB.WithContext(ctx).Where("project_id = ?", id).Order(`"created_at" DESC`).Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var p domain.Project
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// asRawAmount renders a JSON body value (string or number) for coercion.
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

func asIntField(v interface{}) (int, bool) {
	switch x := v.(type) {
	case float64:
		return int(x), true
	case int:
		return x, true
	}
	return 0, false
}

func asTimeField(v interface{}) (*time.Time, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, true
	}
	return nil, false
}
