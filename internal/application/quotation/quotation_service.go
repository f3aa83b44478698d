package quotation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/krodas7/constructora-backend/internal/domain/project"
	"github.com/krodas7/constructora-backend/internal/domain/quotation"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// Service handles quotation lifecycle operations
type Service struct {
	quotationRepo quotation.Repository
	projectRepo   project.Repository
}

// NewService creates a new quotation Service
func NewService(quotationRepo quotation.Repository, projectRepo project.Repository) *Service {
	return &Service{quotationRepo: quotationRepo, projectRepo: projectRepo}
}

// LineRequest is one priced line in a quotation request
type LineRequest struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// CreateRequest carries the input for quotation creation
type CreateRequest struct {
	ProjectID uuid.UUID
	Name      string
	Version   string
	Notes     string
	Lines     []LineRequest
}

// Create builds a draft quotation with its initial lines
func (s *Service) Create(ctx context.Context, req CreateRequest) (*quotation.Quotation, error) {
	if _, err := s.projectRepo.FindByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	quote, err := quotation.NewQuotation(req.ProjectID, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Version != "" {
		quote.Version = req.Version
	}
	quote.Notes = req.Notes
	for _, line := range req.Lines {
		if err := quote.AddLine(line.Description, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.quotationRepo.Save(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// Get returns a quotation with its lines
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*quotation.Quotation, error) {
	return s.quotationRepo.FindByID(ctx, id)
}

// List returns quotations matching the filter
func (s *Service) List(ctx context.Context, filter shared.Filter) (shared.Paginated[quotation.Quotation], error) {
	quotes, total, err := s.quotationRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[quotation.Quotation]{}, err
	}
	return shared.NewPaginated(quotes, total, filter.Page, filter.Limit()), nil
}

// ListByProject returns a project's quotations
func (s *Service) ListByProject(ctx context.Context, projectID uuid.UUID) ([]quotation.Quotation, error) {
	return s.quotationRepo.FindByProject(ctx, projectID)
}

// AddLine appends a priced line to a draft quotation
func (s *Service) AddLine(ctx context.Context, id uuid.UUID, line LineRequest) (*quotation.Quotation, error) {
	quote, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := quote.AddLine(line.Description, line.Quantity, line.UnitPrice); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Save(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// Send marks a draft quotation as sent to the client
func (s *Service) Send(ctx context.Context, id uuid.UUID) (*quotation.Quotation, error) {
	return s.transition(ctx, id, (*quotation.Quotation).Send)
}

// Approve records client approval for the given amount
func (s *Service) Approve(ctx context.Context, id uuid.UUID, amount decimal.Decimal, userID uuid.UUID) (*quotation.Quotation, error) {
	quote, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := quote.Approve(amount, userID, time.Now()); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Save(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// Reject records client rejection of a sent quotation
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*quotation.Quotation, error) {
	return s.transition(ctx, id, (*quotation.Quotation).Reject)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, op func(*quotation.Quotation) error) (*quotation.Quotation, error) {
	quote, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(quote); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Save(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// Delete removes a draft quotation
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	quote, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if quote.Status != quotation.StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft quotations can be deleted")
	}
	return s.quotationRepo.Delete(ctx, id)
}
