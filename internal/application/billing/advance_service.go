package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/billing"
	"github.com/krodas7/constructora-backend/internal/domain/project"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
	"github.com/krodas7/constructora-backend/internal/infrastructure/persistence"
)

// AdvanceService handles client advances and their reconciliation against
// invoices and projects. Both application paths run inside one database
// transaction so the advance, the invoice and the application record never
// drift apart.
type AdvanceService struct {
	db          *gorm.DB
	advanceRepo billing.AdvanceRepository
	projectRepo project.Repository
}

// NewAdvanceService creates a new AdvanceService
func NewAdvanceService(db *gorm.DB, advanceRepo billing.AdvanceRepository, projectRepo project.Repository) *AdvanceService {
	return &AdvanceService{db: db, advanceRepo: advanceRepo, projectRepo: projectRepo}
}

// CreateAdvanceRequest carries the input for advance creation
type CreateAdvanceRequest struct {
	ProjectID     uuid.UUID
	Type          string
	Amount        decimal.Decimal
	ReceivedAt    time.Time
	ExpiresAt     *time.Time
	PaymentMethod string
	PaymentRef    string
	Description   string
}

// Create allocates the next advance number and records a pending advance
func (s *AdvanceService) Create(ctx context.Context, req CreateAdvanceRequest) (*billing.Advance, error) {
	proj, err := s.projectRepo.FindByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	number, err := s.advanceRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	advanceType := billing.AdvanceType(req.Type)
	if req.Type == "" {
		advanceType = billing.AdvanceTypeWork
	}

	advance, err := billing.NewAdvance(number, proj.ClientID, proj.ID, advanceType, req.Amount, req.ReceivedAt)
	if err != nil {
		return nil, err
	}
	advance.ExpiresAt = req.ExpiresAt
	if req.PaymentMethod != "" {
		advance.PaymentMethod = req.PaymentMethod
	}
	advance.PaymentRef = req.PaymentRef
	advance.Description = req.Description

	if err := s.advanceRepo.Save(ctx, advance); err != nil {
		return nil, err
	}
	return advance, nil
}

// Get returns an advance by ID
func (s *AdvanceService) Get(ctx context.Context, id uuid.UUID) (*billing.Advance, error) {
	return s.advanceRepo.FindByID(ctx, id)
}

// List returns advances matching the filter
func (s *AdvanceService) List(ctx context.Context, filter billing.AdvanceFilter) (shared.Paginated[billing.Advance], error) {
	advances, total, err := s.advanceRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[billing.Advance]{}, err
	}
	return shared.NewPaginated(advances, total, filter.Page, filter.Limit()), nil
}

// Applications lists an advance's invoice applications
func (s *AdvanceService) Applications(ctx context.Context, advanceID uuid.UUID) ([]billing.AdvanceApplication, error) {
	return s.advanceRepo.FindApplications(ctx, advanceID)
}

// ApplyToInvoice consumes part of an advance against an invoice. The advance,
// the invoice and the application record are written atomically.
func (s *AdvanceService) ApplyToInvoice(ctx context.Context, advanceID, invoiceID uuid.UUID, amount decimal.Decimal) (*billing.Advance, error) {
	var updated *billing.Advance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		advanceRepo := persistence.NewGormAdvanceRepository(tx)
		invoiceRepo := persistence.NewGormInvoiceRepository(tx)

		advance, err := advanceRepo.FindByID(ctx, advanceID)
		if err != nil {
			return err
		}
		invoice, err := invoiceRepo.FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}

		application, err := advance.ApplyToInvoice(invoice, amount, time.Now())
		if err != nil {
			return err
		}

		if err := advanceRepo.Save(ctx, advance); err != nil {
			return err
		}
		if err := invoiceRepo.Save(ctx, invoice); err != nil {
			return err
		}
		if err := advanceRepo.SaveApplication(ctx, application); err != nil {
			return err
		}
		updated = advance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ApplyToProject consumes part of an advance directly against the project's
// collected total.
func (s *AdvanceService) ApplyToProject(ctx context.Context, advanceID uuid.UUID, amount decimal.Decimal) (*billing.Advance, error) {
	var updated *billing.Advance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		advanceRepo := persistence.NewGormAdvanceRepository(tx)

		advance, err := advanceRepo.FindByID(ctx, advanceID)
		if err != nil {
			return err
		}
		if err := advance.ApplyToProject(amount, time.Now()); err != nil {
			return err
		}
		if err := advanceRepo.Save(ctx, advance); err != nil {
			return err
		}
		updated = advance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Refund returns the unconsumed remainder of an advance to the client
func (s *AdvanceService) Refund(ctx context.Context, id uuid.UUID) (*billing.Advance, error) {
	advance, err := s.advanceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := advance.Refund(); err != nil {
		return nil, err
	}
	if err := s.advanceRepo.Save(ctx, advance); err != nil {
		return nil, err
	}
	return advance, nil
}

// Cancel cancels an unconsumed advance
func (s *AdvanceService) Cancel(ctx context.Context, id uuid.UUID) (*billing.Advance, error) {
	advance, err := s.advanceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := advance.Cancel(); err != nil {
		return nil, err
	}
	if err := s.advanceRepo.Save(ctx, advance); err != nil {
		return nil, err
	}
	return advance, nil
}
