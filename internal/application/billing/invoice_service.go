package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/billing"
	"github.com/krodas7/constructora-backend/internal/domain/partner"
	"github.com/krodas7/constructora-backend/internal/domain/project"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
	"github.com/krodas7/constructora-backend/internal/infrastructure/persistence"
)

// InvoiceService handles invoice lifecycle operations
type InvoiceService struct {
	db          *gorm.DB
	invoiceRepo billing.InvoiceRepository
	paymentRepo billing.PaymentRepository
	projectRepo project.Repository
	clientRepo  partner.ClientRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	db *gorm.DB,
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	projectRepo project.Repository,
	clientRepo partner.ClientRepository,
) *InvoiceService {
	return &InvoiceService{
		db:          db,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
	}
}

// CreateInvoiceRequest carries the input for invoice creation
type CreateInvoiceRequest struct {
	ProjectID       uuid.UUID
	Type            string
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	IssuedAt        time.Time
	DueAt           time.Time
	Description     string
	ProgressPercent *decimal.Decimal
	Notes           string
}

// Create allocates the next invoice number and creates a draft invoice for
// the project's client.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*billing.Invoice, error) {
	proj, err := s.projectRepo.FindByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	number, err := s.invoiceRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	invoiceType := billing.InvoiceType(req.Type)
	if req.Type == "" {
		invoiceType = billing.InvoiceTypeProgress
	}

	invoice, err := billing.NewInvoice(number, proj.ID, proj.ClientID, invoiceType,
		req.Subtotal, req.Tax, req.IssuedAt, req.DueAt)
	if err != nil {
		return nil, err
	}
	invoice.Description = req.Description
	invoice.ProgressPercent = req.ProgressPercent
	invoice.Notes = req.Notes

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Get returns an invoice by ID
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.invoiceRepo.FindByID(ctx, id)
}

// List returns invoices matching the filter
func (s *InvoiceService) List(ctx context.Context, filter billing.InvoiceFilter) (shared.Paginated[billing.Invoice], error) {
	invoices, total, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[billing.Invoice]{}, err
	}
	return shared.NewPaginated(invoices, total, filter.Page, filter.Limit()), nil
}

// Issue transitions a draft invoice to issued
func (s *InvoiceService) Issue(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.transition(ctx, id, (*billing.Invoice).Issue)
}

// Send transitions an issued invoice to sent
func (s *InvoiceService) Send(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.transition(ctx, id, (*billing.Invoice).Send)
}

// Cancel cancels an unsettled invoice
func (s *InvoiceService) Cancel(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.transition(ctx, id, (*billing.Invoice).Cancel)
}

func (s *InvoiceService) transition(ctx context.Context, id uuid.UUID, op func(*billing.Invoice) error) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(invoice); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// RegisterPaymentRequest carries the input for registering a payment
type RegisterPaymentRequest struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	PaidAt    time.Time
	Method    string
	Reference string
	Bank      string
}

// RegisterPayment records a confirmed payment against an invoice and updates
// the invoice's paid amount and status in one transaction.
func (s *InvoiceService) RegisterPayment(ctx context.Context, req RegisterPaymentRequest) (*billing.Invoice, error) {
	var updated *billing.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoiceRepo := persistence.NewGormInvoiceRepository(tx)
		paymentRepo := persistence.NewGormPaymentRepository(tx)

		invoice, err := invoiceRepo.FindByID(ctx, req.InvoiceID)
		if err != nil {
			return err
		}

		method := billing.PaymentMethod(req.Method)
		if req.Method == "" {
			method = billing.PaymentMethodTransfer
		}
		payment, err := billing.NewPayment(invoice.ID, req.Amount, req.PaidAt, method)
		if err != nil {
			return err
		}
		payment.Reference = req.Reference
		payment.Bank = req.Bank
		if err := payment.Confirm(); err != nil {
			return err
		}

		if err := invoice.RegisterPayment(req.Amount, time.Now()); err != nil {
			return err
		}

		if err := paymentRepo.Save(ctx, payment); err != nil {
			return err
		}
		if err := invoiceRepo.Save(ctx, invoice); err != nil {
			return err
		}
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Payments lists an invoice's payments
func (s *InvoiceService) Payments(ctx context.Context, invoiceID uuid.UUID) ([]billing.Payment, error) {
	return s.paymentRepo.FindByInvoice(ctx, invoiceID)
}

// Delete removes a draft invoice; other states must be cancelled instead
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice.Status != billing.InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be deleted")
	}
	return s.invoiceRepo.Delete(ctx, id)
}

// UpdateOverdueStatuses flips unsettled invoices past due to overdue and
// returns how many changed. Used by the scheduler and the admin command.
func (s *InvoiceService) UpdateOverdueStatuses(ctx context.Context, asOf time.Time) (int, error) {
	candidates, err := s.invoiceRepo.FindOverdueCandidates(ctx, asOf)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range candidates {
		invoice := &candidates[i]
		before := invoice.Status
		invoice.Recalculate(asOf)
		if invoice.Status == before {
			continue
		}
		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
