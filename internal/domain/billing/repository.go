package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// InvoiceFilter narrows invoice list queries
type InvoiceFilter struct {
	shared.Filter
	ProjectID *uuid.UUID
	ClientID  *uuid.UUID
	Status    InvoiceStatus
	From      *time.Time
	To        *time.Time
}

// InvoiceRepository persists invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, number string) (*Invoice, error)
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, int64, error)
	FindOverdueCandidates(ctx context.Context, asOf time.Time) ([]Invoice, error)
	NextNumber(ctx context.Context) (string, error)
	Save(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdvanceFilter narrows advance list queries
type AdvanceFilter struct {
	shared.Filter
	ProjectID *uuid.UUID
	ClientID  *uuid.UUID
	Status    AdvanceStatus
}

// AdvanceRepository persists advances and their invoice applications
type AdvanceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Advance, error)
	FindByNumber(ctx context.Context, number string) (*Advance, error)
	FindAll(ctx context.Context, filter AdvanceFilter) ([]Advance, int64, error)
	FindApplications(ctx context.Context, advanceID uuid.UUID) ([]AdvanceApplication, error)
	NextNumber(ctx context.Context) (string, error)
	Save(ctx context.Context, advance *Advance) error
	SaveApplication(ctx context.Context, application *AdvanceApplication) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentRepository persists invoice payments
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)
	Save(ctx context.Context, payment *Payment) error
}
