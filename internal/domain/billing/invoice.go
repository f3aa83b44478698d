package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusIssued    InvoiceStatus = "ISSUED"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusSent,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsSettled returns true if no further payments can be applied
func (s InvoiceStatus) IsSettled() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// InvoiceType classifies why the invoice was issued
type InvoiceType string

const (
	InvoiceTypeProgress   InvoiceType = "PROGRESS"   // progress billing over the works
	InvoiceTypeFinal      InvoiceType = "FINAL"      // final invoice at completion
	InvoiceTypeAdditional InvoiceType = "ADDITIONAL" // additional works
	InvoiceTypeRetention  InvoiceType = "RETENTION"  // retention release
	InvoiceTypeOther      InvoiceType = "OTHER"
)

// IsValid checks if the type is a valid InvoiceType
func (t InvoiceType) IsValid() bool {
	switch t {
	case InvoiceTypeProgress, InvoiceTypeFinal, InvoiceTypeAdditional,
		InvoiceTypeRetention, InvoiceTypeOther:
		return true
	}
	return false
}

// Invoice represents a billing document issued to a client for a project.
//
// Amount invariants are maintained by Recalculate:
//
//	Total = Subtotal + Tax
//	Outstanding = Total - Paid - AdvanceApplied
//
// Outstanding reaching zero transitions the invoice to PAID; a due date in
// the past transitions an unsettled invoice to OVERDUE.
type Invoice struct {
	shared.AuditedEntity
	Number    string        `gorm:"size:20;uniqueIndex;not null" json:"number"`
	ProjectID uuid.UUID     `gorm:"type:uuid;not null;index:idx_invoices_project_client" json:"project_id"`
	ClientID  uuid.UUID     `gorm:"type:uuid;not null;index:idx_invoices_project_client" json:"client_id"`
	Type      InvoiceType   `gorm:"size:20;not null;default:PROGRESS" json:"type"`
	Status    InvoiceStatus `gorm:"size:20;not null;default:DRAFT;index:idx_invoices_status_due" json:"status"`

	IssuedAt time.Time  `gorm:"not null" json:"issued_at"`
	DueAt    time.Time  `gorm:"not null;index:idx_invoices_status_due" json:"due_at"`
	PaidAt   *time.Time `json:"paid_at,omitempty"`

	Subtotal       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Tax            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax"`
	Total          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Paid           decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"paid"`
	AdvanceApplied decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"advance_applied"`
	Outstanding    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"outstanding"`

	Description     string           `gorm:"type:text" json:"description"`
	ProgressPercent *decimal.Decimal `gorm:"type:numeric(5,2)" json:"progress_percent,omitempty"`
	PaymentMethod   string           `gorm:"size:50" json:"payment_method,omitempty"`
	PaymentRef      string           `gorm:"size:100" json:"payment_ref,omitempty"`
	Notes           string           `gorm:"type:text" json:"notes,omitempty"`
}

// TableName returns the database table name
func (Invoice) TableName() string { return "invoices" }

// NewInvoice creates a draft invoice and computes derived amounts
func NewInvoice(number string, projectID, clientID uuid.UUID, invoiceType InvoiceType, subtotal, tax decimal.Decimal, issuedAt, dueAt time.Time) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(number) > 20 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 20 characters")
	}
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Invoice type is not valid")
	}
	if subtotal.IsNegative() || tax.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Subtotal and tax cannot be negative")
	}
	if dueAt.Before(issuedAt) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot precede issue date")
	}

	inv := &Invoice{
		AuditedEntity:  shared.AuditedEntity{BaseEntity: shared.NewBaseEntity()},
		Number:         number,
		ProjectID:      projectID,
		ClientID:       clientID,
		Type:           invoiceType,
		Status:         InvoiceStatusDraft,
		IssuedAt:       issuedAt,
		DueAt:          dueAt,
		Subtotal:       subtotal,
		Tax:            tax,
		Paid:           decimal.Zero,
		AdvanceApplied: decimal.Zero,
	}
	inv.Recalculate(issuedAt)
	return inv, nil
}

// Recalculate re-derives Total, Outstanding and the amount-driven status
// transitions as of the given time.
func (i *Invoice) Recalculate(now time.Time) {
	i.Total = i.Subtotal.Add(i.Tax)
	i.Outstanding = i.Total.Sub(i.Paid).Sub(i.AdvanceApplied)

	if i.Status == InvoiceStatusCancelled {
		return
	}
	if i.Outstanding.LessThanOrEqual(decimal.Zero) {
		i.Status = InvoiceStatusPaid
		if i.PaidAt == nil {
			paidAt := now
			i.PaidAt = &paidAt
		}
		return
	}
	if now.After(i.DueAt) && i.Status != InvoiceStatusDraft {
		i.Status = InvoiceStatusOverdue
	}
}

// Issue transitions a draft invoice to issued
func (i *Invoice) Issue() error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be issued")
	}
	i.Status = InvoiceStatusIssued
	return nil
}

// Send transitions an issued invoice to sent
func (i *Invoice) Send() error {
	if i.Status != InvoiceStatusIssued {
		return shared.NewDomainError("INVALID_STATE", "Only issued invoices can be sent")
	}
	i.Status = InvoiceStatusSent
	return nil
}

// Cancel cancels an unsettled invoice
func (i *Invoice) Cancel() error {
	if i.Status.IsSettled() {
		return shared.NewDomainError("INVALID_STATE", "Settled invoices cannot be cancelled")
	}
	i.Status = InvoiceStatusCancelled
	return nil
}

// RegisterPayment applies a direct payment and recomputes derived amounts
func (i *Invoice) RegisterPayment(amount decimal.Decimal, now time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if i.Status.IsSettled() {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already settled")
	}
	if amount.GreaterThan(i.Outstanding) {
		return shared.NewDomainError("PAYMENT_EXCEEDS_OUTSTANDING", "Payment exceeds the outstanding amount")
	}
	i.Paid = i.Paid.Add(amount)
	i.Recalculate(now)
	return nil
}

// CanApplyAdvance reports whether the given advance amount fits the
// outstanding balance of an unsettled invoice.
func (i *Invoice) CanApplyAdvance(amount decimal.Decimal) bool {
	return !i.Status.IsSettled() && i.Outstanding.GreaterThanOrEqual(amount)
}

// creditAdvance increases the advance-applied amount. Callers go through
// Advance.ApplyToInvoice, which enforces availability on the advance side.
func (i *Invoice) creditAdvance(amount decimal.Decimal, now time.Time) {
	i.AdvanceApplied = i.AdvanceApplied.Add(amount)
	i.Recalculate(now)
}

// IsOverdue reports whether the invoice is past due and unsettled
func (i *Invoice) IsOverdue(now time.Time) bool {
	return now.After(i.DueAt) && !i.Status.IsSettled()
}

// DaysUntilDue returns the whole days remaining until the due date,
// negative when overdue.
func (i *Invoice) DaysUntilDue(now time.Time) int {
	return int(i.DueAt.Sub(now).Hours() / 24)
}

// PaidPercent returns the percentage of the total already covered by
// payments and advances, zero when the total is zero.
func (i *Invoice) PaidPercent() decimal.Decimal {
	if i.Total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	return i.Paid.Add(i.AdvanceApplied).Div(i.Total).Mul(hundred)
}
