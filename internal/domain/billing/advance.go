package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// AdvanceStatus represents the lifecycle state of a client advance
type AdvanceStatus string

const (
	AdvanceStatusPending   AdvanceStatus = "PENDING"  // received, not fully consumed
	AdvanceStatusSettled   AdvanceStatus = "SETTLED"  // fully applied
	AdvanceStatusRefunded  AdvanceStatus = "REFUNDED" // returned to the client
	AdvanceStatusCancelled AdvanceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid AdvanceStatus
func (s AdvanceStatus) IsValid() bool {
	switch s {
	case AdvanceStatusPending, AdvanceStatusSettled, AdvanceStatusRefunded, AdvanceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of AdvanceStatus
func (s AdvanceStatus) String() string {
	return string(s)
}

// AdvanceType classifies what the advance was received for
type AdvanceType string

const (
	AdvanceTypeWork      AdvanceType = "WORK"
	AdvanceTypeMaterials AdvanceType = "MATERIALS"
	AdvanceTypeExpenses  AdvanceType = "EXPENSES"
	AdvanceTypeOther     AdvanceType = "OTHER"
)

// IsValid checks if the type is a valid AdvanceType
func (t AdvanceType) IsValid() bool {
	switch t {
	case AdvanceTypeWork, AdvanceTypeMaterials, AdvanceTypeExpenses, AdvanceTypeOther:
		return true
	}
	return false
}

// Advance represents a payment received from a client ahead of invoicing.
//
// An advance may be consumed through two paths: applied against specific
// invoices (recorded as AdvanceApplication rows) or applied directly to the
// project's collected total. Both paths share one availability check, so the
// sum of AppliedToInvoices and AppliedToProject can never exceed Amount.
type Advance struct {
	shared.AuditedEntity
	Number    string    `gorm:"size:20;uniqueIndex;not null" json:"number"`
	ClientID  uuid.UUID `gorm:"type:uuid;not null;index:idx_advances_client_project" json:"client_id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_advances_client_project" json:"project_id"`

	Amount            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	AppliedToInvoices decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"applied_to_invoices"`
	AppliedToProject  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"applied_to_project"`
	Available         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"available"`

	Type   AdvanceType   `gorm:"size:20;not null;default:WORK" json:"type"`
	Status AdvanceStatus `gorm:"size:20;not null;default:PENDING;index:idx_advances_status_received" json:"status"`

	ReceivedAt time.Time  `gorm:"not null;index:idx_advances_status_received" json:"received_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	// AppliedAt is stamped when the advance is first applied to the project
	// and refreshed when it becomes fully settled.
	AppliedAt      *time.Time `json:"applied_at,omitempty"`
	ProjectApplied bool       `gorm:"not null;default:false" json:"project_applied"`

	PaymentMethod string `gorm:"size:50;not null;default:TRANSFER" json:"payment_method"`
	PaymentRef    string `gorm:"size:100" json:"payment_ref,omitempty"`
	Description   string `gorm:"type:text" json:"description,omitempty"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`
}

// TableName returns the database table name
func (Advance) TableName() string { return "advances" }

// NewAdvance creates a pending advance with the full amount available
func NewAdvance(number string, clientID, projectID uuid.UUID, advanceType AdvanceType, amount decimal.Decimal, receivedAt time.Time) (*Advance, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_ADVANCE_NUMBER", "Advance number cannot be empty")
	}
	if len(number) > 20 {
		return nil, shared.NewDomainError("INVALID_ADVANCE_NUMBER", "Advance number cannot exceed 20 characters")
	}
	if !advanceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ADVANCE_TYPE", "Advance type is not valid")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Advance amount must be positive")
	}

	return &Advance{
		AuditedEntity:     shared.AuditedEntity{BaseEntity: shared.NewBaseEntity()},
		Number:            number,
		ClientID:          clientID,
		ProjectID:         projectID,
		Amount:            amount,
		AppliedToInvoices: decimal.Zero,
		AppliedToProject:  decimal.Zero,
		Available:         amount,
		Type:              advanceType,
		Status:            AdvanceStatusPending,
		ReceivedAt:        receivedAt,
		PaymentMethod:     "TRANSFER",
	}, nil
}

// TotalApplied returns the amount consumed through both application paths
func (a *Advance) TotalApplied() decimal.Decimal {
	return a.AppliedToInvoices.Add(a.AppliedToProject)
}

// AppliedPercent returns the percentage of the advance already consumed
func (a *Advance) AppliedPercent() decimal.Decimal {
	if a.Amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return a.TotalApplied().Div(a.Amount).Mul(decimal.NewFromInt(100))
}

// CanApply reports whether the given amount can still be consumed
func (a *Advance) CanApply(amount decimal.Decimal) bool {
	return a.Status == AdvanceStatusPending &&
		amount.GreaterThan(decimal.Zero) &&
		a.Available.GreaterThanOrEqual(amount)
}

// ApplyToInvoice consumes part of the advance against a specific invoice.
// The invoice's advance-applied amount is credited and an application record
// is returned for persistence.
func (a *Advance) ApplyToInvoice(invoice *Invoice, amount decimal.Decimal, now time.Time) (*AdvanceApplication, error) {
	if !a.CanApply(amount) {
		return nil, shared.ErrInsufficientBalance
	}
	if !invoice.CanApplyAdvance(amount) {
		return nil, shared.NewDomainError("ADVANCE_EXCEEDS_OUTSTANDING", "Amount exceeds the invoice's outstanding balance")
	}

	a.AppliedToInvoices = a.AppliedToInvoices.Add(amount)
	a.refresh(now)
	invoice.creditAdvance(amount, now)

	return NewAdvanceApplication(a.ID, invoice.ID, amount, now), nil
}

// ApplyToProject consumes part of the advance directly against the project's
// collected total.
func (a *Advance) ApplyToProject(amount decimal.Decimal, now time.Time) error {
	if !a.CanApply(amount) {
		return shared.ErrInsufficientBalance
	}
	a.AppliedToProject = a.AppliedToProject.Add(amount)
	a.ProjectApplied = true
	if a.AppliedAt == nil {
		appliedAt := now
		a.AppliedAt = &appliedAt
	}
	a.refresh(now)
	return nil
}

// Refund returns the unconsumed remainder to the client
func (a *Advance) Refund() error {
	if a.Status != AdvanceStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending advances can be refunded")
	}
	a.Status = AdvanceStatusRefunded
	a.Available = decimal.Zero
	return nil
}

// Cancel cancels an advance that has not been consumed at all
func (a *Advance) Cancel() error {
	if !a.TotalApplied().IsZero() {
		return shared.NewDomainError("INVALID_STATE", "Partially applied advances cannot be cancelled")
	}
	a.Status = AdvanceStatusCancelled
	a.Available = decimal.Zero
	return nil
}

// refresh re-derives Available and the settled transition
func (a *Advance) refresh(now time.Time) {
	a.Available = a.Amount.Sub(a.TotalApplied())
	if a.TotalApplied().GreaterThanOrEqual(a.Amount) {
		a.Status = AdvanceStatusSettled
		if a.AppliedAt == nil {
			appliedAt := now
			a.AppliedAt = &appliedAt
		}
	}
}

// AdvanceApplication records how much of an advance was applied to an invoice
type AdvanceApplication struct {
	shared.AuditedEntity
	AdvanceID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_advance_invoice" json:"advance_id"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_advance_invoice" json:"invoice_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	AppliedAt time.Time       `gorm:"not null" json:"applied_at"`
}

// TableName returns the database table name
func (AdvanceApplication) TableName() string { return "advance_applications" }

// NewAdvanceApplication creates an application record
func NewAdvanceApplication(advanceID, invoiceID uuid.UUID, amount decimal.Decimal, appliedAt time.Time) *AdvanceApplication {
	return &AdvanceApplication{
		AuditedEntity: shared.AuditedEntity{BaseEntity: shared.NewBaseEntity()},
		AdvanceID:     advanceID,
		InvoiceID:     invoiceID,
		Amount:        amount,
		AppliedAt:     appliedAt,
	}
}
