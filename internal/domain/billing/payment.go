package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// PaymentStatus represents the confirmation state of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusConfirmed, PaymentStatusRejected:
		return true
	}
	return false
}

// PaymentMethod enumerates accepted payment methods
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCheck    PaymentMethod = "CHECK"
	PaymentMethodCard     PaymentMethod = "CARD"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCheck, PaymentMethodCard:
		return true
	}
	return false
}

// Payment represents a payment registered against an invoice. It only
// affects the invoice's paid amount once confirmed.
type Payment struct {
	shared.AuditedEntity
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaidAt    time.Time       `gorm:"not null" json:"paid_at"`
	Method    PaymentMethod   `gorm:"size:20;not null;default:TRANSFER" json:"method"`
	Status    PaymentStatus   `gorm:"size:20;not null;default:PENDING" json:"status"`
	Reference string          `gorm:"size:100" json:"reference,omitempty"`
	Bank      string          `gorm:"size:100" json:"bank,omitempty"`
	Notes     string          `gorm:"type:text" json:"notes,omitempty"`
}

// TableName returns the database table name
func (Payment) TableName() string { return "payments" }

// NewPayment creates a pending payment for an invoice
func NewPayment(invoiceID uuid.UUID, amount decimal.Decimal, paidAt time.Time, method PaymentMethod) (*Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	return &Payment{
		AuditedEntity: shared.AuditedEntity{BaseEntity: shared.NewBaseEntity()},
		InvoiceID:     invoiceID,
		Amount:        amount,
		PaidAt:        paidAt,
		Method:        method,
		Status:        PaymentStatusPending,
	}, nil
}

// Confirm marks the payment as confirmed
func (p *Payment) Confirm() error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payments can be confirmed")
	}
	p.Status = PaymentStatusConfirmed
	return nil
}

// Reject marks the payment as rejected
func (p *Payment) Reject() error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payments can be rejected")
	}
	p.Status = PaymentStatusRejected
	return nil
}
