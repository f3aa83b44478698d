package quotation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// Status represents the lifecycle state of a quotation
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusSent     Status = "SENT"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsValid checks if the status is a valid quotation Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Quotation represents a versioned budget proposal for a project
type Quotation struct {
	shared.AuditedEntity
	ProjectID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Name           string          `gorm:"size:200;not null" json:"name"`
	Version        string          `gorm:"size:20;not null;default:1.0" json:"version"`
	Status         Status          `gorm:"size:20;not null;default:DRAFT;index" json:"status"`
	Total          decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"total"`
	ApprovedAmount decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"approved_amount"`
	ApprovedAt     *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy     *uuid.UUID      `gorm:"type:uuid" json:"approved_by,omitempty"`
	Notes          string          `gorm:"type:text" json:"notes,omitempty"`
	Lines          []Line          `gorm:"foreignKey:QuotationID" json:"lines,omitempty"`
	Active         bool            `gorm:"not null;default:true" json:"active"`
}

// TableName returns the database table name
func (Quotation) TableName() string { return "quotations" }

// Line is one priced item within a quotation
type Line struct {
	shared.BaseEntity
	QuotationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"quotation_id"`
	Description string          `gorm:"size:500;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"subtotal"`
}

// TableName returns the database table name
func (Line) TableName() string { return "quotation_lines" }

// NewQuotation creates a draft quotation
func NewQuotation(projectID uuid.UUID, name string) (*Quotation, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_QUOTATION_NAME", "Quotation name cannot be empty")
	}
	return &Quotation{
		AuditedEntity:  shared.AuditedEntity{BaseEntity: shared.NewBaseEntity()},
		ProjectID:      projectID,
		Name:           name,
		Version:        "1.0",
		Status:         StatusDraft,
		Total:          decimal.Zero,
		ApprovedAmount: decimal.Zero,
		Active:         true,
	}, nil
}

// AddLine appends a priced line and recomputes the total
func (q *Quotation) AddLine(description string, quantity, unitPrice decimal.Decimal) error {
	if q.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to draft quotations")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	subtotal := quantity.Mul(unitPrice)
	q.Lines = append(q.Lines, Line{
		BaseEntity:  shared.NewBaseEntity(),
		QuotationID: q.ID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    subtotal,
	})
	q.Total = q.Total.Add(subtotal)
	return nil
}

// Send marks the quotation as sent to the client
func (q *Quotation) Send() error {
	if q.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft quotations can be sent")
	}
	q.Status = StatusSent
	return nil
}

// Approve records client approval for the given amount
func (q *Quotation) Approve(amount decimal.Decimal, userID uuid.UUID, at time.Time) error {
	if q.Status != StatusSent {
		return shared.NewDomainError("INVALID_STATE", "Only sent quotations can be approved")
	}
	if amount.LessThanOrEqual(decimal.Zero) || amount.GreaterThan(q.Total) {
		return shared.NewDomainError("INVALID_AMOUNT", "Approved amount must be positive and not exceed the total")
	}
	q.Status = StatusApproved
	q.ApprovedAmount = amount
	q.ApprovedAt = &at
	q.ApprovedBy = &userID
	return nil
}

// Reject records client rejection
func (q *Quotation) Reject() error {
	if q.Status != StatusSent {
		return shared.NewDomainError("INVALID_STATE", "Only sent quotations can be rejected")
	}
	q.Status = StatusRejected
	return nil
}

// Repository persists quotations
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Quotation, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Quotation, int64, error)
	Save(ctx context.Context, quotation *Quotation) error
	Delete(ctx context.Context, id uuid.UUID) error
}
