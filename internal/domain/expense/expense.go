package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// Category groups expenses for dashboard breakdowns
type Category struct {
	shared.BaseEntity
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Color       string `gorm:"size:7;not null;default:#007bff" json:"color"`
}

// TableName returns the database table name
func (Category) TableName() string { return "expense_categories" }

// NewCategory creates an expense category
func NewCategory(name string) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Color:      "#007bff",
	}, nil
}

// Expense represents a cost entry against a project. Only approved expenses
// count toward cost totals; approval and disapproval are exact inverses on
// the owning project's spent running total.
type Expense struct {
	shared.AuditedEntity
	ProjectID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	IncurredAt  time.Time       `gorm:"not null;index" json:"incurred_at"`
	Approved    bool            `gorm:"not null;default:false;index" json:"approved"`
	ApprovedBy  *uuid.UUID      `gorm:"type:uuid" json:"approved_by,omitempty"`
	ReceiptPath string          `gorm:"size:500" json:"receipt_path,omitempty"`
}

// TableName returns the database table name
func (Expense) TableName() string { return "expenses" }

// NewExpense creates an unapproved expense
func NewExpense(projectID, categoryID uuid.UUID, description string, amount decimal.Decimal, incurredAt time.Time) (*Expense, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	return &Expense{
		AuditedEntity: shared.AuditedEntity{BaseEntity: shared.NewBaseEntity()},
		ProjectID:     projectID,
		CategoryID:    categoryID,
		Description:   description,
		Amount:        amount,
		IncurredAt:    incurredAt,
		Approved:      false,
	}, nil
}

// Approve marks the expense approved by the given user
func (e *Expense) Approve(userID uuid.UUID) error {
	if e.Approved {
		return shared.NewDomainError("ALREADY_APPROVED", "Expense is already approved")
	}
	e.Approved = true
	e.ApprovedBy = &userID
	return nil
}

// Disapprove reverses a previous approval
func (e *Expense) Disapprove() error {
	if !e.Approved {
		return shared.NewDomainError("NOT_APPROVED", "Expense is not approved")
	}
	e.Approved = false
	e.ApprovedBy = nil
	return nil
}

// Filter narrows expense list queries
type Filter struct {
	shared.Filter
	ProjectID  *uuid.UUID
	CategoryID *uuid.UUID
	Approved   *bool
	From       *time.Time
	To         *time.Time
}

// Repository persists expenses and categories
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, filter Filter) ([]Expense, int64, error)
	Save(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindCategories(ctx context.Context) ([]Category, error)
	SaveCategory(ctx context.Context, category *Category) error
}
