package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// Item represents a stock item (tools, materials, equipment)
type Item struct {
	shared.AuditedEntity
	Code     string          `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name     string          `gorm:"size:200;not null;index" json:"name"`
	Category string          `gorm:"size:100;index" json:"category,omitempty"`
	Unit     string          `gorm:"size:20;not null;default:unit" json:"unit"`
	Quantity int             `gorm:"not null;default:0" json:"quantity"`
	Assigned int             `gorm:"not null;default:0" json:"assigned"`
	MinLevel int             `gorm:"not null;default:0" json:"min_level"`
	UnitCost decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"unit_cost"`
	Location string          `gorm:"size:200" json:"location,omitempty"`
	Active   bool            `gorm:"not null;default:true;index" json:"active"`
}

// TableName returns the database table name
func (Item) TableName() string { return "inventory_items" }

// NewItem creates a stock item
func NewItem(code, name string, quantity int, unitCost decimal.Decimal) (*Item, error) {
	if code == "" || name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item code and name cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	return &Item{
		AuditedEntity: shared.AuditedEntity{BaseEntity: shared.NewBaseEntity()},
		Code:          code,
		Name:          name,
		Unit:          "unit",
		Quantity:      quantity,
		UnitCost:      unitCost,
		Active:        true,
	}, nil
}

// AvailableQuantity returns the quantity not currently assigned to projects
func (i *Item) AvailableQuantity() int {
	return i.Quantity - i.Assigned
}

// BelowMinimum reports whether available stock dropped under the minimum level
func (i *Item) BelowMinimum() bool {
	return i.AvailableQuantity() < i.MinLevel
}

// Assign reserves stock for a project assignment
func (i *Item) Assign(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Assignment quantity must be positive")
	}
	if quantity > i.AvailableQuantity() {
		return shared.ErrInsufficientStock
	}
	i.Assigned += quantity
	return nil
}

// Return releases previously assigned stock back to availability
func (i *Item) Return(quantity int) error {
	if quantity <= 0 || quantity > i.Assigned {
		return shared.NewDomainError("INVALID_QUANTITY", "Return quantity exceeds assigned stock")
	}
	i.Assigned -= quantity
	return nil
}

// AssignmentStatus tracks whether assigned stock is out or returned
type AssignmentStatus string

const (
	AssignmentStatusActive   AssignmentStatus = "ACTIVE"
	AssignmentStatusReturned AssignmentStatus = "RETURNED"
)

// Assignment records stock assigned to a project
type Assignment struct {
	shared.AuditedEntity
	ItemID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"item_id"`
	ProjectID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"project_id"`
	Quantity   int              `gorm:"not null" json:"quantity"`
	Status     AssignmentStatus `gorm:"size:20;not null;default:ACTIVE" json:"status"`
	AssignedAt time.Time        `gorm:"not null" json:"assigned_at"`
	ReturnedAt *time.Time       `json:"returned_at,omitempty"`
	Notes      string           `gorm:"type:text" json:"notes,omitempty"`
}

// TableName returns the database table name
func (Assignment) TableName() string { return "inventory_assignments" }

// NewAssignment records stock going out to a project
func NewAssignment(itemID, projectID uuid.UUID, quantity int, assignedAt time.Time) *Assignment {
	return &Assignment{
		AuditedEntity: shared.AuditedEntity{BaseEntity: shared.NewBaseEntity()},
		ItemID:        itemID,
		ProjectID:     projectID,
		Quantity:      quantity,
		Status:        AssignmentStatusActive,
		AssignedAt:    assignedAt,
	}
}

// MarkReturned closes the assignment
func (a *Assignment) MarkReturned(at time.Time) error {
	if a.Status != AssignmentStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Assignment is already returned")
	}
	a.Status = AssignmentStatusReturned
	a.ReturnedAt = &at
	return nil
}

// Repository persists inventory items and assignments
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindByCode(ctx context.Context, code string) (*Item, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Item, int64, error)
	FindBelowMinimum(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindAssignmentByID(ctx context.Context, id uuid.UUID) (*Assignment, error)
	FindAssignmentsByProject(ctx context.Context, projectID uuid.UUID) ([]Assignment, error)
	SaveAssignment(ctx context.Context, assignment *Assignment) error
}
