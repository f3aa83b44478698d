package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// Status represents the lifecycle state of a project
type Status string

const (
	StatusPlanning   Status = "PLANNING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusPaused     Status = "PAUSED"
	StatusCompleted  Status = "COMPLETED"
)

// IsValid checks if the status is a valid project Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Project represents a construction project. Projects are never hard
// deleted; Active is the soft-delete flag.
//
// Spent is a running total of approved expenses, adjusted by the expense
// approval service. It is a cached aggregate: approving an expense adds its
// exact decimal amount, disapproving subtracts it back.
type Project struct {
	shared.AuditedEntity
	Name        string          `gorm:"size:200;not null;index" json:"name"`
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Location    string          `gorm:"size:200" json:"location,omitempty"`
	Status      Status          `gorm:"size:20;not null;default:PLANNING;index" json:"status"`
	Budget      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"budget"`
	Spent       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"spent"`
	StartAt     *time.Time      `json:"start_at,omitempty"`
	EndAt       *time.Time      `json:"end_at,omitempty"`
	Active      bool            `gorm:"not null;default:true;index" json:"active"`
}

// TableName returns the database table name
func (Project) TableName() string { return "projects" }

// NewProject creates an active project in planning
func NewProject(name string, clientID uuid.UUID, budget decimal.Decimal) (*Project, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PROJECT_NAME", "Project name cannot be empty")
	}
	if budget.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BUDGET", "Budget cannot be negative")
	}
	return &Project{
		AuditedEntity: shared.AuditedEntity{BaseEntity: shared.NewBaseEntity()},
		Name:          name,
		ClientID:      clientID,
		Status:        StatusPlanning,
		Budget:        budget,
		Spent:         decimal.Zero,
		Active:        true,
	}, nil
}

// ChangeStatus moves the project to a new lifecycle state
func (p *Project) ChangeStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Project status is not valid")
	}
	p.Status = status
	return nil
}

// AddSpent adds an approved expense amount to the running spent total
func (p *Project) AddSpent(amount decimal.Decimal) {
	p.Spent = p.Spent.Add(amount)
}

// SubtractSpent removes a previously approved amount from the running total
func (p *Project) SubtractSpent(amount decimal.Decimal) {
	p.Spent = p.Spent.Sub(amount)
}

// RemainingBudget returns budget minus the approved-expense running total
func (p *Project) RemainingBudget() decimal.Decimal {
	return p.Budget.Sub(p.Spent)
}

// Deactivate soft-deletes the project
func (p *Project) Deactivate() { p.Active = false }

// Repository persists projects
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Project, int64, error)
	FindActive(ctx context.Context) ([]Project, error)
	CountActive(ctx context.Context) (int64, error)
	Save(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}
