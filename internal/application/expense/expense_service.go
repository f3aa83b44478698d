package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/audit"
	"github.com/krodas7/constructora-backend/internal/domain/expense"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
	"github.com/krodas7/constructora-backend/internal/infrastructure/persistence"
)

// Actor identifies who performed an operation for the activity log
type Actor struct {
	UserID    uuid.UUID
	IP        string
	UserAgent string
}

// Service handles expenses, categories and the approval flow. Approving an
// expense adds its exact decimal amount to the owning project's spent running
// total; disapproving subtracts it back. Both run in one transaction together
// with an activity-log entry.
type Service struct {
	db          *gorm.DB
	expenseRepo expense.Repository
	auditRepo   audit.Repository
}

// NewService creates a new expense Service
func NewService(db *gorm.DB, expenseRepo expense.Repository, auditRepo audit.Repository) *Service {
	return &Service{db: db, expenseRepo: expenseRepo, auditRepo: auditRepo}
}

// CreateRequest carries the input for expense creation
type CreateRequest struct {
	ProjectID   uuid.UUID
	CategoryID  uuid.UUID
	Description string
	Amount      decimal.Decimal
	IncurredAt  time.Time
	ReceiptPath string
}

// Create records an unapproved expense
func (s *Service) Create(ctx context.Context, req CreateRequest) (*expense.Expense, error) {
	if _, err := s.expenseRepo.FindCategoryByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	e, err := expense.NewExpense(req.ProjectID, req.CategoryID, req.Description, req.Amount, req.IncurredAt)
	if err != nil {
		return nil, err
	}
	e.ReceiptPath = req.ReceiptPath

	if err := s.expenseRepo.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Get returns an expense by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	return s.expenseRepo.FindByID(ctx, id)
}

// List returns expenses matching the filter
func (s *Service) List(ctx context.Context, filter expense.Filter) (shared.Paginated[expense.Expense], error) {
	expenses, total, err := s.expenseRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[expense.Expense]{}, err
	}
	return shared.NewPaginated(expenses, total, filter.Page, filter.Limit()), nil
}

// Approve marks an expense approved and adds its amount to the project's
// spent total, atomically, with an activity-log entry.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, actor Actor) (*expense.Expense, error) {
	return s.toggle(ctx, id, actor, true)
}

// Disapprove reverses an approval, restoring the project's spent total to the
// identical decimal value it had before the approval.
func (s *Service) Disapprove(ctx context.Context, id uuid.UUID, actor Actor) (*expense.Expense, error) {
	return s.toggle(ctx, id, actor, false)
}

func (s *Service) toggle(ctx context.Context, id uuid.UUID, actor Actor, approve bool) (*expense.Expense, error) {
	var updated *expense.Expense
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expenseRepo := persistence.NewGormExpenseRepository(tx)
		projectRepo := persistence.NewGormProjectRepository(tx)
		auditRepo := persistence.NewGormAuditRepository(tx)

		e, err := expenseRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		proj, err := projectRepo.FindByID(ctx, e.ProjectID)
		if err != nil {
			return err
		}

		action := "expense_approved"
		if approve {
			if err := e.Approve(actor.UserID); err != nil {
				return err
			}
			proj.AddSpent(e.Amount)
		} else {
			if err := e.Disapprove(); err != nil {
				return err
			}
			proj.SubtractSpent(e.Amount)
			action = "expense_disapproved"
		}

		if err := expenseRepo.Save(ctx, e); err != nil {
			return err
		}
		if err := projectRepo.Save(ctx, proj); err != nil {
			return err
		}

		entry := audit.NewEntry(actor.UserID, action, "expenses",
			fmt.Sprintf("%s %s (%s)", action, e.Description, e.Amount.StringFixed(2)),
			actor.IP, actor.UserAgent, time.Now())
		if err := auditRepo.Save(ctx, entry); err != nil {
			return err
		}

		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an unapproved expense
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	e, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e.Approved {
		return shared.NewDomainError("INVALID_STATE", "Approved expenses must be disapproved before deletion")
	}
	return s.expenseRepo.Delete(ctx, id)
}

// Categories lists all expense categories
func (s *Service) Categories(ctx context.Context) ([]expense.Category, error) {
	return s.expenseRepo.FindCategories(ctx)
}

// CreateCategory creates an expense category
func (s *Service) CreateCategory(ctx context.Context, name, description, color string) (*expense.Category, error) {
	category, err := expense.NewCategory(name)
	if err != nil {
		return nil, err
	}
	category.Description = description
	if color != "" {
		category.Color = color
	}
	if err := s.expenseRepo.SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
