package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/inventory"
	"github.com/krodas7/constructora-backend/internal/domain/project"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
	"github.com/krodas7/constructora-backend/internal/infrastructure/persistence"
)

// Service handles stock items and project assignments. Assign and Return
// update the item's assigned counter and the assignment record in one
// transaction so available stock never drifts.
type Service struct {
	db            *gorm.DB
	inventoryRepo inventory.Repository
	projectRepo   project.Repository
}

// NewService creates a new inventory Service
func NewService(db *gorm.DB, inventoryRepo inventory.Repository, projectRepo project.Repository) *Service {
	return &Service{db: db, inventoryRepo: inventoryRepo, projectRepo: projectRepo}
}

// CreateItemRequest carries the input for item creation
type CreateItemRequest struct {
	Code     string
	Name     string
	Category string
	Unit     string
	Quantity int
	MinLevel int
	UnitCost decimal.Decimal
	Location string
}

// CreateItem registers a stock item with a unique code
func (s *Service) CreateItem(ctx context.Context, req CreateItemRequest) (*inventory.Item, error) {
	if _, err := s.inventoryRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "An item with this code already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	item, err := inventory.NewItem(req.Code, req.Name, req.Quantity, req.UnitCost)
	if err != nil {
		return nil, err
	}
	item.Category = req.Category
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	item.MinLevel = req.MinLevel
	item.Location = req.Location

	if err := s.inventoryRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem returns an item by ID
func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	return s.inventoryRepo.FindByID(ctx, id)
}

// ListItems returns items matching the filter
func (s *Service) ListItems(ctx context.Context, filter shared.Filter) (shared.Paginated[inventory.Item], error) {
	items, total, err := s.inventoryRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[inventory.Item]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// LowStock returns items whose available quantity is under their minimum level
func (s *Service) LowStock(ctx context.Context) ([]inventory.Item, error) {
	return s.inventoryRepo.FindBelowMinimum(ctx)
}

// UpdateItemRequest carries the mutable item fields. The assigned counter is
// never writable here; only assignments move it.
type UpdateItemRequest struct {
	Name     string
	Category string
	Unit     string
	Quantity int
	MinLevel int
	UnitCost decimal.Decimal
	Location string
}

// UpdateItem replaces an item's editable fields
func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*inventory.Item, error) {
	item, err := s.inventoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item name cannot be empty")
	}
	if req.Quantity < item.Assigned {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot drop below the assigned count")
	}
	item.Name = req.Name
	item.Category = req.Category
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	item.Quantity = req.Quantity
	item.MinLevel = req.MinLevel
	item.UnitCost = req.UnitCost
	item.Location = req.Location

	if err := s.inventoryRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem deactivates an item with no outstanding assignments
func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.inventoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if item.Assigned > 0 {
		return shared.NewDomainError("INVALID_STATE", "Item has stock assigned to projects")
	}
	return s.inventoryRepo.Delete(ctx, id)
}

// Assign reserves stock for a project, recording the assignment and bumping
// the item's assigned counter atomically.
func (s *Service) Assign(ctx context.Context, itemID, projectID uuid.UUID, quantity int, notes string) (*inventory.Assignment, error) {
	var created *inventory.Assignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inventoryRepo := persistence.NewGormInventoryRepository(tx)
		projectRepo := persistence.NewGormProjectRepository(tx)

		item, err := inventoryRepo.FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if _, err := projectRepo.FindByID(ctx, projectID); err != nil {
			return err
		}
		if err := item.Assign(quantity); err != nil {
			return err
		}

		assignment := inventory.NewAssignment(item.ID, projectID, quantity, time.Now())
		assignment.Notes = notes

		if err := inventoryRepo.Save(ctx, item); err != nil {
			return err
		}
		if err := inventoryRepo.SaveAssignment(ctx, assignment); err != nil {
			return err
		}
		created = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Return closes an assignment and releases its stock back to availability
func (s *Service) Return(ctx context.Context, assignmentID uuid.UUID) (*inventory.Assignment, error) {
	var updated *inventory.Assignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inventoryRepo := persistence.NewGormInventoryRepository(tx)

		assignment, err := inventoryRepo.FindAssignmentByID(ctx, assignmentID)
		if err != nil {
			return err
		}
		item, err := inventoryRepo.FindByID(ctx, assignment.ItemID)
		if err != nil {
			return err
		}
		if err := assignment.MarkReturned(time.Now()); err != nil {
			return err
		}
		if err := item.Return(assignment.Quantity); err != nil {
			return err
		}

		if err := inventoryRepo.Save(ctx, item); err != nil {
			return err
		}
		if err := inventoryRepo.SaveAssignment(ctx, assignment); err != nil {
			return err
		}
		updated = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Assignments returns a project's inventory assignments
func (s *Service) Assignments(ctx context.Context, projectID uuid.UUID) ([]inventory.Assignment, error) {
	return s.inventoryRepo.FindAssignmentsByProject(ctx, projectID)
}
