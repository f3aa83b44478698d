package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/inventory"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// GormInventoryRepository implements inventory.Repository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// FindByID finds an inventory item by its ID
func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var item inventory.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByCode finds an inventory item by its code
func (r *GormInventoryRepository) FindByCode(ctx context.Context, code string) (*inventory.Item, error) {
	var item inventory.Item
	if err := r.db.WithContext(ctx).First(&item, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAll finds inventory items matching the filter with a total count
func (r *GormInventoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Item, int64, error) {
	base := r.db.WithContext(ctx).Model(&inventory.Item{}).Where("active = ?", true)

	if category, ok := filter.Filters["category"]; ok {
		base = base.Where("category = ?", category)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []inventory.Item
	if err := applyFilter(base, filter, "code", "name", "category").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindBelowMinimum returns active items whose available stock is under the
// configured minimum level.
func (r *GormInventoryRepository) FindBelowMinimum(ctx context.Context) ([]inventory.Item, error) {
	var items []inventory.Item
	err := r.db.WithContext(ctx).
		Where("active = ? AND quantity - assigned < min_level", true).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

// Save creates or updates an inventory item
func (r *GormInventoryRepository) Save(ctx context.Context, item *inventory.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete soft-deletes an item by flipping its active flag
func (r *GormInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&inventory.Item{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindAssignmentByID finds an inventory assignment by its ID
func (r *GormInventoryRepository) FindAssignmentByID(ctx context.Context, id uuid.UUID) (*inventory.Assignment, error) {
	var assignment inventory.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// FindAssignmentsByProject lists a project's stock assignments newest first
func (r *GormInventoryRepository) FindAssignmentsByProject(ctx context.Context, projectID uuid.UUID) ([]inventory.Assignment, error) {
	var assignments []inventory.Assignment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("assigned_at DESC").
		Find(&assignments).Error
	return assignments, err
}

// SaveAssignment creates or updates an inventory assignment
func (r *GormInventoryRepository) SaveAssignment(ctx context.Context, assignment *inventory.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}
