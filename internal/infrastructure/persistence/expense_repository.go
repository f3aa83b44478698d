package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/expense"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// GormExpenseRepository implements expense.Repository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense by its ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	var e expense.Expense
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindAll finds expenses matching the filter with a total count
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter expense.Filter) ([]expense.Expense, int64, error) {
	base := r.db.WithContext(ctx).Model(&expense.Expense{})

	if filter.ProjectID != nil {
		base = base.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Approved != nil {
		base = base.Where("approved = ?", *filter.Approved)
	}
	if filter.From != nil {
		base = base.Where("incurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		base = base.Where("incurred_at <= ?", *filter.To)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenses []expense.Expense
	if err := applyFilter(base, filter.Filter, "description").Find(&expenses).Error; err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// Save creates or updates an expense
func (r *GormExpenseRepository) Save(ctx context.Context, e *expense.Expense) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// Delete removes an expense
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&expense.Expense{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindCategoryByID finds an expense category by its ID
func (r *GormExpenseRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*expense.Category, error) {
	var category expense.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindCategories lists all expense categories ordered by name
func (r *GormExpenseRepository) FindCategories(ctx context.Context) ([]expense.Category, error) {
	var categories []expense.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// SaveCategory creates or updates an expense category
func (r *GormExpenseRepository) SaveCategory(ctx context.Context, category *expense.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}
