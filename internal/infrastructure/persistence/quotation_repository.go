package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/quotation"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// GormQuotationRepository implements quotation.Repository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds a quotation with its lines
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*quotation.Quotation, error) {
	var q quotation.Quotation
	if err := r.db.WithContext(ctx).Preload("Lines").First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindByProject lists a project's quotations newest first
func (r *GormQuotationRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]quotation.Quotation, error) {
	var quotations []quotation.Quotation
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("project_id = ? AND active = ?", projectID, true).
		Order("created_at DESC").
		Find(&quotations).Error
	return quotations, err
}

// FindAll finds quotations matching the filter with a total count
func (r *GormQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quotation.Quotation, int64, error) {
	base := r.db.WithContext(ctx).Model(&quotation.Quotation{}).Where("active = ?", true)

	if status, ok := filter.Filters["status"]; ok {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var quotations []quotation.Quotation
	if err := applyFilter(base, filter, "name").Preload("Lines").Find(&quotations).Error; err != nil {
		return nil, 0, err
	}
	return quotations, total, nil
}

// Save creates or updates a quotation with its lines
func (r *GormQuotationRepository) Save(ctx context.Context, q *quotation.Quotation) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(q).Error
}

// Delete soft-deletes a quotation by flipping its active flag
func (r *GormQuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&quotation.Quotation{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
