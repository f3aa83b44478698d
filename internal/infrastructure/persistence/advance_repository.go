package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/billing"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// GormAdvanceRepository implements billing.AdvanceRepository using GORM
type GormAdvanceRepository struct {
	db *gorm.DB
}

// NewGormAdvanceRepository creates a new GormAdvanceRepository
func NewGormAdvanceRepository(db *gorm.DB) *GormAdvanceRepository {
	return &GormAdvanceRepository{db: db}
}

// FindByID finds an advance by its ID
func (r *GormAdvanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Advance, error) {
	var advance billing.Advance
	if err := r.db.WithContext(ctx).First(&advance, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &advance, nil
}

// FindByNumber finds an advance by its document number
func (r *GormAdvanceRepository) FindByNumber(ctx context.Context, number string) (*billing.Advance, error) {
	var advance billing.Advance
	if err := r.db.WithContext(ctx).First(&advance, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &advance, nil
}

// FindAll finds advances matching the filter with a total count
func (r *GormAdvanceRepository) FindAll(ctx context.Context, filter billing.AdvanceFilter) ([]billing.Advance, int64, error) {
	base := r.db.WithContext(ctx).Model(&billing.Advance{})

	if filter.ProjectID != nil {
		base = base.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.ClientID != nil {
		base = base.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != "" {
		base = base.Where("status = ?", filter.Status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var advances []billing.Advance
	if err := applyFilter(base, filter.Filter, "number", "description").Find(&advances).Error; err != nil {
		return nil, 0, err
	}
	return advances, total, nil
}

// FindApplications lists an advance's invoice applications
func (r *GormAdvanceRepository) FindApplications(ctx context.Context, advanceID uuid.UUID) ([]billing.AdvanceApplication, error) {
	var applications []billing.AdvanceApplication
	err := r.db.WithContext(ctx).
		Where("advance_id = ?", advanceID).
		Order("applied_at ASC").
		Find(&applications).Error
	return applications, err
}

// NextNumber allocates the next advance number in ANT-YYYY-NNN form
func (r *GormAdvanceRepository) NextNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(r.db.WithContext(ctx), &billing.Advance{}, "ANT")
}

// Save creates or updates an advance
func (r *GormAdvanceRepository) Save(ctx context.Context, advance *billing.Advance) error {
	return r.db.WithContext(ctx).Save(advance).Error
}

// SaveApplication persists an advance-to-invoice application record
func (r *GormAdvanceRepository) SaveApplication(ctx context.Context, application *billing.AdvanceApplication) error {
	return r.db.WithContext(ctx).Save(application).Error
}

// Delete removes an unapplied advance
func (r *GormAdvanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Advance{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
