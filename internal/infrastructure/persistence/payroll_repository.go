package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/payroll"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// GormWorkerRepository implements payroll.WorkerRepository using GORM
type GormWorkerRepository struct {
	db *gorm.DB
}

// NewGormWorkerRepository creates a new GormWorkerRepository
func NewGormWorkerRepository(db *gorm.DB) *GormWorkerRepository {
	return &GormWorkerRepository{db: db}
}

// FindByID finds a worker by its ID
func (r *GormWorkerRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Worker, error) {
	var worker payroll.Worker
	if err := r.db.WithContext(ctx).First(&worker, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &worker, nil
}

// FindAll finds workers matching the filter with a total count
func (r *GormWorkerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payroll.Worker, int64, error) {
	base := r.db.WithContext(ctx).Model(&payroll.Worker{}).Where("active = ?", true)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var workers []payroll.Worker
	if err := applyFilter(base, filter, "full_name", "document", "trade").Find(&workers).Error; err != nil {
		return nil, 0, err
	}
	return workers, total, nil
}

// Save creates or updates a worker
func (r *GormWorkerRepository) Save(ctx context.Context, worker *payroll.Worker) error {
	return r.db.WithContext(ctx).Save(worker).Error
}

// Delete soft-deletes a worker by flipping its active flag
func (r *GormWorkerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&payroll.Worker{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormPayrollRepository implements payroll.Repository using GORM
type GormPayrollRepository struct {
	db *gorm.DB
}

// NewGormPayrollRepository creates a new GormPayrollRepository
func NewGormPayrollRepository(db *gorm.DB) *GormPayrollRepository {
	return &GormPayrollRepository{db: db}
}

// FindByID finds a payroll run with its lines
func (r *GormPayrollRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Payroll, error) {
	var run payroll.Payroll
	if err := r.db.WithContext(ctx).Preload("Lines").First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindByProject lists a project's payroll runs newest first
func (r *GormPayrollRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]payroll.Payroll, error) {
	var runs []payroll.Payroll
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("project_id = ?", projectID).
		Order("period_start DESC").
		Find(&runs).Error
	return runs, err
}

// FindAll finds payroll runs matching the filter with a total count
func (r *GormPayrollRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payroll.Payroll, int64, error) {
	base := r.db.WithContext(ctx).Model(&payroll.Payroll{})

	if status, ok := filter.Filters["status"]; ok {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []payroll.Payroll
	if err := applyFilter(base, filter).Preload("Lines").Find(&runs).Error; err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

// Save creates or updates a payroll run with its lines
func (r *GormPayrollRepository) Save(ctx context.Context, run *payroll.Payroll) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(run).Error
}

// Delete removes a draft payroll run and its lines
func (r *GormPayrollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&payroll.PayrollLine{}, "payroll_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&payroll.Payroll{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
