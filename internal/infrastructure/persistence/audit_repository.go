package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/audit"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Save persists an activity-log entry
func (r *GormAuditRepository) Save(ctx context.Context, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindRecent returns the most recent activity-log entries
func (r *GormAuditRepository) FindRecent(ctx context.Context, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []audit.Entry
	err := r.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// FindByUser lists a user's activity-log entries with a total count
func (r *GormAuditRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]audit.Entry, int64, error) {
	base := r.db.WithContext(ctx).Model(&audit.Entry{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []audit.Entry
	if err := applyFilter(base, filter).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
