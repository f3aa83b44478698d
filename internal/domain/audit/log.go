package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// Entry is one activity-log record: who did what, where from, when
type Entry struct {
	shared.BaseEntity
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Action      string    `gorm:"size:100;not null" json:"action"`
	Module      string    `gorm:"size:100;not null;index" json:"module"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IPAddress   string    `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent   string    `gorm:"type:text" json:"user_agent,omitempty"`
	OccurredAt  time.Time `gorm:"not null;index" json:"occurred_at"`
}

// TableName returns the database table name
func (Entry) TableName() string { return "activity_logs" }

// NewEntry creates an activity-log entry stamped at the given time
func NewEntry(userID uuid.UUID, action, module, description, ip, userAgent string, at time.Time) *Entry {
	return &Entry{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		Action:      action,
		Module:      module,
		Description: description,
		IPAddress:   ip,
		UserAgent:   userAgent,
		OccurredAt:  at,
	}
}

// Repository persists activity-log entries
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
	FindRecent(ctx context.Context, limit int) ([]Entry, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Entry, int64, error)
}
