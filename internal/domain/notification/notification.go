package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// Kind classifies notifications for filtering and styling
type Kind string

const (
	KindInvoiceOverdue Kind = "INVOICE_OVERDUE"
	KindAdvanceExpiry  Kind = "ADVANCE_EXPIRY"
	KindLowStock       Kind = "LOW_STOCK"
	KindExpenseReview  Kind = "EXPENSE_REVIEW"
	KindSystem         Kind = "SYSTEM"
)

// Priority orders notifications in the UI
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
)

// Notification is an in-app message for a user
type Notification struct {
	shared.BaseEntity
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_user_read" json:"user_id"`
	Kind     Kind       `gorm:"size:30;not null;default:SYSTEM" json:"kind"`
	Priority Priority   `gorm:"size:10;not null;default:NORMAL" json:"priority"`
	Title    string     `gorm:"size:200;not null" json:"title"`
	Body     string     `gorm:"type:text" json:"body,omitempty"`
	Link     string     `gorm:"size:500" json:"link,omitempty"`
	Read     bool       `gorm:"not null;default:false;index:idx_notifications_user_read" json:"read"`
	ReadAt   *time.Time `json:"read_at,omitempty"`
}

// TableName returns the database table name
func (Notification) TableName() string { return "notifications" }

// New creates an unread notification for a user
func New(userID uuid.UUID, kind Kind, title, body string) *Notification {
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Kind:       kind,
		Priority:   PriorityNormal,
		Title:      title,
		Body:       body,
	}
}

// MarkRead stamps the notification as read
func (n *Notification) MarkRead(at time.Time) {
	if n.Read {
		return
	}
	n.Read = true
	n.ReadAt = &at
}

// ScheduledStatus tracks dispatch of scheduled notifications
type ScheduledStatus string

const (
	ScheduledStatusPending ScheduledStatus = "PENDING"
	ScheduledStatusSent    ScheduledStatus = "SENT"
	ScheduledStatusFailed  ScheduledStatus = "FAILED"
)

// Scheduled is a notification to be delivered at or after a given time,
// optionally also by email. Dispatch happens in the scheduler loop or via
// the admin send-notifications command.
type Scheduled struct {
	shared.BaseEntity
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind      Kind            `gorm:"size:30;not null;default:SYSTEM" json:"kind"`
	Title     string          `gorm:"size:200;not null" json:"title"`
	Body      string          `gorm:"type:text" json:"body,omitempty"`
	SendEmail bool            `gorm:"not null;default:false" json:"send_email"`
	DueAt     time.Time       `gorm:"not null;index" json:"due_at"`
	Status    ScheduledStatus `gorm:"size:10;not null;default:PENDING;index" json:"status"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
	LastError string          `gorm:"type:text" json:"last_error,omitempty"`
}

// TableName returns the database table name
func (Scheduled) TableName() string { return "scheduled_notifications" }

// MarkSent records successful dispatch
func (s *Scheduled) MarkSent(at time.Time) {
	s.Status = ScheduledStatusSent
	s.SentAt = &at
	s.LastError = ""
}

// MarkFailed records a dispatch failure
func (s *Scheduled) MarkFailed(err error) {
	s.Status = ScheduledStatusFailed
	if err != nil {
		s.LastError = err.Error()
	}
}

// Repository persists notifications
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, filter shared.Filter) ([]Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	Save(ctx context.Context, notification *Notification) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) error

	FindDueScheduled(ctx context.Context, asOf time.Time) ([]Scheduled, error)
	SaveScheduled(ctx context.Context, scheduled *Scheduled) error
}
