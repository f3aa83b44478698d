package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/krodas7/constructora-backend/internal/domain/identity"
	"github.com/krodas7/constructora-backend/internal/domain/notification"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
	"github.com/krodas7/constructora-backend/internal/infrastructure/mail"
)

// Service handles in-app notifications and dispatch of scheduled ones.
// Scheduled notifications become in-app messages when due; the email copy is
// best-effort and a mail failure marks the schedule failed for retry.
type Service struct {
	notificationRepo notification.Repository
	userRepo         identity.Repository
	mailer           mail.Sender
	logger           *zap.Logger
}

// NewService creates a new notification Service
func NewService(notificationRepo notification.Repository, userRepo identity.Repository, mailer mail.Sender, logger *zap.Logger) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		mailer:           mailer,
		logger:           logger.Named("notification"),
	}
}

// Notify creates an unread in-app notification
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, kind notification.Kind, title, body string) (*notification.Notification, error) {
	n := notification.New(userID, kind, title, body)
	if err := s.notificationRepo.Save(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// List returns a user's notifications, optionally unread only
func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, filter shared.Filter) (shared.Paginated[notification.Notification], error) {
	notifications, total, err := s.notificationRepo.FindByUser(ctx, userID, unreadOnly, filter)
	if err != nil {
		return shared.Paginated[notification.Notification]{}, err
	}
	return shared.NewPaginated(notifications, total, filter.Page, filter.Limit()), nil
}

// UnreadCount returns the number of unread notifications for a user
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead marks one notification as read. Only the owner may mark it.
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) (*notification.Notification, error) {
	n, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, shared.ErrNotFound
	}
	n.MarkRead(time.Now())
	if err := s.notificationRepo.Save(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkAllRead marks all of a user's notifications as read
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID, time.Now())
}

// Schedule queues a notification for later dispatch
func (s *Service) Schedule(ctx context.Context, userID uuid.UUID, kind notification.Kind, title, body string, dueAt time.Time, sendEmail bool) (*notification.Scheduled, error) {
	scheduled := &notification.Scheduled{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Kind:       kind,
		Title:      title,
		Body:       body,
		SendEmail:  sendEmail,
		DueAt:      dueAt,
		Status:     notification.ScheduledStatusPending,
	}
	if err := s.notificationRepo.SaveScheduled(ctx, scheduled); err != nil {
		return nil, err
	}
	return scheduled, nil
}

// DispatchDue delivers every pending scheduled notification whose due time
// has passed and returns how many were dispatched. One failing entry does
// not stop the rest.
func (s *Service) DispatchDue(ctx context.Context, asOf time.Time) (int, error) {
	due, err := s.notificationRepo.FindDueScheduled(ctx, asOf)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for i := range due {
		scheduled := &due[i]
		if err := s.dispatch(ctx, scheduled); err != nil {
			s.logger.Warn("scheduled notification dispatch failed",
				zap.String("scheduled_id", scheduled.ID.String()),
				zap.Error(err))
			scheduled.MarkFailed(err)
		} else {
			scheduled.MarkSent(time.Now())
			dispatched++
		}
		if err := s.notificationRepo.SaveScheduled(ctx, scheduled); err != nil {
			return dispatched, err
		}
	}
	return dispatched, nil
}

func (s *Service) dispatch(ctx context.Context, scheduled *notification.Scheduled) error {
	n := notification.New(scheduled.UserID, scheduled.Kind, scheduled.Title, scheduled.Body)
	if err := s.notificationRepo.Save(ctx, n); err != nil {
		return err
	}

	if !scheduled.SendEmail {
		return nil
	}
	user, err := s.userRepo.FindByID(ctx, scheduled.UserID)
	if err != nil {
		return err
	}
	if user.Email == "" {
		s.logger.Debug("skipping email copy, user has no address",
			zap.String("user_id", user.ID.String()))
		return nil
	}
	return s.mailer.Send(user.Email, scheduled.Title, scheduled.Body)
}
