package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"
	"marinehub.app/pkg/events"
	"marinehub.app/pkg/queryparams"
	"marinehub.app/repositories"

	"go.uber.org/zap"
)

// NotificationServiceError is returned by NotificationService.
type NotificationServiceError string

func (e NotificationServiceError) Error() string { return string(e) }

const (
	ErrNotificationNotFound NotificationServiceError = "notification not found"
	ErrNotificationFailed   NotificationServiceError = "notification could not be stored"
)

// NotificationSubject is the NATS subject a user's notifications go to.
func NotificationSubject(userID uint) string {
	return fmt.Sprintf("notifications.%d", userID)
}

// NotificationEvent is the payload published for every new notification.
type NotificationEvent struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

// INotificationService is the interface for in-app notifications.
type INotificationService interface {
	// Create stores n; inside a transaction it joins it. Call Publish after commit.
	Create(ctx context.Context, n *models.Notification) error
	Publish(ctx context.Context, n *models.Notification)
	// Notify is Create followed by Publish.
	Notify(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID uint, unreadOnly bool, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, userID, id uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
}

// NotificationService implements INotificationService.
type NotificationService struct {
	repo      repositories.INotificationRepository
	publisher events.Publisher
	now       func() time.Time
}

// NewNotificationService creates a NotificationService. publisher may be nil.
func NewNotificationService(repo repositories.INotificationRepository, publisher events.Publisher) INotificationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &NotificationService{repo: repo, publisher: publisher, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores n without publishing it.
func (s *NotificationService) Create(ctx context.Context, n *models.Notification) error {
	if n == nil || n.UserID == 0 || n.Kind == "" || n.Title == "" {
		return fmt.Errorf("%w: user, kind and title are required", ErrNotificationFailed)
	}
	if err := s.repo.Create(ctx, n); err != nil {
		configslog.Log.Error("Notification could not be created", zap.Uint("user_id", n.UserID), zap.String("kind", n.Kind), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return nil
}

// Publish is best effort; the stored row is the source of truth.
func (s *NotificationService) Publish(ctx context.Context, n *models.Notification) {
	if n == nil || n.ID == 0 {
		return
	}
	event := NotificationEvent{
		ID: n.ID, UserID: n.UserID, Kind: n.Kind, Title: n.Title,
		Body: n.Body, Link: n.Link, CreatedAt: n.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, NotificationSubject(n.UserID), event); err != nil {
		configslog.Log.Warn("Notification event dropped", zap.Uint("notification_id", n.ID), zap.Error(err))
	}
}

// Notify stores n and then publishes it.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) error {
	if err := s.Create(ctx, n); err != nil {
		return err
	}
	s.Publish(ctx, n)
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	rows, total, err := s.repo.FindByUserPaginated(ctx, userID, unreadOnly, params)
	if err != nil {
		return nil, err
	}
	return queryparams.NewPaginatedResult(rows, total, params), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead marks one notification of userID as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	if err := s.repo.MarkRead(ctx, userID, id, s.now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID, s.now())
}

var _ INotificationService = (*NotificationService)(nil)
