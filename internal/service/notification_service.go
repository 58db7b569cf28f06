//go:generate mockery --name NotificationService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"time"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// notificationListLimit は一覧で返す最大件数。クライアントは30秒ごとにポーリングする。
const notificationListLimit = 50

type NotificationService interface {
	List(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID string, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	// Notify は tx の中で通知を1件追加する
	Notify(ctx context.Context, tx *gorm.DB, userID, title, message string, notificationType model.NotificationType) (*model.Notification, error)
}

type notificationService struct {
	db   *gorm.DB
	repo repository.NotificationRepository
}

func NewNotificationService(db *gorm.DB, repo repository.NotificationRepository) NotificationService {
	return &notificationService{db: db, repo: repo}
}

func (s *notificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	return s.repo.ListByUser(ctx, s.db, userID, unreadOnly, notificationListLimit)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, s.db, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, notificationID uuid.UUID) error {
	err := s.repo.MarkRead(ctx, s.db, userID, notificationID, time.Now())
	if errors.Is(err, model.ErrNotFound) {
		return model.NewAppError("NOTIFICATION_NOT_FOUND", "通知が見つかりません。", "", model.ErrNotFound)
	}
	return err
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, s.db, userID, time.Now())
	if err != nil {
		return 0, err
	}
	middleware.GetLogger(ctx).Debug("Notifications marked read", "count", n)
	return n, nil
}

func (s *notificationService) Notify(ctx context.Context, tx *gorm.DB, userID, title, message string, notificationType model.NotificationType) (*model.Notification, error) {
	if notificationType == "" {
		notificationType = model.NotificationInfo
	}
	n := &model.Notification{
		NotificationID: uuid.New(),
		UserID:         userID,
		Title:          title,
		Message:        message,
		Type:           notificationType,
	}
	if err := s.repo.Create(ctx, tx, n); err != nil {
		return nil, err
	}
	return n, nil
}
