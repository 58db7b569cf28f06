package repository

import (
	"context"
	"fmt"
	"time"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *model.Notification) error
	ListByUser(ctx context.Context, db *gorm.DB, userID string, unreadOnly bool, limit int) ([]model.Notification, error)
	CountUnread(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	// MarkRead は自分の通知のみ既読にする。存在しない/他人の通知は ErrNotFound
	MarkRead(ctx context.Context, tx *gorm.DB, userID string, notificationID uuid.UUID, now time.Time) error
	MarkAllRead(ctx context.Context, tx *gorm.DB, userID string, now time.Time) (int64, error)
}

type gormNotificationRepository struct{}

func NewGormNotificationRepository() NotificationRepository {
	return &gormNotificationRepository{}
}

func (r *gormNotificationRepository) Create(ctx context.Context, tx *gorm.DB, notification *model.Notification) error {
	if err := tx.WithContext(ctx).Create(notification).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error creating notification in DB", "error", err, "user_id", notification.UserID)
		return fmt.Errorf("gormNotificationRepository.Create: %w", err)
	}
	return nil
}

func (r *gormNotificationRepository) ListByUser(ctx context.Context, db *gorm.DB, userID string, unreadOnly bool, limit int) ([]model.Notification, error) {
	query := db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var notifications []model.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing notifications in DB", "error", err, "user_id", userID)
		return nil, fmt.Errorf("gormNotificationRepository.ListByUser: %w", err)
	}
	return notifications, nil
}

func (r *gormNotificationRepository) CountUnread(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error counting unread notifications in DB", "error", err, "user_id", userID)
		return 0, fmt.Errorf("gormNotificationRepository.CountUnread: %w", err)
	}
	return count, nil
}

func (r *gormNotificationRepository) MarkRead(ctx context.Context, tx *gorm.DB, userID string, notificationID uuid.UUID, now time.Time) error {
	var count int64
	err := tx.WithContext(ctx).Model(&model.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Count(&count).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error finding notification in DB", "error", err, "notification_id", notificationID.String())
		return fmt.Errorf("gormNotificationRepository.MarkRead: %w", err)
	}
	if count == 0 {
		return model.ErrNotFound
	}
	// 既読の通知は read_at を保持する
	err = tx.WithContext(ctx).Model(&model.Notification{}).
		Where("notification_id = ? AND is_read = ?", notificationID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error marking notification read in DB", "error", err, "notification_id", notificationID.String())
		return fmt.Errorf("gormNotificationRepository.MarkRead: %w", err)
	}
	return nil
}

func (r *gormNotificationRepository) MarkAllRead(ctx context.Context, tx *gorm.DB, userID string, now time.Time) (int64, error) {
	result := tx.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error marking all notifications read in DB", "error", result.Error, "user_id", userID)
		return 0, fmt.Errorf("gormNotificationRepository.MarkAllRead: %w", result.Error)
	}
	return result.RowsAffected, nil
}
