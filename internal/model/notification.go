// internal/model/notification.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationInfo    NotificationType = "INFO"
	NotificationSuccess NotificationType = "SUCCESS"
	NotificationWarning NotificationType = "WARNING"
	NotificationError   NotificationType = "ERROR"
)

// Notification はユーザーごとの受信箱。IsRead は false→true のみ。
type Notification struct {
	NotificationID uuid.UUID        `gorm:"type:uuid;primaryKey" json:"notification_id"`
	UserID         string           `gorm:"not null;index:idx_notification_user_read" json:"user_id"`
	Title          string           `gorm:"not null" json:"title"`
	Message        string           `gorm:"not null" json:"message"`
	Type           NotificationType `gorm:"type:varchar(20);not null;default:'INFO'" json:"type"`
	IsRead         bool             `gorm:"not null;default:false;index:idx_notification_user_read" json:"is_read"`
	ReadAt         *time.Time       `json:"read_at,omitempty"`
	CreatedAt      time.Time        `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
