// internal/model/enrollment.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment は (user, course) ごとに1件。Progress は完了レッスン数から再計算される。
type Enrollment struct {
	EnrollmentID    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"enrollment_id"`
	UserID          string     `gorm:"not null;uniqueIndex:uq_enrollment_user_course" json:"user_id"`
	CourseID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_enrollment_user_course;index" json:"course_id"`
	Progress        int        `gorm:"not null;default:0" json:"progress"` // 0-100
	CurrentLessonID *uuid.UUID `gorm:"type:uuid" json:"current_lesson_id"`
	EnrolledAt      time.Time  `gorm:"not null" json:"enrolled_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// 関連 (Preload用)
	Course         *Course          `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
	LessonProgress []LessonProgress `gorm:"foreignKey:EnrollmentID;references:EnrollmentID" json:"lesson_progress,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// LessonProgress は (enrollment, lesson) ごとに1件。
// IsCompleted は false→true のみ、TimeSpent は加算のみ。
type LessonProgress struct {
	LessonProgressID uuid.UUID `gorm:"type:uuid;primaryKey" json:"lesson_progress_id"`
	EnrollmentID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_progress_enrollment_lesson" json:"enrollment_id"`
	LessonID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_progress_enrollment_lesson" json:"lesson_id"`
	WatchProgress    int       `gorm:"not null;default:0" json:"watch_progress"` // 0-100
	IsCompleted      bool      `gorm:"not null;default:false" json:"is_completed"`
	TimeSpent        int       `gorm:"not null;default:0" json:"time_spent"` // 秒
	LastWatched      time.Time `gorm:"not null" json:"last_watched"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// --- DTO ---

type EnrollRequest struct {
	CourseID uuid.UUID `json:"course_id" validate:"required"`
}

// UpdateProgressRequest は省略されたフィールドを変更しない。TimeSpent は加算量。
type UpdateProgressRequest struct {
	LessonID      uuid.UUID `json:"lesson_id" validate:"required"`
	WatchProgress *int      `json:"watch_progress,omitempty" validate:"omitempty,gte=0,lte=100"`
	IsCompleted   *bool     `json:"is_completed,omitempty"`
	TimeSpent     *int      `json:"time_spent,omitempty" validate:"omitempty,gte=0,lte=86400"`
}

type ProgressUpdateResponse struct {
	LessonProgress *LessonProgress `json:"lesson_progress"`
	Enrollment     *Enrollment     `json:"enrollment"`
}
