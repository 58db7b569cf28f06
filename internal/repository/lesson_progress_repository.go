// internal/repository/lesson_progress_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonProgressRepository interface {
	Create(ctx context.Context, tx *gorm.DB, progress *model.LessonProgress) error
	FindByEnrollmentAndLesson(ctx context.Context, db *gorm.DB, enrollmentID, lessonID uuid.UUID) (*model.LessonProgress, error)
	Update(ctx context.Context, tx *gorm.DB, progress *model.LessonProgress) error
	ListByEnrollment(ctx context.Context, db *gorm.DB, enrollmentID uuid.UUID) ([]model.LessonProgress, error)
	// CountCompletedPublished は現在公開中のレッスンに対する完了件数を数える
	CountCompletedPublished(ctx context.Context, db *gorm.DB, enrollmentID, courseID uuid.UUID) (int64, error)
	// FirstIncompletePublishedLesson は完了していない公開レッスンのうち order が最小のもの。なければ ErrNotFound
	FirstIncompletePublishedLesson(ctx context.Context, db *gorm.DB, enrollmentID, courseID uuid.UUID) (*model.Lesson, error)
	DeleteByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (int64, error)
}

type gormLessonProgressRepository struct {
	// DB接続はService層から渡される想定
}

func NewGormLessonProgressRepository() LessonProgressRepository {
	return &gormLessonProgressRepository{}
}

func (r *gormLessonProgressRepository) Create(ctx context.Context, tx *gorm.DB, progress *model.LessonProgress) error {
	// UUIDはService層で設定済み想定
	if err := tx.WithContext(ctx).Create(progress).Error; err != nil {
		if !IsDuplicate(err) {
			middleware.GetLogger(ctx).Error("Error creating lesson progress in DB",
				"error", err,
				"enrollment_id", progress.EnrollmentID.String(),
				"lesson_id", progress.LessonID.String(),
			)
		}
		return translateWriteError("gormLessonProgressRepository.Create", err)
	}
	return nil
}

func (r *gormLessonProgressRepository) FindByEnrollmentAndLesson(ctx context.Context, db *gorm.DB, enrollmentID, lessonID uuid.UUID) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := db.WithContext(ctx).
		Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding lesson progress in DB",
			"error", err,
			"enrollment_id", enrollmentID.String(),
			"lesson_id", lessonID.String(),
		)
		return nil, fmt.Errorf("gormLessonProgressRepository.FindByEnrollmentAndLesson: %w", err)
	}
	return &progress, nil
}

func (r *gormLessonProgressRepository) Update(ctx context.Context, tx *gorm.DB, progress *model.LessonProgress) error {
	result := tx.WithContext(ctx).Model(progress).
		Select("watch_progress", "is_completed", "time_spent", "last_watched", "updated_at").
		Updates(progress)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating lesson progress in DB",
			"error", result.Error,
			"lesson_progress_id", progress.LessonProgressID.String(),
		)
		return fmt.Errorf("gormLessonProgressRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormLessonProgressRepository) ListByEnrollment(ctx context.Context, db *gorm.DB, enrollmentID uuid.UUID) ([]model.LessonProgress, error) {
	var rows []model.LessonProgress
	err := db.WithContext(ctx).Where("enrollment_id = ?", enrollmentID).Order("created_at ASC").Find(&rows).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing lesson progress in DB", "error", err, "enrollment_id", enrollmentID.String())
		return nil, fmt.Errorf("gormLessonProgressRepository.ListByEnrollment: %w", err)
	}
	return rows, nil
}

func (r *gormLessonProgressRepository) CountCompletedPublished(ctx context.Context, db *gorm.DB, enrollmentID, courseID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.LessonProgress{}).
		Joins("JOIN lessons ON lessons.lesson_id = lesson_progress.lesson_id").
		Where("lesson_progress.enrollment_id = ? AND lesson_progress.is_completed = ?", enrollmentID, true).
		Where("lessons.course_id = ? AND lessons.is_published = ?", courseID, true).
		Count(&count).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error counting completed lessons in DB", "error", err, "enrollment_id", enrollmentID.String())
		return 0, fmt.Errorf("gormLessonProgressRepository.CountCompletedPublished: %w", err)
	}
	return count, nil
}

func (r *gormLessonProgressRepository) FirstIncompletePublishedLesson(ctx context.Context, db *gorm.DB, enrollmentID, courseID uuid.UUID) (*model.Lesson, error) {
	completed := db.Model(&model.LessonProgress{}).
		Select("lesson_id").
		Where("enrollment_id = ? AND is_completed = ?", enrollmentID, true)

	var lesson model.Lesson
	err := db.WithContext(ctx).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Where("lesson_id NOT IN (?)", completed).
		Order("sort_order ASC").
		First(&lesson).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding next lesson in DB", "error", err, "enrollment_id", enrollmentID.String())
		return nil, fmt.Errorf("gormLessonProgressRepository.FirstIncompletePublishedLesson: %w", err)
	}
	return &lesson, nil
}

func (r *gormLessonProgressRepository) DeleteByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (int64, error) {
	result := tx.WithContext(ctx).Where("enrollment_id = ?", enrollmentID).Delete(&model.LessonProgress{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting lesson progress in DB", "error", result.Error, "enrollment_id", enrollmentID.String())
		return 0, fmt.Errorf("gormLessonProgressRepository.DeleteByEnrollment: %w", result.Error)
	}
	return result.RowsAffected, nil
}
