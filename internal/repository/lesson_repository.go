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

type LessonRepository interface {
	Create(ctx context.Context, tx *gorm.DB, lesson *model.Lesson) error
	FindByID(ctx context.Context, db *gorm.DB, courseID, lessonID uuid.UUID) (*model.Lesson, error)
	Update(ctx context.Context, tx *gorm.DB, courseID, lessonID uuid.UUID, updates map[string]interface{}) error
	ListByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID, publishedOnly bool) ([]model.Lesson, error)
	CountPublished(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (int64, error)
	CountPublishedByCourses(ctx context.Context, db *gorm.DB, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type gormLessonRepository struct{}

func NewGormLessonRepository() LessonRepository {
	return &gormLessonRepository{}
}

func (r *gormLessonRepository) Create(ctx context.Context, tx *gorm.DB, lesson *model.Lesson) error {
	if err := tx.WithContext(ctx).Create(lesson).Error; err != nil {
		if !IsDuplicate(err) {
			middleware.GetLogger(ctx).Error("Error creating lesson in DB",
				"error", err,
				"course_id", lesson.CourseID.String(),
				"order", lesson.Order,
			)
		}
		return translateWriteError("gormLessonRepository.Create", err)
	}
	return nil
}

func (r *gormLessonRepository) FindByID(ctx context.Context, db *gorm.DB, courseID, lessonID uuid.UUID) (*model.Lesson, error) {
	var lesson model.Lesson
	err := db.WithContext(ctx).Where("course_id = ? AND lesson_id = ?", courseID, lessonID).First(&lesson).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding lesson by ID in DB",
			"error", err,
			"course_id", courseID.String(),
			"lesson_id", lessonID.String(),
		)
		return nil, fmt.Errorf("gormLessonRepository.FindByID: %w", err)
	}
	return &lesson, nil
}

func (r *gormLessonRepository) Update(ctx context.Context, tx *gorm.DB, courseID, lessonID uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Lesson{}).
		Where("course_id = ? AND lesson_id = ?", courseID, lessonID).
		Updates(updates)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating lesson in DB", "error", result.Error, "lesson_id", lessonID.String())
		return translateWriteError("gormLessonRepository.Update", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ListByCourse はレッスンを order の昇順で返します。
func (r *gormLessonRepository) ListByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID, publishedOnly bool) ([]model.Lesson, error) {
	query := db.WithContext(ctx).Where("course_id = ?", courseID)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var lessons []model.Lesson
	if err := query.Order("sort_order ASC").Find(&lessons).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing lessons in DB", "error", err, "course_id", courseID.String())
		return nil, fmt.Errorf("gormLessonRepository.ListByCourse: %w", err)
	}
	return lessons, nil
}

func (r *gormLessonRepository) CountPublished(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Lesson{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Count(&count).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error counting published lessons in DB", "error", err, "course_id", courseID.String())
		return 0, fmt.Errorf("gormLessonRepository.CountPublished: %w", err)
	}
	return count, nil
}

func (r *gormLessonRepository) CountPublishedByCourses(ctx context.Context, db *gorm.DB, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		CourseID uuid.UUID
		Count    int64
	}
	err := db.WithContext(ctx).Model(&model.Lesson{}).
		Select("course_id, COUNT(*) AS count").
		Where("course_id IN ? AND is_published = ?", courseIDs, true).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error counting lessons by course in DB", "error", err)
		return nil, fmt.Errorf("gormLessonRepository.CountPublishedByCourses: %w", err)
	}
	for _, row := range rows {
		counts[row.CourseID] = row.Count
	}
	return counts, nil
}
