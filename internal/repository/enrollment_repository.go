package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) error
	FindByID(ctx context.Context, db *gorm.DB, enrollmentID uuid.UUID) (*model.Enrollment, error)
	// FindByIDForUpdate は行ロック (SELECT ... FOR UPDATE) を取って読む。トランザクション内で使う。
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*model.Enrollment, error)
	FindByUserAndCourse(ctx context.Context, db *gorm.DB, userID string, courseID uuid.UUID) (*model.Enrollment, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]model.Enrollment, error)
	Exists(ctx context.Context, db *gorm.DB, userID string, courseID uuid.UUID) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) error
}

type gormEnrollmentRepository struct{}

func NewGormEnrollmentRepository() EnrollmentRepository {
	return &gormEnrollmentRepository{}
}

func (r *gormEnrollmentRepository) Create(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) error {
	if err := tx.WithContext(ctx).Create(enrollment).Error; err != nil {
		if !IsDuplicate(err) {
			middleware.GetLogger(ctx).Error("Error creating enrollment in DB",
				"error", err,
				"user_id", enrollment.UserID,
				"course_id", enrollment.CourseID.String(),
			)
		}
		return translateWriteError("gormEnrollmentRepository.Create", err)
	}
	return nil
}

func (r *gormEnrollmentRepository) FindByID(ctx context.Context, db *gorm.DB, enrollmentID uuid.UUID) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := db.WithContext(ctx).Where("enrollment_id = ?", enrollmentID).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding enrollment by ID in DB", "error", err, "enrollment_id", enrollmentID.String())
		return nil, fmt.Errorf("gormEnrollmentRepository.FindByID: %w", err)
	}
	return &enrollment, nil
}

func (r *gormEnrollmentRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("enrollment_id = ?", enrollmentID).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error locking enrollment in DB", "error", err, "enrollment_id", enrollmentID.String())
		return nil, fmt.Errorf("gormEnrollmentRepository.FindByIDForUpdate: %w", err)
	}
	return &enrollment, nil
}

func (r *gormEnrollmentRepository) FindByUserAndCourse(ctx context.Context, db *gorm.DB, userID string, courseID uuid.UUID) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding enrollment by user and course in DB",
			"error", err,
			"user_id", userID,
			"course_id", courseID.String(),
		)
		return nil, fmt.Errorf("gormEnrollmentRepository.FindByUserAndCourse: %w", err)
	}
	return &enrollment, nil
}

func (r *gormEnrollmentRepository) ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := db.WithContext(ctx).Preload("Course").
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing enrollments in DB", "error", err, "user_id", userID)
		return nil, fmt.Errorf("gormEnrollmentRepository.ListByUser: %w", err)
	}
	return enrollments, nil
}

func (r *gormEnrollmentRepository) Exists(ctx context.Context, db *gorm.DB, userID string, courseID uuid.UUID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error checking enrollment existence in DB", "error", err, "user_id", userID)
		return false, fmt.Errorf("gormEnrollmentRepository.Exists: %w", err)
	}
	return count > 0, nil
}

func (r *gormEnrollmentRepository) Update(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Enrollment{}).Where("enrollment_id = ?", enrollmentID).Updates(updates)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating enrollment in DB", "error", result.Error, "enrollment_id", enrollmentID.String())
		return fmt.Errorf("gormEnrollmentRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormEnrollmentRepository) Delete(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) error {
	result := tx.WithContext(ctx).Where("enrollment_id = ?", enrollmentID).Delete(&model.Enrollment{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting enrollment in DB", "error", result.Error, "enrollment_id", enrollmentID.String())
		return fmt.Errorf("gormEnrollmentRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
