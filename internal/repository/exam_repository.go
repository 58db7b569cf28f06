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

type ExamQuestionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, question *model.ExamQuestion) error
	ListByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]model.ExamQuestion, error)
}

type gormExamQuestionRepository struct{}

func NewGormExamQuestionRepository() ExamQuestionRepository {
	return &gormExamQuestionRepository{}
}

func (r *gormExamQuestionRepository) Create(ctx context.Context, tx *gorm.DB, question *model.ExamQuestion) error {
	if err := tx.WithContext(ctx).Create(question).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error creating exam question in DB", "error", err, "course_id", question.CourseID.String())
		return translateWriteError("gormExamQuestionRepository.Create", err)
	}
	return nil
}

// ListByCourse は問題を order, 作成順で返します。採点の順序もこれに従う。
func (r *gormExamQuestionRepository) ListByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]model.ExamQuestion, error) {
	var questions []model.ExamQuestion
	err := db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order ASC").Order("created_at ASC").Order("question_id ASC").
		Find(&questions).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing exam questions in DB", "error", err, "course_id", courseID.String())
		return nil, fmt.Errorf("gormExamQuestionRepository.ListByCourse: %w", err)
	}
	return questions, nil
}

type ExamResultRepository interface {
	Create(ctx context.Context, tx *gorm.DB, result *model.ExamResult) error
	ListByUserAndCourse(ctx context.Context, db *gorm.DB, userID string, courseID uuid.UUID) ([]model.ExamResult, error)
	CountByUserAndCourse(ctx context.Context, db *gorm.DB, userID string, courseID uuid.UUID) (int64, error)
	// FindBest は最高点の受験結果。同点なら先に受験したもの。
	FindBest(ctx context.Context, db *gorm.DB, userID string, courseID uuid.UUID) (*model.ExamResult, error)
}

type gormExamResultRepository struct{}

func NewGormExamResultRepository() ExamResultRepository {
	return &gormExamResultRepository{}
}

func (r *gormExamResultRepository) Create(ctx context.Context, tx *gorm.DB, result *model.ExamResult) error {
	if err := tx.WithContext(ctx).Create(result).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error creating exam result in DB",
			"error", err,
			"user_id", result.UserID,
			"course_id", result.CourseID.String(),
		)
		return translateWriteError("gormExamResultRepository.Create", err)
	}
	return nil
}

func (r *gormExamResultRepository) ListByUserAndCourse(ctx context.Context, db *gorm.DB, userID string, courseID uuid.UUID) ([]model.ExamResult, error) {
	var results []model.ExamResult
	err := db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("attempt_number DESC").
		Find(&results).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing exam results in DB", "error", err, "user_id", userID)
		return nil, fmt.Errorf("gormExamResultRepository.ListByUserAndCourse: %w", err)
	}
	return results, nil
}

func (r *gormExamResultRepository) CountByUserAndCourse(ctx context.Context, db *gorm.DB, userID string, courseID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.ExamResult{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error counting exam results in DB", "error", err, "user_id", userID)
		return 0, fmt.Errorf("gormExamResultRepository.CountByUserAndCourse: %w", err)
	}
	return count, nil
}

func (r *gormExamResultRepository) FindBest(ctx context.Context, db *gorm.DB, userID string, courseID uuid.UUID) (*model.ExamResult, error) {
	var result model.ExamResult
	err := db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("score DESC").Order("attempt_number ASC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding best exam result in DB", "error", err, "user_id", userID)
		return nil, fmt.Errorf("gormExamResultRepository.FindBest: %w", err)
	}
	return &result, nil
}
