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

type ReviewRepository interface {
	Create(ctx context.Context, tx *gorm.DB, review *model.Review) error
	FindByUserAndCourse(ctx context.Context, db *gorm.DB, userID string, courseID uuid.UUID) (*model.Review, error)
	Update(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, updates map[string]interface{}) error
	ListByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]model.Review, error)
	Summary(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (model.RatingSummary, error)
	SummaryByCourses(ctx context.Context, db *gorm.DB, courseIDs []uuid.UUID) (map[uuid.UUID]model.RatingSummary, error)
}

type gormReviewRepository struct{}

func NewGormReviewRepository() ReviewRepository {
	return &gormReviewRepository{}
}

func (r *gormReviewRepository) Create(ctx context.Context, tx *gorm.DB, review *model.Review) error {
	if err := tx.WithContext(ctx).Create(review).Error; err != nil {
		if !IsDuplicate(err) {
			middleware.GetLogger(ctx).Error("Error creating review in DB",
				"error", err,
				"user_id", review.UserID,
				"course_id", review.CourseID.String(),
			)
		}
		return translateWriteError("gormReviewRepository.Create", err)
	}
	return nil
}

func (r *gormReviewRepository) FindByUserAndCourse(ctx context.Context, db *gorm.DB, userID string, courseID uuid.UUID) (*model.Review, error) {
	var review model.Review
	err := db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding review in DB", "error", err, "user_id", userID)
		return nil, fmt.Errorf("gormReviewRepository.FindByUserAndCourse: %w", err)
	}
	return &review, nil
}

func (r *gormReviewRepository) Update(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, updates map[string]interface{}) error {
	result := tx.WithContext(ctx).Model(&model.Review{}).Where("review_id = ?", reviewID).Updates(updates)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating review in DB", "error", result.Error, "review_id", reviewID.String())
		return fmt.Errorf("gormReviewRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormReviewRepository) ListByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]model.Review, error) {
	var reviews []model.Review
	err := db.WithContext(ctx).Where("course_id = ?", courseID).Order("updated_at DESC").Find(&reviews).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing reviews in DB", "error", err, "course_id", courseID.String())
		return nil, fmt.Errorf("gormReviewRepository.ListByCourse: %w", err)
	}
	return reviews, nil
}

// Summary は平均評価を小数1桁に丸めて返します。レビューが無ければ 0 件・平均 0。
func (r *gormReviewRepository) Summary(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (model.RatingSummary, error) {
	summaries, err := r.SummaryByCourses(ctx, db, []uuid.UUID{courseID})
	if err != nil {
		return model.RatingSummary{}, err
	}
	return summaries[courseID], nil
}

func (r *gormReviewRepository) SummaryByCourses(ctx context.Context, db *gorm.DB, courseIDs []uuid.UUID) (map[uuid.UUID]model.RatingSummary, error) {
	summaries := make(map[uuid.UUID]model.RatingSummary, len(courseIDs))
	if len(courseIDs) == 0 {
		return summaries, nil
	}
	var rows []struct {
		CourseID uuid.UUID
		Average  float64
		Count    int64
	}
	err := db.WithContext(ctx).Model(&model.Review{}).
		Select("course_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error aggregating reviews in DB", "error", err)
		return nil, fmt.Errorf("gormReviewRepository.SummaryByCourses: %w", err)
	}
	for _, row := range rows {
		summaries[row.CourseID] = model.RatingSummary{
			Average: model.RoundRating(row.Average),
			Count:   row.Count,
		}
	}
	return summaries, nil
}
