package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, category *model.Category) error
	FindAll(ctx context.Context, db *gorm.DB) ([]model.Category, error)
	FindByID(ctx context.Context, db *gorm.DB, categoryID uuid.UUID) (*model.Category, error)
}

type gormCategoryRepository struct{}

func NewGormCategoryRepository() CategoryRepository {
	return &gormCategoryRepository{}
}

func (r *gormCategoryRepository) Create(ctx context.Context, tx *gorm.DB, category *model.Category) error {
	logger := middleware.GetLogger(ctx)
	if err := tx.WithContext(ctx).Create(category).Error; err != nil {
		if !IsDuplicate(err) {
			logger.Error("Error creating category in DB", "error", err, "slug", category.Slug)
		}
		return translateWriteError("gormCategoryRepository.Create", err)
	}
	return nil
}

func (r *gormCategoryRepository) FindAll(ctx context.Context, db *gorm.DB) ([]model.Category, error) {
	var categories []model.Category
	if err := db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing categories in DB", "error", err)
		return nil, fmt.Errorf("gormCategoryRepository.FindAll: %w", err)
	}
	return categories, nil
}

func (r *gormCategoryRepository) FindByID(ctx context.Context, db *gorm.DB, categoryID uuid.UUID) (*model.Category, error) {
	var category model.Category
	err := db.WithContext(ctx).Where("category_id = ?", categoryID).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding category by ID in DB", "error", err, "category_id", categoryID.String())
		return nil, fmt.Errorf("gormCategoryRepository.FindByID: %w", err)
	}
	return &category, nil
}

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *model.Course) error
	FindByID(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*model.Course, error)
	Update(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, updates map[string]interface{}) error
	ListPublished(ctx context.Context, db *gorm.DB, filter model.CourseFilter) ([]model.Course, int64, error)
	SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error)
}

type gormCourseRepository struct{}

func NewGormCourseRepository() CourseRepository {
	return &gormCourseRepository{}
}

func (r *gormCourseRepository) Create(ctx context.Context, tx *gorm.DB, course *model.Course) error {
	logger := middleware.GetLogger(ctx)
	if err := tx.WithContext(ctx).Create(course).Error; err != nil {
		if !IsDuplicate(err) {
			logger.Error("Error creating course in DB", "error", err, "slug", course.Slug)
		}
		return translateWriteError("gormCourseRepository.Create", err)
	}
	return nil
}

func (r *gormCourseRepository) FindByID(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error) {
	var course model.Course
	err := db.WithContext(ctx).Preload("Category").Where("course_id = ?", courseID).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding course by ID in DB", "error", err, "course_id", courseID.String())
		return nil, fmt.Errorf("gormCourseRepository.FindByID: %w", err)
	}
	return &course, nil
}

func (r *gormCourseRepository) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*model.Course, error) {
	var course model.Course
	err := db.WithContext(ctx).Preload("Category").Where("slug = ?", slug).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding course by slug in DB", "error", err, "slug", slug)
		return nil, fmt.Errorf("gormCourseRepository.FindBySlug: %w", err)
	}
	return &course, nil
}

func (r *gormCourseRepository) Update(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Course{}).Where("course_id = ?", courseID).Updates(updates)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating course in DB", "error", result.Error, "course_id", courseID.String())
		return translateWriteError("gormCourseRepository.Update", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ListPublished は公開済みコースを新しい順にページングして返します。
func (r *gormCourseRepository) ListPublished(ctx context.Context, db *gorm.DB, filter model.CourseFilter) ([]model.Course, int64, error) {
	logger := middleware.GetLogger(ctx)

	query := db.WithContext(ctx).Model(&model.Course{}).Where("status = ?", model.CoursePublished)
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Error counting published courses in DB", "error", err)
		return nil, 0, fmt.Errorf("gormCourseRepository.ListPublished: %w", err)
	}

	var courses []model.Course
	err := query.Preload("Category").
		Order("published_at DESC").Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&courses).Error
	if err != nil {
		logger.Error("Error listing published courses in DB", "error", err)
		return nil, 0, fmt.Errorf("gormCourseRepository.ListPublished: %w", err)
	}
	return courses, total, nil
}

func (r *gormCourseRepository) SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Course{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error checking slug existence in DB", "error", err, "slug", slug)
		return false, fmt.Errorf("gormCourseRepository.SlugExists: %w", err)
	}
	return count > 0, nil
}
