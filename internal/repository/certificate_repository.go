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

type CertificateRepository interface {
	Create(ctx context.Context, tx *gorm.DB, cert *model.Certificate) error
	FindByUserAndCourse(ctx context.Context, db *gorm.DB, userID string, courseID uuid.UUID) (*model.Certificate, error)
	// UpgradeScore は score が現在値より高い場合のみ更新し、更新したかどうかを返す
	UpgradeScore(ctx context.Context, tx *gorm.DB, certificateID uuid.UUID, updates map[string]interface{}, score int) (bool, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]model.Certificate, error)
}

type gormCertificateRepository struct{}

func NewGormCertificateRepository() CertificateRepository {
	return &gormCertificateRepository{}
}

func (r *gormCertificateRepository) Create(ctx context.Context, tx *gorm.DB, cert *model.Certificate) error {
	if err := tx.WithContext(ctx).Create(cert).Error; err != nil {
		if !IsDuplicate(err) {
			middleware.GetLogger(ctx).Error("Error creating certificate in DB",
				"error", err,
				"user_id", cert.UserID,
				"course_id", cert.CourseID.String(),
			)
		}
		return translateWriteError("gormCertificateRepository.Create", err)
	}
	return nil
}

func (r *gormCertificateRepository) FindByUserAndCourse(ctx context.Context, db *gorm.DB, userID string, courseID uuid.UUID) (*model.Certificate, error) {
	var cert model.Certificate
	err := db.WithContext(ctx).Preload("Course").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding certificate in DB", "error", err, "user_id", userID)
		return nil, fmt.Errorf("gormCertificateRepository.FindByUserAndCourse: %w", err)
	}
	return &cert, nil
}

func (r *gormCertificateRepository) UpgradeScore(ctx context.Context, tx *gorm.DB, certificateID uuid.UUID, updates map[string]interface{}, score int) (bool, error) {
	// exam_score < score の条件付き更新でスコアが下がらないことを保証する
	result := tx.WithContext(ctx).Model(&model.Certificate{}).
		Where("certificate_id = ? AND exam_score < ?", certificateID, score).
		Updates(updates)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error upgrading certificate in DB", "error", result.Error, "certificate_id", certificateID.String())
		return false, fmt.Errorf("gormCertificateRepository.UpgradeScore: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *gormCertificateRepository) ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := db.WithContext(ctx).Preload("Course").
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&certs).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing certificates in DB", "error", err, "user_id", userID)
		return nil, fmt.Errorf("gormCertificateRepository.ListByUser: %w", err)
	}
	return certs, nil
}
