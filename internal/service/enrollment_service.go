//go:generate mockery --name EnrollmentService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"time"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, userID string, courseID uuid.UUID) (*model.Enrollment, error)
	GetEnrollment(ctx context.Context, userID string, enrollmentID uuid.UUID) (*model.Enrollment, error)
	GetEnrollmentByCourse(ctx context.Context, userID string, courseID uuid.UUID) (*model.Enrollment, error)
	ListEnrollments(ctx context.Context, userID string) ([]model.Enrollment, error)
	Cancel(ctx context.Context, userID string, enrollmentID uuid.UUID) error
}

type enrollmentService struct {
	db             *gorm.DB // トランザクション用にDB接続を持つ
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	progressRepo   repository.LessonProgressRepository
	retrier        *repository.Retrier
}

func NewEnrollmentService(
	db *gorm.DB,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	progressRepo repository.LessonProgressRepository,
	retrier *repository.Retrier,
) EnrollmentService {
	return &enrollmentService{
		db:             db,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		retrier:        retrier,
	}
}

func errEnrollmentNotFound() *model.AppError {
	return model.NewAppError("ENROLLMENT_NOT_FOUND", "受講登録が見つかりません。", "", model.ErrNotFound)
}

func errCourseNotFound() *model.AppError {
	return model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "", model.ErrNotFound)
}

func errAlreadyEnrolled() *model.AppError {
	return model.NewAppError("ALREADY_ENROLLED", "このコースには既に受講登録しています。", "course_id", model.ErrConflict)
}

func (s *enrollmentService) Enroll(ctx context.Context, userID string, courseID uuid.UUID) (*model.Enrollment, error) {
	logger := middleware.GetLogger(ctx)

	course, err := s.courseRepo.FindByID(ctx, s.db, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errCourseNotFound()
		}
		return nil, err
	}
	if !course.IsPublished() {
		return nil, errCourseNotFound()
	}

	var created *model.Enrollment
	err = s.retrier.Do(ctx, func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// 1. 重複チェック (一意制約でも防ぐ)
			exists, err := s.enrollmentRepo.Exists(ctx, tx, userID, courseID)
			if err != nil {
				return err
			}
			if exists {
				return errAlreadyEnrolled()
			}

			enrollment := &model.Enrollment{
				EnrollmentID: uuid.New(),
				UserID:       userID,
				CourseID:     courseID,
				Progress:     0,
				EnrolledAt:   time.Now(),
			}
			if err := s.enrollmentRepo.Create(ctx, tx, enrollment); err != nil {
				if errors.Is(err, model.ErrConflict) {
					return errAlreadyEnrolled()
				}
				return err
			}
			created = enrollment
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Enrollment created", "enrollment_id", created.EnrollmentID.String(), "course_id", courseID.String())
	created.LessonProgress = []model.LessonProgress{}
	return created, nil
}

// loadOwned は所有者でなければ存在しない場合と同じ NotFound を返す
func (s *enrollmentService) loadOwned(ctx context.Context, db *gorm.DB, userID string, enrollmentID uuid.UUID) (*model.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.FindByID(ctx, db, enrollmentID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errEnrollmentNotFound()
		}
		return nil, err
	}
	if enrollment.UserID != userID {
		return nil, errEnrollmentNotFound()
	}
	return enrollment, nil
}

func (s *enrollmentService) withProgress(ctx context.Context, enrollment *model.Enrollment) (*model.Enrollment, error) {
	rows, err := s.progressRepo.ListByEnrollment(ctx, s.db, enrollment.EnrollmentID)
	if err != nil {
		return nil, err
	}
	enrollment.LessonProgress = rows
	return enrollment, nil
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, userID string, enrollmentID uuid.UUID) (*model.Enrollment, error) {
	enrollment, err := s.loadOwned(ctx, s.db, userID, enrollmentID)
	if err != nil {
		return nil, err
	}
	return s.withProgress(ctx, enrollment)
}

func (s *enrollmentService) GetEnrollmentByCourse(ctx context.Context, userID string, courseID uuid.UUID) (*model.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.FindByUserAndCourse(ctx, s.db, userID, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errEnrollmentNotFound()
		}
		return nil, err
	}
	return s.withProgress(ctx, enrollment)
}

func (s *enrollmentService) ListEnrollments(ctx context.Context, userID string) ([]model.Enrollment, error) {
	return s.enrollmentRepo.ListByUser(ctx, s.db, userID)
}

// Cancel はレッスン進捗を削除してから受講登録を削除する (1トランザクション)
func (s *enrollmentService) Cancel(ctx context.Context, userID string, enrollmentID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	return s.retrier.Do(ctx, func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if _, err := s.loadOwned(ctx, tx, userID, enrollmentID); err != nil {
				return err
			}
			removed, err := s.progressRepo.DeleteByEnrollment(ctx, tx, enrollmentID)
			if err != nil {
				return err
			}
			if err := s.enrollmentRepo.Delete(ctx, tx, enrollmentID); err != nil {
				if errors.Is(err, model.ErrNotFound) {
					return errEnrollmentNotFound()
				}
				return err
			}
			logger.Info("Enrollment cancelled", "enrollment_id", enrollmentID.String(), "progress_rows", removed)
			return nil
		})
	})
}
