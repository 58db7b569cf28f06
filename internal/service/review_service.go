//go:generate mockery --name ReviewService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/repository"
	"go_5_course_hub/internal/webutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewService interface {
	SubmitReview(ctx context.Context, userID string, req *model.SubmitReviewRequest) (*model.SubmitReviewResponse, error)
	ListReviews(ctx context.Context, courseID uuid.UUID) (*model.ReviewListResponse, error)
}

type reviewService struct {
	db             *gorm.DB
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	reviewRepo     repository.ReviewRepository
	retrier        *repository.Retrier
}

func NewReviewService(
	db *gorm.DB,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	reviewRepo repository.ReviewRepository,
	retrier *repository.Retrier,
) ReviewService {
	return &reviewService{
		db:             db,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		reviewRepo:     reviewRepo,
		retrier:        retrier,
	}
}

// SubmitReview は (user, course) ごとに1件のレビューを作成または上書きし、
// 全レビューを読み直した平均と件数を返します。
func (s *reviewService) SubmitReview(ctx context.Context, userID string, req *model.SubmitReviewRequest) (*model.SubmitReviewResponse, error) {
	logger := middleware.GetLogger(ctx).With("course_id", req.CourseID.String())

	// DBに触れる前に検証する
	if err := webutil.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.courseRepo.FindByID(ctx, s.db, req.CourseID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errCourseNotFound()
		}
		return nil, err
	}
	enrolled, err := s.enrollmentRepo.Exists(ctx, s.db, userID, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, model.NewAppError("NOT_ENROLLED", "受講登録していないコースにはレビューできません。", "course_id", model.ErrForbidden)
	}

	var saved *model.Review
	err = s.retrier.Do(ctx, func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			review, err := s.reviewRepo.FindByUserAndCourse(ctx, tx, userID, req.CourseID)
			if err != nil && !errors.Is(err, model.ErrNotFound) {
				return err
			}

			if review == nil {
				// --- 新規作成 ---
				review = &model.Review{
					ReviewID: uuid.New(),
					UserID:   userID,
					CourseID: req.CourseID,
					Rating:   req.Rating,
					Comment:  req.Comment,
				}
				createErr := tx.Transaction(func(sp *gorm.DB) error {
					return s.reviewRepo.Create(ctx, sp, review)
				})
				if createErr == nil {
					logger.Info("Review created", "rating", req.Rating)
					saved = review
					return nil
				}
				if !errors.Is(createErr, model.ErrConflict) {
					return createErr
				}
				// 同時投稿に負けた場合は相手の行を上書きする
				review, err = s.reviewRepo.FindByUserAndCourse(ctx, tx, userID, req.CourseID)
				if err != nil {
					return err
				}
			}

			// --- 更新 ---
			review.Rating = req.Rating
			review.Comment = req.Comment
			if err := s.reviewRepo.Update(ctx, tx, review.ReviewID, map[string]interface{}{
				"rating":  req.Rating,
				"comment": req.Comment,
			}); err != nil {
				return err
			}
			logger.Info("Review updated", "rating", req.Rating)
			saved = review
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	summary, err := s.reviewRepo.Summary(ctx, s.db, req.CourseID)
	if err != nil {
		return nil, err
	}
	return &model.SubmitReviewResponse{
		Review:        saved,
		AverageRating: summary.Average,
		TotalReviews:  summary.Count,
	}, nil
}

func (s *reviewService) ListReviews(ctx context.Context, courseID uuid.UUID) (*model.ReviewListResponse, error) {
	if _, err := s.courseRepo.FindByID(ctx, s.db, courseID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errCourseNotFound()
		}
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByCourse(ctx, s.db, courseID)
	if err != nil {
		return nil, err
	}
	summary, err := s.reviewRepo.Summary(ctx, s.db, courseID)
	if err != nil {
		return nil, err
	}
	return &model.ReviewListResponse{Reviews: reviews, Summary: summary}, nil
}
