//go:generate mockery --name ProgressService --output ./mocks --outpkg mocks --case=underscore
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

type ProgressService interface {
	RecordProgress(ctx context.Context, userID string, enrollmentID uuid.UUID, req *model.UpdateProgressRequest) (*model.ProgressUpdateResponse, error)
}

type progressService struct {
	db             *gorm.DB
	enrollmentRepo repository.EnrollmentRepository
	lessonRepo     repository.LessonRepository
	progressRepo   repository.LessonProgressRepository
	retrier        *repository.Retrier
}

func NewProgressService(
	db *gorm.DB,
	enrollmentRepo repository.EnrollmentRepository,
	lessonRepo repository.LessonRepository,
	progressRepo repository.LessonProgressRepository,
	retrier *repository.Retrier,
) ProgressService {
	return &progressService{
		db:             db,
		enrollmentRepo: enrollmentRepo,
		lessonRepo:     lessonRepo,
		progressRepo:   progressRepo,
		retrier:        retrier,
	}
}

// progressPercent は round_half_up(100 * completed / total)。公開レッスンが0件なら0。
func progressPercent(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return int((200*completed + total) / (2 * total))
}

// RecordProgress はレッスン進捗を記録し、コース全体の進捗を再計算します。
// 全体を受講登録の行ロック付きの1トランザクションで行い、
// 一時的なDBエラーなら Retrier がトランザクションごとやり直す。
func (s *progressService) RecordProgress(ctx context.Context, userID string, enrollmentID uuid.UUID, req *model.UpdateProgressRequest) (*model.ProgressUpdateResponse, error) {
	var resp *model.ProgressUpdateResponse
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			r, err := s.recordProgressTx(ctx, tx, userID, enrollmentID, req)
			if err != nil {
				return err
			}
			resp = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *progressService) recordProgressTx(ctx context.Context, tx *gorm.DB, userID string, enrollmentID uuid.UUID, req *model.UpdateProgressRequest) (*model.ProgressUpdateResponse, error) {
	logger := middleware.GetLogger(ctx)
	now := time.Now()

	// 1. 受講登録の行をロックしてから所有者チェック。
	// 同じ受講登録への更新はここで直列化され、集計は先に確定した完了も数える。
	enrollment, err := s.enrollmentRepo.FindByIDForUpdate(ctx, tx, enrollmentID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errEnrollmentNotFound()
		}
		return nil, err
	}
	if enrollment.UserID != userID {
		return nil, model.NewAppError("FORBIDDEN", "この受講登録を更新する権限がありません。", "", model.ErrForbidden)
	}

	// 2. レッスンは受講中コースのものであること。
	// 非公開レッスンも記録するが、進捗率の分母・分子は公開レッスンのみ。
	lesson, err := s.lessonRepo.FindByID(ctx, tx, enrollment.CourseID, req.LessonID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	if lesson == nil {
		return nil, model.NewAppError("LESSON_NOT_FOUND", "レッスンが見つかりません。", "lesson_id", model.ErrNotFound)
	}

	// 3. LessonProgress の upsert
	progress, err := s.progressRepo.FindByEnrollmentAndLesson(ctx, tx, enrollmentID, lesson.LessonID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	if progress == nil {
		progress = &model.LessonProgress{
			LessonProgressID: uuid.New(),
			EnrollmentID:     enrollmentID,
			LessonID:         lesson.LessonID,
		}
		applyProgressUpdate(progress, req, now)
		if err := s.progressRepo.Create(ctx, tx, progress); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return nil, model.NewAppError("PROGRESS_CONFLICT", "同じレッスンの進捗が同時に更新されました。再度お試しください。", "lesson_id", model.ErrConflict)
			}
			return nil, err
		}
	} else {
		applyProgressUpdate(progress, req, now)
		if err := s.progressRepo.Update(ctx, tx, progress); err != nil {
			return nil, err
		}
	}

	// 4. 同じトランザクション内で集計し直す
	total, err := s.lessonRepo.CountPublished(ctx, tx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	completed, err := s.progressRepo.CountCompletedPublished(ctx, tx, enrollmentID, enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	newProgress := progressPercent(completed, total)

	updates := map[string]interface{}{"progress": newProgress}
	enrollment.Progress = newProgress

	// 5. 現在のレッスンを進める (公開レッスンの完了時のみ)
	if req.IsCompleted != nil && *req.IsCompleted && lesson.IsPublished {
		next, err := s.progressRepo.FirstIncompletePublishedLesson(ctx, tx, enrollmentID, enrollment.CourseID)
		switch {
		case err == nil:
			enrollment.CurrentLessonID = &next.LessonID
		case errors.Is(err, model.ErrNotFound):
			// 全レッスン完了。完了したレッスン自身を指したままにする
			enrollment.CurrentLessonID = &lesson.LessonID
		default:
			return nil, err
		}
		updates["current_lesson_id"] = *enrollment.CurrentLessonID
	}
	// completedAt は一度だけセットし、上書きしない
	if newProgress == 100 && enrollment.CompletedAt == nil {
		enrollment.CompletedAt = &now
		updates["completed_at"] = now
	}

	if err := s.enrollmentRepo.Update(ctx, tx, enrollmentID, updates); err != nil {
		return nil, err
	}

	logger.Debug("Lesson progress recorded",
		"enrollment_id", enrollmentID.String(),
		"lesson_id", lesson.LessonID.String(),
		"completed", completed,
		"total", total,
		"progress", newProgress,
	)

	updated, err := s.enrollmentRepo.FindByID(ctx, tx, enrollmentID)
	if err != nil {
		return nil, err
	}
	return &model.ProgressUpdateResponse{LessonProgress: progress, Enrollment: updated}, nil
}

// applyProgressUpdate は指定されたフィールドだけを反映する。
// watchProgress は置き換え、isCompleted は false→true のみ、timeSpent は加算。
func applyProgressUpdate(p *model.LessonProgress, req *model.UpdateProgressRequest, now time.Time) {
	if req.WatchProgress != nil {
		p.WatchProgress = *req.WatchProgress
	}
	if req.IsCompleted != nil && *req.IsCompleted {
		p.IsCompleted = true
	}
	if req.TimeSpent != nil {
		p.TimeSpent += *req.TimeSpent
	}
	p.LastWatched = now
}
