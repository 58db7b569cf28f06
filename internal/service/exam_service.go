//go:generate mockery --name ExamService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go_5_course_hub/internal/config"
	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExamService interface {
	SubmitExam(ctx context.Context, identity model.Identity, req *model.SubmitExamRequest) (*model.SubmitExamResponse, error)
	ListResults(ctx context.Context, userID string, courseID uuid.UUID) (*model.ExamHistoryResponse, error)
	ListQuestions(ctx context.Context, userID string, courseID uuid.UUID) ([]model.StudentQuestion, error)
}

type examService struct {
	db             *gorm.DB
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	lessonRepo     repository.LessonRepository
	progressRepo   repository.LessonProgressRepository
	resultRepo     repository.ExamResultRepository
	questions      QuestionBank
	certificates   CertificateService
	notifications  NotificationService
	mailer         Mailer
	retrier        *repository.Retrier
	mailCfg        config.MailConfig
}

// ExamServiceDeps は ExamService の依存関係
type ExamServiceDeps struct {
	DB             *gorm.DB
	CourseRepo     repository.CourseRepository
	EnrollmentRepo repository.EnrollmentRepository
	LessonRepo     repository.LessonRepository
	ProgressRepo   repository.LessonProgressRepository
	ResultRepo     repository.ExamResultRepository
	Questions      QuestionBank
	Certificates   CertificateService
	Notifications  NotificationService
	Mailer         Mailer
	Retrier        *repository.Retrier
	MailConfig     config.MailConfig
}

func NewExamService(d ExamServiceDeps) ExamService {
	return &examService{
		db:             d.DB,
		courseRepo:     d.CourseRepo,
		enrollmentRepo: d.EnrollmentRepo,
		lessonRepo:     d.LessonRepo,
		progressRepo:   d.ProgressRepo,
		resultRepo:     d.ResultRepo,
		questions:      d.Questions,
		certificates:   d.Certificates,
		notifications:  d.Notifications,
		mailer:         d.Mailer,
		retrier:        d.Retrier,
		mailCfg:        d.MailConfig,
	}
}

func errNotEnrolled() *model.AppError {
	return model.NewAppError("NOT_ENROLLED", "このコースに受講登録していません。", "course_id", model.ErrForbidden)
}

func (s *examService) requireEnrollment(ctx context.Context, userID string, courseID uuid.UUID) (*model.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.FindByUserAndCourse(ctx, s.db, userID, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errNotEnrolled()
		}
		return nil, err
	}
	return enrollment, nil
}

func (s *examService) loadQuestions(ctx context.Context, courseID uuid.UUID) ([]model.ExamQuestion, error) {
	questions, err := s.questions.Questions(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, model.NewAppError("NO_EXAM_QUESTIONS", "このコースには試験問題がありません。", "", model.ErrNotFound)
	}
	return questions, nil
}

func (s *examService) SubmitExam(ctx context.Context, identity model.Identity, req *model.SubmitExamRequest) (*model.SubmitExamResponse, error) {
	logger := middleware.GetLogger(ctx)
	userID := identity.UserID

	// 1. 受講登録が必要
	enrollment, err := s.requireEnrollment(ctx, userID, req.CourseID)
	if err != nil {
		return nil, err
	}

	// 2. 公開レッスンをすべて完了していること
	total, err := s.lessonRepo.CountPublished(ctx, s.db, req.CourseID)
	if err != nil {
		return nil, err
	}
	completed, err := s.progressRepo.CountCompletedPublished(ctx, s.db, enrollment.EnrollmentID, req.CourseID)
	if err != nil {
		return nil, err
	}
	if completed < total {
		return nil, model.NewAppError("EXAM_NOT_ELIGIBLE",
			fmt.Sprintf("試験を受けるには全レッスンを完了してください (%d/%d 完了)。", completed, total),
			"", model.ErrForbidden,
		).WithDetails(map[string]any{"completed": completed, "total": total})
	}

	// 3. 問題バンク
	questions, err := s.loadQuestions(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	// 4. 採点
	scored := ScoreExam(questions, req.Answers)

	course, err := s.courseRepo.FindByID(ctx, s.db, req.CourseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errCourseNotFound()
		}
		return nil, err
	}

	var (
		result  *model.ExamResult
		cert    *model.Certificate
		outcome CertificateOutcome
	)
	err = s.retrier.Do(ctx, func(ctx context.Context) error {
		cert, outcome = nil, CertificateUnchanged
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// 受講登録の行ロックで、同じ受講者の提出と進捗更新を直列化する
			locked, err := s.enrollmentRepo.FindByIDForUpdate(ctx, tx, enrollment.EnrollmentID)
			if err != nil {
				if errors.Is(err, model.ErrNotFound) {
					return errNotEnrolled()
				}
				return err
			}

			// 5. 結果は合否に関わらず保存する
			attempts, err := s.resultRepo.CountByUserAndCourse(ctx, tx, userID, req.CourseID)
			if err != nil {
				return err
			}
			result = &model.ExamResult{
				ExamResultID:   uuid.New(),
				UserID:         userID,
				CourseID:       req.CourseID,
				Score:          scored.Score,
				TotalQuestions: scored.Total,
				CorrectAnswers: scored.Correct,
				Passed:         scored.Passed,
				AttemptNumber:  int(attempts) + 1,
				Answers:        scored.Answers,
			}
			if err := s.resultRepo.Create(ctx, tx, result); err != nil {
				if errors.Is(err, model.ErrConflict) {
					return model.NewAppError("EXAM_SUBMIT_CONFLICT", "同じ試験が同時に提出されました。再度お試しください。", "", model.ErrConflict)
				}
				return err
			}
			if !scored.Passed {
				return nil
			}

			// 6. 合格: 証明書の発行・更新と受講完了
			cert, outcome, err = s.certificates.IssueOrUpgrade(ctx, tx, userID, req.CourseID, scored.Score,
				course.Title, certificateDescription(course.Title, scored.Score))
			if err != nil {
				return err
			}

			updates := map[string]interface{}{"progress": 100}
			if locked.CompletedAt == nil {
				updates["completed_at"] = time.Now()
			}
			if err := s.enrollmentRepo.Update(ctx, tx, enrollment.EnrollmentID, updates); err != nil {
				return err
			}

			if outcome.Changed() {
				_, err = s.notifications.Notify(ctx, tx, userID,
					"修了証明書が発行されました",
					fmt.Sprintf("「%s」の試験に合格しました (スコア %d/%d)。", course.Title, scored.Score, model.ExamMaxScore),
					model.NotificationSuccess,
				)
				if err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Exam submitted",
		"course_id", req.CourseID.String(),
		"attempt", result.AttemptNumber,
		"score", scored.Score,
		"passed", scored.Passed,
	)

	if outcome.Changed() {
		s.sendCertificateMail(ctx, identity, course, cert)
	}

	resp := &model.SubmitExamResponse{
		ExamResultID:         result.ExamResultID,
		Score:                scored.Score,
		CorrectAnswers:       scored.Correct,
		IncorrectAnswers:     scored.Total - scored.Correct,
		TotalQuestions:       scored.Total,
		Percentage:           scored.Percentage,
		Passed:               scored.Passed,
		PassingScore:         model.ExamPassScore,
		AttemptNumber:        result.AttemptNumber,
		CertificateAvailable: scored.Passed,
	}
	if cert != nil {
		resp.CertificateID = &cert.CertificateID
		resp.CertificateNumber = cert.CertificateNumber
	}
	return resp, nil
}

func certificateDescription(courseTitle string, score int) string {
	return fmt.Sprintf("「%s」の修了試験に %d/%d 点で合格したことを証明します。", courseTitle, score, model.ExamMaxScore)
}

// sendCertificateMail はベストエフォート。失敗してもリクエストは成功させる。
func (s *examService) sendCertificateMail(ctx context.Context, identity model.Identity, course *model.Course, cert *model.Certificate) {
	if s.mailer == nil || identity.Email == "" || cert == nil {
		return
	}
	link := fmt.Sprintf("%s/certificates/%s/%s",
		strings.TrimRight(s.mailCfg.BaseURL, "/"), identity.UserID, course.CourseID.String())
	subject := fmt.Sprintf("修了証明書: %s", course.Title)
	body := fmt.Sprintf("「%s」の修了証明書が発行されました。\n証明書番号: %s\nスコア: %d/%d\n\n%s\n",
		course.Title, cert.CertificateNumber, cert.ExamScore, model.ExamMaxScore, link)

	if err := s.mailer.Send(ctx, identity.Email, subject, body); err != nil {
		middleware.GetLogger(ctx).Warn("Failed to send certificate email", "error", err, "certificate_id", cert.CertificateID.String())
	}
}

// ListResults は受験履歴を新しい順に返す。ベストは最高点、同点なら先の受験。
func (s *examService) ListResults(ctx context.Context, userID string, courseID uuid.UUID) (*model.ExamHistoryResponse, error) {
	results, err := s.resultRepo.ListByUserAndCourse(ctx, s.db, userID, courseID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.ExamResult{}
	}
	return &model.ExamHistoryResponse{
		Results:  results,
		Best:     bestResult(results),
		Attempts: len(results),
	}, nil
}

func bestResult(results []model.ExamResult) *model.ExamResult {
	var best *model.ExamResult
	for i := range results {
		r := &results[i]
		if best == nil || r.Score > best.Score || (r.Score == best.Score && r.AttemptNumber < best.AttemptNumber) {
			best = r
		}
	}
	return best
}

// ListQuestions は受講者向けに正解を除いた問題を返す
func (s *examService) ListQuestions(ctx context.Context, userID string, courseID uuid.UUID) ([]model.StudentQuestion, error) {
	if _, err := s.requireEnrollment(ctx, userID, courseID); err != nil {
		return nil, err
	}
	questions, err := s.loadQuestions(ctx, courseID)
	if err != nil {
		return nil, err
	}
	out := make([]model.StudentQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, model.StudentQuestion{
			QuestionID: q.QuestionID,
			Text:       q.Text,
			Options:    []string(q.Options),
			Order:      q.Order,
		})
	}
	return out, nil
}
