package service_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"go_5_course_hub/internal/config"
	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/repository"
	"go_5_course_hub/internal/service"
	"go_5_course_hub/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- テストヘルパー関数 (インメモリDBセットアップ) ---
// 接続を1本に制限して、テストごとに独立したインメモリDBを使う
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repository.AutoMigrate(db), "failed to migrate")
	return db
}

func testContext() context.Context {
	return middleware.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func fastRetrier() *repository.Retrier {
	return repository.NewRetrier(config.RetryConfig{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		Multiplier:      2,
	})
}

type testEnv struct {
	db      *gorm.DB
	retrier *repository.Retrier

	categoryRepo     repository.CategoryRepository
	courseRepo       repository.CourseRepository
	lessonRepo       repository.LessonRepository
	enrollmentRepo   repository.EnrollmentRepository
	progressRepo     repository.LessonProgressRepository
	questionRepo     repository.ExamQuestionRepository
	resultRepo       repository.ExamResultRepository
	certRepo         repository.CertificateRepository
	reviewRepo       repository.ReviewRepository
	notificationRepo repository.NotificationRepository

	questions service.QuestionBank
	mailer    *mocks.Mailer

	courses       service.CourseService
	enrollments   service.EnrollmentService
	progress      service.ProgressService
	exams         service.ExamService
	certificates  service.CertificateService
	reviews       service.ReviewService
	notifications service.NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		db:               setupTestDB(t),
		retrier:          fastRetrier(),
		categoryRepo:     repository.NewGormCategoryRepository(),
		courseRepo:       repository.NewGormCourseRepository(),
		lessonRepo:       repository.NewGormLessonRepository(),
		enrollmentRepo:   repository.NewGormEnrollmentRepository(),
		progressRepo:     repository.NewGormLessonProgressRepository(),
		questionRepo:     repository.NewGormExamQuestionRepository(),
		resultRepo:       repository.NewGormExamResultRepository(),
		certRepo:         repository.NewGormCertificateRepository(),
		reviewRepo:       repository.NewGormReviewRepository(),
		notificationRepo: repository.NewGormNotificationRepository(),
		mailer:           mocks.NewMailer(t),
	}
	e.questions = service.NewDBQuestionBank(e.db, e.questionRepo)

	e.courses = service.NewCourseService(e.db, e.categoryRepo, e.courseRepo, e.lessonRepo, e.questionRepo, e.reviewRepo, e.questions)
	e.enrollments = service.NewEnrollmentService(e.db, e.courseRepo, e.enrollmentRepo, e.progressRepo, e.retrier)
	e.progress = service.NewProgressService(e.db, e.enrollmentRepo, e.lessonRepo, e.progressRepo, e.retrier)
	e.certificates = service.NewCertificateService(e.db, e.certRepo, e.resultRepo)
	e.notifications = service.NewNotificationService(e.db, e.notificationRepo)
	e.reviews = service.NewReviewService(e.db, e.courseRepo, e.enrollmentRepo, e.reviewRepo, e.retrier)
	e.exams = service.NewExamService(service.ExamServiceDeps{
		DB:             e.db,
		CourseRepo:     e.courseRepo,
		EnrollmentRepo: e.enrollmentRepo,
		LessonRepo:     e.lessonRepo,
		ProgressRepo:   e.progressRepo,
		ResultRepo:     e.resultRepo,
		Questions:      e.questions,
		Certificates:   e.certificates,
		Notifications:  e.notifications,
		Mailer:         e.mailer,
		Retrier:        e.retrier,
		MailConfig:     config.MailConfig{Provider: "log", BaseURL: "https://coursehub.example.com"},
	})
	return e
}

type courseFixture struct {
	course    *model.Course
	lessons   []model.Lesson // 公開レッスンのみ (order 順)
	questions []model.ExamQuestion
}

// seedCourse は公開済みコースと、公開レッスン・問題を作成する
func (e *testEnv) seedCourse(t *testing.T, lessons, questions int) *courseFixture {
	t.Helper()
	ctx := testContext()
	now := time.Now()

	id := uuid.New()
	course := &model.Course{
		CourseID:     id,
		Slug:         "course-" + id.String()[:8],
		Title:        "Go 入門 " + id.String()[:4],
		Level:        model.LevelBeginner,
		Status:       model.CoursePublished,
		InstructorID: "instructor-1",
		PublishedAt:  &now,
	}
	require.NoError(t, e.courseRepo.Create(ctx, e.db, course))

	f := &courseFixture{course: course}
	for i := 1; i <= lessons; i++ {
		l := model.Lesson{
			LessonID:    uuid.New(),
			CourseID:    id,
			Title:       fmt.Sprintf("Lesson %d", i),
			Order:       i,
			IsPublished: true,
			Duration:    600,
		}
		require.NoError(t, e.lessonRepo.Create(ctx, e.db, &l))
		f.lessons = append(f.lessons, l)
	}
	for i := 1; i <= questions; i++ {
		q := model.ExamQuestion{
			QuestionID:    uuid.New(),
			CourseID:      id,
			Text:          fmt.Sprintf("Question %d", i),
			Options:       []string{"A", "B", "C"},
			CorrectAnswer: "A",
			Order:         i,
		}
		require.NoError(t, e.questionRepo.Create(ctx, e.db, &q))
		f.questions = append(f.questions, q)
	}
	return f
}

// addLesson は公開/非公開を指定してレッスンを1件追加する
func (e *testEnv) addLesson(t *testing.T, courseID uuid.UUID, order int, published bool) model.Lesson {
	t.Helper()
	l := model.Lesson{
		LessonID:    uuid.New(),
		CourseID:    courseID,
		Title:       fmt.Sprintf("Lesson %d", order),
		Order:       order,
		IsPublished: published,
	}
	require.NoError(t, e.lessonRepo.Create(testContext(), e.db, &l))
	return l
}

func (e *testEnv) enroll(t *testing.T, userID string, courseID uuid.UUID) *model.Enrollment {
	t.Helper()
	enrollment, err := e.enrollments.Enroll(testContext(), userID, courseID)
	require.NoError(t, err)
	return enrollment
}

func (e *testEnv) completeLessons(t *testing.T, userID string, enrollmentID uuid.UUID, lessons []model.Lesson) {
	t.Helper()
	done := true
	for _, l := range lessons {
		_, err := e.progress.RecordProgress(testContext(), userID, enrollmentID, &model.UpdateProgressRequest{
			LessonID:    l.LessonID,
			IsCompleted: &done,
		})
		require.NoError(t, err)
	}
}

// answersFor は先頭 correct 問を正解、残りを不正解にした回答を作る
func answersFor(questions []model.ExamQuestion, correct int) []model.SubmittedAnswer {
	answers := make([]model.SubmittedAnswer, 0, len(questions))
	for i, q := range questions {
		a := "B"
		if i < correct {
			a = "A"
		}
		answers = append(answers, model.SubmittedAnswer{QuestionID: q.QuestionID, Answer: a})
	}
	return answers
}

// requireAppError はエラーが指定コードの AppError であることを確認する
func requireAppError(t *testing.T, err error, code string, sentinel error) *model.AppError {
	t.Helper()
	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr, "AppError expected, got %v", err)
	assert.Equal(t, code, appErr.Code)
	if sentinel != nil {
		assert.ErrorIs(t, err, sentinel)
	}
	return appErr
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
func strPtr(v string) *string {
	return &v
}
