//go:build integration

// course_flow_integration_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"go_5_course_hub/internal/config"
	"go_5_course_hub/internal/handlers"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/repository"
	"go_5_course_hub/internal/service"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDB *gorm.DB
var testLogger *slog.Logger

const dbContainerName = "test_postgres_course_hub"

func TestMain(m *testing.M) {
	testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(testLogger)

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	pool.MaxWait = 120 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Name:       dbContainerName,
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_USER=user",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=course_hub",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start PostgreSQL resource: %s", err)
	}

	hostMappedPort := resource.GetPort("5432/tcp")
	if hostMappedPort == "" {
		if pErr := pool.Purge(resource); pErr != nil {
			log.Printf("Warning: Could not purge resource after failing to get mapped port: %s", pErr)
		}
		log.Fatalf("Could not get mapped port for 5432/tcp from container %s", dbContainerName)
	}

	// devcontainer から叩く場合は TEST_DB_HOST=host.docker.internal
	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dsn := fmt.Sprintf("host=%s port=%s user=user password=secret dbname=course_hub sslmode=disable TimeZone=UTC", dbHost, hostMappedPort)

	testLogger.Info("PostgreSQL container started",
		slog.String("container_id_short", resource.Container.ID[:12]),
		slog.String("host", dbHost),
		slog.String("port", hostMappedPort),
	)

	if err = pool.Retry(func() error {
		var errRetry error
		testDB, errRetry = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
			TranslateError: true,
		})
		if errRetry != nil {
			testLogger.Warn("Retry: DB connection attempt failed.", slog.Any("error", errRetry))
			return errRetry
		}
		sqlDB, errRetry := testDB.DB()
		if errRetry != nil {
			return errRetry
		}
		return sqlDB.Ping()
	}); err != nil {
		if pErr := pool.Purge(resource); pErr != nil {
			log.Printf("Warning: Could not purge resource: %s", pErr)
		}
		log.Fatalf("Could not connect to database: %s", err)
	}

	if err := repository.AutoMigrate(testDB); err != nil {
		_ = pool.Purge(resource)
		log.Fatalf("Could not migrate database: %s", err)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge resource: %s", err)
	}
	os.Exit(code)
}

// newIntegrationServer は本物のリポジトリとサービスでルーターを組み立てる
func newIntegrationServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	categoryRepo := repository.NewGormCategoryRepository()
	courseRepo := repository.NewGormCourseRepository()
	lessonRepo := repository.NewGormLessonRepository()
	enrollmentRepo := repository.NewGormEnrollmentRepository()
	progressRepo := repository.NewGormLessonProgressRepository()
	questionRepo := repository.NewGormExamQuestionRepository()
	resultRepo := repository.NewGormExamResultRepository()
	certRepo := repository.NewGormCertificateRepository()
	reviewRepo := repository.NewGormReviewRepository()
	notificationRepo := repository.NewGormNotificationRepository()
	retrier := repository.NewRetrier(config.RetryConfig{MaxRetries: 2, InitialInterval: 10 * time.Millisecond, Multiplier: 2})
	questions := service.NewDBQuestionBank(testDB, questionRepo)

	certificates := service.NewCertificateService(testDB, certRepo, resultRepo)
	notifications := service.NewNotificationService(testDB, notificationRepo)

	router := handlers.NewRouter(handlers.RouterDeps{
		Logger:      logger,
		Auth:        config.AuthConfig{Enabled: false},
		Courses:     handlers.NewCourseHandler(service.NewCourseService(testDB, categoryRepo, courseRepo, lessonRepo, questionRepo, reviewRepo, questions), logger),
		Enrollments: handlers.NewEnrollmentHandler(service.NewEnrollmentService(testDB, courseRepo, enrollmentRepo, progressRepo, retrier), logger),
		Progress:    handlers.NewProgressHandler(service.NewProgressService(testDB, enrollmentRepo, lessonRepo, progressRepo, retrier), logger),
		Exams: handlers.NewExamHandler(service.NewExamService(service.ExamServiceDeps{
			DB:             testDB,
			CourseRepo:     courseRepo,
			EnrollmentRepo: enrollmentRepo,
			LessonRepo:     lessonRepo,
			ProgressRepo:   progressRepo,
			ResultRepo:     resultRepo,
			Questions:      questions,
			Certificates:   certificates,
			Notifications:  notifications,
			Mailer:         &service.LogMailer{},
			Retrier:        retrier,
			MailConfig:     config.MailConfig{Provider: "log", BaseURL: "http://localhost:3000"},
		}), logger),
		Reviews:       handlers.NewReviewHandler(service.NewReviewService(testDB, courseRepo, enrollmentRepo, reviewRepo, retrier), logger),
		Certificates:  handlers.NewCertificateHandler(certificates, logger),
		Notifications: handlers.NewNotificationHandler(notifications, logger),
		Health:        handlers.NewHealthHandler(logger, map[string]handlers.HealthCheck{"db": handlers.DBCheck(testDB)}),
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

type actor struct {
	userID string
	role   model.Role
}

func call(t *testing.T, server *httptest.Server, who actor, method, path string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if who.userID != "" {
		req.Header.Set("X-User-ID", who.userID)
		req.Header.Set("X-User-Role", string(who.role))
		req.Header.Set("X-User-Email", who.userID+"@example.com")
	}
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

func TestIntegration_CourseLifecycle(t *testing.T) {
	server := newIntegrationServer(t)
	suffix := uuid.NewString()[:8]

	admin := actor{"admin-" + suffix, model.RoleAdmin}
	instructor := actor{"instructor-" + suffix, model.RoleInstructor}
	student := actor{"student-" + suffix, model.RoleStudent}

	status, _ := call(t, server, actor{}, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)

	// --- カテゴリとコースの作成 ---
	status, body := call(t, server, admin, http.MethodPost, "/api/v1/categories", map[string]string{"name": "Backend " + suffix})
	require.Equal(t, http.StatusCreated, status, string(body))
	category := decodeBody[model.Category](t, body)

	status, body = call(t, server, instructor, http.MethodPost, "/api/v1/courses", map[string]interface{}{
		"title":       "Go Integration " + suffix,
		"level":       "BEGINNER",
		"category_id": category.CategoryID,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	course := decodeBody[model.Course](t, body)
	coursePath := "/api/v1/courses/" + course.CourseID.String()

	var lessons []model.Lesson
	for i := 1; i <= 2; i++ {
		status, body = call(t, server, instructor, http.MethodPost, coursePath+"/lessons", map[string]interface{}{
			"title": fmt.Sprintf("Lesson %d", i), "order": i, "is_published": true, "duration": 600,
		})
		require.Equal(t, http.StatusCreated, status, string(body))
		lessons = append(lessons, decodeBody[model.Lesson](t, body))
	}

	var questionIDs []uuid.UUID
	for i := 1; i <= 5; i++ {
		status, body = call(t, server, instructor, http.MethodPost, coursePath+"/questions", map[string]interface{}{
			"text": fmt.Sprintf("Q%d", i), "options": []string{"A", "B", "C"}, "correct_answer": "A", "order": i,
		})
		require.Equal(t, http.StatusCreated, status, string(body))
		questionIDs = append(questionIDs, decodeBody[model.ExamQuestion](t, body).QuestionID)
	}

	// 下書きは公開カタログに出ない
	status, _ = call(t, server, actor{}, http.MethodGet, "/api/v1/courses/"+course.Slug, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = call(t, server, instructor, http.MethodPost, coursePath+"/publish", nil)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = call(t, server, actor{}, http.MethodGet, "/api/v1/courses/"+course.Slug, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Len(t, decodeBody[model.CourseDetailResponse](t, body).Lessons, 2)

	// --- 受講登録 ---
	status, body = call(t, server, student, http.MethodPost, "/api/v1/enrollments", map[string]interface{}{"course_id": course.CourseID})
	require.Equal(t, http.StatusCreated, status, string(body))
	enrollment := decodeBody[model.Enrollment](t, body)
	assert.Equal(t, 0, enrollment.Progress)

	status, body = call(t, server, student, http.MethodPost, "/api/v1/enrollments", map[string]interface{}{"course_id": course.CourseID})
	assert.Equal(t, http.StatusConflict, status)
	verifyErrorResponse(t, body, "ALREADY_ENROLLED")

	answers := make([]map[string]interface{}, 0, len(questionIDs))
	for i, id := range questionIDs {
		answer := "A"
		if i == 0 {
			answer = "B"
		}
		answers = append(answers, map[string]interface{}{"question_id": id, "answer": answer})
	}
	examBody := map[string]interface{}{"course_id": course.CourseID, "answers": answers}

	// レッスン未完了では受験できない
	status, body = call(t, server, student, http.MethodPost, "/api/v1/exams/submit", examBody)
	assert.Equal(t, http.StatusForbidden, status)
	verifyErrorResponse(t, body, "EXAM_NOT_ELIGIBLE")

	// --- 進捗 ---
	progressPath := "/api/v1/enrollments/" + enrollment.EnrollmentID.String() + "/progress"
	for i, lesson := range lessons {
		status, body = call(t, server, student, http.MethodPatch, progressPath, map[string]interface{}{
			"lesson_id": lesson.LessonID, "watch_progress": 100, "is_completed": true, "time_spent": 600,
		})
		require.Equal(t, http.StatusOK, status, string(body))
		got := decodeBody[model.ProgressUpdateResponse](t, body)
		assert.Equal(t, (i+1)*50, got.Enrollment.Progress)
	}

	// --- 試験 ---
	status, body = call(t, server, student, http.MethodGet, coursePath+"/exam", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.NotContains(t, string(body), "correct_answer")
	assert.Len(t, decodeBody[[]model.StudentQuestion](t, body), 5)

	status, body = call(t, server, student, http.MethodPost, "/api/v1/exams/submit", examBody)
	require.Equal(t, http.StatusOK, status, string(body))
	result := decodeBody[model.SubmitExamResponse](t, body)
	assert.Equal(t, 800, result.Score)
	assert.True(t, result.Passed)
	assert.True(t, result.CertificateAvailable)
	assert.NotEmpty(t, result.CertificateNumber)

	// --- 修了証明書と通知 ---
	status, body = call(t, server, student, http.MethodGet, "/api/v1/certificates/"+student.userID+"/"+course.CourseID.String(), nil)
	require.Equal(t, http.StatusOK, status, string(body))
	cert := decodeBody[model.CertificateResponse](t, body)
	assert.Equal(t, 800, cert.Certificate.ExamScore)
	assert.Equal(t, result.CertificateNumber, cert.Certificate.CertificateNumber)

	status, _ = call(t, server, instructor, http.MethodGet, "/api/v1/certificates/"+student.userID+"/"+course.CourseID.String(), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = call(t, server, student, http.MethodGet, "/api/v1/notifications/unread-count", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"unread":1}`, string(body))

	// --- レビュー ---
	status, body = call(t, server, student, http.MethodPost, "/api/v1/reviews", map[string]interface{}{"course_id": course.CourseID, "rating": 5})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, 5.0, decodeBody[model.SubmitReviewResponse](t, body).AverageRating)

	status, body = call(t, server, actor{}, http.MethodGet, "/api/v1/courses?q="+suffix, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	list := decodeBody[model.CourseListResponse](t, body)
	require.Len(t, list.Items, 1)
	assert.Equal(t, int64(2), list.Items[0].LessonCount)
	assert.Equal(t, int64(1), list.Items[0].Rating.Count)
}

// 同じ受講登録に対する進捗の同時更新。受講登録の行ロックで直列化されるので、
// 後のトランザクションは先に確定した完了を数え、最終的な進捗は全レッスン分になる。
func TestIntegration_ConcurrentProgressIsNotLost(t *testing.T) {
	server := newIntegrationServer(t)
	ctx := context.Background()
	suffix := uuid.NewString()[:8]
	student := actor{"student-" + suffix, model.RoleStudent}

	now := time.Now()
	course := &model.Course{
		CourseID:     uuid.New(),
		Slug:         "concurrent-" + suffix,
		Title:        "Concurrent " + suffix,
		Level:        model.LevelBeginner,
		Status:       model.CoursePublished,
		InstructorID: "instructor-" + suffix,
		PublishedAt:  &now,
	}
	require.NoError(t, repository.NewGormCourseRepository().Create(ctx, testDB, course))

	const lessonCount = 6
	lessons := make([]model.Lesson, 0, lessonCount)
	for i := 1; i <= lessonCount; i++ {
		l := model.Lesson{LessonID: uuid.New(), CourseID: course.CourseID, Title: fmt.Sprintf("Lesson %d", i), Order: i, IsPublished: true}
		require.NoError(t, repository.NewGormLessonRepository().Create(ctx, testDB, &l))
		lessons = append(lessons, l)
	}

	status, body := call(t, server, student, http.MethodPost, "/api/v1/enrollments", map[string]interface{}{"course_id": course.CourseID})
	require.Equal(t, http.StatusCreated, status, string(body))
	enrollment := decodeBody[model.Enrollment](t, body)
	progressPath := "/api/v1/enrollments/" + enrollment.EnrollmentID.String() + "/progress"

	var wg sync.WaitGroup
	statuses := make([]int, lessonCount)
	for i, lesson := range lessons {
		wg.Add(1)
		go func(i int, lessonID uuid.UUID) {
			defer wg.Done()
			statuses[i], _ = call(t, server, student, http.MethodPatch, progressPath, map[string]interface{}{
				"lesson_id": lessonID, "is_completed": true,
			})
		}(i, lesson.LessonID)
	}
	wg.Wait()

	for i, st := range statuses {
		assert.Equal(t, http.StatusOK, st, "lesson %d", i+1)
	}

	got, err := repository.NewGormEnrollmentRepository().FindByID(ctx, testDB, enrollment.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)
	assert.NotNil(t, got.CompletedAt)
}
