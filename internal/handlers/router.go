package handlers

import (
	"log/slog"
	"time"

	"go_5_course_hub/internal/config"
	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// RouterDeps はルーターが必要とするハンドラと設定
type RouterDeps struct {
	Logger         *slog.Logger
	Auth           config.AuthConfig
	CORS           config.CORSConfig
	RequestTimeout time.Duration

	Courses       *CourseHandler
	Enrollments   *EnrollmentHandler
	Progress      *ProgressHandler
	Exams         *ExamHandler
	Reviews       *ReviewHandler
	Certificates  *CertificateHandler
	Notifications *NotificationHandler
	Health        *HealthHandler
}

func NewRouter(d RouterDeps) *chi.Mux {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// --- ミドルウェア ---
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(d.Logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   d.CORS.AllowedOrigins,
		AllowedMethods:   d.CORS.AllowedMethods,
		AllowedHeaders:   d.CORS.AllowedHeaders,
		ExposedHeaders:   d.CORS.ExposedHeaders,
		AllowCredentials: d.CORS.AllowCredentials,
		MaxAge:           d.CORS.MaxAge,
	}).Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(d.RequestTimeout))

	authoring := middleware.RequireRole(model.RoleInstructor, model.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		// --- 公開カタログ (認証不要) ---
		r.Get("/categories", d.Courses.ListCategories)
		r.Get("/courses", d.Courses.ListCourses)
		r.Get("/courses/{courseId}", d.Courses.GetCourse)
		r.Get("/courses/{courseId}/reviews", d.Reviews.ListReviews)

		// --- 認証が必要なルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.IdentityMiddleware(d.Auth))

			r.With(middleware.RequireRole(model.RoleAdmin)).Post("/categories", d.Courses.CreateCategory)

			// /courses/{courseId} は公開の GET と同じノードなので Route(Mount) を使わず平に登録する
			r.With(authoring).Post("/courses", d.Courses.CreateCourse)
			r.With(authoring).Patch("/courses/{courseId}", d.Courses.UpdateCourse)
			r.With(authoring).Post("/courses/{courseId}/publish", d.Courses.PublishCourse)
			r.With(authoring).Post("/courses/{courseId}/lessons", d.Courses.AddLesson)
			r.With(authoring).Patch("/courses/{courseId}/lessons/{lessonId}", d.Courses.UpdateLesson)
			r.With(authoring).Post("/courses/{courseId}/questions", d.Courses.AddQuestion)
			r.With(authoring).Get("/courses/{courseId}/questions", d.Courses.ListAuthorQuestions)
			r.Get("/courses/{courseId}/exam", d.Exams.ListQuestions)
			r.Get("/courses/{courseId}/enrollment", d.Enrollments.GetEnrollmentByCourse)

			r.Route("/enrollments", func(r chi.Router) {
				r.Post("/", d.Enrollments.Enroll)
				r.Get("/", d.Enrollments.ListEnrollments)
				r.Get("/{enrollmentId}", d.Enrollments.GetEnrollment)
				r.Delete("/{enrollmentId}", d.Enrollments.CancelEnrollment)
				r.Patch("/{enrollmentId}/progress", d.Progress.UpdateProgress)
			})

			r.Post("/exams/submit", d.Exams.SubmitExam)
			r.Get("/exams/submit", d.Exams.ListResults)

			r.Post("/reviews", d.Reviews.SubmitReview)

			r.Get("/certificates", d.Certificates.ListCertificates)
			r.Get("/certificates/{userId}/{courseId}", d.Certificates.GetCertificate)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", d.Notifications.ListNotifications)
				r.Get("/unread-count", d.Notifications.UnreadCount)
				r.Post("/read-all", d.Notifications.MarkAllRead)
				r.Patch("/{notificationId}/read", d.Notifications.MarkRead)
			})
		})
	})

	// Health Check
	if d.Health != nil {
		r.Get("/health", d.Health.Health)
	}

	return r
}
