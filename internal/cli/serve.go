package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go_5_course_hub/internal/cache"
	"go_5_course_hub/internal/config"
	"go_5_course_hub/internal/handlers"
	"go_5_course_hub/internal/repository"
	"go_5_course_hub/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "起動前にテーブルを作成・更新する")
	return cmd
}

func runServer(ctx context.Context, configPath string, migrate bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		return err
	}

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)
	logger.Info("Application starting...", slog.String("app", config.AppName), slog.String("version", config.AppVersion))

	db, err := repository.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer repository.CloseDB(db, logger)

	if migrate {
		if err := repository.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		logger.Info("Migrations applied")
	}

	// --- Repositories ---
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
	retrier := repository.NewRetrier(cfg.Retry)

	healthChecks := map[string]handlers.HealthCheck{"db": handlers.DBCheck(db)}

	// Redis があれば問題バンクをキャッシュする
	dbQuestions := service.NewDBQuestionBank(db, questionRepo)
	questions := dbQuestions
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("Redis unavailable, serving questions from the database", slog.Any("error", err))
		} else {
			defer redisClient.Close()
			questions = cache.NewQuestionCache(redisClient, dbQuestions, cfg.Redis.TTL)
			healthChecks["redis"] = redisCheck(redisClient)
			logger.Info("Question cache enabled", slog.String("addr", cfg.Redis.Addr), slog.Duration("ttl", cfg.Redis.TTL))
		}
	}

	mailer, err := service.NewMailer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing mailer: %w", err)
	}

	// --- Services ---
	courseService := service.NewCourseService(db, categoryRepo, courseRepo, lessonRepo, questionRepo, reviewRepo, questions)
	enrollmentService := service.NewEnrollmentService(db, courseRepo, enrollmentRepo, progressRepo, retrier)
	progressService := service.NewProgressService(db, enrollmentRepo, lessonRepo, progressRepo, retrier)
	certificateService := service.NewCertificateService(db, certRepo, resultRepo)
	notificationService := service.NewNotificationService(db, notificationRepo)
	reviewService := service.NewReviewService(db, courseRepo, enrollmentRepo, reviewRepo, retrier)
	examService := service.NewExamService(service.ExamServiceDeps{
		DB:             db,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		LessonRepo:     lessonRepo,
		ProgressRepo:   progressRepo,
		ResultRepo:     resultRepo,
		Questions:      questions,
		Certificates:   certificateService,
		Notifications:  notificationService,
		Mailer:         mailer,
		Retrier:        retrier,
		MailConfig:     cfg.Mail,
	})

	router := handlers.NewRouter(handlers.RouterDeps{
		Logger:         logger,
		Auth:           cfg.Auth,
		CORS:           cfg.CORS,
		RequestTimeout: cfg.Server.WriteTimeout,

		Courses:       handlers.NewCourseHandler(courseService, logger),
		Enrollments:   handlers.NewEnrollmentHandler(enrollmentService, logger),
		Progress:      handlers.NewProgressHandler(progressService, logger),
		Exams:         handlers.NewExamHandler(examService, logger),
		Reviews:       handlers.NewReviewHandler(reviewService, logger),
		Certificates:  handlers.NewCertificateHandler(certificateService, logger),
		Notifications: handlers.NewNotificationHandler(notificationService, logger),
		Health:        handlers.NewHealthHandler(logger, healthChecks),
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("Shutting down server...", slog.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
		return err
	case <-ctx.Done():
		logger.Info("Context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.Any("error", err))
		return err
	}
	logger.Info("Server exiting")
	return nil
}

func redisCheck(client redis.UniversalClient) handlers.HealthCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
