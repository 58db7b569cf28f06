package repository

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go_5_course_hub/internal/config"
	"go_5_course_hub/internal/model"

	slogGorm "github.com/orandin/slog-gorm" // slogGormはエイリアス
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewGormLogger は GORM のログを slog に流すロガーを返します。
func NewGormLogger(appLogger *slog.Logger, cfg config.DatabaseConfig) gormlogger.Interface {
	var gormLogLevel gormlogger.LogLevel
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		gormLogLevel = gormlogger.Info
	} else {
		gormLogLevel = gormlogger.Warn
	}

	opts := []slogGorm.Option{
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithSlowThreshold(cfg.SlowThreshold),
	}
	if gormLogLevel == gormlogger.Info {
		opts = append(opts, slogGorm.WithTraceAll())
	}
	return slogGorm.New(opts...).LogMode(gormLogLevel)
}

// NewDB は Postgres への接続を開き、プールを設定して返します。
// 呼び出し側がシャットダウン時に Close する。
func NewDB(ctx context.Context, cfg config.DatabaseConfig, appLogger *slog.Logger) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("repository.NewDB: database url is empty")
	}

	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: NewGormLogger(appLogger, cfg),
		// 一意制約違反を gorm.ErrDuplicatedKey に変換する
		TranslateError: true,
	})
	if err != nil {
		appLogger.Error("Failed to connect to database with GORM", slog.Any("error", err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return nil, err
	}

	if err = sqlDB.PingContext(ctx); err != nil {
		appLogger.Error("Error pinging database", slog.Any("error", err))
		sqlDB.Close()
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	appLogger.Info("Database connection established with GORM",
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
	)
	return db, nil
}

// CloseDB は基盤の sql.DB を閉じます。
func CloseDB(db *gorm.DB, appLogger *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		appLogger.Error("Error closing database connection", slog.Any("error", err))
		return
	}
	appLogger.Info("Database connection closed.")
}

// Models はマイグレーション対象のモデル一覧 (依存される側が先)
func Models() []interface{} {
	return []interface{}{
		&model.Category{},
		&model.Course{},
		&model.Lesson{},
		&model.Enrollment{},
		&model.LessonProgress{},
		&model.ExamQuestion{},
		&model.ExamResult{},
		&model.Certificate{},
		&model.Review{},
		&model.Notification{},
	}
}

// AutoMigrate はすべてのテーブルとインデックスを作成・更新します。
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("repository.AutoMigrate: %w", err)
	}
	return nil
}
