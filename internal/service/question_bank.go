package service

import (
	"context"

	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionBank はコースの試験問題一式を返します。採点と受講者向けの一覧で使う。
// Redis キャッシュ (internal/cache) もこのインターフェースを満たす。
type QuestionBank interface {
	Questions(ctx context.Context, courseID uuid.UUID) ([]model.ExamQuestion, error)
	Invalidate(ctx context.Context, courseID uuid.UUID) error
}

type dbQuestionBank struct {
	db   *gorm.DB
	repo repository.ExamQuestionRepository
}

// NewDBQuestionBank はキャッシュなしで毎回DBから読む QuestionBank を返します。
func NewDBQuestionBank(db *gorm.DB, repo repository.ExamQuestionRepository) QuestionBank {
	return &dbQuestionBank{db: db, repo: repo}
}

func (b *dbQuestionBank) Questions(ctx context.Context, courseID uuid.UUID) ([]model.ExamQuestion, error) {
	return b.repo.ListByCourse(ctx, b.db, courseID)
}

func (b *dbQuestionBank) Invalidate(ctx context.Context, courseID uuid.UUID) error {
	return nil
}
