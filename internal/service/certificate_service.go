//go:generate mockery --name CertificateService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateOutcome は IssueOrUpgrade で何が起きたか
type CertificateOutcome int

const (
	CertificateUnchanged CertificateOutcome = iota
	CertificateIssued
	CertificateUpgraded
)

func (o CertificateOutcome) Changed() bool {
	return o != CertificateUnchanged
}

type CertificateService interface {
	// IssueOrUpgrade は呼び出し側のトランザクション tx の中で証明書を発行・更新する。
	IssueOrUpgrade(ctx context.Context, tx *gorm.DB, userID string, courseID uuid.UUID, score int, title, description string) (*model.Certificate, CertificateOutcome, error)
	GetCertificate(ctx context.Context, requester model.Identity, userID string, courseID uuid.UUID) (*model.CertificateResponse, error)
	ListCertificates(ctx context.Context, userID string) ([]model.Certificate, error)
}

type certificateService struct {
	db         *gorm.DB
	certRepo   repository.CertificateRepository
	resultRepo repository.ExamResultRepository
}

func NewCertificateService(db *gorm.DB, certRepo repository.CertificateRepository, resultRepo repository.ExamResultRepository) CertificateService {
	return &certificateService{
		db:         db,
		certRepo:   certRepo,
		resultRepo: resultRepo,
	}
}

// newCertificateNumber は "CH-20260117-1A2B3C4D" 形式の番号を返す
func newCertificateNumber(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("CH-%s-%s", now.UTC().Format("20060102"), id[:8])
}

func (s *certificateService) IssueOrUpgrade(ctx context.Context, tx *gorm.DB, userID string, courseID uuid.UUID, score int, title, description string) (*model.Certificate, CertificateOutcome, error) {
	logger := middleware.GetLogger(ctx)

	if !passedScore(score) || score > model.ExamMaxScore {
		return nil, CertificateUnchanged, model.NewAppError("INVALID_CERTIFICATE_SCORE",
			fmt.Sprintf("証明書は合格点(%d点)以上のスコアでのみ発行できます。", model.ExamPassScore), "score", model.ErrInvalidInput)
	}

	now := time.Now()
	existing, err := s.certRepo.FindByUserAndCourse(ctx, tx, userID, courseID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, CertificateUnchanged, err
	}

	if existing == nil {
		cert := &model.Certificate{
			CertificateID:     uuid.New(),
			UserID:            userID,
			CourseID:          courseID,
			CertificateNumber: newCertificateNumber(now),
			ExamScore:         score,
			Title:             title,
			Description:       description,
			IssuedAt:          now,
		}
		// SAVEPOINT 内で作成し、同時発行で負けても外側のトランザクションを続行できるようにする
		err = tx.Transaction(func(sp *gorm.DB) error {
			return s.certRepo.Create(ctx, sp, cert)
		})
		if err == nil {
			logger.Info("Certificate issued", "user_id", userID, "course_id", courseID.String(), "score", score)
			return cert, CertificateIssued, nil
		}
		if !errors.Is(err, model.ErrConflict) {
			return nil, CertificateUnchanged, err
		}
		logger.Warn("Certificate created concurrently, applying upgrade rule", "user_id", userID, "course_id", courseID.String())
		existing, err = s.certRepo.FindByUserAndCourse(ctx, tx, userID, courseID)
		if err != nil {
			return nil, CertificateUnchanged, err
		}
	}

	if score <= existing.ExamScore {
		return existing, CertificateUnchanged, nil
	}

	upgraded, err := s.certRepo.UpgradeScore(ctx, tx, existing.CertificateID, map[string]interface{}{
		"exam_score":  score,
		"issued_at":   now,
		"description": description,
	}, score)
	if err != nil {
		return nil, CertificateUnchanged, err
	}
	if !upgraded {
		return existing, CertificateUnchanged, nil
	}
	logger.Info("Certificate upgraded", "user_id", userID, "course_id", courseID.String(), "from", existing.ExamScore, "to", score)

	existing.ExamScore = score
	existing.IssuedAt = now
	existing.Description = description
	return existing, CertificateUpgraded, nil
}

func (s *certificateService) GetCertificate(ctx context.Context, requester model.Identity, userID string, courseID uuid.UUID) (*model.CertificateResponse, error) {
	if requester.UserID != userID && !requester.IsAdmin() {
		return nil, model.NewAppError("FORBIDDEN", "他のユーザーの証明書は閲覧できません。", "", model.ErrForbidden)
	}

	cert, err := s.certRepo.FindByUserAndCourse(ctx, s.db, userID, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("CERTIFICATE_NOT_FOUND", "証明書はまだ発行されていません。", "", model.ErrNotFound)
		}
		return nil, err
	}

	best, err := s.resultRepo.FindBest(ctx, s.db, userID, courseID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	return &model.CertificateResponse{Certificate: cert, BestResult: best}, nil
}

func (s *certificateService) ListCertificates(ctx context.Context, userID string) ([]model.Certificate, error) {
	return s.certRepo.ListByUser(ctx, s.db, userID)
}
