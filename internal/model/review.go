// internal/model/review.go
package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Review は (user, course) ごとに1件。再投稿は上書き。
type Review struct {
	ReviewID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"review_id"`
	UserID    string    `gorm:"not null;uniqueIndex:uq_review_user_course" json:"user_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_review_user_course;index" json:"course_id"`
	Rating    int       `gorm:"not null" json:"rating"` // 1-5
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// SubmitReviewRequest はレビュー投稿リクエストのDTO
type SubmitReviewRequest struct {
	CourseID uuid.UUID `json:"course_id" validate:"required"`
	Rating   int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment  *string   `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type SubmitReviewResponse struct {
	Review        *Review `json:"review"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}

type ReviewListResponse struct {
	Reviews []Review      `json:"reviews"`
	Summary RatingSummary `json:"summary"`
}

// RoundRating は平均評価を小数1桁に丸める
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
