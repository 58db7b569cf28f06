// internal/model/certificate.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Certificate は (user, course) ごとに1件。ExamScore は最高点のみ保持し、下がらない。
type Certificate struct {
	CertificateID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"certificate_id"`
	UserID            string    `gorm:"not null;uniqueIndex:uq_certificate_user_course" json:"user_id"`
	CourseID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_certificate_user_course" json:"course_id"`
	CertificateNumber string    `gorm:"not null;uniqueIndex" json:"certificate_number"`
	ExamScore         int       `gorm:"not null" json:"exam_score"`
	Title             string    `gorm:"not null" json:"title"`
	Description       string    `json:"description"`
	IssuedAt          time.Time `gorm:"not null" json:"issued_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// 関連 (Preload用)
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

func (Certificate) TableName() string {
	return "certificates"
}

type CertificateResponse struct {
	Certificate *Certificate `json:"certificate"`
	BestResult  *ExamResult  `json:"best_result"`
}
