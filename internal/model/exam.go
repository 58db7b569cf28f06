// internal/model/exam.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	// ExamMaxScore はスコアの満点 (1000点満点)
	ExamMaxScore = 1000
	// ExamPassScore は合格ライン。コースごとの変更はしない。
	ExamPassScore = 800
)

// ExamQuestion はコースの試験問題。CorrectAnswer は作成者向けの経路でのみ返す。
type ExamQuestion struct {
	QuestionID    uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"question_id"`
	CourseID      uuid.UUID                   `gorm:"type:uuid;not null;index" json:"course_id"`
	Text          string                      `gorm:"not null" json:"text"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer string                      `gorm:"not null" json:"correct_answer"`
	Order         int                         `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

// AnswerRecord は1問ごとの採点結果スナップショット
type AnswerRecord struct {
	QuestionID    uuid.UUID `json:"question_id"`
	Answer        string    `json:"answer"`
	CorrectAnswer string    `json:"correct_answer"`
	IsCorrect     bool      `json:"is_correct"`
}

// ExamResult は受験1回分。(user, course) に対して複数件になり、AttemptNumber はその中で一意。
type ExamResult struct {
	ExamResultID   uuid.UUID                         `gorm:"type:uuid;primaryKey" json:"exam_result_id"`
	UserID         string                            `gorm:"not null;uniqueIndex:uq_exam_result_attempt,priority:1" json:"user_id"`
	CourseID       uuid.UUID                         `gorm:"type:uuid;not null;uniqueIndex:uq_exam_result_attempt,priority:2" json:"course_id"`
	Score          int                               `gorm:"not null" json:"score"` // 0-1000
	TotalQuestions int                               `gorm:"not null" json:"total_questions"`
	CorrectAnswers int                               `gorm:"not null" json:"correct_answers"`
	Passed         bool                              `gorm:"not null" json:"passed"`
	AttemptNumber  int                               `gorm:"not null;default:1;uniqueIndex:uq_exam_result_attempt,priority:3" json:"attempt_number"`
	Answers        datatypes.JSONSlice[AnswerRecord] `json:"answers"`
	CreatedAt      time.Time                         `gorm:"index" json:"created_at"`
}

func (ExamResult) TableName() string {
	return "exam_results"
}

// --- DTO ---

type SubmittedAnswer struct {
	QuestionID uuid.UUID `json:"question_id" validate:"required"`
	Answer     string    `json:"answer" validate:"max=1000"`
}

type SubmitExamRequest struct {
	CourseID uuid.UUID         `json:"course_id" validate:"required"`
	Answers  []SubmittedAnswer `json:"answers" validate:"required,max=500,dive"`
}

type SubmitExamResponse struct {
	ExamResultID         uuid.UUID  `json:"exam_result_id"`
	Score                int        `json:"score"`
	CorrectAnswers       int        `json:"correct_answers"`
	IncorrectAnswers     int        `json:"incorrect_answers"`
	TotalQuestions       int        `json:"total_questions"`
	Percentage           float64    `json:"percentage"`
	Passed               bool       `json:"passed"`
	PassingScore         int        `json:"passing_score"`
	AttemptNumber        int        `json:"attempt_number"`
	CertificateAvailable bool       `json:"certificate_available"`
	CertificateID        *uuid.UUID `json:"certificate_id,omitempty"`
	CertificateNumber    string     `json:"certificate_number,omitempty"`
}

type ExamHistoryResponse struct {
	Results  []ExamResult `json:"results"`
	Best     *ExamResult  `json:"best"`
	Attempts int          `json:"attempts"`
}

// StudentQuestion は受講者向けの問題 (正解を含まない)
type StudentQuestion struct {
	QuestionID uuid.UUID `json:"question_id"`
	Text       string    `json:"text"`
	Options    []string  `json:"options"`
	Order      int       `json:"order"`
}

type CreateQuestionRequest struct {
	Text          string   `json:"text" validate:"required,min=1,max=2000"`
	Options       []string `json:"options" validate:"required,min=2,max=10,dive,required,max=500"`
	CorrectAnswer string   `json:"correct_answer" validate:"required,max=500"`
	Order         int      `json:"order" validate:"gte=0"`
}
