// internal/model/course.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "BEGINNER"
	LevelIntermediate CourseLevel = "INTERMEDIATE"
	LevelAdvanced     CourseLevel = "ADVANCED"
)

type CourseStatus string

const (
	CourseDraft     CourseStatus = "DRAFT"
	CoursePublished CourseStatus = "PUBLISHED"
)

// Category はコースの分類
type Category struct {
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey" json:"category_id"`
	Name       string    `gorm:"not null;uniqueIndex" json:"name"`
	Slug       string    `gorm:"not null;uniqueIndex" json:"slug"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Course はコース本体。DRAFTで作成され、PUBLISHEDになると一覧に載る。物理削除はしない。
type Course struct {
	CourseID     uuid.UUID    `gorm:"type:uuid;primaryKey" json:"course_id"`
	Slug         string       `gorm:"not null;uniqueIndex" json:"slug"`
	Title        string       `gorm:"not null" json:"title"`
	Description  string       `json:"description"`
	Price        float64      `gorm:"not null;default:0" json:"price"`
	Level        CourseLevel  `gorm:"type:varchar(20);not null;default:'BEGINNER'" json:"level"`
	Status       CourseStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	InstructorID string       `gorm:"not null;index" json:"instructor_id"`
	CategoryID   *uuid.UUID   `gorm:"type:uuid;index" json:"category_id,omitempty"`
	PublishedAt  *time.Time   `json:"published_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// 関連 (Preload用)
	Category *Category `gorm:"foreignKey:CategoryID;references:CategoryID" json:"category,omitempty"`
	Lessons  []Lesson  `gorm:"foreignKey:CourseID;references:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) IsPublished() bool {
	return c.Status == CoursePublished
}

// Lesson はコース内のレッスン。Order がコース内の順序を決める(コース内で一意)。
type Lesson struct {
	LessonID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"lesson_id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_lesson_course_order" json:"course_id"`
	Title       string    `gorm:"not null" json:"title"`
	Order       int       `gorm:"column:sort_order;not null;uniqueIndex:uq_lesson_course_order" json:"order"`
	IsPublished bool      `gorm:"not null;default:false" json:"is_published"`
	Duration    int       `gorm:"not null;default:0" json:"duration"` // 秒
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// --- DTO ---

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Slug string `json:"slug" validate:"omitempty,slug,max=120"`
}

type CreateCourseRequest struct {
	Title       string      `json:"title" validate:"required,min=1,max=200"`
	Slug        string      `json:"slug" validate:"omitempty,slug,max=200"`
	Description string      `json:"description" validate:"max=5000"`
	Price       float64     `json:"price" validate:"gte=0"`
	Level       CourseLevel `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	CategoryID  *uuid.UUID  `json:"category_id"`
}

type UpdateCourseRequest struct {
	Title       *string      `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       *float64     `json:"price,omitempty" validate:"omitempty,gte=0"`
	Level       *CourseLevel `json:"level,omitempty" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	CategoryID  *uuid.UUID   `json:"category_id,omitempty"`
}

type CreateLessonRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Order       int    `json:"order" validate:"gte=1"`
	IsPublished bool   `json:"is_published"`
	Duration    int    `json:"duration" validate:"gte=0"`
}

type UpdateLessonRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	IsPublished *bool   `json:"is_published,omitempty"`
	Duration    *int    `json:"duration,omitempty" validate:"omitempty,gte=0"`
}

// CourseFilter は公開コース一覧の検索条件
type CourseFilter struct {
	Level      CourseLevel
	CategoryID *uuid.UUID
	Search     string
	Page       int
	PageSize   int
}

// RatingSummary はレビューの集計値
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// CourseListItem は一覧用のDTO
type CourseListItem struct {
	Course
	LessonCount int64         `json:"lesson_count"`
	Rating      RatingSummary `json:"rating"`
}

type CourseListResponse struct {
	Items    []CourseListItem `json:"items"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int64            `json:"total"`
}

// CourseDetailResponse は公開済みレッスンのみを含む
type CourseDetailResponse struct {
	Course  Course        `json:"course"`
	Lessons []Lesson      `json:"lessons"`
	Rating  RatingSummary `json:"rating"`
}
