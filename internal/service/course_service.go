//go:generate mockery --name CourseService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type CourseService interface {
	CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	CreateCourse(ctx context.Context, requester model.Identity, req *model.CreateCourseRequest) (*model.Course, error)
	UpdateCourse(ctx context.Context, requester model.Identity, courseID uuid.UUID, req *model.UpdateCourseRequest) (*model.Course, error)
	PublishCourse(ctx context.Context, requester model.Identity, courseID uuid.UUID) (*model.Course, error)
	ListCourses(ctx context.Context, filter model.CourseFilter) (*model.CourseListResponse, error)
	GetCourse(ctx context.Context, slug string) (*model.CourseDetailResponse, error)

	AddLesson(ctx context.Context, requester model.Identity, courseID uuid.UUID, req *model.CreateLessonRequest) (*model.Lesson, error)
	UpdateLesson(ctx context.Context, requester model.Identity, courseID, lessonID uuid.UUID, req *model.UpdateLessonRequest) (*model.Lesson, error)

	AddQuestion(ctx context.Context, requester model.Identity, courseID uuid.UUID, req *model.CreateQuestionRequest) (*model.ExamQuestion, error)
	ListQuestionsForAuthor(ctx context.Context, requester model.Identity, courseID uuid.UUID) ([]model.ExamQuestion, error)
}

type courseService struct {
	db           *gorm.DB
	categoryRepo repository.CategoryRepository
	courseRepo   repository.CourseRepository
	lessonRepo   repository.LessonRepository
	questionRepo repository.ExamQuestionRepository
	reviewRepo   repository.ReviewRepository
	questions    QuestionBank
}

func NewCourseService(
	db *gorm.DB,
	categoryRepo repository.CategoryRepository,
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	questionRepo repository.ExamQuestionRepository,
	reviewRepo repository.ReviewRepository,
	questions QuestionBank,
) CourseService {
	return &courseService{
		db:           db,
		categoryRepo: categoryRepo,
		courseRepo:   courseRepo,
		lessonRepo:   lessonRepo,
		questionRepo: questionRepo,
		reviewRepo:   reviewRepo,
		questions:    questions,
	}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify はタイトルからURLに使えるスラッグを作る。英数字が無ければ空文字。
func Slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 80 {
		slug = strings.TrimRight(slug[:80], "-")
	}
	return slug
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// --- Category ---

func (s *courseService) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
		if slug == "" {
			slug = "category-" + shortID()
		}
	}
	category := &model.Category{
		CategoryID: uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		Slug:       slug,
	}
	if err := s.categoryRepo.Create(ctx, s.db, category); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, model.NewAppError("CATEGORY_EXISTS", "同じ名前またはスラッグのカテゴリが既に存在します。", "name", model.ErrConflict)
		}
		return nil, err
	}
	return category, nil
}

func (s *courseService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.FindAll(ctx, s.db)
}

// --- Course ---

// loadManaged はコースを取得し、作成した講師か ADMIN であることを確認する
func (s *courseService) loadManaged(ctx context.Context, requester model.Identity, courseID uuid.UUID) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, s.db, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errCourseNotFound()
		}
		return nil, err
	}
	if course.InstructorID != requester.UserID && !requester.IsAdmin() {
		return nil, model.NewAppError("FORBIDDEN", "このコースを編集する権限がありません。", "", model.ErrForbidden)
	}
	return course, nil
}

func (s *courseService) checkCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, s.db, *categoryID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("CATEGORY_NOT_FOUND", "カテゴリが見つかりません。", "category_id", model.ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *courseService) CreateCourse(ctx context.Context, requester model.Identity, req *model.CreateCourseRequest) (*model.Course, error) {
	logger := middleware.GetLogger(ctx)

	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		// タイトルから作ったスラッグが使用済みなら接尾辞を付ける
		slug = Slugify(req.Title)
		if slug == "" {
			slug = "course"
		}
		exists, err := s.courseRepo.SlugExists(ctx, s.db, slug)
		if err != nil {
			return nil, err
		}
		if exists {
			slug = slug + "-" + shortID()
		}
	}

	level := req.Level
	if level == "" {
		level = model.LevelBeginner
	}
	course := &model.Course{
		CourseID:     uuid.New(),
		Slug:         slug,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Price:        req.Price,
		Level:        level,
		Status:       model.CourseDraft,
		InstructorID: requester.UserID,
		CategoryID:   req.CategoryID,
	}
	if err := s.courseRepo.Create(ctx, s.db, course); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, model.NewAppError("SLUG_TAKEN", "このスラッグは既に使われています。", "slug", model.ErrConflict)
		}
		return nil, err
	}
	logger.Info("Course created", "course_id", course.CourseID.String(), "slug", course.Slug)
	return course, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, requester model.Identity, courseID uuid.UUID, req *model.UpdateCourseRequest) (*model.Course, error) {
	if _, err := s.loadManaged(ctx, requester, courseID); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Level != nil {
		updates["level"] = *req.Level
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if err := s.courseRepo.Update(ctx, s.db, courseID, updates); err != nil {
		return nil, err
	}
	return s.courseRepo.FindByID(ctx, s.db, courseID)
}

// PublishCourse は DRAFT を PUBLISHED にする。公開済みなら何もしない。
func (s *courseService) PublishCourse(ctx context.Context, requester model.Identity, courseID uuid.UUID) (*model.Course, error) {
	course, err := s.loadManaged(ctx, requester, courseID)
	if err != nil {
		return nil, err
	}
	if course.IsPublished() {
		return course, nil
	}
	if err := s.courseRepo.Update(ctx, s.db, courseID, map[string]interface{}{
		"status":       model.CoursePublished,
		"published_at": time.Now(),
	}); err != nil {
		return nil, err
	}
	middleware.GetLogger(ctx).Info("Course published", "course_id", courseID.String())
	return s.courseRepo.FindByID(ctx, s.db, courseID)
}

func (s *courseService) ListCourses(ctx context.Context, filter model.CourseFilter) (*model.CourseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	courses, total, err := s.courseRepo.ListPublished(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.CourseID)
	}
	lessonCounts, err := s.lessonRepo.CountPublishedByCourses(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	ratings, err := s.reviewRepo.SummaryByCourses(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	items := make([]model.CourseListItem, 0, len(courses))
	for _, c := range courses {
		items = append(items, model.CourseListItem{
			Course:      c,
			LessonCount: lessonCounts[c.CourseID],
			Rating:      ratings[c.CourseID],
		})
	}
	return &model.CourseListResponse{
		Items:    items,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
	}, nil
}

// GetCourse は公開コースと公開レッスンのみを返す
func (s *courseService) GetCourse(ctx context.Context, slug string) (*model.CourseDetailResponse, error) {
	course, err := s.courseRepo.FindBySlug(ctx, s.db, slug)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errCourseNotFound()
		}
		return nil, err
	}
	if !course.IsPublished() {
		return nil, errCourseNotFound()
	}
	lessons, err := s.lessonRepo.ListByCourse(ctx, s.db, course.CourseID, true)
	if err != nil {
		return nil, err
	}
	rating, err := s.reviewRepo.Summary(ctx, s.db, course.CourseID)
	if err != nil {
		return nil, err
	}
	return &model.CourseDetailResponse{Course: *course, Lessons: lessons, Rating: rating}, nil
}

// --- Lesson ---

func (s *courseService) AddLesson(ctx context.Context, requester model.Identity, courseID uuid.UUID, req *model.CreateLessonRequest) (*model.Lesson, error) {
	if _, err := s.loadManaged(ctx, requester, courseID); err != nil {
		return nil, err
	}
	lesson := &model.Lesson{
		LessonID:    uuid.New(),
		CourseID:    courseID,
		Title:       strings.TrimSpace(req.Title),
		Order:       req.Order,
		IsPublished: req.IsPublished,
		Duration:    req.Duration,
	}
	if err := s.lessonRepo.Create(ctx, s.db, lesson); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, model.NewAppError("LESSON_ORDER_TAKEN", "同じ順番のレッスンが既に存在します。", "order", model.ErrConflict)
		}
		return nil, err
	}
	return lesson, nil
}

func (s *courseService) UpdateLesson(ctx context.Context, requester model.Identity, courseID, lessonID uuid.UUID, req *model.UpdateLessonRequest) (*model.Lesson, error) {
	if _, err := s.loadManaged(ctx, requester, courseID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if err := s.lessonRepo.Update(ctx, s.db, courseID, lessonID, updates); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("LESSON_NOT_FOUND", "レッスンが見つかりません。", "", model.ErrNotFound)
		}
		return nil, err
	}
	lesson, err := s.lessonRepo.FindByID(ctx, s.db, courseID, lessonID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.NewAppError("LESSON_NOT_FOUND", "レッスンが見つかりません。", "", model.ErrNotFound)
	}
	return lesson, err
}

// --- Exam question ---

func (s *courseService) AddQuestion(ctx context.Context, requester model.Identity, courseID uuid.UUID, req *model.CreateQuestionRequest) (*model.ExamQuestion, error) {
	logger := middleware.GetLogger(ctx)

	if _, err := s.loadManaged(ctx, requester, courseID); err != nil {
		return nil, err
	}

	options := make([]string, 0, len(req.Options))
	found := false
	for _, o := range req.Options {
		o = strings.TrimSpace(o)
		options = append(options, o)
		if answersMatch(o, req.CorrectAnswer) {
			found = true
		}
	}
	if !found {
		return nil, model.NewAppError("VALIDATION_ERROR", "correct_answer は options のいずれかと一致する必要があります。", "correct_answer", model.ErrInvalidInput)
	}

	question := &model.ExamQuestion{
		QuestionID:    uuid.New(),
		CourseID:      courseID,
		Text:          strings.TrimSpace(req.Text),
		Options:       options,
		CorrectAnswer: strings.TrimSpace(req.CorrectAnswer),
		Order:         req.Order,
	}
	if err := s.questionRepo.Create(ctx, s.db, question); err != nil {
		return nil, err
	}

	if err := s.questions.Invalidate(ctx, courseID); err != nil {
		// TTL で失効するので作成自体は成功とする
		logger.Warn("Failed to invalidate question cache", "error", err, "course_id", courseID.String())
	}
	return question, nil
}

func (s *courseService) ListQuestionsForAuthor(ctx context.Context, requester model.Identity, courseID uuid.UUID) ([]model.ExamQuestion, error) {
	if _, err := s.loadManaged(ctx, requester, courseID); err != nil {
		return nil, err
	}
	return s.questionRepo.ListByCourse(ctx, s.db, courseID)
}
