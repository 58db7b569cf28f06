package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/service"
	"go_5_course_hub/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type CourseHandler struct {
	service service.CourseService
	logger  *slog.Logger
}

func NewCourseHandler(s service.CourseService, logger *slog.Logger) *CourseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseHandler{service: s, logger: logger}
}

// --- Category ---

func (h *CourseHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "ListCategories")

	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, categories, logger)
}

func (h *CourseHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "CreateCategory")

	var req model.CreateCategoryRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Info("Category created", slog.String("category_id", category.CategoryID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, category, logger)
}

// --- Catalog ---

// ListCourses は公開コースの一覧。?level=&categoryId=&q=&page=&pageSize=
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "ListCourses")
	q := r.URL.Query()

	filter := model.CourseFilter{
		Level:  model.CourseLevel(strings.ToUpper(q.Get("level"))),
		Search: q.Get("q"),
	}
	switch filter.Level {
	case "", model.LevelBeginner, model.LevelIntermediate, model.LevelAdvanced:
	default:
		webutil.HandleError(w, logger, model.NewAppError("INVALID_QUERY_PARAM",
			"levelはBEGINNER, INTERMEDIATE, ADVANCEDのいずれかで指定してください。", "level", model.ErrInvalidInput))
		return
	}

	var err error
	if filter.CategoryID, err = uuidQuery(r, "categoryId", false); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if filter.Page, err = intQuery(r, "page"); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if filter.PageSize, err = intQuery(r, "pageSize"); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.ListCourses(r.Context(), filter)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// GetCourse は GET /courses/{slug}。chi では同じ位置のパラメータ名を揃える必要があるため courseId で受ける。
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "GetCourse")

	slug := chi.URLParam(r, "courseId")
	if !webutil.IsSlug(slug) {
		webutil.HandleError(w, logger, model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "", model.ErrNotFound))
		return
	}

	detail, err := h.service.GetCourse(r.Context(), slug)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, detail, logger)
}

// --- Authoring (INSTRUCTOR / ADMIN) ---

func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "CreateCourse")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.CreateCourseRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	course, err := h.service.CreateCourse(r.Context(), identity, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, course, logger)
}

func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "UpdateCourse")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	courseID, err := uuidParam(r, "courseId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.UpdateCourseRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	course, err := h.service.UpdateCourse(r.Context(), identity, courseID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, course, logger)
}

func (h *CourseHandler) PublishCourse(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "PublishCourse")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	courseID, err := uuidParam(r, "courseId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	course, err := h.service.PublishCourse(r.Context(), identity, courseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, course, logger)
}

func (h *CourseHandler) AddLesson(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "AddLesson")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	courseID, err := uuidParam(r, "courseId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.CreateLessonRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	lesson, err := h.service.AddLesson(r.Context(), identity, courseID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, lesson, logger)
}

func (h *CourseHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "UpdateLesson")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	courseID, err := uuidParam(r, "courseId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	lessonID, err := uuidParam(r, "lessonId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.UpdateLessonRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	lesson, err := h.service.UpdateLesson(r.Context(), identity, courseID, lessonID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, lesson, logger)
}

func (h *CourseHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "AddQuestion")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	courseID, err := uuidParam(r, "courseId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.CreateQuestionRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	question, err := h.service.AddQuestion(r.Context(), identity, courseID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, question, logger)
}

// ListAuthorQuestions は正解付きの問題一覧 (作成者向け)
func (h *CourseHandler) ListAuthorQuestions(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "ListAuthorQuestions")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	courseID, err := uuidParam(r, "courseId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	questions, err := h.service.ListQuestionsForAuthor(r.Context(), identity, courseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if questions == nil {
		questions = []model.ExamQuestion{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, questions, logger)
}
