package handlers

import (
	"log/slog"
	"net/http"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/service"
	"go_5_course_hub/internal/webutil"
)

type ExamHandler struct {
	service service.ExamService
	logger  *slog.Logger
}

func NewExamHandler(s service.ExamService, logger *slog.Logger) *ExamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExamHandler{service: s, logger: logger}
}

// SubmitExam は回答を採点し、合格なら証明書を発行する
func (h *ExamHandler) SubmitExam(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "SubmitExam")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.SubmitExamRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		logger.Warn("Invalid exam submission", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.SubmitExam(r.Context(), identity, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// ListResults は ?courseId= の受験履歴を返す
func (h *ExamHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "ListResults")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	courseID, err := uuidQuery(r, "courseId", true)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	history, err := h.service.ListResults(r.Context(), identity.UserID, *courseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, history, logger)
}

// ListQuestions は受講者向けに正解を含まない問題を返す
func (h *ExamHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "ListQuestions")

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

	questions, err := h.service.ListQuestions(r.Context(), identity.UserID, courseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, questions, logger)
}
