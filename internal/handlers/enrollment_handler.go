package handlers

import (
	"log/slog"
	"net/http"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/service"
	"go_5_course_hub/internal/webutil"
)

type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  *slog.Logger
}

func NewEnrollmentHandler(s service.EnrollmentService, logger *slog.Logger) *EnrollmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrollmentHandler{
		service: s,
		logger:  logger,
	}
}

// Enroll はコースへの受講登録を作成するためのハンドラ
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "Enroll")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.EnrollRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		logger.Warn("Invalid enroll request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	enrollment, err := h.service.Enroll(r.Context(), identity.UserID, req.CourseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Enrolled", slog.String("enrollment_id", enrollment.EnrollmentID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, enrollment, logger)
}

// ListEnrollments は自分の受講登録の一覧を返す
func (h *EnrollmentHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "ListEnrollments")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	enrollments, err := h.service.ListEnrollments(r.Context(), identity.UserID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if enrollments == nil {
		enrollments = []model.Enrollment{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, enrollments, logger)
}

func (h *EnrollmentHandler) GetEnrollment(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "GetEnrollment")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	enrollmentID, err := uuidParam(r, "enrollmentId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	enrollment, err := h.service.GetEnrollment(r.Context(), identity.UserID, enrollmentID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, enrollment, logger)
}

// GetEnrollmentByCourse はコースIDから自分の受講登録を引く
func (h *EnrollmentHandler) GetEnrollmentByCourse(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "GetEnrollmentByCourse")

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

	enrollment, err := h.service.GetEnrollmentByCourse(r.Context(), identity.UserID, courseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, enrollment, logger)
}

func (h *EnrollmentHandler) CancelEnrollment(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "CancelEnrollment")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	enrollmentID, err := uuidParam(r, "enrollmentId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.Cancel(r.Context(), identity.UserID, enrollmentID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Enrollment cancelled", slog.String("enrollment_id", enrollmentID.String()))
	w.WriteHeader(http.StatusNoContent)
}
