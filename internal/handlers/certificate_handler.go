package handlers

import (
	"log/slog"
	"net/http"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/service"
	"go_5_course_hub/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type CertificateHandler struct {
	service service.CertificateService
	logger  *slog.Logger
}

func NewCertificateHandler(s service.CertificateService, logger *slog.Logger) *CertificateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CertificateHandler{service: s, logger: logger}
}

// GetCertificate は本人または ADMIN のみ取得できる
func (h *CertificateHandler) GetCertificate(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "GetCertificate")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	userID := chi.URLParam(r, "userId")
	courseID, err := uuidParam(r, "courseId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.GetCertificate(r.Context(), identity, userID, courseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *CertificateHandler) ListCertificates(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "ListCertificates")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	certs, err := h.service.ListCertificates(r.Context(), identity.UserID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if certs == nil {
		certs = []model.Certificate{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, certs, logger)
}
