package handlers

import (
	"log/slog"
	"net/http"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/service"
	"go_5_course_hub/internal/webutil"
)

type ProgressHandler struct {
	service service.ProgressService
	logger  *slog.Logger
}

func NewProgressHandler(s service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{service: s, logger: logger}
}

// UpdateProgress はレッスンの視聴進捗を記録し、更新後の受講登録を返す
func (h *ProgressHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "UpdateProgress")

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

	var req model.UpdateProgressRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		logger.Warn("Invalid progress request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.RecordProgress(r.Context(), identity.UserID, enrollmentID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}
