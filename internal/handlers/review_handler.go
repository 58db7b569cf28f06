// internal/handlers/review_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/service"
	"go_5_course_hub/internal/webutil"
)

type ReviewHandler struct {
	service service.ReviewService
	logger  *slog.Logger
}

func NewReviewHandler(s service.ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{service: s, logger: logger}
}

// SubmitReview はレビューを作成または上書きする。入力検証はサービス側で行う。
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "SubmitReview")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.SubmitReviewRequest
	if err := webutil.DecodeJSONBody(w, r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.SubmitReview(r.Context(), identity.UserID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "ListReviews")

	courseID, err := uuidParam(r, "courseId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.ListReviews(r.Context(), courseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if resp.Reviews == nil {
		resp.Reviews = []model.Review{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}
