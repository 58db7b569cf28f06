package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/service"
	"go_5_course_hub/internal/webutil"
)

type NotificationHandler struct {
	service service.NotificationService
	logger  *slog.Logger
}

func NewNotificationHandler(s service.NotificationService, logger *slog.Logger) *NotificationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationHandler{service: s, logger: logger}
}

// ListNotifications は新しい順に最大50件。?unread=true で未読のみ。
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "ListNotifications")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	unreadOnly := false
	if raw := r.URL.Query().Get("unread"); raw != "" {
		unreadOnly, err = strconv.ParseBool(raw)
		if err != nil {
			webutil.HandleError(w, logger, model.NewAppError("INVALID_QUERY_PARAM", "unreadはtrueまたはfalseで指定してください。", "unread", model.ErrInvalidInput))
			return
		}
	}

	notifications, err := h.service.List(r.Context(), identity.UserID, unreadOnly)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, notifications, logger)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "UnreadCount")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	n, err := h.service.UnreadCount(r.Context(), identity.UserID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.UnreadCountResponse{Unread: n}, logger)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "MarkRead")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	notificationID, err := uuidParam(r, "notificationId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.MarkRead(r.Context(), identity.UserID, notificationID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true}, logger)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(h.logger, r, "MarkAllRead")

	identity, err := middleware.GetIdentity(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	n, err := h.service.MarkAllRead(r.Context(), identity.UserID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]int64{"updated": n}, logger)
}
