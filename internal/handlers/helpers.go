package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"go_5_course_hub/internal/model"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func handlerLogger(base *slog.Logger, r *http.Request, name string) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	logger := base.With(slog.String("handler", name))
	if reqID := chimiddleware.GetReqID(r.Context()); reqID != "" {
		logger = logger.With(slog.String("req_id", reqID))
	}
	return logger
}

// uuidParam は URL パスパラメータを UUID として読み取る
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_URL_PARAM", fmt.Sprintf("%sの形式が正しくありません。", name), name, model.ErrInvalidInput)
	}
	return id, nil
}

// uuidQuery はクエリパラメータを UUID として読み取る。required なら未指定もエラー。
func uuidQuery(r *http.Request, name string, required bool) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return nil, model.NewAppError("MISSING_QUERY_PARAM", fmt.Sprintf("%sを指定してください。", name), name, model.ErrInvalidInput)
		}
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, model.NewAppError("INVALID_QUERY_PARAM", fmt.Sprintf("%sの形式が正しくありません。", name), name, model.ErrInvalidInput)
	}
	return &id, nil
}

func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, model.NewAppError("INVALID_QUERY_PARAM", fmt.Sprintf("%sは0以上の整数で指定してください。", name), name, model.ErrInvalidInput)
	}
	return v, nil
}
