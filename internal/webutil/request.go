package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go_5_course_hub/internal/model"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes はリクエストボディの上限
const maxBodyBytes = 1 << 20

// DecodeJSONBody はリクエストボディをデコードします。
// 不正なJSONや未知のフィールドは INVALID_JSON (400) を返します。
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return model.NewAppError("INVALID_JSON", "リクエストボディが空です。", "", model.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return model.NewAppError("INVALID_JSON", "リクエストボディが空です。", "", model.ErrInvalidInput)
		case errors.As(err, &maxErr):
			return model.NewAppError("INVALID_JSON", fmt.Sprintf("リクエストボディは%dバイト以下にしてください。", maxErr.Limit), "", model.ErrInvalidInput)
		default:
			return model.NewAppError("INVALID_JSON", "リクエストボディのJSON形式が正しくありません。", "", model.ErrInvalidInput).
				WithDetails(map[string]any{"reason": err.Error()})
		}
	}
	return nil
}

// DecodeAndValidate は DecodeJSONBody の後に構造体バリデーションを行います。
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := DecodeJSONBody(w, r, dst); err != nil {
		return err
	}
	return ValidateStruct(dst)
}

// ValidateStruct はバリデーションエラーを VALIDATION_ERROR の AppError に変換して返します。
func ValidateStruct(s interface{}) error {
	if err := Validator.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationErrorResponse(validationErrors)
		}
		return model.NewAppError("VALIDATION_ERROR", "入力値の検証に失敗しました。", "", model.ErrInvalidInput)
	}
	return nil
}
