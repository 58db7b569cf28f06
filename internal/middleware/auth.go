package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go_5_course_hub/internal/config"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims は IdP が発行するトークンのクレーム
type IdentityClaims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func unauthenticated(message string) *model.AppError {
	return model.NewAppError("UNAUTHENTICATED", message, "", model.ErrUnauthenticated)
}

// IdentityMiddleware はリクエストの利用者情報をコンテキストにセットします。
// auth.enabled の場合は Bearer トークン(HS256)を検証し、無効の場合は開発用ヘッダー
// X-User-ID / X-User-Role / X-User-Email をそのまま信頼します。
func IdentityMiddleware(cfg config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			var (
				identity model.Identity
				appErr   *model.AppError
			)
			if cfg.Enabled {
				identity, appErr = identityFromToken(r, cfg)
			} else {
				identity, appErr = identityFromHeaders(r)
			}
			if appErr != nil {
				logger.Warn("Authentication failed", "code", appErr.Code, "reason", appErr.Message)
				webutil.HandleError(w, logger, appErr)
				return
			}

			// 以降のログには user_id を付ける
			reqLogger := logger.With("user_id", identity.UserID)
			ctx := model.ContextWithIdentity(r.Context(), identity)
			ctx = WithLogger(ctx, reqLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFromHeaders(r *http.Request) (model.Identity, *model.AppError) {
	userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if userID == "" {
		return model.Identity{}, unauthenticated("X-User-ID ヘッダーが必要です。")
	}
	role := model.Role(strings.ToUpper(strings.TrimSpace(r.Header.Get("X-User-Role"))))
	if role == "" {
		role = model.RoleStudent
	}
	if !role.Valid() {
		return model.Identity{}, unauthenticated("X-User-Role の値が不正です。")
	}
	return model.Identity{
		UserID: userID,
		Role:   role,
		Email:  strings.TrimSpace(r.Header.Get("X-User-Email")),
	}, nil
}

func identityFromToken(r *http.Request, cfg config.AuthConfig) (model.Identity, *model.AppError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return model.Identity{}, unauthenticated("Authorizationヘッダーが必要です。")
	}

	// "Bearer {token}" の形式を検証
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return model.Identity{}, unauthenticated("Authorizationヘッダーの形式が正しくありません。")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(headerParts[1], claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, opts...)
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Identity{}, unauthenticated("トークンの有効期限が切れています。")
		}
		return model.Identity{}, unauthenticated("トークンが無効です。")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return model.Identity{}, unauthenticated("トークンにユーザー情報が含まれていません。")
	}

	role := model.Role(strings.ToUpper(claims.Role))
	if role == "" {
		role = model.RoleStudent
	}
	if !role.Valid() {
		return model.Identity{}, unauthenticated("トークンのロールが不正です。")
	}

	return model.Identity{UserID: subject, Role: role, Email: claims.Email}, nil
}

// RequireRole は指定ロールのいずれかを持たないリクエストを 403 で拒否します。
// IdentityMiddleware より後に置くこと。
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())
			identity, ok := model.IdentityFromContext(r.Context())
			if !ok {
				webutil.HandleError(w, logger, unauthenticated("認証情報が見つかりません。"))
				return
			}
			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			logger.Warn("Role not permitted", "role", identity.Role)
			webutil.HandleError(w, logger, model.NewAppError("FORBIDDEN_ROLE", "この操作を行う権限がありません。", "", model.ErrForbidden))
		})
	}
}

// GetIdentity はハンドラ向けのヘルパー。Identity がなければ UNAUTHENTICATED を返す。
func GetIdentity(r *http.Request) (model.Identity, error) {
	identity, ok := model.IdentityFromContext(r.Context())
	if !ok {
		return model.Identity{}, unauthenticated("認証情報が見つかりません。")
	}
	return identity, nil
}
