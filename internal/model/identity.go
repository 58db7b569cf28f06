package model

import "context"

type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

// Valid は既知のロールかどうか
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// Identity は認証プロバイダ(IdP)が検証済みの利用者情報です。
// UserID はIdPが発行する不透明な文字列で、こちらでは解釈しません。
type Identity struct {
	UserID string
	Role   Role
	Email  string // 任意。証明書発行メールの送信先
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type ContextKey string

const (
	IdentityKey ContextKey = "identity"
)

// ContextWithIdentity はコンテキストに Identity をセットします
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFromContext はコンテキストから Identity を取り出します
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}
