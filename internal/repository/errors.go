package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"go_5_course_hub/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgConnectionException  = "08" // クラス
)

// IsDuplicate は一意制約違反かどうか
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	// TranslateError を設定していない接続 (SQLite) 向け
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translateWriteError は一意制約違反を model.ErrConflict でもラップします。
func translateWriteError(op string, err error) error {
	if IsDuplicate(err) {
		return fmt.Errorf("%s: %w: %w", op, model.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsTransient は再試行すれば成功しうるエラーかどうかを判定します。
// AppError (業務エラー) とコンテキストのキャンセルは常に false。
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, pgConnectionException),
			pgErr.Code == pgSerializationFailure,
			pgErr.Code == pgDeadlockDetected:
			return true
		}
		return false
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
