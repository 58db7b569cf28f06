package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"go_5_course_hub/internal/config"
	"go_5_course_hub/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetrier(maxRetries uint64) *Retrier {
	return NewRetrier(config.RetryConfig{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		Multiplier:      2,
	})
}

func TestRetrier_Do(t *testing.T) {
	testCases := []struct {
		name          string
		errs          []error // 呼び出しごとに返すエラー。尽きたら nil
		expectedCalls int
		expectedErr   error
	}{
		{
			name:          "正常系: 1回目で成功",
			errs:          nil,
			expectedCalls: 1,
		},
		{
			name:          "正常系: 一時的なエラーの後に成功",
			errs:          []error{driver.ErrBadConn, &pgconn.PgError{Code: "40001"}},
			expectedCalls: 3,
		},
		{
			name:          "異常系: 一時的なエラーが続くと503",
			errs:          []error{driver.ErrBadConn, driver.ErrBadConn, driver.ErrBadConn, driver.ErrBadConn, driver.ErrBadConn},
			expectedCalls: 4, // 初回 + 3回
			expectedErr:   model.ErrServiceUnavailable,
		},
		{
			name:          "異常系: 恒久的なエラーは再試行しない",
			errs:          []error{errors.New("syntax error")},
			expectedCalls: 1,
		},
		{
			name:          "異常系: 業務エラーは再試行しない",
			errs:          []error{model.NewAppError("NOT_FOUND", "x", "", model.ErrNotFound)},
			expectedCalls: 1,
			expectedErr:   model.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := fastRetrier(3).Do(context.Background(), func(ctx context.Context) error {
				calls++
				if calls <= len(tc.errs) {
					return tc.errs[calls-1]
				}
				return nil
			})

			assert.Equal(t, tc.expectedCalls, calls)
			switch {
			case tc.expectedErr != nil:
				assert.ErrorIs(t, err, tc.expectedErr)
			case calls <= len(tc.errs):
				assert.Equal(t, tc.errs[calls-1], err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetrier_Exhausted(t *testing.T) {
	err := fastRetrier(3).Do(context.Background(), func(ctx context.Context) error {
		return driver.ErrBadConn
	})

	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SERVICE_UNAVAILABLE", appErr.Code)
	assert.Equal(t, 4, appErr.Details["attempts"])
	assert.ErrorIs(t, err, driver.ErrBadConn)
}

func TestRetrier_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRetrier(config.RetryConfig{MaxRetries: 3, InitialInterval: time.Hour, Multiplier: 2})

	calls := 0
	err := r.Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return driver.ErrBadConn
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsTransient(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"接続断", driver.ErrBadConn, true},
		{"接続例外クラス08", &pgconn.PgError{Code: "08006"}, true},
		{"デッドロック", &pgconn.PgError{Code: "40P01"}, true},
		{"一意制約違反", &pgconn.PgError{Code: "23505"}, false},
		{"SQLiteのロック", errors.New("database is locked"), true},
		{"キャンセル", context.Canceled, false},
		{"nil", nil, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTransient(tc.err))
		})
	}
}
