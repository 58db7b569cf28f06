package repository

import (
	"context"
	"fmt"
	"time"

	"go_5_course_hub/internal/config"
	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"

	"github.com/cenkalti/backoff/v4"
)

// Retrier は一時的なDBエラーの間だけ op を丸ごと再実行します。
// op は最初からやり直して安全なもの (トランザクション全体) でなければならない。
type Retrier struct {
	maxRetries      uint64
	initialInterval time.Duration
	multiplier      float64
}

func NewRetrier(cfg config.RetryConfig) *Retrier {
	r := &Retrier{
		maxRetries:      cfg.MaxRetries,
		initialInterval: cfg.InitialInterval,
		multiplier:      cfg.Multiplier,
	}
	if r.initialInterval <= 0 {
		r.initialInterval = config.DefaultRetryInitialInterval
	}
	if r.multiplier < 1 {
		r.multiplier = config.DefaultRetryMultiplier
	}
	return r
}

func (r *Retrier) newBackOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.Multiplier = r.multiplier
	b.RandomizationFactor = 0
	b.MaxInterval = r.initialInterval * time.Duration(1<<min(r.maxRetries, 16))
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, r.maxRetries), ctx)
}

// Do は op を実行します。一時的なエラーが続いて再試行回数を使い切った場合は
// SERVICE_UNAVAILABLE (503) を返し、それ以外のエラーはそのまま返します。
func (r *Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	logger := middleware.GetLogger(ctx)
	attempts := 0

	err := backoff.RetryNotify(func() error {
		attempts++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, r.newBackOff(ctx), func(err error, wait time.Duration) {
		logger.Warn("Transient database error, retrying",
			"attempt", attempts,
			"wait", wait,
			"error", err,
		)
	})
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if IsTransient(err) {
		logger.Error("Database operation failed after retries", "attempts", attempts, "error", err)
		return model.NewAppError(
			"SERVICE_UNAVAILABLE",
			"データベースが一時的に利用できません。しばらくしてから再度お試しください。",
			"",
			fmt.Errorf("%w: %d attempts: %w", model.ErrServiceUnavailable, attempts, err),
		).WithDetails(map[string]any{"attempts": attempts})
	}
	return err
}
