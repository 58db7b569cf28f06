package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go_5_course_hub/internal/middleware"
	"go_5_course_hub/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "course-hub:questions:"

// Source はキャッシュミス時に問題を読み込む先 (DB)
type Source interface {
	Questions(ctx context.Context, courseID uuid.UUID) ([]model.ExamQuestion, error)
}

// QuestionCache はコースの問題バンクを Redis に JSON で保持する read-through キャッシュです。
// エントリのキーにはコースごとの世代番号を含め、Invalidate は世代を進める。
// 無効化前に始まった読み込みは古い世代のキーにしか書けない。
// 同じコース・世代への同時ミスは singleflight で1回の読み込みにまとめる。
// Redis が使えない間は Source から直接読む。
type QuestionCache struct {
	client redis.UniversalClient
	source Source
	ttl    time.Duration
	sf     singleflight.Group
}

func NewQuestionCache(client redis.UniversalClient, source Source, ttl time.Duration) *QuestionCache {
	return &QuestionCache{client: client, source: source, ttl: ttl}
}

func key(courseID uuid.UUID, gen int64) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, courseID.String(), gen)
}

// genKey は失効させない。消えると古い世代のエントリが再び読まれうる。
func genKey(courseID uuid.UUID) string {
	return keyPrefix + "gen:" + courseID.String()
}

func (c *QuestionCache) generation(ctx context.Context, courseID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, genKey(courseID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *QuestionCache) Questions(ctx context.Context, courseID uuid.UUID) ([]model.ExamQuestion, error) {
	gen, err := c.generation(ctx, courseID)
	if err != nil {
		middleware.GetLogger(ctx).Warn("Question cache read failed", "error", err, "course_id", courseID.String())
		return c.source.Questions(ctx, courseID)
	}
	k := key(courseID, gen)

	if qs, ok := c.get(ctx, k); ok {
		return qs, nil
	}

	v, err, _ := c.sf.Do(k, func() (interface{}, error) {
		// 他の呼び出しが埋めたかもしれないので再確認
		if qs, ok := c.get(ctx, k); ok {
			return qs, nil
		}
		qs, err := c.source.Questions(ctx, courseID)
		if err != nil {
			return nil, err
		}
		c.set(ctx, k, qs)
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.ExamQuestion), nil
}

// Invalidate は問題の追加・変更後に呼ぶ。世代を進め、直前の世代のエントリを消す。
func (c *QuestionCache) Invalidate(ctx context.Context, courseID uuid.UUID) error {
	gen, err := c.client.Incr(ctx, genKey(courseID)).Result()
	if err != nil {
		return fmt.Errorf("QuestionCache.Invalidate: %w", err)
	}
	if err := c.client.Del(ctx, key(courseID, gen-1)).Err(); err != nil {
		middleware.GetLogger(ctx).Warn("Question cache delete failed", "error", err, "course_id", courseID.String())
	}
	return nil
}

func (c *QuestionCache) get(ctx context.Context, k string) ([]model.ExamQuestion, bool) {
	raw, err := c.client.Get(ctx, k).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			middleware.GetLogger(ctx).Warn("Question cache read failed", "error", err, "key", k)
		}
		return nil, false
	}
	var qs []model.ExamQuestion
	if err := json.Unmarshal(raw, &qs); err != nil {
		middleware.GetLogger(ctx).Warn("Question cache entry is corrupt", "error", err, "key", k)
		return nil, false
	}
	return qs, true
}

func (c *QuestionCache) set(ctx context.Context, k string, qs []model.ExamQuestion) {
	// 空のバンクはキャッシュしない
	if len(qs) == 0 {
		return
	}
	raw, err := json.Marshal(qs)
	if err != nil {
		middleware.GetLogger(ctx).Warn("Question cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, k, raw, c.ttlWithJitter()).Err(); err != nil {
		middleware.GetLogger(ctx).Warn("Question cache write failed", "error", err, "key", k)
	}
}

// ttlWithJitter は最大10%のジッターを加えて一斉失効を避ける
func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int64N(jitterMax+1))
}

// NewClient は設定から Redis クライアントを作り、疎通を確認します。
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache.NewClient: %w", err)
	}
	return client, nil
}
