package service

import (
	"testing"
	"time"

	"go_5_course_hub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func makeQuestions(n int) []model.ExamQuestion {
	qs := make([]model.ExamQuestion, n)
	for i := range qs {
		qs[i] = model.ExamQuestion{QuestionID: uuid.New(), Options: []string{"A", "B"}, CorrectAnswer: "A"}
	}
	return qs
}

func answerFirst(qs []model.ExamQuestion, correct int) []model.SubmittedAnswer {
	out := make([]model.SubmittedAnswer, 0, len(qs))
	for i, q := range qs {
		a := "B"
		if i < correct {
			a = "A"
		}
		out = append(out, model.SubmittedAnswer{QuestionID: q.QuestionID, Answer: a})
	}
	return out
}

func TestScoreExam(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		correct        int
		wantScore      int
		wantPassed     bool
		wantPercentage float64
	}{
		{name: "正常系: 全問正解", total: 10, correct: 10, wantScore: 1000, wantPassed: true, wantPercentage: 100},
		{name: "正常系: 34/40 は850点で合格", total: 40, correct: 34, wantScore: 850, wantPassed: true, wantPercentage: 85},
		{name: "境界値: 32/40 はちょうど800点で合格", total: 40, correct: 32, wantScore: 800, wantPassed: true, wantPercentage: 80},
		{name: "境界値: 800/1000 は合格", total: 1000, correct: 800, wantScore: 800, wantPassed: true, wantPercentage: 80},
		{name: "境界値: 799/1000 は不合格", total: 1000, correct: 799, wantScore: 799, wantPassed: false, wantPercentage: 79.9},
		{name: "正常系: 2/3 は四捨五入で667点", total: 3, correct: 2, wantScore: 667, wantPassed: false, wantPercentage: 66.67},
		{name: "正常系: 1/3 は333点", total: 3, correct: 1, wantScore: 333, wantPassed: false, wantPercentage: 33.33},
		{name: "正常系: 0問正解", total: 5, correct: 0, wantScore: 0, wantPassed: false, wantPercentage: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := makeQuestions(tt.total)
			got := ScoreExam(qs, answerFirst(qs, tt.correct))

			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, tt.correct, got.Correct)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantPassed, got.Passed)
			assert.InDelta(t, tt.wantPercentage, got.Percentage, 0.0001)
			assert.Len(t, got.Answers, tt.total)
		})
	}
}

func TestScoreExam_AnswerHandling(t *testing.T) {
	qs := makeQuestions(4)

	t.Run("正常系: 未回答は不正解として数える", func(t *testing.T) {
		got := ScoreExam(qs, []model.SubmittedAnswer{{QuestionID: qs[0].QuestionID, Answer: "A"}})
		assert.Equal(t, 1, got.Correct)
		assert.Equal(t, 4, got.Total)
		assert.Equal(t, 250, got.Score)
		assert.False(t, got.Answers[1].IsCorrect)
		assert.Equal(t, "", got.Answers[1].Answer)
	})

	t.Run("正常系: 重複回答は最初のものを採用", func(t *testing.T) {
		got := ScoreExam(qs, []model.SubmittedAnswer{
			{QuestionID: qs[0].QuestionID, Answer: "B"},
			{QuestionID: qs[0].QuestionID, Answer: "A"},
		})
		assert.Equal(t, 0, got.Correct)
		assert.Equal(t, "B", got.Answers[0].Answer)
	})

	t.Run("正常系: 問題バンクにない問題への回答は無視", func(t *testing.T) {
		answers := append(answerFirst(qs, 4), model.SubmittedAnswer{QuestionID: uuid.New(), Answer: "A"})
		got := ScoreExam(qs, answers)
		assert.Equal(t, 4, got.Correct)
		assert.Equal(t, 4, got.Total)
		assert.Len(t, got.Answers, 4)
	})

	t.Run("正常系: 大文字小文字と前後の空白は区別しない", func(t *testing.T) {
		local := []model.ExamQuestion{{QuestionID: uuid.New(), CorrectAnswer: "Goroutine"}}
		got := ScoreExam(local, []model.SubmittedAnswer{{QuestionID: local[0].QuestionID, Answer: "  goroutine "}})
		assert.Equal(t, 1, got.Correct)
	})

	t.Run("正常系: 同じ入力には同じ結果", func(t *testing.T) {
		answers := answerFirst(qs, 3)
		first := ScoreExam(qs, answers)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, ScoreExam(qs, answers))
		}
	})

	t.Run("異常系: 問題0件は0点で不合格", func(t *testing.T) {
		got := ScoreExam(nil, nil)
		assert.Equal(t, 0, got.Score)
		assert.False(t, got.Passed)
		assert.Equal(t, 0.0, got.Percentage)
	})
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name      string
		completed int64
		total     int64
		want      int
	}{
		{"正常系: 1/5", 1, 5, 20},
		{"正常系: 5/5", 5, 5, 100},
		{"正常系: 1/3 は切り捨て側", 1, 3, 33},
		{"正常系: 2/3 は切り上げ側", 2, 3, 67},
		{"境界値: 1/8 = 12.5 は13", 1, 8, 13},
		{"境界値: 公開レッスン0件", 0, 0, 0},
		{"境界値: 完了数が総数を超えても100", 6, 5, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, progressPercent(tt.completed, tt.total))
		})
	}
}

func TestBestResult(t *testing.T) {
	results := []model.ExamResult{
		{AttemptNumber: 4, Score: 900},
		{AttemptNumber: 3, Score: 700},
		{AttemptNumber: 2, Score: 900},
		{AttemptNumber: 1, Score: 850},
	}
	best := bestResult(results)
	if assert.NotNil(t, best) {
		assert.Equal(t, 900, best.Score)
		assert.Equal(t, 2, best.AttemptNumber, "同点なら先の受験")
	}
	assert.Nil(t, bestResult(nil))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Go Concurrency Basics", "go-concurrency-basics"},
		{"  REST & gRPC!! ", "rest-grpc"},
		{"Go 入門", "go"},
		{"日本語のみ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestNewCertificateNumber(t *testing.T) {
	n := newCertificateNumber(mustTime(t, "2026-01-17T10:00:00Z"))
	assert.Regexp(t, `^CH-20260117-[0-9A-F]{8}$`, n)
	assert.NotEqual(t, n, newCertificateNumber(mustTime(t, "2026-01-17T10:00:00Z")))
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}
