package service_test

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"go_5_course_hub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExamService_SubmitExam_Eligibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := testContext()
	f := env.seedCourse(t, 5, 10)
	student := model.Identity{UserID: "user-1", Role: model.RoleStudent}

	t.Run("異常系: 受講登録していない", func(t *testing.T) {
		_, err := env.exams.SubmitExam(ctx, student, &model.SubmitExamRequest{
			CourseID: f.course.CourseID,
			Answers:  answersFor(f.questions, 10),
		})
		requireAppError(t, err, "NOT_ENROLLED", model.ErrForbidden)
	})

	enrollment := env.enroll(t, "user-1", f.course.CourseID)
	env.completeLessons(t, "user-1", enrollment.EnrollmentID, f.lessons[:2])

	t.Run("異常系: 全レッスン未完了なら受験できない", func(t *testing.T) {
		_, err := env.exams.SubmitExam(ctx, student, &model.SubmitExamRequest{
			CourseID: f.course.CourseID,
			Answers:  answersFor(f.questions, 10),
		})
		appErr := requireAppError(t, err, "EXAM_NOT_ELIGIBLE", model.ErrForbidden)
		assert.EqualValues(t, 2, appErr.Details["completed"])
		assert.EqualValues(t, 5, appErr.Details["total"])

		n, err := env.resultRepo.CountByUserAndCourse(ctx, env.db, "user-1", f.course.CourseID)
		require.NoError(t, err)
		assert.Zero(t, n, "受験結果は保存されない")
	})
}

func TestExamService_SubmitExam_NoQuestions(t *testing.T) {
	env := newTestEnv(t)
	ctx := testContext()
	f := env.seedCourse(t, 1, 0)
	enrollment := env.enroll(t, "user-1", f.course.CourseID)
	env.completeLessons(t, "user-1", enrollment.EnrollmentID, f.lessons)

	_, err := env.exams.SubmitExam(ctx, model.Identity{UserID: "user-1"}, &model.SubmitExamRequest{CourseID: f.course.CourseID})
	requireAppError(t, err, "NO_EXAM_QUESTIONS", model.ErrNotFound)
}

func TestExamService_SubmitExam_CertificateLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := testContext()
	f := env.seedCourse(t, 3, 40)
	student := model.Identity{UserID: "user-1", Role: model.RoleStudent}
	enrollment := env.enroll(t, "user-1", f.course.CourseID)
	env.completeLessons(t, "user-1", enrollment.EnrollmentID, f.lessons)

	submit := func(correct int) *model.SubmitExamResponse {
		t.Helper()
		resp, err := env.exams.SubmitExam(ctx, student, &model.SubmitExamRequest{
			CourseID: f.course.CourseID,
			Answers:  answersFor(f.questions, correct),
		})
		require.NoError(t, err)
		return resp
	}
	loadCert := func() *model.Certificate {
		t.Helper()
		cert, err := env.certRepo.FindByUserAndCourse(ctx, env.db, "user-1", f.course.CourseID)
		require.NoError(t, err)
		return cert
	}
	countNotifications := func() int64 {
		t.Helper()
		var n int64
		require.NoError(t, env.db.Model(&model.Notification{}).Where("user_id = ?", "user-1").Count(&n).Error)
		return n
	}

	// 1回目: 34/40 = 850 で合格
	first := submit(34)
	assert.Equal(t, 850, first.Score)
	assert.True(t, first.Passed)
	assert.Equal(t, 1, first.AttemptNumber)
	assert.Equal(t, 34, first.CorrectAnswers)
	assert.Equal(t, 6, first.IncorrectAnswers)
	assert.Equal(t, 85.0, first.Percentage)
	assert.Equal(t, model.ExamPassScore, first.PassingScore)
	assert.True(t, first.CertificateAvailable)
	require.NotNil(t, first.CertificateID)
	assert.NotEmpty(t, first.CertificateNumber)

	issued := loadCert()
	assert.Equal(t, 850, issued.ExamScore)
	assert.Equal(t, *first.CertificateID, issued.CertificateID)
	assert.Equal(t, int64(1), countNotifications())

	completedEnrollment, err := env.enrollmentRepo.FindByID(ctx, env.db, enrollment.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, 100, completedEnrollment.Progress)
	require.NotNil(t, completedEnrollment.CompletedAt)

	// 2回目: 28/40 = 700 で不合格。証明書は変わらない
	second := submit(28)
	assert.Equal(t, 700, second.Score)
	assert.False(t, second.Passed)
	assert.Equal(t, 2, second.AttemptNumber)
	assert.False(t, second.CertificateAvailable)
	assert.Nil(t, second.CertificateID)

	unchanged := loadCert()
	assert.Equal(t, 850, unchanged.ExamScore)
	assert.True(t, issued.IssuedAt.Equal(unchanged.IssuedAt))
	assert.Equal(t, int64(1), countNotifications())

	// 3回目: 同点の合格では更新しない
	third := submit(34)
	assert.True(t, third.Passed)
	assert.Equal(t, issued.CertificateNumber, third.CertificateNumber)
	assert.True(t, issued.IssuedAt.Equal(loadCert().IssuedAt))
	assert.Equal(t, int64(1), countNotifications())

	// 4回目: 38/40 = 950 で証明書を更新
	fourth := submit(38)
	assert.Equal(t, 950, fourth.Score)
	assert.Equal(t, 4, fourth.AttemptNumber)

	upgraded := loadCert()
	assert.Equal(t, 950, upgraded.ExamScore)
	assert.Equal(t, issued.CertificateID, upgraded.CertificateID)
	assert.Equal(t, issued.CertificateNumber, upgraded.CertificateNumber, "番号は変わらない")
	assert.False(t, upgraded.IssuedAt.Before(issued.IssuedAt))
	assert.Equal(t, int64(2), countNotifications())

	again, err := env.enrollmentRepo.FindByID(ctx, env.db, enrollment.EnrollmentID)
	require.NoError(t, err)
	assert.True(t, completedEnrollment.CompletedAt.Equal(*again.CompletedAt), "completedAt は上書きしない")

	t.Run("正常系: 受験履歴とベスト", func(t *testing.T) {
		history, err := env.exams.ListResults(ctx, "user-1", f.course.CourseID)
		require.NoError(t, err)
		assert.Equal(t, 4, history.Attempts)
		require.Len(t, history.Results, 4)
		assert.Equal(t, 4, history.Results[0].AttemptNumber, "新しい順")
		require.NotNil(t, history.Best)
		assert.Equal(t, 950, history.Best.Score)
		assert.Len(t, history.Results[0].Answers, 40)
	})

	t.Run("正常系: 証明書の取得にはベスト結果が付く", func(t *testing.T) {
		got, err := env.certificates.GetCertificate(ctx, student, "user-1", f.course.CourseID)
		require.NoError(t, err)
		assert.Equal(t, 950, got.Certificate.ExamScore)
		require.NotNil(t, got.BestResult)
		assert.Equal(t, 4, got.BestResult.AttemptNumber)
	})
}

func TestExamService_SubmitExam_CertificateMail(t *testing.T) {
	env := newTestEnv(t)
	ctx := testContext()
	f := env.seedCourse(t, 1, 5)
	student := model.Identity{UserID: "user-1", Role: model.RoleStudent, Email: "student@example.com"}
	enrollment := env.enroll(t, "user-1", f.course.CourseID)
	env.completeLessons(t, "user-1", enrollment.EnrollmentID, f.lessons)

	t.Run("正常系: 合格時に証明書メールを送る", func(t *testing.T) {
		env.mailer.On("Send", mock.Anything, "student@example.com",
			mock.MatchedBy(func(subject string) bool { return subject == "修了証明書: "+f.course.Title }),
			mock.Anything,
		).Return(nil).Once()

		resp, err := env.exams.SubmitExam(ctx, student, &model.SubmitExamRequest{
			CourseID: f.course.CourseID,
			Answers:  answersFor(f.questions, 4),
		})
		require.NoError(t, err)
		assert.Equal(t, 800, resp.Score)
	})

	t.Run("正常系: メール送信に失敗しても受験は成功する", func(t *testing.T) {
		env.mailer.On("Send", mock.Anything, "student@example.com", mock.Anything, mock.Anything).
			Return(errors.New("ses: throttled")).Once()

		resp, err := env.exams.SubmitExam(ctx, student, &model.SubmitExamRequest{
			CourseID: f.course.CourseID,
			Answers:  answersFor(f.questions, 5),
		})
		require.NoError(t, err)
		assert.Equal(t, 1000, resp.Score)

		cert, err := env.certRepo.FindByUserAndCourse(ctx, env.db, "user-1", f.course.CourseID)
		require.NoError(t, err)
		assert.Equal(t, 1000, cert.ExamScore)
	})

	t.Run("正常系: 証明書が変わらなければ送らない", func(t *testing.T) {
		_, err := env.exams.SubmitExam(ctx, student, &model.SubmitExamRequest{
			CourseID: f.course.CourseID,
			Answers:  answersFor(f.questions, 5),
		})
		require.NoError(t, err)
		env.mailer.AssertNumberOfCalls(t, "Send", 2)
	})
}

func TestExamService_ListQuestions(t *testing.T) {
	env := newTestEnv(t)
	ctx := testContext()
	f := env.seedCourse(t, 1, 3)

	_, err := env.exams.ListQuestions(ctx, "user-1", f.course.CourseID)
	requireAppError(t, err, "NOT_ENROLLED", model.ErrForbidden)

	env.enroll(t, "user-1", f.course.CourseID)
	got, err := env.exams.ListQuestions(ctx, "user-1", f.course.CourseID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, q := range got {
		assert.Equal(t, f.questions[i].QuestionID, q.QuestionID)
		assert.Equal(t, []string{"A", "B", "C"}, q.Options)
	}
}

func TestExamService_SubmitExam_ConcurrentAttemptsGetDistinctNumbers(t *testing.T) {
	env := newTestEnv(t)
	ctx := testContext()
	f := env.seedCourse(t, 1, 5)
	enrollment := env.enroll(t, "user-1", f.course.CourseID)
	env.completeLessons(t, "user-1", enrollment.EnrollmentID, f.lessons)
	student := model.Identity{UserID: "user-1", Role: model.RoleStudent}

	const submissions = 4
	var wg sync.WaitGroup
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.exams.SubmitExam(ctx, student, &model.SubmitExamRequest{
				CourseID: f.course.CourseID,
				Answers:  answersFor(f.questions, 1),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	results, err := env.resultRepo.ListByUserAndCourse(ctx, env.db, "user-1", f.course.CourseID)
	require.NoError(t, err)
	require.Len(t, results, submissions)

	attempts := make([]int, 0, len(results))
	for _, r := range results {
		attempts = append(attempts, r.AttemptNumber)
	}
	sort.Ints(attempts)
	assert.Equal(t, []int{1, 2, 3, 4}, attempts)
}
