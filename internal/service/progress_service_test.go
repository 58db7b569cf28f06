package service_test

import (
	"sync"
	"testing"

	"go_5_course_hub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressService_RecordProgress_CourseProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := testContext()
	f := env.seedCourse(t, 5, 0)
	draftLesson := env.addLesson(t, f.course.CourseID, 99, false)
	enrollment := env.enroll(t, "user-1", f.course.CourseID)

	wantProgress := []int{20, 40, 60, 80, 100}
	for i, lesson := range f.lessons {
		resp, err := env.progress.RecordProgress(ctx, "user-1", enrollment.EnrollmentID, &model.UpdateProgressRequest{
			LessonID:      lesson.LessonID,
			WatchProgress: intPtr(100),
			IsCompleted:   boolPtr(true),
			TimeSpent:     intPtr(60),
		})
		require.NoError(t, err)

		assert.Equal(t, wantProgress[i], resp.Enrollment.Progress, "lesson %d", i+1)
		assert.True(t, resp.LessonProgress.IsCompleted)
		require.NotNil(t, resp.Enrollment.CurrentLessonID)

		// 保存値は完了数から再計算した値と一致する
		completed, err := env.progressRepo.CountCompletedPublished(ctx, env.db, enrollment.EnrollmentID, f.course.CourseID)
		require.NoError(t, err)
		total, err := env.lessonRepo.CountPublished(ctx, env.db, f.course.CourseID)
		require.NoError(t, err)
		assert.Equal(t, int((200*completed+total)/(2*total)), resp.Enrollment.Progress)

		if i < len(f.lessons)-1 {
			assert.Equal(t, f.lessons[i+1].LessonID, *resp.Enrollment.CurrentLessonID, "次の未完了レッスンに進む")
			assert.Nil(t, resp.Enrollment.CompletedAt)
		} else {
			assert.Equal(t, lesson.LessonID, *resp.Enrollment.CurrentLessonID, "全完了後は最後に完了したレッスン")
			assert.NotNil(t, resp.Enrollment.CompletedAt)
		}
	}

	t.Run("正常系: completedAt は一度だけセットされる", func(t *testing.T) {
		before, err := env.enrollmentRepo.FindByID(ctx, env.db, enrollment.EnrollmentID)
		require.NoError(t, err)
		require.NotNil(t, before.CompletedAt)

		resp, err := env.progress.RecordProgress(ctx, "user-1", enrollment.EnrollmentID, &model.UpdateProgressRequest{
			LessonID:  f.lessons[0].LessonID,
			TimeSpent: intPtr(30),
		})
		require.NoError(t, err)
		require.NotNil(t, resp.Enrollment.CompletedAt)
		assert.True(t, before.CompletedAt.Equal(*resp.Enrollment.CompletedAt))
		assert.Equal(t, 100, resp.Enrollment.Progress)
	})

	t.Run("正常系: 非公開レッスンも記録されるが進捗率には含まれない", func(t *testing.T) {
		resp, err := env.progress.RecordProgress(ctx, "user-1", enrollment.EnrollmentID, &model.UpdateProgressRequest{
			LessonID:    draftLesson.LessonID,
			IsCompleted: boolPtr(true),
		})
		require.NoError(t, err)
		assert.True(t, resp.LessonProgress.IsCompleted)
		assert.Equal(t, draftLesson.LessonID, resp.LessonProgress.LessonID)
		assert.Equal(t, 100, resp.Enrollment.Progress)
		require.NotNil(t, resp.Enrollment.CurrentLessonID)
		assert.Equal(t, f.lessons[4].LessonID, *resp.Enrollment.CurrentLessonID, "現在のレッスンは公開レッスンのまま")
	})

	t.Run("異常系: 他のコースのレッスンは LESSON_NOT_FOUND", func(t *testing.T) {
		other := env.seedCourse(t, 1, 0)
		_, err := env.progress.RecordProgress(ctx, "user-1", enrollment.EnrollmentID, &model.UpdateProgressRequest{
			LessonID:    other.lessons[0].LessonID,
			IsCompleted: boolPtr(true),
		})
		requireAppError(t, err, "LESSON_NOT_FOUND", model.ErrNotFound)
	})
}

func TestProgressService_RecordProgress_LessonFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := testContext()
	f := env.seedCourse(t, 2, 0)
	enrollment := env.enroll(t, "user-1", f.course.CourseID)
	lessonID := f.lessons[0].LessonID

	record := func(req *model.UpdateProgressRequest) *model.ProgressUpdateResponse {
		t.Helper()
		req.LessonID = lessonID
		resp, err := env.progress.RecordProgress(ctx, "user-1", enrollment.EnrollmentID, req)
		require.NoError(t, err)
		return resp
	}

	first := record(&model.UpdateProgressRequest{WatchProgress: intPtr(40), TimeSpent: intPtr(120)})
	assert.Equal(t, 40, first.LessonProgress.WatchProgress)
	assert.Equal(t, 120, first.LessonProgress.TimeSpent)
	assert.False(t, first.LessonProgress.IsCompleted)
	assert.Equal(t, 0, first.Enrollment.Progress)
	assert.Nil(t, first.Enrollment.CurrentLessonID, "未完了の更新では現在のレッスンは変わらない")

	second := record(&model.UpdateProgressRequest{WatchProgress: intPtr(10), IsCompleted: boolPtr(true), TimeSpent: intPtr(30)})
	assert.Equal(t, 10, second.LessonProgress.WatchProgress, "視聴率は置き換え")
	assert.Equal(t, 150, second.LessonProgress.TimeSpent, "学習時間は加算")
	assert.True(t, second.LessonProgress.IsCompleted)
	assert.Equal(t, 50, second.Enrollment.Progress)

	third := record(&model.UpdateProgressRequest{IsCompleted: boolPtr(false)})
	assert.True(t, third.LessonProgress.IsCompleted, "完了は取り消されない")
	assert.Equal(t, 10, third.LessonProgress.WatchProgress, "省略したフィールドは変わらない")
	assert.Equal(t, 150, third.LessonProgress.TimeSpent)
	assert.Equal(t, 50, third.Enrollment.Progress)

	rows, err := env.progressRepo.ListByEnrollment(ctx, env.db, enrollment.EnrollmentID)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "(enrollment, lesson) ごとに1行")
}

func TestProgressService_RecordProgress_Access(t *testing.T) {
	env := newTestEnv(t)
	ctx := testContext()
	f := env.seedCourse(t, 1, 0)
	enrollment := env.enroll(t, "user-1", f.course.CourseID)

	tests := []struct {
		name         string
		userID       string
		enrollmentID uuid.UUID
		wantCode     string
		wantErr      error
	}{
		{"異常系: 他人の受講登録", "user-2", enrollment.EnrollmentID, "FORBIDDEN", model.ErrForbidden},
		{"異常系: 存在しない受講登録", "user-1", uuid.New(), "ENROLLMENT_NOT_FOUND", model.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.progress.RecordProgress(ctx, tt.userID, tt.enrollmentID, &model.UpdateProgressRequest{
				LessonID:    f.lessons[0].LessonID,
				IsCompleted: boolPtr(true),
			})
			requireAppError(t, err, tt.wantCode, tt.wantErr)
		})
	}

	got, err := env.enrollmentRepo.FindByID(ctx, env.db, enrollment.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Progress)
}

// 同じ受講登録への同時更新は受講登録の行ロックで直列化され、
// 後からコミットした更新は先に完了したレッスンも数える。進捗の更新は失われない。
func TestProgressService_RecordProgress_ConcurrentCompletions(t *testing.T) {
	env := newTestEnv(t)
	ctx := testContext()
	f := env.seedCourse(t, 4, 0)
	enrollment := env.enroll(t, "user-1", f.course.CourseID)

	var wg sync.WaitGroup
	for _, lesson := range f.lessons {
		wg.Add(1)
		go func(lessonID uuid.UUID) {
			defer wg.Done()
			_, err := env.progress.RecordProgress(ctx, "user-1", enrollment.EnrollmentID, &model.UpdateProgressRequest{
				LessonID:    lessonID,
				IsCompleted: boolPtr(true),
			})
			assert.NoError(t, err)
		}(lesson.LessonID)
	}
	wg.Wait()

	got, err := env.enrollmentRepo.FindByID(ctx, env.db, enrollment.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress, "全レッスンの完了が反映される")
	assert.NotNil(t, got.CompletedAt)

	completed, err := env.progressRepo.CountCompletedPublished(ctx, env.db, enrollment.EnrollmentID, f.course.CourseID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), completed)
}
