// helpers_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go_5_course_hub/internal/config"
	"go_5_course_hub/internal/handlers"
	"go_5_course_hub/internal/model"
	"go_5_course_hub/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAPI はモックサービスを差し込んだルーター一式
type testAPI struct {
	server *httptest.Server

	courses       *mocks.CourseService
	enrollments   *mocks.EnrollmentService
	progress      *mocks.ProgressService
	exams         *mocks.ExamService
	reviews       *mocks.ReviewService
	certificates  *mocks.CertificateService
	notifications *mocks.NotificationService

	healthErr error
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // ログ出力を抑制

	api := &testAPI{
		courses:       mocks.NewCourseService(t),
		enrollments:   mocks.NewEnrollmentService(t),
		progress:      mocks.NewProgressService(t),
		exams:         mocks.NewExamService(t),
		reviews:       mocks.NewReviewService(t),
		certificates:  mocks.NewCertificateService(t),
		notifications: mocks.NewNotificationService(t),
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Logger: logger,
		Auth:   config.AuthConfig{Enabled: false},

		Courses:       handlers.NewCourseHandler(api.courses, logger),
		Enrollments:   handlers.NewEnrollmentHandler(api.enrollments, logger),
		Progress:      handlers.NewProgressHandler(api.progress, logger),
		Exams:         handlers.NewExamHandler(api.exams, logger),
		Reviews:       handlers.NewReviewHandler(api.reviews, logger),
		Certificates:  handlers.NewCertificateHandler(api.certificates, logger),
		Notifications: handlers.NewNotificationHandler(api.notifications, logger),
		Health: handlers.NewHealthHandler(logger, map[string]handlers.HealthCheck{
			"db": func(ctx context.Context) error { return api.healthErr },
		}),
	})
	api.server = httptest.NewServer(router)
	t.Cleanup(api.server.Close)
	return api
}

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    interface{}
	UserID  string
	Role    model.Role
	Email   string
	Headers map[string]string
}

// sendRequest はHTTPリクエストを送信し、ステータスとボディを返します。
func (api *testAPI) sendRequest(t *testing.T, details httpRequestDetails) (int, []byte) {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		if strPayload, ok := details.Body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequest(details.Method, api.server.URL+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")

	if details.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if details.UserID != "" {
		req.Header.Set("X-User-ID", details.UserID)
	}
	if details.Role != "" {
		req.Header.Set("X-User-Role", string(details.Role))
	}
	if details.Email != "" {
		req.Header.Set("X-User-Email", details.Email)
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	resp, err := api.server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")
	return resp.StatusCode, respBodyBytes
}

// verifyErrorResponse はエラーレスポンスのコードを検証します。
func verifyErrorResponse(t *testing.T, body []byte, expectedCode string) model.ErrorDetail {
	t.Helper()
	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp), "error body: %s", string(body))
	assert.Equal(t, expectedCode, errResp.Error.Code)
	return errResp.Error
}

func decodeBody[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "body: %s", string(body))
	return v
}
