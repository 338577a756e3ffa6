package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"review-dashboard/internal/config"
	"review-dashboard/internal/domain"
	"review-dashboard/internal/handler"
	"review-dashboard/internal/metrics"
	"review-dashboard/internal/mocks"
	"review-dashboard/internal/provider"
	"review-dashboard/internal/usecase"
	"review-dashboard/internal/view"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const bot = "coderabbitai[bot]"

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testSettings() config.Dashboard {
	return config.Dashboard{
		RepoOwner:       "roopxx",
		RepoName:        "pr-agent-test",
		BotUsername:     bot,
		CostPerUser:     10,
		MonthLabels:     config.DefaultMonthLabels,
		RefreshInterval: 5 * time.Minute,
	}
}

type server struct {
	echo     *echo.Echo
	view     *view.Memory
	registry *prometheus.Registry
}

// newServer собирает echo с реальным рендерером поверх view.Memory.
func newServer(t *testing.T, uc domain.DashboardUseCase, memory *view.Memory, stats *handler.StatsHandler) *server {
	t.Helper()
	logger := testLogger()

	page, err := view.NewPage("roopxx", "pr-agent-test", time.Minute)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTP(reg)

	e := echo.New()
	e.Use(handler.MetricsMiddleware(httpMetrics))
	e.Use(handler.LoggingMiddleware(logger))

	dashboard := handler.NewDashboardHandler(uc, memory, page, 30*time.Second, logger)
	handler.RegisterHandlers(e, handler.NewAPIHandler(dashboard, stats), reg)

	return &server{echo: e, view: memory, registry: reg}
}

func newRenderedServer(t *testing.T, p domain.MetricsProvider) *server {
	t.Helper()
	memory := view.NewMemory(view.DefaultLayout())
	uc := usecase.NewDashboardUseCase(testSettings(), memory, p, &mocks.Scheduler{}, testLogger())
	stats := handler.NewStatsHandler(p, nil, len(config.DefaultMonthLabels), testLogger())
	return newServer(t, uc, memory, stats)
}

func (s *server) do(method, target string, body []byte) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestPostRefresh_Success(t *testing.T) {
	srv := newRenderedServer(t, provider.NewMock(bot))

	rec := srv.do(http.MethodPost, "/api/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "237", resp.TotalReviews)
	assert.Equal(t, "42", resp.MonthlyReviews)
	assert.Equal(t, "$150", resp.CostSavings)
	assert.Equal(t, "4.2", resp.AvgTime)
	assert.Equal(t, usecase.TrendUpClass, resp.MonthlyTrend.Class)
	assert.Len(t, resp.RecentReviews, 5)
	assert.Contains(t, resp.Charts, string(domain.MountReviewsChart))
	assert.Contains(t, resp.Charts, string(domain.MountOutcomesChart))
	assert.Equal(t, domain.BannerSuccess, resp.Banner.State)
}

func TestPostRefresh_ProviderFailureKeepsWidgets(t *testing.T) {
	p := &mocks.MetricsProvider{}
	sample := provider.SampleSnapshot(bot)
	p.On("FetchSnapshot", mock.Anything).Return(&sample, nil).Once()
	p.On("FetchSnapshot", mock.Anything).Return(nil, domain.NewProviderError("API error: 500", nil)).Once()

	srv := newRenderedServer(t, p)
	require.Equal(t, http.StatusOK, srv.do(http.MethodPost, "/api/refresh", nil).Code)

	rec := srv.do(http.MethodPost, "/api/refresh", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp struct {
		Error     domain.HTTPError          `json:"error"`
		Dashboard handler.DashboardResponse `json:"dashboard"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "REFRESH_FAILED", resp.Error.Code)
	assert.Equal(t, "API error: 500", resp.Error.Message)
	assert.Equal(t, "237", resp.Dashboard.TotalReviews)
	assert.Equal(t, domain.BannerError, resp.Dashboard.Banner.State)
	assert.Equal(t, "Failed to load data. API error: 500", resp.Dashboard.Banner.Message)
	p.AssertExpectations(t)
}

func TestPostRefresh_InProgress(t *testing.T) {
	uc := &mocks.DashboardUseCase{}
	uc.On("Refresh", mock.Anything).Return(domain.ErrRefreshInProgress)

	srv := newServer(t, uc, view.NewMemory(view.DefaultLayout()), nil)

	rec := srv.do(http.MethodPost, "/api/refresh", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "REFRESH_IN_PROGRESS", resp.Error.Code)
	uc.AssertExpectations(t)
}

func TestGetState_BeforeFirstRefresh(t *testing.T) {
	srv := newRenderedServer(t, provider.NewMock(bot))

	rec := srv.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.TotalReviews)
	assert.Empty(t, resp.RecentReviews)
	assert.Equal(t, domain.BannerIdle, resp.Banner.State)
	assert.Equal(t, int64(0), resp.Version)
}

func TestGetPage_RendersWidgets(t *testing.T) {
	srv := newRenderedServer(t, provider.NewMock(bot))
	require.Equal(t, http.StatusOK, srv.do(http.MethodPost, "/api/refresh", nil).Code)

	rec := srv.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML))

	body := rec.Body.String()
	assert.Contains(t, body, "Review Dashboard: roopxx/pr-agent-test")
	assert.Contains(t, body, "https://github.com/roopxx/pr-agent-test/pull/123")
	assert.Contains(t, body, "Add new feature")
	assert.Contains(t, body, "$150")
}

func TestGetDashboardStats(t *testing.T) {
	srv := newRenderedServer(t, provider.NewMock(bot))

	rec := srv.do(http.MethodGet, "/api/dashboard-stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot domain.MetricsSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, int64(237), snapshot.TotalReviews)
	assert.Len(t, snapshot.ReviewsByMonth, 7)
}

func TestGetDashboardStats_NotFound(t *testing.T) {
	p := &mocks.MetricsProvider{}
	p.On("FetchSnapshot", mock.Anything).
		Return(nil, domain.NewProviderError("no snapshot", domain.ErrSnapshotNotFound))

	srv := newRenderedServer(t, p)

	rec := srv.do(http.MethodGet, "/api/dashboard-stats", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestPostDashboardStats_NotRegisteredWithoutRepository(t *testing.T) {
	srv := newRenderedServer(t, provider.NewMock(bot))

	body, err := json.Marshal(provider.SampleSnapshot(bot))
	require.NoError(t, err)

	rec := srv.do(http.MethodPost, "/api/dashboard-stats", body)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPostDashboardStats_Publish(t *testing.T) {
	repo := &mocks.SnapshotRepository{}
	repo.On("Publish", mock.Anything, mock.AnythingOfType("*domain.MetricsSnapshot")).Return(int64(7), nil)

	memory := view.NewMemory(view.DefaultLayout())
	uc := usecase.NewDashboardUseCase(testSettings(), memory, repo, &mocks.Scheduler{}, testLogger())
	stats := handler.NewStatsHandler(repo, repo, len(config.DefaultMonthLabels), testLogger())
	srv := newServer(t, uc, memory, stats)

	body, err := json.Marshal(provider.SampleSnapshot(bot))
	require.NoError(t, err)

	rec := srv.do(http.MethodPost, "/api/dashboard-stats", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp["snapshot_id"])
	repo.AssertExpectations(t)
}

func TestPostDashboardStats_RejectsInvalid(t *testing.T) {
	repo := &mocks.SnapshotRepository{}

	memory := view.NewMemory(view.DefaultLayout())
	uc := usecase.NewDashboardUseCase(testSettings(), memory, repo, &mocks.Scheduler{}, testLogger())
	stats := handler.NewStatsHandler(repo, repo, len(config.DefaultMonthLabels), testLogger())
	srv := newServer(t, uc, memory, stats)

	snapshot := provider.SampleSnapshot(bot)
	snapshot.ReviewsByMonth = snapshot.ReviewsByMonth[:3]
	body, err := json.Marshal(snapshot)
	require.NoError(t, err)

	rec := srv.do(http.MethodPost, "/api/dashboard-stats", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_SNAPSHOT", resp.Error.Code)
	repo.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestPostDashboardStats_RepositoryFailure(t *testing.T) {
	repo := &mocks.SnapshotRepository{}
	repo.On("Publish", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection reset"))

	memory := view.NewMemory(view.DefaultLayout())
	uc := usecase.NewDashboardUseCase(testSettings(), memory, repo, &mocks.Scheduler{}, testLogger())
	stats := handler.NewStatsHandler(repo, repo, len(config.DefaultMonthLabels), testLogger())
	srv := newServer(t, uc, memory, stats)

	body, err := json.Marshal(provider.SampleSnapshot(bot))
	require.NoError(t, err)

	rec := srv.do(http.MethodPost, "/api/dashboard-stats", body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newRenderedServer(t, provider.NewMock(bot))

	rec := srv.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = srv.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dashboard_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestStatsHandler_DirectCall(t *testing.T) {
	p := provider.NewMock(bot)
	h := handler.NewStatsHandler(p, nil, len(config.DefaultMonthLabels), testLogger())
	assert.False(t, h.CanPublish())

	e := echo.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard-stats", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	require.NoError(t, h.GetDashboardStats(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPostRefresh_DetachedFromClientCancel(t *testing.T) {
	uc := &mocks.DashboardUseCase{}
	uc.On("Refresh", mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return ctx.Err() == nil && hasDeadline
	})).Return(nil)

	srv := newServer(t, uc, view.NewMemory(view.DefaultLayout()), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestPostRefresh_CanceledClientKeepsSharedBanner(t *testing.T) {
	memory := view.NewMemory(view.DefaultLayout())
	uc := usecase.NewDashboardUseCase(testSettings(), memory, provider.NewMock(bot), &mocks.Scheduler{}, testLogger())
	srv := newServer(t, uc, memory, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	st := memory.State()
	assert.Equal(t, domain.BannerSuccess, st.Banner.State)
	assert.Equal(t, "237", st.Texts[domain.MountTotalReviews])
}
