package httptransport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"userdir/internal/directory/handler"
	"userdir/internal/directory/metrics"
	"userdir/internal/directory/service"
	"userdir/internal/directory/source"
	"userdir/internal/directory/source/mocks"
	"userdir/internal/platform/health"
	"userdir/internal/platform/middleware"
	"userdir/pkg/testutil"
)

type RouterSuite struct {
	suite.Suite
	source *mocks.MockSource
	svc    *service.Service
	server *httptest.Server
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.source = mocks.NewMockSource(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()

	s.svc = service.New(s.source, logger,
		service.WithMetrics(metrics.NewWithRegisterer(reg)),
		service.WithClock(func() time.Time { return testutil.FixedNow }),
	)
	healthHandler := health.New("test")
	healthHandler.RegisterCheck("directory", s.svc.Health)

	router := NewRouter(RouterConfig{
		Logger:         logger,
		RequestTimeout: 5 * time.Second,
		Metrics:        middleware.NewMetrics(reg),
		Gatherer:       reg,
	}, healthHandler, handler.New(s.svc, logger))

	s.server = httptest.NewServer(router)
	s.T().Cleanup(s.server.Close)
}

func (s *RouterSuite) get(path string) (*http.Response, string) {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, string(body)
}

func (s *RouterSuite) TestLoadingThenLoaded() {
	resp, body := s.get("/")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Loading...")
	s.NotEmpty(resp.Header.Get("X-Request-ID"))

	resp, _ = s.get("/health/ready")
	s.Equal(http.StatusServiceUnavailable, resp.StatusCode)

	s.source.EXPECT().Fetch(gomock.Any(), service.DefaultBatchSize).Return(testutil.SampleRecords(50), nil)
	s.Require().NoError(s.svc.Load(context.Background()))

	resp, body = s.get("/")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotContains(body, "Loading...")
	s.Contains(body, "Showing 50 of 50 users")

	resp, _ = s.get("/health/ready")
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RouterSuite) TestCombinedFilterOverAPI() {
	s.source.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(testutil.SampleRecords(50), nil)
	s.Require().NoError(s.svc.Load(context.Background()))

	resp, body := s.get("/api/users?q=john&start=1990-01-01&end=1999-12-31&nationality=US")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var res handler.ListUsersResponse
	s.Require().NoError(json.Unmarshal([]byte(body), &res))
	s.Equal(50, res.Total)
	s.Require().NotEmpty(res.Users)
	for _, u := range res.Users {
		s.Equal("US", u.Nationality)
		s.GreaterOrEqual(u.DateOfBirth, "1990-01-01")
		s.LessOrEqual(u.DateOfBirth, "1999-12-31")
	}
}

func (s *RouterSuite) TestMetricsEndpoint() {
	s.source.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(testutil.SampleRecords(3), nil)
	s.Require().NoError(s.svc.Load(context.Background()))
	s.get("/api/users")

	resp, body := s.get("/metrics")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "userdir_directory_records 3")
	s.Contains(body, `userdir_http_requests_total{endpoint="GET /api/users",status="2xx"} 1`)
}

func (s *RouterSuite) TestInvalidFilterOverAPI() {
	resp, body := s.get("/api/users?start=yesterday")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(body, "validation_error")
}

func (s *RouterSuite) TestFailedLoadReportsDegradedReadiness() {
	failure := source.NewLoadFailure(source.FailureRateLimited, "randomuser", "too many requests", nil)
	s.source.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, failure)
	s.Require().Error(s.svc.Load(context.Background()))

	resp, body := s.get("/health/ready")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var ready health.ReadinessResponse
	s.Require().NoError(json.Unmarshal([]byte(body), &ready))
	s.Equal("degraded", ready.Status)
	s.Equal(health.StateDegraded, ready.Checks["directory"].State)
	s.Equal("failed", ready.Checks["directory"].Phase)
	s.Equal("load failed: rate_limited", ready.Checks["directory"].Detail)

	_, body = s.get("/api/status")
	s.Contains(body, `"load_error_code":"unavailable"`)
}
