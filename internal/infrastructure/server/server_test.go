package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timesheet/core/internal/domain/entities"
	"github.com/timesheet/core/internal/infrastructure/config"
	"github.com/timesheet/core/internal/infrastructure/logger"
	"github.com/timesheet/core/internal/ports"
)

type stubAuth struct {
	user  *entities.User
	token string
}

func (s *stubAuth) Login(ctx context.Context, req ports.LoginRequest) (*ports.AuthResponse, error) {
	return nil, entities.ErrInvalidCredentials
}

func (s *stubAuth) RefreshToken(ctx context.Context, refreshToken string) (*ports.AuthResponse, error) {
	return nil, entities.ErrRefreshTokenInvalid
}

func (s *stubAuth) Logout(ctx context.Context, claims *ports.Claims) error { return nil }

func (s *stubAuth) ValidateToken(tokenString string) (*ports.Claims, error) {
	if tokenString != s.token {
		return nil, errors.New("invalid token")
	}
	return &ports.Claims{TokenID: "jti", UserID: s.user.ID, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *stubAuth) SessionSource(tokenString string) ports.SessionSource {
	if tokenString != "" && tokenString == s.token {
		return fixedSource{user: s.user}
	}
	return fixedSource{}
}

type fixedSource struct {
	user *entities.User
}

func (f fixedSource) Watch(ctx context.Context, fn func(user *entities.User)) func() {
	fn(f.user)
	return func() {}
}

type stubRecords struct{}

func (stubRecords) CreateRecord(ctx context.Context, user *entities.User, record *entities.TimeRecord) (*entities.TimeRecord, error) {
	record.ID = uuid.New()
	return record, nil
}

func (stubRecords) UpdateRecord(ctx context.Context, user *entities.User, id uuid.UUID, record *entities.TimeRecord) (*entities.TimeRecord, error) {
	return nil, entities.ErrRecordNotFound
}

func (stubRecords) ListRecords(ctx context.Context, user *entities.User) ([]*entities.TimeRecord, error) {
	return nil, nil
}

func (stubRecords) GetRecord(ctx context.Context, user *entities.User, id uuid.UUID) (*entities.TimeRecord, error) {
	return nil, entities.ErrRecordNotFound
}

func (stubRecords) DeleteRecord(ctx context.Context, user *entities.User, id uuid.UUID) error {
	return nil
}

func (stubRecords) Summary(ctx context.Context, user *entities.User, dateRange *entities.DateRange) (*ports.RecordSummary, error) {
	return &ports.RecordSummary{}, nil
}

type stubReferences struct{}

func (stubReferences) LoadReferenceData(ctx context.Context) (*entities.ReferenceData, error) {
	return &entities.ReferenceData{Projects: []entities.Project{{ID: "p1", Name: "Alpha"}}}, nil
}

func (stubReferences) ListProjects(ctx context.Context) ([]entities.Project, error) {
	return []entities.Project{{ID: "p1", Name: "Alpha"}}, nil
}

func (stubReferences) ListTasks(ctx context.Context) ([]entities.Task, error) {
	return nil, nil
}

type stubDatabase struct {
	err error
}

func (d stubDatabase) HealthCheck(ctx context.Context) error { return d.err }

func (d stubDatabase) GetConnectionInfo() map[string]interface{} {
	return map[string]interface{}{"open_connections": 1}
}

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "Timesheet", Version: "test"},
		Security: config.SecurityConfig{CORSAllowedOrigins: "*"},
		Metrics:  config.MetricsConfig{Enabled: true},
		Editor:   config.EditorConfig{MinuteStep: 15, BulkMinuteStep: 30},
	}
}

func newTestServer(t *testing.T, deps Dependencies) (*Server, *stubAuth) {
	t.Helper()
	auth := &stubAuth{user: &entities.User{ID: uuid.New(), Email: "ana@example.com", IsActive: true}, token: "good"}
	deps.AuthService = auth
	deps.RecordService = stubRecords{}
	deps.ReferenceService = stubReferences{}
	deps.Registry = prometheus.NewRegistry()
	return NewWithDependencies(testConfig(), deps, logger.NewNop()), auth
}

func serve(s *Server, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t, Dependencies{Database: stubDatabase{}})

	rec := serve(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, http.MethodGet, "/health/detailed", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"open_connections":1`)
}

func TestHealthReportsDatabaseFailure(t *testing.T) {
	s, _ := newTestServer(t, Dependencies{Database: stubDatabase{err: errors.New("down")}})

	rec := serve(s, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = serve(s, http.MethodGet, "/health/detailed", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthChecksRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s, _ := newTestServer(t, Dependencies{Cache: client})

	rec := serve(s, http.MethodGet, "/health/detailed", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":{"status":"ok"}`)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s, auth := newTestServer(t, Dependencies{})

	for _, target := range []string{"/api/v1/records", "/api/v1/projects", "/api/v1/records/summary"} {
		rec := serve(s, http.MethodGet, target, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.JSONEq(t, `{"message":"Please login first"}`, rec.Body.String())

		rec = serve(s, http.MethodGet, target, "wrong")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)

		rec = serve(s, http.MethodGet, target, auth.token)
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}

func TestRecordNotFoundIsJSON(t *testing.T) {
	s, auth := newTestServer(t, Dependencies{})

	rec := serve(s, http.MethodGet, "/api/v1/records/"+uuid.NewString(), auth.token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Time record not found"}`, rec.Body.String())
}

func TestSessionEndpoint(t *testing.T) {
	s, auth := newTestServer(t, Dependencies{})

	rec := serve(s, http.MethodGet, "/api/v1/session", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"anonymous"`)

	rec = serve(s, http.MethodGet, "/api/v1/session", auth.token)
	assert.Contains(t, rec.Body.String(), `"state":"authenticated"`)
}

func TestLoginFailureMessage(t *testing.T) {
	s, _ := newTestServer(t, Dependencies{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid email or password"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Dependencies{})

	serve(s, http.MethodGet, "/health", "")
	rec := serve(s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/health",status="200"} 1`)
}

func TestSwaggerDocument(t *testing.T) {
	s, _ := newTestServer(t, Dependencies{})

	rec := serve(s, http.MethodGet, "/docs/doc.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Timesheet API")
}

func TestRequestLogCarriesRequestID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.log")
	log, err := logger.New(config.LoggerConfig{Level: "info", Format: "json", Output: "file", Filename: path, MaxSizeMB: 1})
	require.NoError(t, err)

	s := NewWithDependencies(testConfig(), Dependencies{
		AuthService:      &stubAuth{},
		RecordService:    stubRecords{},
		ReferenceService: stubReferences{},
		Database:         stubDatabase{},
		Registry:         prometheus.NewRegistry(),
	}, log)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"request_id":"req-42"`)
	assert.Contains(t, string(data), `"uri":"/health"`)
}
