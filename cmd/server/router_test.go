package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   8000,
			LogLevel:               "info",
			FrontendURL:            "http://localhost:3000",
			AllowedOrigins:         []string{"http://localhost:3000"},
			ShutdownTimeoutSeconds: 1,
		},
		Database: config.DatabaseConfig{URL: "postgres://localhost/tasks"},
		Auth: config.AuthConfig{
			JWTSecret:                   "router-test-secret-at-least-32-chars",
			AccessTokenLifetimeMinutes:  15,
			RefreshTokenLifetimeMinutes: 4320,
			SessionLifetimeMinutes:      30,
			ResetTokenLifetimeMinutes:   60,
			BcryptCost:                  4,
		},
		Redis: config.RedisConfig{AuthRateLimit: 10, AuthRateWindowSeconds: 60},
		Mail:  config.MailConfig{From: "no-reply@example.com", SMTPPort: 587, TimeoutSeconds: 10},
	}
}

func newTestApp(t *testing.T) (*application, sqlmock.Sqlmock, http.Handler) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(testConfig(), logger, db, nil, prometheus.NewRegistry())
	require.NoError(t, err)

	return app, mock, app.setupRouter()
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestNewApplication_RejectsShortSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTSecret = "short"

	_, err := newApplication(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil, prometheus.NewRegistry())
	assert.Error(t, err)
}

func TestRouter_Root(t *testing.T) {
	_, _, h := newTestApp(t)

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"Hello":"World"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Trace-ID"))
}

func TestRouter_Health(t *testing.T) {
	_, mock, h := newTestApp(t)

	mock.ExpectPing()
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	rr = serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_Metrics(t *testing.T) {
	_, _, h := newTestApp(t)

	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	serve(h, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",route="/",status="200"} 1`)
	assert.Contains(t, body, `route="unmatched",status="404"`)
}

func TestRouter_CORS(t *testing.T) {
	_, _, h := newTestApp(t)

	// Browsers send the requested header list lowercased and comma-joined.
	preflight := func(origin, headers string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", headers)
		return serve(h, req)
	}

	for _, headers := range []string{"x-csrf-token", "authorization,content-type,x-csrf-token"} {
		rr := preflight("http://localhost:3000", headers)
		assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"), headers)
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"), headers)
		assert.Equal(t, headers, strings.ToLower(rr.Header().Get("Access-Control-Allow-Headers")), headers)
	}

	rr := preflight("http://evil.example", "x-csrf-token")
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))

	rr = preflight("http://localhost:3000", "x-unlisted")
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_APIMounted(t *testing.T) {
	_, _, h := newTestApp(t)

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), `"UNAUTHORIZED"`)
}

func TestNewHTTPServer_Timeouts(t *testing.T) {
	srv := newHTTPServer(8000, http.NotFoundHandler())
	assert.Equal(t, ":8000", srv.Addr)
	assert.Positive(t, srv.ReadHeaderTimeout)
	assert.Positive(t, srv.ReadTimeout)
	assert.Positive(t, srv.IdleTimeout)
	assert.Greater(t, srv.WriteTimeout, testConfig().Mail.Timeout())
}

func TestHandleMigrations_UnknownCommand(t *testing.T) {
	err := handleMigrations(context.Background(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)), "sideways")
	assert.ErrorContains(t, err, "unknown migration command")
}
