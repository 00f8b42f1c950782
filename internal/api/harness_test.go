package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-manager-api/internal/api"
	"github.com/phrazzld/task-manager-api/internal/api/middleware"
	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/mocks"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const (
	testFrontendURL = "http://frontend.test"
	testOrigin      = "http://localhost:3000"
)

type testServer struct {
	t       *testing.T
	mem     *mocks.MemoryStore
	mailer  *mocks.MockMailer
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-that-is-at-least-32-characters",
		AccessTokenLifetimeMinutes:  15,
		RefreshTokenLifetimeMinutes: 4320,
		SessionLifetimeMinutes:      30,
		ResetTokenLifetimeMinutes:   60,
		BcryptCost:                  4,
	})
	require.NoError(t, err)

	mem := mocks.NewMemoryStore()
	mailer := &mocks.MockMailer{}
	tx := mem.Transactor()
	hasher := &mocks.MockPasswordHasher{}

	users := service.NewUserService(mem.Users(), tx, hasher, logger)
	resets := service.NewPasswordResetService(mem.Users(), mem.Resets(), tx, hasher, mailer, time.Hour, logger)
	tasks := service.NewTaskService(mem.Tasks(), tx, logger)
	tags := service.NewTagService(mem.Tags(), logger)

	routes := api.Routes{
		Auth: api.NewAuthHandler(users, resets, jwtService, api.AuthHandlerConfig{
			FrontendURL:    testFrontendURL,
			AllowedOrigins: []string{testOrigin},
		}),
		Users:          api.NewUserHandler(users),
		Tasks:          api.NewTaskHandler(tasks),
		Tags:           api.NewTagHandler(tags),
		AuthMiddleware: middleware.NewAuthMiddleware(jwtService, users),
	}

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	routes.Mount(r)

	return &testServer{t: t, mem: mem, mailer: mailer, handler: r}
}

// client keeps cookies between requests like a browser would.
type client struct {
	srv     *testServer
	cookies map[string]*http.Cookie
	bearer  string
}

func (s *testServer) client() *client {
	return &client{srv: s, cookies: map[string]*http.Cookie{}}
}

type reqOpt func(*http.Request)

func withHeader(k, v string) reqOpt {
	return func(r *http.Request) { r.Header.Set(k, v) }
}

// withCSRF echoes the csrf cookie in the header.
func (c *client) withCSRF() reqOpt {
	return func(r *http.Request) {
		if ck, ok := c.cookies[auth.CSRFCookieName]; ok {
			r.Header.Set(auth.CSRFHeaderName, ck.Value)
		}
	}
}

func (c *client) do(method, path string, body interface{}, opts ...reqOpt) *httptest.ResponseRecorder {
	c.srv.t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.srv.t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	u, _ := url.Parse(path)
	for _, ck := range c.cookies {
		if strings.HasPrefix(u.Path, ck.Path) {
			req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}
	for _, opt := range opts {
		opt(req)
	}

	rr := httptest.NewRecorder()
	c.srv.handler.ServeHTTP(rr, req)

	for _, ck := range rr.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type errorEnvelope struct {
	Success bool `json:"success"`
	Errors  struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"errors"`
}

func requireError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) errorEnvelope {
	t.Helper()
	require.Equal(t, status, rr.Code, rr.Body.String())
	env := decode[errorEnvelope](t, rr)
	require.False(t, env.Success)
	require.Equal(t, code, env.Errors.Code)
	require.NotNil(t, env.Errors.Fields)
	return env
}

// signup registers and logs in, leaving the client with a bearer token and cookies.
func (s *testServer) signup(email string) *client {
	s.t.Helper()
	c := s.client()
	creds := map[string]string{"email": email, "password": "password123"}

	rr := c.do(http.MethodPost, "/api/users/register", creds)
	require.Equal(s.t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = c.do(http.MethodPost, "/api/users/login", creds)
	require.Equal(s.t, http.StatusOK, rr.Code, rr.Body.String())
	c.bearer = decode[api.TokenResponse](s.t, rr).AccessToken
	return c
}
