package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gymtracker/backend/internal/domain"
	apperrors "github.com/gymtracker/backend/pkg/util/errorutil"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (s *stubUserRepo) Create(context.Context, *domain.User) error { return nil }
func (s *stubUserRepo) Update(context.Context, *domain.User) error { return nil }
func (s *stubUserRepo) Delete(context.Context, string) error       { return nil }
func (s *stubUserRepo) GetByID(context.Context, string) (*domain.User, error) {
	return nil, errNotFound
}
func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, errNotFound
}
func (s *stubUserRepo) List(context.Context, int, int) ([]domain.User, error) { return nil, nil }

var errNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "not found" }

type gateErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newTestApp(t *testing.T, users map[string]*domain.User) (*fiber.App, *TokenManager) {
	t.Helper()

	tm := NewTokenManager(testAuthConfig())
	cl := NewClassifier(tm)
	logger := zap.NewNop()

	repo := &stubUserRepo{users: users}
	filter := NewServiceTokenFilter(cl, logger)
	middleware := NewAuthMiddleware(cl, repo, logger)

	app := fiber.New()
	// Mirror the production error middleware: domain errors carry their
	// own HTTP status.
	app.Use(func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{
				"error": fiber.Map{"code": de.Code, "message": de.Message},
			})
		}
		return nil
	})
	app.Use(filter.Handle)
	app.Use(middleware.Handle)

	app.Get("/api/profile", RequireUser(), func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"email": principal.User.Email})
	})
	app.Get("/api/public", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/internal/exercises/export", RequireScope(domain.ScopeRAGSync), func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"service": principal.Service.Name})
	})

	return app, tm
}

func doRequest(t *testing.T, app *fiber.App, path, token string) (int, gateErrorBody) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body gateErrorBody
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body
}

func TestInternalPathRequiresServiceToken(t *testing.T) {
	app, tm := newTestApp(t, nil)

	t.Run("no token", func(t *testing.T) {
		status, body := doRequest(t, app, "/internal/exercises/export", "")
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "forbidden", body.Error)
		assert.Equal(t, "service token required for internal endpoints", body.Message)
	})

	t.Run("user token", func(t *testing.T) {
		tokenStr, _, err := tm.GenerateUserToken("user@example.com", domain.RoleAdmin)
		require.NoError(t, err)

		status, body := doRequest(t, app, "/internal/exercises/export", tokenStr)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "forbidden", body.Error)
		assert.Equal(t, "service token required for internal endpoints", body.Message)
	})

	t.Run("garbage token", func(t *testing.T) {
		status, body := doRequest(t, app, "/internal/exercises/export", "garbage")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "unauthorized", body.Error)
		assert.Equal(t, "invalid or expired service token", body.Message)
	})

	t.Run("valid service token", func(t *testing.T) {
		tokenStr, _, err := tm.GenerateServiceToken("rag-service", []domain.Scope{domain.ScopeRAGSync})
		require.NoError(t, err)

		status, _ := doRequest(t, app, "/internal/exercises/export", tokenStr)
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestServiceTokenRejectedOutsideInternal(t *testing.T) {
	app, tm := newTestApp(t, nil)

	tokenStr, _, err := tm.GenerateServiceToken("rag-service", []domain.Scope{domain.ScopeServiceAdmin})
	require.NoError(t, err)

	for _, path := range []string{"/api/public", "/api/profile"} {
		status, body := doRequest(t, app, path, tokenStr)
		assert.Equal(t, http.StatusForbidden, status, "path %s", path)
		assert.Equal(t, "forbidden", body.Error)
		assert.Equal(t, "service tokens are only valid for internal endpoints", body.Message)
	}
}

func TestInternalPathEnforcesScope(t *testing.T) {
	app, tm := newTestApp(t, nil)

	t.Run("missing scope", func(t *testing.T) {
		tokenStr, _, err := tm.GenerateServiceToken("analytics-service", []domain.Scope{domain.ScopeAnalyticsRead})
		require.NoError(t, err)

		status, body := doRequest(t, app, "/internal/exercises/export", tokenStr)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "insufficient_scope", body.Error)
	})

	t.Run("admin scope overrides", func(t *testing.T) {
		tokenStr, _, err := tm.GenerateServiceToken("ops", []domain.Scope{domain.ScopeServiceAdmin})
		require.NoError(t, err)

		status, _ := doRequest(t, app, "/internal/exercises/export", tokenStr)
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestExpiredServiceTokenOnInternalPath(t *testing.T) {
	app, _ := newTestApp(t, nil)

	cfg := testAuthConfig()
	cfg.ServiceTokenTTLMinutes = -1
	expired := NewTokenManager(cfg)
	tokenStr, _, err := expired.GenerateServiceToken("rag-service", []domain.Scope{domain.ScopeRAGSync})
	require.NoError(t, err)

	status, body := doRequest(t, app, "/internal/exercises/export", tokenStr)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", body.Error)
	assert.Equal(t, "invalid or expired service token", body.Message)
}

func TestUserAuthentication(t *testing.T) {
	enabled := &domain.User{ID: "u1", Email: "user@example.com", Role: domain.RoleUser, Enabled: true}
	disabled := &domain.User{ID: "u2", Email: "off@example.com", Role: domain.RoleUser, Enabled: false}
	app, tm := newTestApp(t, map[string]*domain.User{
		enabled.Email:  enabled,
		disabled.Email: disabled,
	})

	t.Run("valid user token reaches protected route", func(t *testing.T) {
		tokenStr, _, err := tm.GenerateUserToken(enabled.Email, enabled.Role)
		require.NoError(t, err)

		status, _ := doRequest(t, app, "/api/profile", tokenStr)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("no token on protected route", func(t *testing.T) {
		status, _ := doRequest(t, app, "/api/profile", "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("expired token degrades to unauthenticated", func(t *testing.T) {
		cfg := testAuthConfig()
		cfg.UserTokenTTLMinutes = -1
		expired := NewTokenManager(cfg)
		tokenStr, _, err := expired.GenerateUserToken(enabled.Email, enabled.Role)
		require.NoError(t, err)

		// Public routes stay reachable so a client can retry login.
		status, _ := doRequest(t, app, "/api/public", tokenStr)
		assert.Equal(t, http.StatusOK, status)

		status, _ = doRequest(t, app, "/api/profile", tokenStr)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("token for unknown account degrades", func(t *testing.T) {
		tokenStr, _, err := tm.GenerateUserToken("ghost@example.com", domain.RoleUser)
		require.NoError(t, err)

		status, _ := doRequest(t, app, "/api/profile", tokenStr)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("disabled account is rejected outright", func(t *testing.T) {
		tokenStr, _, err := tm.GenerateUserToken(disabled.Email, disabled.Role)
		require.NoError(t, err)

		status, _ := doRequest(t, app, "/api/public", tokenStr)
		assert.Equal(t, http.StatusForbidden, status)
	})
}

func TestBearerToken(t *testing.T) {
	app := fiber.New()
	var got string
	var ok bool
	app.Get("/", func(c *fiber.Ctx) error {
		got, ok = BearerToken(c)
		return c.SendStatus(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{name: "missing", header: "", wantOK: false},
		{name: "bearer", header: "Bearer abc.def.ghi", want: "abc.def.ghi", wantOK: true},
		{name: "case insensitive scheme", header: "bearer tok", want: "tok", wantOK: true},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantOK: false},
		{name: "scheme only", header: "Bearer", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
