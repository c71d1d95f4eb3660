package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gymtracker/backend/internal/auth"
	"github.com/gymtracker/backend/internal/config"
	"github.com/gymtracker/backend/internal/domain"
	"github.com/gymtracker/backend/internal/service"
)

type fakeAccountRepo struct {
	accounts map[string]*domain.ServiceAccount
}

func (f *fakeAccountRepo) GetByClientID(_ context.Context, clientID string) (*domain.ServiceAccount, error) {
	if account, ok := f.accounts[clientID]; ok {
		return account, nil
	}
	return nil, errors.New("no rows")
}

func (f *fakeAccountRepo) TouchLastUsed(context.Context, string, time.Time) error { return nil }

func newTokenApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.AuthConfig{
		JWTSecret:              "0123456789abcdef0123456789abcdef",
		Issuer:                 "gym-tracker-backend",
		Audience:               "gym-tracker-api",
		UserTokenTTLMinutes:    60,
		ServiceTokenTTLMinutes: 15,
		BcryptCost:             4,
	}
	hashed, err := auth.HashSecret("s3cret", 4)
	require.NoError(t, err)

	repo := &fakeAccountRepo{accounts: map[string]*domain.ServiceAccount{
		"rag-client": {
			ID:               "sa-1",
			ServiceName:      "rag-service",
			ClientID:         "rag-client",
			ClientSecretHash: hashed,
			Scopes:           []domain.Scope{domain.ScopeRAGRead},
			Active:           true,
		},
	}}
	svc := service.NewServiceAuthService(repo, auth.NewTokenManager(cfg), cfg.ServiceTokenTTL(), zap.NewNop())

	app := fiber.New()
	handler := NewServiceTokenHandler(svc, zap.NewNop())
	app.Post("/api/service/token", handler.Token)
	return app
}

func postToken(t *testing.T, app *fiber.App, body map[string]string) (int, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/service/token", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestTokenEndpointIssuesToken(t *testing.T) {
	app := newTokenApp(t)

	status, body := postToken(t, app, map[string]string{
		"clientId":     "rag-client",
		"clientSecret": "s3cret",
		"grantType":    "client_credentials",
	})

	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["access_token"])
	assert.Equal(t, "Bearer", body["token_type"])
	assert.Equal(t, float64(900), body["expires_in"])
	assert.Equal(t, "rag:read", body["scope"])
	assert.NotZero(t, body["issued_at"])
}

func TestTokenEndpointErrors(t *testing.T) {
	app := newTokenApp(t)

	tests := []struct {
		name            string
		body            map[string]string
		wantDescription string
	}{
		{
			name: "wrong grant type",
			body: map[string]string{
				"clientId":     "rag-client",
				"clientSecret": "s3cret",
				"grantType":    "password",
			},
			wantDescription: "grant_type must be client_credentials",
		},
		{
			name: "unknown client",
			body: map[string]string{
				"clientId":     "nobody",
				"clientSecret": "s3cret",
				"grantType":    "client_credentials",
			},
			wantDescription: "invalid client credentials",
		},
		{
			name: "wrong secret",
			body: map[string]string{
				"clientId":     "rag-client",
				"clientSecret": "nope",
				"grantType":    "client_credentials",
			},
			wantDescription: "invalid client credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postToken(t, app, tt.body)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "invalid_client", body["error"])
			assert.Equal(t, tt.wantDescription, body["error_description"])
		})
	}
}
