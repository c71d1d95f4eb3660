package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gymtracker/backend/internal/auth"
	"github.com/gymtracker/backend/internal/config"
	"github.com/gymtracker/backend/internal/domain"
)

type fakeServiceAccountRepo struct {
	accounts   map[string]*domain.ServiceAccount
	touchErr   error
	touchedIDs []string
}

func (f *fakeServiceAccountRepo) GetByClientID(_ context.Context, clientID string) (*domain.ServiceAccount, error) {
	if account, ok := f.accounts[clientID]; ok {
		return account, nil
	}
	return nil, errors.New("no rows")
}

func (f *fakeServiceAccountRepo) TouchLastUsed(_ context.Context, id string, _ time.Time) error {
	f.touchedIDs = append(f.touchedIDs, id)
	return f.touchErr
}

func exchangeFixture(t *testing.T, repo *fakeServiceAccountRepo) (*ServiceAuthService, *auth.Classifier) {
	t.Helper()

	cfg := config.AuthConfig{
		JWTSecret:              "0123456789abcdef0123456789abcdef",
		Issuer:                 "gym-tracker-backend",
		Audience:               "gym-tracker-api",
		UserTokenTTLMinutes:    60,
		ServiceTokenTTLMinutes: 15,
		BcryptCost:             4,
	}
	tm := auth.NewTokenManager(cfg)
	svc := NewServiceAuthService(repo, tm, cfg.ServiceTokenTTL(), zap.NewNop())
	return svc, auth.NewClassifier(tm)
}

func mustHash(t *testing.T, secret string) string {
	t.Helper()
	hashed, err := auth.HashSecret(secret, 4)
	require.NoError(t, err)
	return hashed
}

func ragAccount(t *testing.T) *domain.ServiceAccount {
	return &domain.ServiceAccount{
		ID:               "sa-1",
		ServiceName:      "rag-service",
		ClientID:         "rag-client",
		ClientSecretHash: mustHash(t, "s3cret"),
		Scopes:           []domain.Scope{domain.ScopeRAGRead, domain.ScopeRAGSync},
		Active:           true,
	}
}

func TestExchangeIssuesServiceToken(t *testing.T) {
	repo := &fakeServiceAccountRepo{accounts: map[string]*domain.ServiceAccount{
		"rag-client": ragAccount(t),
	}}
	svc, classifier := exchangeFixture(t, repo)

	result, err := svc.Exchange(context.Background(), TokenExchangeInput{
		ClientID:     "rag-client",
		ClientSecret: "s3cret",
		GrantType:    "client_credentials",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, int64(15*60), result.ExpiresIn)
	assert.Equal(t, "rag:read rag:sync", result.Scope)
	assert.WithinDuration(t, time.Now(), time.Unix(result.IssuedAt, 0), 5*time.Second)

	principal, err := classifier.Classify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeService, principal.Kind)
	assert.Equal(t, "rag-service", principal.Service.Name)
	assert.True(t, principal.HasScope(domain.ScopeRAGSync))

	assert.Equal(t, []string{"sa-1"}, repo.touchedIDs)
}

func TestExchangeRejectsGrantType(t *testing.T) {
	repo := &fakeServiceAccountRepo{accounts: map[string]*domain.ServiceAccount{
		"rag-client": ragAccount(t),
	}}
	svc, _ := exchangeFixture(t, repo)

	for _, grant := range []string{"", "password", "authorization_code"} {
		_, err := svc.Exchange(context.Background(), TokenExchangeInput{
			ClientID:     "rag-client",
			ClientSecret: "s3cret",
			GrantType:    grant,
		})
		assert.ErrorIs(t, err, ErrInvalidGrant, "grant %q", grant)
	}
	assert.Empty(t, repo.touchedIDs)
}

// Unknown client, wrong secret, inactive and expired accounts must all
// produce the same error so none of them can be told apart by a caller.
func TestExchangeCredentialFailuresAreUniform(t *testing.T) {
	pastExpiry := time.Now().Add(-time.Hour)

	inactive := ragAccount(t)
	inactive.Active = false

	expired := ragAccount(t)
	expired.ExpiresAt = &pastExpiry

	tests := []struct {
		name     string
		accounts map[string]*domain.ServiceAccount
		clientID string
		secret   string
	}{
		{
			name:     "unknown client id",
			accounts: map[string]*domain.ServiceAccount{},
			clientID: "rag-client",
			secret:   "s3cret",
		},
		{
			name:     "wrong secret",
			accounts: map[string]*domain.ServiceAccount{"rag-client": ragAccount(t)},
			clientID: "rag-client",
			secret:   "wrong",
		},
		{
			name:     "inactive account",
			accounts: map[string]*domain.ServiceAccount{"rag-client": inactive},
			clientID: "rag-client",
			secret:   "s3cret",
		},
		{
			name:     "expired account",
			accounts: map[string]*domain.ServiceAccount{"rag-client": expired},
			clientID: "rag-client",
			secret:   "s3cret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeServiceAccountRepo{accounts: tt.accounts}
			svc, _ := exchangeFixture(t, repo)

			_, err := svc.Exchange(context.Background(), TokenExchangeInput{
				ClientID:     tt.clientID,
				ClientSecret: tt.secret,
				GrantType:    "client_credentials",
			})
			assert.ErrorIs(t, err, ErrInvalidClient)
			assert.Empty(t, repo.touchedIDs)
		})
	}
}

func TestExchangeSucceedsWhenTouchFails(t *testing.T) {
	repo := &fakeServiceAccountRepo{
		accounts: map[string]*domain.ServiceAccount{"rag-client": ragAccount(t)},
		touchErr: errors.New("connection reset"),
	}
	svc, _ := exchangeFixture(t, repo)

	result, err := svc.Exchange(context.Background(), TokenExchangeInput{
		ClientID:     "rag-client",
		ClientSecret: "s3cret",
		GrantType:    "client_credentials",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
}

// Scope and activation changes after issuance do not recall tokens in
// flight; the short TTL bounds the window.
func TestIssuedTokenOutlivesAccountDeactivation(t *testing.T) {
	account := ragAccount(t)
	repo := &fakeServiceAccountRepo{accounts: map[string]*domain.ServiceAccount{
		"rag-client": account,
	}}
	svc, classifier := exchangeFixture(t, repo)

	result, err := svc.Exchange(context.Background(), TokenExchangeInput{
		ClientID:     "rag-client",
		ClientSecret: "s3cret",
		GrantType:    "client_credentials",
	})
	require.NoError(t, err)

	account.Active = false
	account.Scopes = nil

	principal, err := classifier.Classify(result.AccessToken)
	require.NoError(t, err)
	assert.True(t, principal.HasScope(domain.ScopeRAGRead))
}
