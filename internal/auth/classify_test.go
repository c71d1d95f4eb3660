package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymtracker/backend/internal/domain"
)

func TestClassifyUserToken(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())
	cl := NewClassifier(tm)

	tokenStr, _, err := tm.GenerateUserToken("user@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	principal, err := cl.Classify(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeUser, principal.Kind)
	require.NotNil(t, principal.User)
	assert.Nil(t, principal.Service)
	assert.Equal(t, "user@example.com", principal.User.Email)
	assert.Equal(t, domain.RoleAdmin, principal.User.Role)
	assert.Equal(t, []string{"ADMIN"}, principal.Authorities())
	assert.False(t, principal.HasScope(domain.ScopeRAGRead))
}

func TestClassifyServiceToken(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())
	cl := NewClassifier(tm)

	tokenStr, _, err := tm.GenerateServiceToken("rag-service", []domain.Scope{domain.ScopeRAGRead, domain.ScopeRAGSync})
	require.NoError(t, err)

	principal, err := cl.Classify(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeService, principal.Kind)
	require.NotNil(t, principal.Service)
	assert.Nil(t, principal.User)
	assert.Equal(t, "rag-service", principal.Service.Name)
	assert.Equal(t, []domain.Scope{domain.ScopeRAGRead, domain.ScopeRAGSync}, principal.Service.Scopes)
	assert.True(t, principal.HasScope(domain.ScopeRAGRead))
	assert.False(t, principal.HasScope(domain.ScopeAnalyticsWrite))
}

// Tokens minted before the service token feature carry no type claim.
// They must keep classifying as users.
func TestClassifyLegacyTokenWithoutType(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())
	cl := NewClassifier(tm)

	legacy := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "legacy@example.com",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tokenStr, err := legacy.SignedString([]byte(testAuthConfig().JWTSecret))
	require.NoError(t, err)

	principal, err := cl.Classify(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeUser, principal.Kind)
	assert.Equal(t, "legacy@example.com", principal.User.Email)
	assert.Equal(t, domain.RoleUser, principal.User.Role)
}

func TestClassifyRejectsUnknownType(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())
	cl := NewClassifier(tm)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Type: "MACHINE",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "whoever",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenStr, err := token.SignedString([]byte(testAuthConfig().JWTSecret))
	require.NoError(t, err)

	_, err = cl.Classify(tokenStr)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestClassifyExpiredToken(t *testing.T) {
	cfg := testAuthConfig()
	cfg.ServiceTokenTTLMinutes = -1
	tm := NewTokenManager(cfg)
	cl := NewClassifier(tm)

	tokenStr, _, err := tm.GenerateServiceToken("rag-service", []domain.Scope{domain.ScopeRAGRead})
	require.NoError(t, err)

	_, err = cl.Classify(tokenStr)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestClassifyServiceTokenPinsIssuer(t *testing.T) {
	cfg := testAuthConfig()
	cl := NewClassifier(NewTokenManager(cfg))

	foreignCfg := cfg
	foreignCfg.Issuer = "some-other-backend"
	foreign := NewTokenManager(foreignCfg)

	tokenStr, _, err := foreign.GenerateServiceToken("rag-service", []domain.Scope{domain.ScopeRAGRead})
	require.NoError(t, err)

	_, err = cl.Classify(tokenStr)
	assert.ErrorIs(t, err, ErrIssuerMismatch)
}

func TestClassifyServiceTokenPinsAudience(t *testing.T) {
	cfg := testAuthConfig()
	cl := NewClassifier(NewTokenManager(cfg))

	foreignCfg := cfg
	foreignCfg.Audience = "some-other-api"
	foreign := NewTokenManager(foreignCfg)

	tokenStr, _, err := foreign.GenerateServiceToken("rag-service", []domain.Scope{domain.ScopeRAGRead})
	require.NoError(t, err)

	_, err = cl.Classify(tokenStr)
	assert.ErrorIs(t, err, ErrAudienceMismatch)
}

// Issuer and audience pinning applies to service tokens only; user tokens
// never carry either claim.
func TestClassifyUserTokenSkipsPinning(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())
	cl := NewClassifier(tm)

	tokenStr, _, err := tm.GenerateUserToken("user@example.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = cl.Classify(tokenStr)
	assert.NoError(t, err)
}

func TestClassifyRejectsUnknownScopeInClaim(t *testing.T) {
	cfg := testAuthConfig()
	cl := NewClassifier(NewTokenManager(cfg))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Type:  domain.SubjectTypeService,
		Scope: "rag:read rag:everything",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "rag-service",
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenStr, err := token.SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = cl.Classify(tokenStr)
	assert.ErrorIs(t, err, ErrMalformed)
}
