package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymtracker/backend/internal/config"
	"github.com/gymtracker/backend/internal/domain"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:              "0123456789abcdef0123456789abcdef",
		Issuer:                 "gym-tracker-backend",
		Audience:               "gym-tracker-api",
		UserTokenTTLMinutes:    60,
		ServiceTokenTTLMinutes: 15,
		BcryptCost:             4,
	}
}

func TestGenerateUserTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	tokenStr, expiresAt, err := tm.GenerateUserToken("user@example.com", domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeUser, claims.Type)
	assert.Equal(t, "user@example.com", claims.Subject)
	require.NotNil(t, claims.Role)
	assert.Equal(t, domain.RoleAdmin, *claims.Role)
	assert.Empty(t, claims.Scope)
	assert.Empty(t, claims.ClientID)
	// User tokens stay inside the user-facing surface; no issuer or
	// audience is stamped on them.
	assert.Empty(t, claims.Issuer)
	assert.Empty(t, claims.Audience)
}

func TestGenerateServiceTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	tokenStr, _, err := tm.GenerateServiceToken("rag-service", []domain.Scope{domain.ScopeRAGRead, domain.ScopeRAGSync})
	require.NoError(t, err)

	claims, err := tm.ParseToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeService, claims.Type)
	assert.Equal(t, "rag-service", claims.Subject)
	assert.Equal(t, "rag-service", claims.ClientID)
	assert.Equal(t, "rag:read rag:sync", claims.Scope)
	assert.Equal(t, "gym-tracker-backend", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"gym-tracker-api"}, claims.Audience)
	assert.Nil(t, claims.Role)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	tokenStr, _, err := tm.GenerateUserToken("user@example.com", domain.RoleUser)
	require.NoError(t, err)

	// Flip a character in the payload segment.
	tampered := []byte(tokenStr)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	_, err = tm.ParseToken(string(tampered))
	require.Error(t, err)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "ffffffffffffffffffffffffffffffff"
	other := NewTokenManager(otherCfg)

	tokenStr, _, err := other.GenerateUserToken("user@example.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = tm.ParseToken(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	cfg := testAuthConfig()
	cfg.UserTokenTTLMinutes = -1
	tm := NewTokenManager(cfg)

	tokenStr, _, err := tm.GenerateUserToken("user@example.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = tm.ParseToken(tokenStr)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseTokenRejectsAlgNone(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Type: domain.SubjectTypeService,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "rag-service",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.ParseToken(tokenStr)
	require.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	for _, input := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := tm.ParseToken(input)
		assert.Error(t, err, "input %q", input)
	}
}
