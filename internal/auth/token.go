package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/gymtracker/backend/internal/config"
	"github.com/gymtracker/backend/internal/domain"
)

var (
	// ErrMalformed covers tokens that fail decoding or whose claims do
	// not have the expected shape.
	ErrMalformed = errors.New("malformed token")
	// ErrInvalidSignature covers signature verification failures.
	ErrInvalidSignature = errors.New("invalid token signature")
)

// TokenManager signs and verifies JWT tokens for both user and service
// principals. A single HS256 key is the only trust boundary; every claim
// is covered by the signature.
type TokenManager struct {
	secret     []byte
	issuer     string
	audience   string
	userTTL    time.Duration
	serviceTTL time.Duration
}

// NewTokenManager builds a manager from auth configuration.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		userTTL:    cfg.UserTokenTTL(),
		serviceTTL: cfg.ServiceTokenTTL(),
	}
}

// Claims describes the JWT payload. Role is present on user tokens only;
// Scope (space-separated) and ClientID on service tokens only.
type Claims struct {
	Type     domain.SubjectType `json:"type,omitempty"`
	Role     *domain.Role       `json:"role,omitempty"`
	Scope    string             `json:"scope,omitempty"`
	ClientID string             `json:"client_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateUserToken builds and signs a long-lived token for a human
// principal. User tokens carry no issuer or audience; they never cross a
// service trust boundary.
func (tm *TokenManager) GenerateUserToken(email string, role domain.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.userTTL)
	claims := &Claims{
		Type: domain.SubjectTypeUser,
		Role: &role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return tm.sign(claims, expiresAt)
}

// GenerateServiceToken builds and signs a short-lived token for a machine
// principal. Issuer and audience are pinned so a token signed for another
// deployment cannot be replayed here.
func (tm *TokenManager) GenerateServiceToken(serviceName string, scopes []domain.Scope) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.serviceTTL)
	claims := &Claims{
		Type:     domain.SubjectTypeService,
		Scope:    domain.JoinScopes(scopes),
		ClientID: serviceName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   serviceName,
			Issuer:    tm.issuer,
			Audience:  jwt.ClaimStrings{tm.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return tm.sign(claims, expiresAt)
}

func (tm *TokenManager) sign(claims *Claims, expiresAt time.Time) (string, time.Time, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken verifies the signature and expiry and returns the claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

// Issuer returns the configured issuer string.
func (tm *TokenManager) Issuer() string { return tm.issuer }

// Audience returns the configured audience string.
func (tm *TokenManager) Audience() string { return tm.audience }
