package auth

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/gymtracker/backend/internal/domain"
)

var (
	// ErrExpired covers tokens whose expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrIssuerMismatch flags a service token minted by a different
	// issuer than this deployment accepts.
	ErrIssuerMismatch = errors.New("token issuer mismatch")
	// ErrAudienceMismatch flags a service token addressed to a
	// different audience than this deployment.
	ErrAudienceMismatch = errors.New("token audience mismatch")
)

// UserIdentity is the USER variant of a classified principal.
type UserIdentity struct {
	Email string
	Role  domain.Role
}

// ServiceIdentity is the SERVICE variant of a classified principal.
type ServiceIdentity struct {
	Name   string
	Scopes []domain.Scope
}

// Principal is the authenticated caller as a tagged variant: exactly one
// of User or Service is set, matching Kind. It is immutable once built
// and threaded explicitly through the request, never via global state.
type Principal struct {
	Kind    domain.SubjectType
	User    *UserIdentity
	Service *ServiceIdentity

	// Account is the resolved user record; populated by the request
	// gate for user principals, nil for service principals.
	Account *domain.User
}

// Authorities returns the capability strings of the principal: the role
// for users, the scope set for services.
func (p *Principal) Authorities() []string {
	switch p.Kind {
	case domain.SubjectTypeUser:
		return []string{string(p.User.Role)}
	case domain.SubjectTypeService:
		out := make([]string, len(p.Service.Scopes))
		for i, s := range p.Service.Scopes {
			out[i] = string(s)
		}
		return out
	}
	return nil
}

// HasScope reports whether a service principal holds the scope, honoring
// the service:admin override. Always false for user principals.
func (p *Principal) HasScope(required domain.Scope) bool {
	if p.Kind != domain.SubjectTypeService || p.Service == nil {
		return false
	}
	return domain.HasScope(p.Service.Scopes, required)
}

// Classifier turns opaque token strings into principals. It is a pure
// decision function over the token manager's key and configuration; it
// performs no I/O and is safe for unbounded concurrent use.
type Classifier struct {
	tokens *TokenManager
}

// NewClassifier builds a classifier on top of the token manager.
func NewClassifier(tokens *TokenManager) *Classifier {
	return &Classifier{tokens: tokens}
}

// Classify verifies signature and expiry, determines the token kind and
// extracts the principal. Tokens without a type claim predate the service
// token feature and are treated as USER. Service tokens additionally have
// their issuer and audience pinned against configuration, which defeats
// replay of tokens legitimately signed for another purpose.
func (cl *Classifier) Classify(tokenStr string) (*Principal, error) {
	claims, err := cl.tokens.ParseToken(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, err
	}

	kind := claims.Type
	if kind == "" {
		kind = domain.SubjectTypeUser
	}

	switch kind {
	case domain.SubjectTypeUser:
		role := domain.RoleUser
		if claims.Role != nil {
			role = *claims.Role
		}
		return &Principal{
			Kind: domain.SubjectTypeUser,
			User: &UserIdentity{Email: claims.Subject, Role: role},
		}, nil

	case domain.SubjectTypeService:
		if claims.Issuer != cl.tokens.Issuer() {
			return nil, ErrIssuerMismatch
		}
		if !containsAudience(claims.Audience, cl.tokens.Audience()) {
			return nil, ErrAudienceMismatch
		}
		scopes, err := domain.ParseScopeList(claims.Scope)
		if err != nil {
			return nil, ErrMalformed
		}
		return &Principal{
			Kind:    domain.SubjectTypeService,
			Service: &ServiceIdentity{Name: claims.Subject, Scopes: scopes},
		}, nil

	default:
		return nil, ErrMalformed
	}
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
