package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gymtracker/backend/internal/domain"
	"github.com/gymtracker/backend/internal/repository"
	apperrors "github.com/gymtracker/backend/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// BearerToken extracts the token from the Authorization header, if any.
func BearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware is the lenient user-facing filter. Classification
// failures are non-fatal here: an expired or garbage token on a login
// retry must not block the retry itself. Endpoints that require
// authentication enforce it independently via the Require* gates.
type AuthMiddleware struct {
	classifier *Classifier
	users      repository.UserRepository
	logger     *zap.Logger
}

// NewAuthMiddleware constructs the lenient filter.
func NewAuthMiddleware(classifier *Classifier, users repository.UserRepository, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{classifier: classifier, users: users, logger: logger}
}

// Handle classifies the bearer token and, for user tokens, resolves and
// attaches the account. Requests without a usable token proceed
// unauthenticated. A disabled account is the one hard failure: the token
// may be cryptographically fine but the principal behind it is not.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if _, ok := PrincipalFromContext(c); ok {
		// Already authenticated by the service token filter.
		return c.Next()
	}

	tokenStr, ok := BearerToken(c)
	if !ok {
		return c.Next()
	}

	principal, err := m.classifier.Classify(tokenStr)
	if err != nil {
		m.logger.Debug("token classification failed", zap.Error(err))
		return c.Next()
	}
	if principal.Kind != domain.SubjectTypeUser {
		// Service tokens are the strict filter's concern.
		return c.Next()
	}

	user, err := m.users.GetByEmail(c.Context(), principal.User.Email)
	if err != nil {
		m.logger.Debug("token subject not resolvable", zap.String("subject", principal.User.Email), zap.Error(err))
		return c.Next()
	}
	if !user.Enabled {
		return apperrors.NewForbidden("account disabled, contact an administrator")
	}

	principal.Account = user
	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
