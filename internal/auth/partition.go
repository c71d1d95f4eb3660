package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gymtracker/backend/internal/domain"
)

// InternalPrefix is the reserved path prefix reachable only with a valid,
// scope-appropriate service token.
const InternalPrefix = "/internal/"

// ServiceTokenFilter is the strict partition filter. It enforces that
// service tokens and internal paths are used together and never apart:
//
//  1. internal paths require a SERVICE token
//  2. SERVICE tokens are rejected everywhere outside internal paths
//  3. on internal paths the token is fully validated, including the
//     issuer/audience pinning, before its scopes become authorities
//
// Where the user-facing filter degrades gracefully on a stale token, this
// boundary is intolerant of ambiguity and fails closed.
type ServiceTokenFilter struct {
	classifier *Classifier
	logger     *zap.Logger
}

// NewServiceTokenFilter constructs the strict filter.
func NewServiceTokenFilter(classifier *Classifier, logger *zap.Logger) *ServiceTokenFilter {
	return &ServiceTokenFilter{classifier: classifier, logger: logger}
}

// Handle applies the partition rules. It must run before the lenient user
// filter so a service principal is installed ahead of any user lookup.
func (f *ServiceTokenFilter) Handle(c *fiber.Ctx) error {
	internal := strings.HasPrefix(c.Path(), InternalPrefix)

	tokenStr, ok := BearerToken(c)
	if !ok {
		if internal {
			return rejectGate(c, http.StatusForbidden, "forbidden", "service token required for internal endpoints")
		}
		return c.Next()
	}

	principal, err := f.classifier.Classify(tokenStr)
	if err != nil {
		if internal {
			// Fail closed: an internal path never admits a token
			// that does not validate completely.
			f.logger.Warn("service token rejected", zap.String("path", c.Path()), zap.Error(err))
			return rejectGate(c, http.StatusUnauthorized, "unauthorized", "invalid or expired service token")
		}
		// Outside internal paths the lenient filter owns the
		// degraded-but-reachable behavior.
		return c.Next()
	}

	isService := principal.Kind == domain.SubjectTypeService

	if internal && !isService {
		return rejectGate(c, http.StatusForbidden, "forbidden", "service token required for internal endpoints")
	}
	if isService && !internal {
		return rejectGate(c, http.StatusForbidden, "forbidden", "service tokens are only valid for internal endpoints")
	}
	if isService && internal {
		c.Locals(principalKey, principal)
	}
	return c.Next()
}

// RequireScope gates a handler on a service scope. service:admin
// satisfies any requirement.
func RequireScope(required domain.Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Kind != domain.SubjectTypeService {
			return rejectGate(c, http.StatusForbidden, "forbidden", "service token required for internal endpoints")
		}
		if !principal.HasScope(required) {
			return rejectGate(c, http.StatusForbidden, "insufficient_scope", "token lacks required scope "+string(required))
		}
		return c.Next()
	}
}

// RequireUser ensures an authenticated user principal.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Kind != domain.SubjectTypeUser || principal.Account == nil {
			return fiber.NewError(http.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures an authenticated user with the ADMIN role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Kind != domain.SubjectTypeUser || principal.Account == nil {
			return fiber.NewError(http.StatusUnauthorized, "authentication required")
		}
		if principal.Account.Role != domain.RoleAdmin {
			return fiber.NewError(http.StatusForbidden, "admin role required")
		}
		return c.Next()
	}
}

// rejectGate writes the gate-level error shape and stops the chain.
func rejectGate(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}
