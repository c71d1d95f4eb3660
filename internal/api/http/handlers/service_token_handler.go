package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gymtracker/backend/internal/api/dto"
	"github.com/gymtracker/backend/internal/service"
)

// ServiceTokenHandler exposes the OAuth2 client-credentials endpoint for
// machine callers.
type ServiceTokenHandler struct {
	exchange *service.ServiceAuthService
	logger   *zap.Logger
}

// NewServiceTokenHandler constructs handler.
func NewServiceTokenHandler(exchange *service.ServiceAuthService, logger *zap.Logger) *ServiceTokenHandler {
	return &ServiceTokenHandler{exchange: exchange, logger: logger}
}

// Token handles POST /api/service/token. Errors follow the OAuth2 shape:
// every credential-level failure is invalid_client with HTTP 401.
func (h *ServiceTokenHandler) Token(c *fiber.Ctx) error {
	var req dto.ServiceTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return oauthError(c, http.StatusUnauthorized, "invalid_client", "malformed request body")
	}

	result, err := h.exchange.Exchange(c.Context(), service.TokenExchangeInput{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		GrantType:    req.GrantType,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGrant):
			return oauthError(c, http.StatusUnauthorized, "invalid_client", "grant_type must be client_credentials")
		case errors.Is(err, service.ErrInvalidClient):
			return oauthError(c, http.StatusUnauthorized, "invalid_client", "invalid client credentials")
		default:
			h.logger.Error("token exchange failed", zap.Error(err))
			return oauthError(c, http.StatusInternalServerError, "server_error", "an error occurred while processing the request")
		}
	}

	return c.JSON(dto.ServiceTokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   result.ExpiresIn,
		Scope:       result.Scope,
		IssuedAt:    result.IssuedAt,
	})
}

func oauthError(c *fiber.Ctx, status int, code, description string) error {
	return c.Status(status).JSON(dto.OAuthErrorResponse{
		Error:            code,
		ErrorDescription: description,
	})
}
