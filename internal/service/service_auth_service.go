package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/gymtracker/backend/internal/auth"
	"github.com/gymtracker/backend/internal/domain"
	"github.com/gymtracker/backend/internal/repository"
)

const grantTypeClientCredentials = "client_credentials"

var (
	// ErrInvalidGrant signals an unsupported grant type.
	ErrInvalidGrant = errors.New("unsupported grant type")
	// ErrInvalidClient covers every credential-shaped failure: unknown
	// client id, wrong secret, inactive or expired account. They are
	// deliberately indistinguishable to the caller so that neither
	// client ids nor account state can be enumerated.
	ErrInvalidClient = errors.New("invalid client credentials")
)

// TokenExchangeInput is the client-credentials request.
type TokenExchangeInput struct {
	ClientID     string
	ClientSecret string
	GrantType    string
}

// TokenExchangeResult is the issued service token in OAuth2 terms.
type TokenExchangeResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	Scope       string
	IssuedAt    int64
}

// ServiceAuthService implements the OAuth2 client-credentials exchange
// for machine callers.
type ServiceAuthService struct {
	accounts repository.ServiceAccountRepository
	tokens   *auth.TokenManager
	ttl      time.Duration
	logger   *zap.Logger
}

// NewServiceAuthService builds the service.
func NewServiceAuthService(accounts repository.ServiceAccountRepository, tokens *auth.TokenManager, ttl time.Duration, logger *zap.Logger) *ServiceAuthService {
	return &ServiceAuthService{accounts: accounts, tokens: tokens, ttl: ttl, logger: logger}
}

// Exchange verifies client credentials and issues a short-lived service
// token carrying the scopes granted to the account at this moment. Later
// scope changes do not affect tokens already in flight.
func (s *ServiceAuthService) Exchange(ctx context.Context, input TokenExchangeInput) (*TokenExchangeResult, error) {
	if input.GrantType != grantTypeClientCredentials {
		return nil, ErrInvalidGrant
	}

	account, err := s.accounts.GetByClientID(ctx, input.ClientID)
	if err != nil {
		// Unknown client id takes the same path as a bad secret.
		return nil, ErrInvalidClient
	}

	if err := auth.CompareSecret(account.ClientSecretHash, input.ClientSecret); err != nil {
		return nil, ErrInvalidClient
	}
	if !account.Active {
		return nil, ErrInvalidClient
	}
	if account.Expired(time.Now()) {
		return nil, ErrInvalidClient
	}

	tokenStr, _, err := s.tokens.GenerateServiceToken(account.ServiceName, account.Scopes)
	if err != nil {
		return nil, err
	}

	// Best effort: exchange succeeds even if the timestamp write fails.
	if err := s.accounts.TouchLastUsed(ctx, account.ID, time.Now()); err != nil {
		s.logger.Warn("failed to persist last_used_at",
			zap.String("client_id", account.ClientID), zap.Error(err))
	}

	return &TokenExchangeResult{
		AccessToken: tokenStr,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.ttl.Seconds()),
		Scope:       domain.JoinScopes(account.Scopes),
		IssuedAt:    time.Now().Unix(),
	}, nil
}
