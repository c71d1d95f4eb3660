package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gymtracker/backend/internal/auth"
	"github.com/gymtracker/backend/internal/config"
	"github.com/gymtracker/backend/internal/domain"
	"github.com/gymtracker/backend/internal/events"
	"github.com/gymtracker/backend/internal/repository"
)

// AuthService coordinates registration and login flows for human users.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, tokenMgr *auth.TokenManager, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   tokenMgr,
		dispatcher: dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new user account and issues its first token.
func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*domain.User, string, time.Time, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, errors.New("email already registered")
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashSecret(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Enabled:      true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email:    user.Email,
		FullName: user.FullName,
	})

	token, exp, err := s.tokenMgr.GenerateUserToken(user.Email, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}
	if !user.Enabled {
		return nil, "", time.Time{}, errors.New("account disabled")
	}
	if err := auth.CompareSecret(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateUserToken(user.Email, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// CompleteOAuthLogin issues a token for an externally authenticated user,
// creating the account on first login. Only token issuance lives here;
// the provider redirect dance happens upstream.
func (s *AuthService) CompleteOAuthLogin(ctx context.Context, email, fullName, provider, providerID string, avatarURL *string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !user.Enabled {
			return nil, "", time.Time{}, errors.New("account disabled")
		}
	case errors.Is(err, pgx.ErrNoRows):
		user = &domain.User{
			Email:         email,
			FullName:      fullName,
			Role:          domain.RoleUser,
			Enabled:       true,
			OAuth:         true,
			OAuthProvider: &provider,
			OAuthID:       &providerID,
			AvatarURL:     avatarURL,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, "", time.Time{}, err
		}
		s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
			Email:    user.Email,
			FullName: user.FullName,
			OAuth:    true,
		})
	default:
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateUserToken(user.Email, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// ChangePassword verifies the current password before updating the hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.CompareSecret(user.PasswordHash, currentPassword); err != nil {
		return errors.New("invalid credentials")
	}
	hash, err := auth.HashSecret(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
