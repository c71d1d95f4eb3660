package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gymtracker/backend/internal/domain"
	"github.com/gymtracker/backend/internal/events"
	"github.com/gymtracker/backend/internal/repository"
	apperrors "github.com/gymtracker/backend/pkg/util/errorutil"
)

// AdminService performs administrative user management.
type AdminService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewAdminService builds the service.
func NewAdminService(users repository.UserRepository, dispatcher events.Dispatcher) *AdminService {
	return &AdminService{users: users, dispatcher: dispatcher}
}

// ListUsers pages through accounts.
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.users.List(ctx, limit, offset)
}

// SetRole changes a user's role. Role changes take effect on the user's
// next issued token; outstanding tokens keep the old role until expiry.
func (s *AdminService) SetRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	oldRole := user.Role
	if oldRole == role {
		return user, nil
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventUserRoleChanged, user.ID, events.UserRoleChangedPayload{OldRole: oldRole, NewRole: role})
	return user, nil
}

// SetEnabled enables or disables an account. Disabling takes effect on
// the next request that resolves the principal; there is no token
// revocation list.
func (s *AdminService) SetEnabled(ctx context.Context, userID string, enabled bool) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Enabled = enabled
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if !enabled {
		s.publish(ctx, events.EventUserDisabled, user.ID, events.UserDisabledPayload{Enabled: false})
	}
	return user, nil
}

// DeleteUser removes an account permanently.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return apperrors.NewValidationError("cannot delete own account", nil)
	}
	return s.users.Delete(ctx, userID)
}

func (s *AdminService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
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
