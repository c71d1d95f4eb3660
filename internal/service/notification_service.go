package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/gymtracker/backend/internal/config"
	"github.com/gymtracker/backend/internal/domain"
	"github.com/gymtracker/backend/internal/events"
	"github.com/gymtracker/backend/internal/persistence"
	"github.com/gymtracker/backend/internal/repository"
)

// NotificationService turns domain events into stored notifications and
// fans them out over a redis channel for connected clients.
type NotificationService struct {
	dispatcher    events.Dispatcher
	notifications repository.NotificationRepository
	redis         *persistence.Redis
	logger        *zap.Logger
	cfg           config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifications repository.NotificationRepository, redis *persistence.Redis, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher:    dispatcher,
		notifications: notifications,
		redis:         redis,
		logger:        logger,
		cfg:           cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventWorkoutCompleted, n.handleWorkoutCompleted)
	n.dispatcher.Subscribe(events.EventUserRoleChanged, n.handleUserRoleChanged)
}

// ListForUser pages a user's notifications.
func (n *NotificationService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return n.notifications.ListByUser(ctx, userID, limit, offset)
}

// MarkRead flags a notification as read.
func (n *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return n.notifications.MarkRead(ctx, id, userID)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	return n.store(ctx, event, "Welcome to Gym Tracker! Log your first workout to get started.")
}

func (n *NotificationService) handleWorkoutCompleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.WorkoutCompletedPayload)
	if !ok {
		return nil
	}
	return n.store(ctx, event, fmt.Sprintf("Workout on %s completed with %d sets.",
		payload.LogDate.Format("2006-01-02"), payload.SetCount))
}

func (n *NotificationService) handleUserRoleChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRoleChangedPayload)
	if !ok {
		return nil
	}
	return n.store(ctx, event, fmt.Sprintf("Your account role is now %s.", payload.NewRole))
}

func (n *NotificationService) store(ctx context.Context, event events.Event, content string) error {
	notification := &domain.Notification{
		UserID:  event.UserID,
		Content: content,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Error("failed to store notification", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	n.publish(ctx, notification)
	return nil
}

// publish pushes the notification onto the configured redis channel so
// listening frontends can pick it up. Failures are logged, not returned:
// fan-out is best effort on top of the stored record.
func (n *NotificationService) publish(ctx context.Context, notification *domain.Notification) {
	if n.redis == nil || n.cfg.RedisChannel == "" {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"id":         notification.ID,
		"user_id":    notification.UserID,
		"content":    notification.Content,
		"created_at": notification.CreatedAt,
	})
	if err != nil {
		return
	}
	if err := n.redis.Publish(ctx, n.cfg.RedisChannel, payload); err != nil {
		n.logger.Warn("notification fan-out failed", zap.Error(err))
	}
}
