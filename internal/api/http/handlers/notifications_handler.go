package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gymtracker/backend/internal/api/dto"
	"github.com/gymtracker/backend/internal/auth"
	"github.com/gymtracker/backend/internal/service"
	apperrors "github.com/gymtracker/backend/pkg/util/errorutil"
)

// NotificationsHandler exposes a user's notifications.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// List GET /api/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	notifications, err := h.service.ListForUser(c.Context(), principal.Account.ID, queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationResponse{
			ID:        n.ID,
			Content:   n.Content,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// MarkRead PUT /api/notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.MarkRead(c.Context(), c.Params("id"), principal.Account.ID); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"read": true}})
}
