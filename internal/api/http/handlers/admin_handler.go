package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gymtracker/backend/internal/api/dto"
	"github.com/gymtracker/backend/internal/auth"
	"github.com/gymtracker/backend/internal/domain"
	"github.com/gymtracker/backend/internal/service"
	apperrors "github.com/gymtracker/backend/pkg/util/errorutil"
)

// AdminHandler exposes user management endpoints for admins.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{service: adminService}
}

// ListUsers GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.Context(), queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.UserSummary, 0, len(users))
	for i := range users {
		items = append(items, userSummary(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SetRole PUT /api/admin/users/:id/role.
func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return apperrors.NewValidationError("role must be USER or ADMIN", nil)
	}

	user, err := h.service.SetRole(c.Context(), c.Params("id"), role)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": userSummary(user)})
}

// SetEnabled PUT /api/admin/users/:id/enabled.
func (h *AdminHandler) SetEnabled(c *fiber.Ctx) error {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.service.SetEnabled(c.Context(), c.Params("id"), req.Enabled)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": userSummary(user)})
}

// DeleteUser DELETE /api/admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.DeleteUser(c.Context(), principal.Account.ID, c.Params("id")); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}
