package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gymtracker/backend/internal/api/dto"
	"github.com/gymtracker/backend/internal/service"
	apperrors "github.com/gymtracker/backend/pkg/util/errorutil"
)

// InternalHandler serves the service-token-only sync and personalization
// endpoints consumed by the external retrieval service.
type InternalHandler struct {
	rag *service.RagService
}

// NewInternalHandler constructs handler.
func NewInternalHandler(ragService *service.RagService) *InternalHandler {
	return &InternalHandler{rag: ragService}
}

// ExportExercises GET /internal/exercises/export.
func (h *InternalHandler) ExportExercises(c *fiber.Ctx) error {
	exercises, err := h.rag.ExportAllExercises(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ExerciseResponse, 0, len(exercises))
	for i := range exercises {
		items = append(items, exerciseResponse(&exercises[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ExercisesUpdatedSince GET /internal/exercises/updated-since?since=RFC3339.
func (h *InternalHandler) ExercisesUpdatedSince(c *fiber.Ctx) error {
	since, err := parseSince(c)
	if err != nil {
		return err
	}
	exercises, err := h.rag.ExercisesUpdatedSince(c.Context(), since)
	if err != nil {
		return err
	}
	items := make([]dto.ExerciseResponse, 0, len(exercises))
	for i := range exercises {
		items = append(items, exerciseResponse(&exercises[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// WorkoutsUpdatedSince GET /internal/workouts/updated-since?since=RFC3339[&user_id=].
func (h *InternalHandler) WorkoutsUpdatedSince(c *fiber.Ctx) error {
	since, err := parseSince(c)
	if err != nil {
		return err
	}
	var userID *string
	if v := c.Query("user_id"); v != "" {
		userID = &v
	}
	logs, err := h.rag.WorkoutsUpdatedSince(c.Context(), since, userID)
	if err != nil {
		return err
	}
	items := make([]dto.WorkoutLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, WorkoutResponse(&logs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UserWorkouts GET /internal/users/:id/workouts.
func (h *InternalHandler) UserWorkouts(c *fiber.Ctx) error {
	var start, end *time.Time
	if v := c.Query("start_date"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return apperrors.NewValidationError("invalid start_date", nil)
		}
		start = &parsed
	}
	if v := c.Query("end_date"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return apperrors.NewValidationError("invalid end_date", nil)
		}
		end = &parsed
	}

	logs, err := h.rag.UserWorkoutHistory(c.Context(), c.Params("id"), start, end, queryInt(c, "limit", 100))
	if err != nil {
		return err
	}
	items := make([]dto.WorkoutLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, WorkoutResponse(&logs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UserStats GET /internal/users/:id/stats?days=30.
func (h *InternalHandler) UserStats(c *fiber.Ctx) error {
	stats, err := h.rag.UserWorkoutStats(c.Context(), c.Params("id"), queryInt(c, "days", 30))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

func parseSince(c *fiber.Ctx) (time.Time, error) {
	raw := c.Query("since")
	if raw == "" {
		return time.Time{}, apperrors.NewValidationError("since query parameter required", nil)
	}
	since, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("since must be RFC3339", nil)
	}
	return since, nil
}
