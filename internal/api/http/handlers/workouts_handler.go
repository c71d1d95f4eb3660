package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gymtracker/backend/internal/api/dto"
	"github.com/gymtracker/backend/internal/auth"
	"github.com/gymtracker/backend/internal/domain"
	"github.com/gymtracker/backend/internal/service"
	apperrors "github.com/gymtracker/backend/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

// WorkoutsHandler manages workout log endpoints.
type WorkoutsHandler struct {
	service *service.WorkoutService
}

// NewWorkoutsHandler constructs handler.
func NewWorkoutsHandler(workoutService *service.WorkoutService) *WorkoutsHandler {
	return &WorkoutsHandler{service: workoutService}
}

// Create POST /api/workouts.
func (h *WorkoutsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	input, err := parseWorkoutRequest(c)
	if err != nil {
		return err
	}

	log, err := h.service.Create(c.Context(), principal.Account.ID, *input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": WorkoutResponse(log)})
}

// Update PUT /api/workouts/:id.
func (h *WorkoutsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	input, err := parseWorkoutRequest(c)
	if err != nil {
		return err
	}

	log, err := h.service.Update(c.Context(), principal.Account.ID, c.Params("id"), *input)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": WorkoutResponse(log)})
}

// Get GET /api/workouts/:id.
func (h *WorkoutsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	log, err := h.service.Get(c.Context(), principal.Account.ID, c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": WorkoutResponse(log)})
}

// List GET /api/workouts.
func (h *WorkoutsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return apperrors.NewValidationError("invalid from date", nil)
		}
		from = &parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return apperrors.NewValidationError("invalid to date", nil)
		}
		to = &parsed
	}

	logs, err := h.service.List(c.Context(), principal.Account.ID, from, to, queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.WorkoutLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, WorkoutResponse(&logs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Delete DELETE /api/workouts/:id.
func (h *WorkoutsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.Context(), principal.Account.ID, c.Params("id")); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseWorkoutRequest(c *fiber.Ctx) (*service.WorkoutInput, error) {
	var req dto.WorkoutLogRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	logDate, err := time.Parse(dateLayout, req.LogDate)
	if err != nil {
		return nil, apperrors.NewValidationError("log_date must be YYYY-MM-DD", nil)
	}

	sets := make([]service.SetInput, 0, len(req.Sets))
	for _, set := range req.Sets {
		if set.ExerciseID == "" || set.SetNumber < 1 || set.Reps < 0 || set.Weight < 0 {
			return nil, apperrors.NewValidationError("invalid set entry", nil)
		}
		sets = append(sets, service.SetInput{
			ExerciseID:      set.ExerciseID,
			SetNumber:       set.SetNumber,
			Reps:            set.Reps,
			Weight:          set.Weight,
			Completed:       set.Completed,
			Notes:           set.Notes,
			RestTimeSeconds: set.RestTimeSeconds,
		})
	}

	return &service.WorkoutInput{
		LogDate:         logDate,
		Notes:           req.Notes,
		Completed:       req.Completed,
		DurationMinutes: req.DurationMinutes,
		Sets:            sets,
	}, nil
}

// WorkoutResponse maps a workout log to its public view. Shared with the
// internal sync handlers.
func WorkoutResponse(log *domain.WorkoutLog) dto.WorkoutLogResponse {
	sets := make([]dto.ExerciseSetResponse, 0, len(log.Sets))
	for _, set := range log.Sets {
		sets = append(sets, dto.ExerciseSetResponse{
			ID:              set.ID,
			ExerciseID:      set.ExerciseID,
			SetNumber:       set.SetNumber,
			Reps:            set.Reps,
			Weight:          set.Weight,
			Completed:       set.Completed,
			Notes:           set.Notes,
			RestTimeSeconds: set.RestTimeSeconds,
		})
	}
	return dto.WorkoutLogResponse{
		ID:              log.ID,
		UserID:          log.UserID,
		LogDate:         log.LogDate.Format(dateLayout),
		Notes:           log.Notes,
		Completed:       log.Completed,
		DurationMinutes: log.DurationMinutes,
		Sets:            sets,
		CreatedAt:       log.CreatedAt,
		UpdatedAt:       log.UpdatedAt,
	}
}
