package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/gymtracker/backend/internal/api/dto"
	"github.com/gymtracker/backend/internal/auth"
	"github.com/gymtracker/backend/internal/domain"
	"github.com/gymtracker/backend/internal/repository"
	"github.com/gymtracker/backend/internal/service"
	apperrors "github.com/gymtracker/backend/pkg/util/errorutil"
)

// ExercisesHandler manages exercise catalog endpoints.
type ExercisesHandler struct {
	service *service.ExerciseService
}

// NewExercisesHandler constructs handler.
func NewExercisesHandler(exerciseService *service.ExerciseService) *ExercisesHandler {
	return &ExercisesHandler{service: exerciseService}
}

// List GET /api/exercises.
func (h *ExercisesHandler) List(c *fiber.Ctx) error {
	filter := repository.ExerciseFilter{
		Limit:  queryInt(c, "limit", 100),
		Offset: queryInt(c, "offset", 0),
	}
	if v := c.Query("muscle_group"); v != "" {
		filter.MuscleGroup = &v
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}

	exercises, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ExerciseResponse, 0, len(exercises))
	for i := range exercises {
		items = append(items, exerciseResponse(&exercises[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/exercises/:id.
func (h *ExercisesHandler) Get(c *fiber.Ctx) error {
	exercise, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": exerciseResponse(exercise)})
}

// Create POST /api/exercises.
func (h *ExercisesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.MuscleGroup == "" {
		return apperrors.NewValidationError("name and muscle_group required", nil)
	}

	exercise, err := h.service.Create(c.Context(), principal.Account.ID, service.ExerciseInput{
		Name:        req.Name,
		MuscleGroup: req.MuscleGroup,
		Description: req.Description,
		MediaURL:    req.MediaURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": exerciseResponse(exercise)})
}

// Update PUT /api/exercises/:id.
func (h *ExercisesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.MuscleGroup == "" {
		return apperrors.NewValidationError("name and muscle_group required", nil)
	}

	exercise, err := h.service.Update(c.Context(), principal.Account, c.Params("id"), service.ExerciseInput{
		Name:        req.Name,
		MuscleGroup: req.MuscleGroup,
		Description: req.Description,
		MediaURL:    req.MediaURL,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": exerciseResponse(exercise)})
}

// Delete DELETE /api/exercises/:id.
func (h *ExercisesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.Context(), principal.Account, c.Params("id")); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func exerciseResponse(exercise *domain.Exercise) dto.ExerciseResponse {
	return dto.ExerciseResponse{
		ID:              exercise.ID,
		Name:            exercise.Name,
		MuscleGroup:     exercise.MuscleGroup,
		Description:     exercise.Description,
		MediaURL:        exercise.MediaURL,
		Custom:          exercise.Custom,
		CreatedByUserID: exercise.CreatedByUserID,
		CreatedAt:       exercise.CreatedAt,
		UpdatedAt:       exercise.UpdatedAt,
	}
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
