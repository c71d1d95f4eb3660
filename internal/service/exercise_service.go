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

// ExerciseService manages the exercise catalog.
type ExerciseService struct {
	exercises  repository.ExerciseRepository
	dispatcher events.Dispatcher
}

// NewExerciseService builds the service.
func NewExerciseService(exercises repository.ExerciseRepository, dispatcher events.Dispatcher) *ExerciseService {
	return &ExerciseService{exercises: exercises, dispatcher: dispatcher}
}

// ExerciseInput carries create/update fields.
type ExerciseInput struct {
	Name        string
	MuscleGroup string
	Description *string
	MediaURL    *string
}

// List returns catalog entries matching the filter.
func (s *ExerciseService) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	return s.exercises.List(ctx, filter)
}

// Get returns a single exercise.
func (s *ExerciseService) Get(ctx context.Context, id string) (*domain.Exercise, error) {
	return s.exercises.GetByID(ctx, id)
}

// Create adds a custom exercise owned by the given user.
func (s *ExerciseService) Create(ctx context.Context, userID string, input ExerciseInput) (*domain.Exercise, error) {
	exercise := &domain.Exercise{
		Name:            input.Name,
		MuscleGroup:     input.MuscleGroup,
		Description:     input.Description,
		MediaURL:        input.MediaURL,
		Custom:          true,
		CreatedByUserID: &userID,
	}
	if err := s.exercises.Create(ctx, exercise); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventExerciseCreated,
			UserID:    userID,
			Timestamp: time.Now(),
			Payload: events.ExerciseCreatedPayload{
				ExerciseID:  exercise.ID,
				Name:        exercise.Name,
				MuscleGroup: exercise.MuscleGroup,
				Custom:      true,
			},
		})
	}
	return exercise, nil
}

// Update modifies an exercise. Users may only touch their own custom
// exercises; admins may touch anything.
func (s *ExerciseService) Update(ctx context.Context, actor *domain.User, id string, input ExerciseInput) (*domain.Exercise, error) {
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, exercise); err != nil {
		return nil, err
	}

	exercise.Name = input.Name
	exercise.MuscleGroup = input.MuscleGroup
	exercise.Description = input.Description
	exercise.MediaURL = input.MediaURL
	if err := s.exercises.Update(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

// Delete removes an exercise under the same ownership rules as Update.
func (s *ExerciseService) Delete(ctx context.Context, actor *domain.User, id string) error {
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, exercise); err != nil {
		return err
	}
	return s.exercises.Delete(ctx, id)
}

func (s *ExerciseService) authorize(actor *domain.User, exercise *domain.Exercise) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}
	if !exercise.Custom || exercise.CreatedByUserID == nil || *exercise.CreatedByUserID != actor.ID {
		return apperrors.NewForbidden("cannot modify catalog exercises")
	}
	return nil
}
