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

// WorkoutService manages workout logs and their sets.
type WorkoutService struct {
	workouts   repository.WorkoutLogRepository
	dispatcher events.Dispatcher
}

// NewWorkoutService builds the service.
func NewWorkoutService(workouts repository.WorkoutLogRepository, dispatcher events.Dispatcher) *WorkoutService {
	return &WorkoutService{workouts: workouts, dispatcher: dispatcher}
}

// SetInput is one set within a workout payload.
type SetInput struct {
	ExerciseID      string
	SetNumber       int
	Reps            int
	Weight          float64
	Completed       bool
	Notes           *string
	RestTimeSeconds *int
}

// WorkoutInput carries create/update fields.
type WorkoutInput struct {
	LogDate         time.Time
	Notes           *string
	Completed       bool
	DurationMinutes *int
	Sets            []SetInput
}

// Create stores a workout session for the user.
func (s *WorkoutService) Create(ctx context.Context, userID string, input WorkoutInput) (*domain.WorkoutLog, error) {
	log := &domain.WorkoutLog{
		UserID:          userID,
		LogDate:         input.LogDate,
		Notes:           input.Notes,
		Completed:       input.Completed,
		DurationMinutes: input.DurationMinutes,
		Sets:            mapSets(input.Sets),
	}
	if err := s.workouts.Create(ctx, log); err != nil {
		return nil, err
	}
	if log.Completed {
		s.publishCompleted(ctx, log)
	}
	return log, nil
}

// Update rewrites a workout session the user owns.
func (s *WorkoutService) Update(ctx context.Context, userID, id string, input WorkoutInput) (*domain.WorkoutLog, error) {
	log, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	wasCompleted := log.Completed
	log.LogDate = input.LogDate
	log.Notes = input.Notes
	log.Completed = input.Completed
	log.DurationMinutes = input.DurationMinutes
	if err := s.workouts.Update(ctx, log); err != nil {
		return nil, err
	}
	log.Sets = mapSets(input.Sets)
	if err := s.workouts.ReplaceSets(ctx, log.ID, log.Sets); err != nil {
		return nil, err
	}
	if log.Completed && !wasCompleted {
		s.publishCompleted(ctx, log)
	}
	return log, nil
}

// Get returns a workout the user owns.
func (s *WorkoutService) Get(ctx context.Context, userID, id string) (*domain.WorkoutLog, error) {
	return s.getOwned(ctx, userID, id)
}

// List returns the user's workouts, newest first.
func (s *WorkoutService) List(ctx context.Context, userID string, from, to *time.Time, limit, offset int) ([]domain.WorkoutLog, error) {
	return s.workouts.List(ctx, repository.WorkoutFilter{
		UserID:   &userID,
		DateFrom: from,
		DateTo:   to,
		Limit:    limit,
		Offset:   offset,
	})
}

// Delete removes a workout the user owns.
func (s *WorkoutService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	return s.workouts.Delete(ctx, id)
}

func (s *WorkoutService) getOwned(ctx context.Context, userID, id string) (*domain.WorkoutLog, error) {
	log, err := s.workouts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if log.UserID != userID {
		return nil, apperrors.NewNotFound("workout", nil)
	}
	return log, nil
}

func (s *WorkoutService) publishCompleted(ctx context.Context, log *domain.WorkoutLog) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventWorkoutCompleted,
		UserID:    log.UserID,
		Timestamp: time.Now(),
		Payload: events.WorkoutCompletedPayload{
			WorkoutLogID: log.ID,
			LogDate:      log.LogDate,
			SetCount:     len(log.Sets),
		},
	})
}

func mapSets(inputs []SetInput) []domain.ExerciseSet {
	sets := make([]domain.ExerciseSet, len(inputs))
	for i, in := range inputs {
		sets[i] = domain.ExerciseSet{
			ExerciseID:      in.ExerciseID,
			SetNumber:       in.SetNumber,
			Reps:            in.Reps,
			Weight:          in.Weight,
			Completed:       in.Completed,
			Notes:           in.Notes,
			RestTimeSeconds: in.RestTimeSeconds,
		}
	}
	return sets
}
