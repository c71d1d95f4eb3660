package service

import (
	"context"
	"time"

	"github.com/gymtracker/backend/internal/domain"
	"github.com/gymtracker/backend/internal/repository"
)

// RagService is the read-only data surface consumed by the external
// retrieval service through the internal endpoints. It is deliberately
// separate from the user-facing workout and exercise services.
type RagService struct {
	exercises repository.ExerciseRepository
	workouts  repository.WorkoutLogRepository
}

// NewRagService builds the service.
func NewRagService(exercises repository.ExerciseRepository, workouts repository.WorkoutLogRepository) *RagService {
	return &RagService{exercises: exercises, workouts: workouts}
}

// WorkoutStats aggregates a user's training over a lookback window.
type WorkoutStats struct {
	UserID             string  `json:"user_id"`
	PeriodDays         int     `json:"period_days"`
	TotalWorkouts      int     `json:"total_workouts"`
	CompletedWorkouts  int     `json:"completed_workouts"`
	TotalSets          int     `json:"total_sets"`
	TotalVolume        float64 `json:"total_volume"`
	AvgDurationMinutes float64 `json:"avg_duration_minutes"`
}

// ExportAllExercises returns the full catalog for an initial sync.
func (s *RagService) ExportAllExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exercises.ListAll(ctx)
}

// ExercisesUpdatedSince returns catalog changes for incremental sync.
func (s *RagService) ExercisesUpdatedSince(ctx context.Context, since time.Time) ([]domain.Exercise, error) {
	return s.exercises.ListUpdatedSince(ctx, since)
}

// WorkoutsUpdatedSince returns workout changes for incremental sync,
// optionally narrowed to one user.
func (s *RagService) WorkoutsUpdatedSince(ctx context.Context, since time.Time, userID *string) ([]domain.WorkoutLog, error) {
	return s.workouts.ListUpdatedSince(ctx, since, userID)
}

// UserWorkoutHistory returns a user's sessions in a date range for
// personalized retrieval. Defaults: the last six months, capped at 100.
func (s *RagService) UserWorkoutHistory(ctx context.Context, userID string, start, end *time.Time, limit int) ([]domain.WorkoutLog, error) {
	if end == nil {
		now := time.Now()
		end = &now
	}
	if start == nil {
		from := end.AddDate(0, -6, 0)
		start = &from
	}
	if limit <= 0 {
		limit = 100
	}
	return s.workouts.List(ctx, repository.WorkoutFilter{
		UserID:   &userID,
		DateFrom: start,
		DateTo:   end,
		Limit:    limit,
	})
}

// UserWorkoutStats aggregates a user's sessions over the last N days.
func (s *RagService) UserWorkoutStats(ctx context.Context, userID string, days int) (*WorkoutStats, error) {
	if days <= 0 {
		days = 30
	}
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	logs, err := s.workouts.List(ctx, repository.WorkoutFilter{
		UserID:   &userID,
		DateFrom: &start,
		DateTo:   &end,
	})
	if err != nil {
		return nil, err
	}

	stats := &WorkoutStats{UserID: userID, PeriodDays: days, TotalWorkouts: len(logs)}
	var durationSum, durationCount int
	for _, log := range logs {
		if log.Completed {
			stats.CompletedWorkouts++
		}
		if log.DurationMinutes != nil {
			durationSum += *log.DurationMinutes
			durationCount++
		}
		for _, set := range log.Sets {
			stats.TotalSets++
			stats.TotalVolume += float64(set.Reps) * set.Weight
		}
	}
	if durationCount > 0 {
		stats.AvgDurationMinutes = float64(durationSum) / float64(durationCount)
	}
	return stats, nil
}
