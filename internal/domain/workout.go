package domain

import "time"

// WorkoutLog is one workout session belonging to a user.
type WorkoutLog struct {
	ID              string
	UserID          string
	LogDate         time.Time
	Notes           *string
	Completed       bool
	DurationMinutes *int
	Sets            []ExerciseSet
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ExerciseSet is a single set performed within a workout session.
type ExerciseSet struct {
	ID              string
	WorkoutLogID    string
	ExerciseID      string
	SetNumber       int
	Reps            int
	Weight          float64
	Completed       bool
	Notes           *string
	RestTimeSeconds *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
