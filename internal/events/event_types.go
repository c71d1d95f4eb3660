package events

import (
	"time"

	"github.com/gymtracker/backend/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered   EventType = "user_registered"
	EventUserRoleChanged  EventType = "user_role_changed"
	EventUserDisabled     EventType = "user_disabled"
	EventWorkoutCompleted EventType = "workout_completed"
	EventExerciseCreated  EventType = "exercise_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	OAuth    bool   `json:"oauth"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}

// UserDisabledPayload payload.
type UserDisabledPayload struct {
	Enabled bool `json:"enabled"`
}

// WorkoutCompletedPayload payload.
type WorkoutCompletedPayload struct {
	WorkoutLogID string    `json:"workout_log_id"`
	LogDate      time.Time `json:"log_date"`
	SetCount     int       `json:"set_count"`
}

// ExerciseCreatedPayload payload.
type ExerciseCreatedPayload struct {
	ExerciseID  string `json:"exercise_id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group"`
	Custom      bool   `json:"custom"`
}
