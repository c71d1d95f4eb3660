package dto

import "time"

// ExerciseSetRequest is one set within a workout payload.
type ExerciseSetRequest struct {
	ExerciseID      string  `json:"exercise_id"`
	SetNumber       int     `json:"set_number"`
	Reps            int     `json:"reps"`
	Weight          float64 `json:"weight"`
	Completed       bool    `json:"completed"`
	Notes           *string `json:"notes,omitempty"`
	RestTimeSeconds *int    `json:"rest_time_seconds,omitempty"`
}

// WorkoutLogRequest payload for create/update.
type WorkoutLogRequest struct {
	LogDate         string               `json:"log_date"`
	Notes           *string              `json:"notes,omitempty"`
	Completed       bool                 `json:"completed"`
	DurationMinutes *int                 `json:"duration_minutes,omitempty"`
	Sets            []ExerciseSetRequest `json:"sets"`
}

// ExerciseSetResponse is the public view of a set.
type ExerciseSetResponse struct {
	ID              string  `json:"id"`
	ExerciseID      string  `json:"exercise_id"`
	SetNumber       int     `json:"set_number"`
	Reps            int     `json:"reps"`
	Weight          float64 `json:"weight"`
	Completed       bool    `json:"completed"`
	Notes           *string `json:"notes,omitempty"`
	RestTimeSeconds *int    `json:"rest_time_seconds,omitempty"`
}

// WorkoutLogResponse is the public view of a workout session.
type WorkoutLogResponse struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	LogDate         string                `json:"log_date"`
	Notes           *string               `json:"notes,omitempty"`
	Completed       bool                  `json:"completed"`
	DurationMinutes *int                  `json:"duration_minutes,omitempty"`
	Sets            []ExerciseSetResponse `json:"sets"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// NotificationResponse is the public view of a notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
