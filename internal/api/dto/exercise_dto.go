package dto

import "time"

// ExerciseRequest payload for create/update.
type ExerciseRequest struct {
	Name        string  `json:"name"`
	MuscleGroup string  `json:"muscle_group"`
	Description *string `json:"description,omitempty"`
	MediaURL    *string `json:"media_url,omitempty"`
}

// ExerciseResponse is the public view of an exercise.
type ExerciseResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	MuscleGroup     string    `json:"muscle_group"`
	Description     *string   `json:"description,omitempty"`
	MediaURL        *string   `json:"media_url,omitempty"`
	Custom          bool      `json:"custom"`
	CreatedByUserID *string   `json:"created_by_user_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
