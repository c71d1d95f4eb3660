package domain

import "time"

// Exercise is a single exercise definition in the catalog. Users may add
// custom exercises alongside the shared catalog entries.
type Exercise struct {
	ID              string
	Name            string
	MuscleGroup     string
	Description     *string
	MediaURL        *string
	Custom          bool
	CreatedByUserID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
