package domain

import "time"

// Notification is a user-facing message produced from domain events.
type Notification struct {
	ID        string
	UserID    string
	Content   string
	Read      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
