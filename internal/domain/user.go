package domain

import "time"

// Role is the coarse authorization level carried by user tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// User is the domain model for a human account.
type User struct {
	ID            string
	Email         string
	FullName      string
	PasswordHash  string
	Role          Role
	Enabled       bool
	OAuth         bool
	OAuthProvider *string
	OAuthID       *string
	AvatarURL     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
