package domain

import "time"

// ServiceAccount is a machine principal for the client-credentials flow.
// The secret is stored only as a bcrypt hash.
type ServiceAccount struct {
	ID               string
	ServiceName      string
	ClientID         string
	ClientSecretHash string
	Scopes           []Scope
	Active           bool
	ExpiresAt        *time.Time
	LastUsedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Expired reports whether the account's optional expiry has passed.
func (a *ServiceAccount) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}
