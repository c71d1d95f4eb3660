package dto

import "time"

// RegisterRequest payload for new users.
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// OAuthLoginRequest payload for completing an external login.
type OAuthLoginRequest struct {
	Email      string  `json:"email"`
	FullName   string  `json:"full_name"`
	Provider   string  `json:"provider"`
	ProviderID string  `json:"provider_id"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserSummary is the public view of a user account.
type UserSummary struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	Role      string  `json:"role"`
	Enabled   bool    `json:"enabled"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}
