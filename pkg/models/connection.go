package models

import "time"

// Connection stores one user's credentials for one external service.
// The engine reads connections through the credentials resolver and never
// mutates them; token refresh is handled outside the engine.
type Connection struct {
	ID         string         `json:"id"`
	Service    string         `json:"service" validate:"required"`
	Owner      string         `json:"owner"`
	Credential Credential     `json:"credential"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Credential carries the resolved token material handed to capability calls.
type Credential struct {
	AccessToken  string     `json:"access_token,omitempty"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the credential carries an expiry in the past.
// A credential without an expiry never expires from the engine's perspective.
func (c Credential) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}
