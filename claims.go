package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the claims shape the platform embeds in bearer tokens.
type SessionClaims struct {
	jwt.RegisteredClaims
	UID       string     `json:"uid,omitempty"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	UserRole  UserRole   `json:"role,omitempty"`
	UserRoles []UserRole `json:"roles,omitempty"`
	Avatar    string     `json:"avatar,omitempty"`
}

// UserID returns the user ID, preferring the uid claim over the subject.
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Role returns the global role claim.
func (c *SessionClaims) Role() UserRole {
	return c.UserRole
}

// HasRole checks if the claims carry a specific role, globally or in the
// roles list.
func (c *SessionClaims) HasRole(role UserRole) bool {
	if c.UserRole == role {
		return true
	}
	for _, r := range c.UserRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Expires returns the expiration time, zero when the claim is absent.
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued-at time, zero when the claim is absent.
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Identity maps the claims into the identity record the rest of the package
// consumes.
func (c *SessionClaims) Identity() Identity {
	return Identity{
		ID:     c.UserID(),
		Name:   c.Name,
		Email:  c.Email,
		Role:   c.UserRole,
		Roles:  append([]UserRole(nil), c.UserRoles...),
		Avatar: c.Avatar,
	}
}
