package session

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// UserRole is the user's platform role
type UserRole = string

const (
	// RoleStudent is the default role for platform accounts
	RoleStudent UserRole = "student"
	// RoleLecturer can review and grade submissions
	RoleLecturer UserRole = "lecturer"
	// RoleProvider is a content provider (courses, assignments)
	RoleProvider UserRole = "provider"
	// RoleAdmin administers users and role assignments
	RoleAdmin UserRole = "admin"
)

// Identity is the authenticated principal as seen by the client: the
// fields decoded from a bearer token's claims, or supplied directly
// alongside a mock token.
type Identity struct {
	ID     string     `json:"id,omitempty"`
	Name   string     `json:"name,omitempty"`
	Email  string     `json:"email,omitempty"`
	Role   UserRole   `json:"role,omitempty"`
	Roles  []UserRole `json:"roles,omitempty"`
	Avatar string     `json:"avatar,omitempty"`
}

// Validate checks that the identity carries the fields the rest of the
// package relies on. A decoded token that fails this check is treated as
// an invalid session, not as a partial identity.
func (i Identity) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ID, validation.Required),
		validation.Field(&i.Email, is.Email),
		validation.Field(&i.Role, validation.Required, validation.By(roleRule)),
	)
}

// AllRoles returns the identity's effective role set: the Roles list when
// present, otherwise the single Role.
func (i Identity) AllRoles() []UserRole {
	if len(i.Roles) > 0 {
		return i.Roles
	}
	if i.Role != "" {
		return []UserRole{i.Role}
	}
	return nil
}

func roleRule(value any) error {
	role, _ := value.(UserRole)
	if _, ok := ParseRole(role); !ok {
		return ErrUnknownRole
	}
	return nil
}
