package session

import (
	"strings"

	"github.com/google/uuid"
)

// mockRoleTags maps the +tag naming convention used by the platform's test
// accounts onto roles: x+admin@test.com logs in as admin, x+gv@test.com as a
// lecturer ("giang vien"), x+ncc@test.com as a content provider ("nha cung
// cap"). Anything else is a student.
var mockRoleTags = map[string]UserRole{
	"admin": RoleAdmin,
	"gv":    RoleLecturer,
	"ncc":   RoleProvider,
}

// RoleFromEmail derives a role from the email's +tag, defaulting to student.
func RoleFromEmail(email string) UserRole {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}

	if plus := strings.Index(local, "+"); plus >= 0 {
		tag := strings.ToLower(local[plus+1:])
		if role, ok := mockRoleTags[tag]; ok {
			return role
		}
	}

	return RoleStudent
}

// NewMockIdentity synthesizes the identity stored alongside a mock token.
func NewMockIdentity(email string) Identity {
	name := email
	if at := strings.Index(email, "@"); at >= 0 {
		name = email[:at]
	}

	return Identity{
		ID:    uuid.New().String(),
		Name:  name,
		Email: email,
		Role:  RoleFromEmail(email),
	}
}
