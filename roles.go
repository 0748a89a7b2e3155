package session

// IsValidRole checks if the role is one of the predefined platform roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleProvider, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAtLeast checks if role meets the minimum required level
func IsAtLeast(r, minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleStudent:  0,
		RoleLecturer: 1,
		RoleProvider: 2,
		RoleAdmin:    3,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleStudent,
		RoleLecturer,
		RoleProvider,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// RolesIntersect reports whether any of the user's roles appears in the
// allow-list. An empty allow-list means "any authenticated user".
func RolesIntersect(userRoles []UserRole, allowlist []UserRole) bool {
	if len(allowlist) == 0 {
		return true
	}
	for _, have := range userRoles {
		for _, want := range allowlist {
			if have == want {
				return true
			}
		}
	}
	return false
}
