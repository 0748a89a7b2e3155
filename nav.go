package session

// NavEntry is a single navigation item: where it goes, what it says, and the
// icon key the view layer maps to an actual glyph.
type NavEntry struct {
	Path  string `json:"path"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// NavConfig maps each role to its ordered navigation entries. It is
// configuration data: this package reads it, never mutates it.
type NavConfig map[UserRole][]NavEntry

// DefaultNavConfig is the platform's standard navigation layout.
func DefaultNavConfig() NavConfig {
	return NavConfig{
		RoleStudent: {
			{Path: "/dashboard", Label: "Dashboard", Icon: "home"},
			{Path: "/courses", Label: "My Courses", Icon: "book"},
			{Path: "/assignments", Label: "Assignments", Icon: "edit"},
			{Path: "/grades", Label: "Grades", Icon: "bar-chart"},
			{Path: "/profile", Label: "Profile", Icon: "user"},
		},
		RoleLecturer: {
			{Path: "/dashboard", Label: "Dashboard", Icon: "home"},
			{Path: "/courses", Label: "Courses", Icon: "book"},
			{Path: "/submissions", Label: "Submissions", Icon: "inbox"},
			{Path: "/grading", Label: "Grading", Icon: "check-square"},
			{Path: "/profile", Label: "Profile", Icon: "user"},
		},
		RoleProvider: {
			{Path: "/dashboard", Label: "Dashboard", Icon: "home"},
			{Path: "/content", Label: "Content", Icon: "folder"},
			{Path: "/courses", Label: "Courses", Icon: "book"},
			{Path: "/analytics", Label: "Analytics", Icon: "pie-chart"},
			{Path: "/profile", Label: "Profile", Icon: "user"},
		},
		RoleAdmin: {
			{Path: "/dashboard", Label: "Dashboard", Icon: "home"},
			{Path: "/users", Label: "Users", Icon: "users"},
			{Path: "/roles", Label: "Roles", Icon: "shield"},
			{Path: "/courses", Label: "Courses", Icon: "book"},
			{Path: "/profile", Label: "Profile", Icon: "user"},
		},
	}
}

// defaultNavEntries is the fallback for roles the config does not map, so
// the UI never strands a user with zero navigation options.
func defaultNavEntries() []NavEntry {
	return []NavEntry{
		{Path: "/dashboard", Label: "Dashboard", Icon: "home"},
		{Path: "/profile", Label: "Profile", Icon: "user"},
	}
}

// ComposeNav derives the visible navigation entries for a role. It is a pure
// mapping recomputed on every call; the returned slice is the caller's to
// keep.
func ComposeNav(cfg NavConfig, role UserRole) []NavEntry {
	if cfg == nil {
		cfg = DefaultNavConfig()
	}

	entries, ok := cfg[role]
	if !ok || len(entries) == 0 {
		return defaultNavEntries()
	}

	return append([]NavEntry(nil), entries...)
}
