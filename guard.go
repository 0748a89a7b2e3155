package session

// DecisionKind is the terminal outcome of a guard evaluation.
type DecisionKind string

const (
	// DecisionWait defers the decision: the session is still resolving and
	// deciding now could redirect a session that is about to come back.
	DecisionWait DecisionKind = "wait"
	// DecisionAllow renders the protected view.
	DecisionAllow DecisionKind = "allow"
	// DecisionRedirectLogin sends the visitor to the login page, carrying
	// the originally requested location.
	DecisionRedirectLogin DecisionKind = "redirect-login"
	// DecisionRedirectHome sends an authenticated but unauthorized visitor
	// to their role-appropriate home page.
	DecisionRedirectHome DecisionKind = "redirect-home"
)

// Decision is computed per navigation event from the session state plus an
// allow-list; it is never persisted. Generation pins the session state it
// was computed against.
type Decision struct {
	Kind       DecisionKind
	Role       UserRole
	Generation uint64
}

// Guard gates access to protected views based on session presence and role
// allow-lists. It holds no state of its own; every evaluation reads a fresh
// snapshot from the manager.
type Guard struct {
	sessions *Manager
}

func NewGuard(sessions *Manager) *Guard {
	return &Guard{sessions: sessions}
}

// Evaluate runs the per-navigation decision. An empty allow-list admits any
// authenticated user.
func (g *Guard) Evaluate(allowlist ...UserRole) Decision {
	snap := g.sessions.State()

	if snap.Loading {
		return Decision{Kind: DecisionWait, Generation: snap.Generation}
	}

	if snap.Token.IsZero() || snap.User == nil {
		return Decision{Kind: DecisionRedirectLogin, Generation: snap.Generation}
	}

	if !RolesIntersect(snap.User.AllRoles(), allowlist) {
		return Decision{
			Kind:       DecisionRedirectHome,
			Role:       snap.User.Role,
			Generation: snap.Generation,
		}
	}

	return Decision{
		Kind:       DecisionAllow,
		Role:       snap.User.Role,
		Generation: snap.Generation,
	}
}

// Fresh reports whether the decision still matches the current session. A
// login or logout that lands while a decision is pending supersedes it; the
// stale decision must be discarded, not applied.
func (g *Guard) Fresh(d Decision) bool {
	return g.sessions.State().Generation == d.Generation
}

// Apply re-checks freshness right before a decision takes effect.
func (g *Guard) Apply(d Decision) error {
	if !g.Fresh(d) {
		return ErrStaleDecision
	}
	return nil
}
