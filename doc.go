// Package session implements client-side session state management and route
// access control for the APSAS learning platform front end.
//
// The package is organized around five collaborating pieces:
//
//   - Store: the single persistence boundary for the raw token and the
//     last-known identity, so a restart can reconstruct session state without
//     a network round trip. Memory, file, and redis engines are provided.
//   - Resolver: turns a persisted token into a validated Identity, a clean
//     logged-out state, or an invalid-session failure. Pure, fail-closed.
//   - Manager: the sole mutable session state for the running application.
//     Every read of "who is logged in" goes through it; token and identity
//     are set and cleared atomically.
//   - Guard / RouteGuard: decides per navigation whether to render a
//     protected view, redirect to login, or redirect to a role-appropriate
//     home page, and the go-router middleware that applies those decisions.
//   - ComposeNav: derives the visible navigation entries from the current
//     role, with a safe fallback for unmapped roles.
//
// Construct a Manager with explicit dependencies rather than relying on
// package state, so tests can build isolated instances:
//
//	store := session.NewMemoryStore()
//	mgr := session.NewManager(store, session.NewResolver(store))
//	if err := mgr.Init(ctx); err != nil {
//		// degraded to logged-out, storage cleared
//	}
//	defer mgr.Dispose()
package session
