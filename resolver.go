package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// ResolutionState classifies what a token resolved to.
type ResolutionState string

const (
	// StateResolved means the token yielded a validated identity.
	StateResolved ResolutionState = "resolved"
	// StateNoSession means there was no token: the clean logged-out state.
	StateNoSession ResolutionState = "no-session"
	// StateInvalid means the token exists but cannot be trusted; the caller
	// must clear both the store and any in-memory session.
	StateInvalid ResolutionState = "invalid"
)

// Resolution is the outcome of resolving a persisted token.
type Resolution struct {
	State    ResolutionState
	Identity *Identity
	Cause    error
}

// Resolver turns a raw token into a validated identity or a clear failure.
// It is pure apart from a read-only store lookup for mock tokens, and it
// fails closed: every failure path funnels into NoSession or Invalid.
type Resolver struct {
	store  Store
	parser *jwt.Parser
	now    func() time.Time
	logger Logger
}

// ResolverOption customizes resolver construction.
type ResolverOption func(*Resolver)

// WithResolverClock injects a custom clock (useful for tests).
func WithResolverClock(clock func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if clock != nil {
			r.now = clock
		}
	}
}

// WithResolverLogger overrides the logger.
func WithResolverLogger(logger Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver returns a resolver backed by the given store. The store is
// only consulted for mock tokens, which carry no claims of their own.
func NewResolver(store Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:  store,
		parser: jwt.NewParser(),
		now:    time.Now,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Resolve classifies the token. Resolving the same valid token twice yields
// the same identity both times.
func (r *Resolver) Resolve(ctx context.Context, token Token) Resolution {
	if token.IsZero() {
		return Resolution{State: StateNoSession}
	}

	if token.IsMock() {
		return r.resolveMock(ctx, token)
	}

	return r.resolveBearer(token)
}

func (r *Resolver) resolveMock(ctx context.Context, token Token) Resolution {
	stored, err := r.store.Read(ctx)
	if err != nil {
		r.logger.Warn("mock resolution store read failed: %v", err)
		return Resolution{State: StateInvalid, Cause: err}
	}

	if stored.User == nil || stored.Token != token {
		return Resolution{State: StateInvalid, Cause: ErrMockIdentityMissing}
	}

	return Resolution{State: StateResolved, Identity: stored.User}
}

// resolveBearer decodes the token's claims without verifying the signature.
// The client holds no signing key; the token is decoded for display and
// gating only, the backend re-verifies it on every request.
func (r *Resolver) resolveBearer(token Token) Resolution {
	claims := &SessionClaims{}
	if _, _, err := r.parser.ParseUnverified(token.Value, claims); err != nil {
		cause := goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
		return Resolution{State: StateInvalid, Cause: cause}
	}

	if exp := claims.Expires(); !exp.IsZero() && exp.Before(r.now()) {
		return Resolution{State: StateInvalid, Cause: ErrTokenExpired}
	}

	identity := claims.Identity()
	if err := identity.Validate(); err != nil {
		r.logger.Info("decoded claims failed identity validation", "error", err)
		cause := goerrors.Wrap(err, ErrTokenMalformed.Category, "claims do not form a usable identity").
			WithTextCode(ErrTokenMalformed.TextCode)
		return Resolution{State: StateInvalid, Cause: cause}
	}

	return Resolution{State: StateResolved, Identity: &identity}
}
