package session

import (
	"context"
	"sync"
	"time"
)

// State is the snapshot every consumer reads: the (token, user, loading)
// tuple plus the derived authenticated flag. Token and User are always both
// set or both zero; no intermediate state is ever observable.
type State struct {
	Token         Token
	User          *Identity
	Loading       bool
	Authenticated bool

	// Generation increments on every committed session change. Guard
	// evaluations capture it so a decision computed against an older
	// session can be detected and discarded.
	Generation uint64
}

// Manager owns the mutable session state for the running application. It is
// an injectable service with an explicit lifecycle, not a package singleton;
// construct one per process and one per test.
type Manager struct {
	store        Store
	resolver     *Resolver
	auth         Authenticator
	logger       Logger
	activitySink ActivitySink

	// storeMu serializes store writes with their matching state commits, so
	// an in-flight resolution outcome and a login can never interleave
	// between persisting a pair and making it visible. Holders of storeMu
	// may take mu, never the reverse.
	storeMu sync.Mutex

	mu         sync.Mutex
	token      Token
	user       *Identity
	loading    bool
	generation uint64
	disposed   bool
	subs       map[int]func(State)
	nextSub    int

	ready     chan struct{}
	readyOnce sync.Once
}

// NewManager returns a manager in the loading state. Call Init to run the
// initial resolution pass before consumers read from it.
func NewManager(store Store, resolver *Resolver) *Manager {
	return &Manager{
		store:        store,
		resolver:     resolver,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		loading:      true,
		subs:         map[int]func(State){},
		ready:        make(chan struct{}),
	}
}

// WithAuthenticator configures the external collaborator used by
// LoginWithService.
func (m *Manager) WithAuthenticator(auth Authenticator) *Manager {
	m.auth = auth
	return m
}

func (m *Manager) WithLogger(logger Logger) *Manager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithActivitySink configures an ActivitySink for emitting session events.
func (m *Manager) WithActivitySink(sink ActivitySink) *Manager {
	m.activitySink = normalizeActivitySink(sink)
	return m
}

// Init reconstructs session state from the store: a synchronous read
// followed by an asynchronous resolution pass. Loading stays true until the
// pass completes; resolution failures degrade to logged-out and clear the
// store rather than surfacing to the caller. The returned error is only a
// storage-engine failure, and the manager is logged out when it is non-nil.
func (m *Manager) Init(ctx context.Context) error {
	stored, err := m.store.Read(ctx)
	if err != nil {
		m.logger.Error("session store read failed, degrading to logged-out", "error", err)
		m.commit(Token{}, nil)
		return err
	}

	if stored.Token.IsZero() {
		if stored.User != nil {
			// an identity with no token is the other half of an
			// inconsistent pair
			m.clearAll(ctx)
			return nil
		}
		m.commit(Token{}, nil)
		return nil
	}

	if stored.User == nil {
		// a token with no readable identity is an invalid session
		m.logger.Warn("stored token has no readable identity, clearing session")
		m.clearAll(ctx)
		return nil
	}

	m.mu.Lock()
	m.token = stored.Token
	m.user = stored.User
	generation := m.generation
	m.mu.Unlock()

	go m.resolve(ctx, stored.Token, generation)

	return nil
}

// resolve runs the resolver and applies the outcome unless the session moved
// on while it was in flight; a superseded result is discarded. The check and
// the apply happen under storeMu as one step: every commit path holds
// storeMu, so the generation cannot move between the two.
func (m *Manager) resolve(ctx context.Context, token Token, generation uint64) {
	res := m.resolver.Resolve(ctx, token)

	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	m.mu.Lock()
	stale := m.disposed || m.generation != generation
	m.mu.Unlock()
	if stale {
		m.logger.Debug("discarding superseded resolution", "state", res.State)
		return
	}

	switch res.State {
	case StateResolved:
		m.commit(token, res.Identity)
	case StateNoSession:
		m.commit(Token{}, nil)
	default:
		m.logger.Info("session resolution invalid, logging out", "cause", res.Cause)
		m.emitEvent(ctx, ActivityEventSessionInvalid, "", map[string]any{
			"cause": causeMessage(res.Cause),
		})
		m.clearAllLocked(ctx)
	}
}

// Ready is closed once the initial resolution pass has completed (or the
// first explicit login/logout superseded it). Guards block on it instead of
// deciding against a session that is still resolving.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// Dispose releases subscribers and unblocks anything waiting on Ready.
// The manager reports logged-out afterwards.
func (m *Manager) Dispose() {
	m.mu.Lock()
	m.disposed = true
	m.token = Token{}
	m.user = nil
	m.loading = false
	m.subs = map[int]func(State){}
	m.mu.Unlock()
	m.signalReady()
}

// State returns a consistent snapshot of the session.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers a callback invoked with a snapshot after every
// committed change. The returned function unsubscribes.
func (m *Manager) Subscribe(fn func(State)) func() {
	if fn == nil {
		return func() {}
	}

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Login installs a (token, user) pair a prior successful authentication call
// already produced. The pair persists as a unit before it becomes visible;
// a persistence failure leaves the manager untouched.
func (m *Manager) Login(ctx context.Context, token Token, user *Identity) error {
	if token.IsZero() || user == nil {
		return ErrStorageInconsistent
	}

	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	if err := m.store.Save(ctx, token, user); err != nil {
		m.logger.Error("session persist failed", "error", err)
		return err
	}

	m.commit(token, user)

	eventType := ActivityEventLoginSuccess
	if token.IsMock() {
		eventType = ActivityEventMockLogin
	}
	m.emitEvent(ctx, eventType, user.ID, nil)

	return nil
}

// LoginWithService exchanges credentials through the authentication
// collaborator. On failure the error propagates and session state is left
// unchanged.
func (m *Manager) LoginWithService(ctx context.Context, creds Credentials) error {
	if m.auth == nil {
		return ErrNoAuthenticator
	}

	if err := creds.Validate(); err != nil {
		return err
	}

	token, user, err := m.auth.Login(ctx, creds)
	if err != nil {
		m.emitEvent(ctx, ActivityEventLoginFailure, "", map[string]any{
			"email": creds.Email,
			"error": err.Error(),
		})
		return err
	}

	return m.Login(ctx, token, user)
}

// LoginMock synthesizes a local session for development: a mock token plus
// an identity whose role derives from the email's +tag naming convention.
func (m *Manager) LoginMock(ctx context.Context, email string) error {
	identity := NewMockIdentity(email)
	if err := identity.Validate(); err != nil {
		return err
	}
	return m.Login(ctx, NewMockToken(), &identity)
}

// Logout clears the session in memory and in the store. Navigation after
// logout is the caller's responsibility.
func (m *Manager) Logout(ctx context.Context) {
	var userID string
	m.mu.Lock()
	if m.user != nil {
		userID = m.user.ID
	}
	m.mu.Unlock()

	m.clearAll(ctx)
	m.emitEvent(ctx, ActivityEventLogout, userID, nil)
}

func (m *Manager) clearAll(ctx context.Context) {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()
	m.clearAllLocked(ctx)
}

// clearAllLocked requires storeMu.
func (m *Manager) clearAllLocked(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("session store clear failed: %v", err)
	}
	m.commit(Token{}, nil)
}

// commit applies a state change atomically: token and user move together,
// loading drops, the generation advances, and subscribers are notified
// outside the lock.
func (m *Manager) commit(token Token, user *Identity) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.token = token
	m.user = user
	m.loading = false
	m.generation++
	snap := m.snapshotLocked()
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	m.signalReady()

	for _, fn := range subs {
		fn(snap)
	}
}

func (m *Manager) snapshotLocked() State {
	var user *Identity
	if m.user != nil {
		clone := *m.user
		clone.Roles = append([]UserRole(nil), m.user.Roles...)
		user = &clone
	}

	return State{
		Token:         m.token,
		User:          user,
		Loading:       m.loading,
		Authenticated: user != nil,
		Generation:    m.generation,
	}
}

func (m *Manager) emitEvent(ctx context.Context, eventType ActivityEventType, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(m.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		UserID:    userID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		m.logger.Warn("activity sink record error: %v", err)
	}
}

func causeMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (m *Manager) signalReady() {
	m.readyOnce.Do(func() {
		close(m.ready)
	})
}
