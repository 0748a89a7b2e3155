package session_test

import (
	"context"
	"io"
	"mime/multipart"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	session "github.com/apsas/go-session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthenticator implements session.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, creds session.Credentials) (session.Token, *session.Identity, error) {
	args := m.Called(ctx, creds)
	token, _ := args.Get(0).(session.Token)
	user, _ := args.Get(1).(*session.Identity)
	return token, user, args.Error(2)
}

// failingStore wraps a MemoryStore and injects errors per operation.
type failingStore struct {
	inner    *session.MemoryStore
	saveErr  error
	readErr  error
	clearErr error
}

func newFailingStore() *failingStore {
	return &failingStore{inner: session.NewMemoryStore()}
}

func (s *failingStore) Save(ctx context.Context, token session.Token, user *session.Identity) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.inner.Save(ctx, token, user)
}

func (s *failingStore) Read(ctx context.Context) (session.StoredSession, error) {
	if s.readErr != nil {
		return session.StoredSession{}, s.readErr
	}
	return s.inner.Read(ctx)
}

func (s *failingStore) Clear(ctx context.Context) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	return s.inner.Clear(ctx)
}

// blockingStore wraps a MemoryStore and can park individual operations, so
// tests can interleave an in-flight resolution with logins.
type blockingStore struct {
	inner *session.MemoryStore

	blockClear   bool
	clearOnce    sync.Once
	clearEntered chan struct{}
	clearRelease chan struct{}

	blockSecondRead bool
	readCount       int32
	readOnce        sync.Once
	readEntered     chan struct{}
	readRelease     chan struct{}
}

func newBlockingStore() *blockingStore {
	return &blockingStore{
		inner:        session.NewMemoryStore(),
		clearEntered: make(chan struct{}),
		clearRelease: make(chan struct{}),
		readEntered:  make(chan struct{}),
		readRelease:  make(chan struct{}),
	}
}

func (s *blockingStore) Save(ctx context.Context, token session.Token, user *session.Identity) error {
	return s.inner.Save(ctx, token, user)
}

func (s *blockingStore) Read(ctx context.Context) (session.StoredSession, error) {
	if s.blockSecondRead && atomic.AddInt32(&s.readCount, 1) == 2 {
		s.readOnce.Do(func() {
			close(s.readEntered)
			<-s.readRelease
		})
	}
	return s.inner.Read(ctx)
}

func (s *blockingStore) Clear(ctx context.Context) error {
	if s.blockClear {
		s.clearOnce.Do(func() {
			close(s.clearEntered)
			<-s.clearRelease
		})
	}
	return s.inner.Clear(ctx)
}

func testIdentity(role session.UserRole) *session.Identity {
	return &session.Identity{
		ID:    "7d5f2c1e-0b0a-4f28-9a9f-2f3a07c14c55",
		Name:  "Test User",
		Email: "user@test.com",
		Role:  role,
	}
}

func mintBearerToken(t *testing.T, claims *session.SessionClaims) session.Token {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	return session.NewBearerToken(signed)
}

func validClaims(role session.UserRole) *session.SessionClaims {
	now := time.Now()
	return &session.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7d5f2c1e-0b0a-4f28-9a9f-2f3a07c14c55",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Name:     "Test User",
		Email:    "user@test.com",
		UserRole: role,
	}
}

// initManager builds a manager over the store and waits for the initial
// resolution pass to finish.
func initManager(t *testing.T, store session.Store) *session.Manager {
	t.Helper()

	mgr := session.NewManager(store, session.NewResolver(store))
	require.NoError(t, mgr.Init(context.Background()))

	select {
	case <-mgr.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not finish initial resolution")
	}

	return mgr
}

// MockContext mocks the router.Context
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) QueryValues(key string) []string {
	args := m.Called(key)
	vals, _ := args.Get(0).([]string)
	return vals
}

func (m *MockContext) LocalsMerge(key any, value map[string]any) map[string]any {
	args := m.Called(key, value)
	merged, _ := args.Get(0).(map[string]any)
	return merged
}

func (m *MockContext) FormFile(key string) (*multipart.FileHeader, error) {
	args := m.Called(key)
	file, _ := args.Get(0).(*multipart.FileHeader)
	return file, args.Error(1)
}

func (m *MockContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) IP() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) SendStatus(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) SendStream(r io.Reader) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockContext) RouteName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) RouteParams() map[string]string {
	args := m.Called()
	params, _ := args.Get(0).(map[string]string)
	return params
}
