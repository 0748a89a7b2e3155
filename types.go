package session

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Credentials is the payload exchanged with the authentication collaborator.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the credential shape before it leaves the client.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password, validation.Required),
	)
}

// Authenticator exchanges credentials for a session. The implementation is an
// external collaborator (REST client, OAuth broker); this package only
// consumes the (token, identity) pair it produces.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (Token, *Identity, error)
}

// Store is the single persistence boundary for the raw token and the
// last-known identity. Engines must treat Save as all-or-nothing: a partial
// failure clears both keys rather than leaving them inconsistent.
type Store interface {
	Save(ctx context.Context, token Token, user *Identity) error
	Read(ctx context.Context) (StoredSession, error)
	Clear(ctx context.Context) error
}

// StoredSession is what Store.Read reconstructs from durable storage. User is
// nil when the stored record is absent or could not be parsed; callers treat
// a non-zero token with a nil user as an invalid session.
type StoredSession struct {
	Token Token
	User  *Identity
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
