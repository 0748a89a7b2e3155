package session

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeTokenMalformed flags tokens we could not decode.
	TextCodeTokenMalformed = "session_token_malformed"
	// TextCodeTokenExpired flags tokens past their expiry claim.
	TextCodeTokenExpired = "session_token_expired"
	// TextCodeMockIdentityMissing flags a mock token with no stored identity.
	TextCodeMockIdentityMissing = "session_mock_identity_missing"
	// TextCodeStorageInconsistent flags a token/user pair where only one key is present.
	TextCodeStorageInconsistent = "session_storage_inconsistent"
	// TextCodeUnknownRole flags a role outside the platform role set.
	TextCodeUnknownRole = "session_unknown_role"
	// TextCodeNoAuthenticator flags a credential login without a configured collaborator.
	TextCodeNoAuthenticator = "session_no_authenticator"
	// TextCodeStaleDecision flags a guard decision applied after the session changed.
	TextCodeStaleDecision = "session_stale_guard_decision"
)

// ErrTokenMalformed is returned when a bearer token cannot be decoded.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a bearer token carries an elapsed expiry claim.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrMockIdentityMissing is returned when a mock token has no stored identity to
// pair with. The session is inconsistent and must be cleared.
var ErrMockIdentityMissing = errors.New("mock token has no stored identity", errors.CategoryAuth).
	WithTextCode(TextCodeMockIdentityMissing).
	WithCode(errors.CodeUnauthorized)

// ErrStorageInconsistent is returned when storage holds a token without a user
// record or vice versa.
var ErrStorageInconsistent = errors.New("stored session is inconsistent", errors.CategoryConflict).
	WithTextCode(TextCodeStorageInconsistent).
	WithCode(errors.CodeConflict)

// ErrUnknownRole is returned when a role string is outside the platform role set.
var ErrUnknownRole = errors.New("unknown role", errors.CategoryValidation).
	WithTextCode(TextCodeUnknownRole).
	WithCode(errors.CodeBadRequest)

// ErrNoAuthenticator is returned by LoginWithService when no Authenticator
// collaborator was configured.
var ErrNoAuthenticator = errors.New("no authenticator configured", errors.CategoryOperation).
	WithTextCode(TextCodeNoAuthenticator).
	WithCode(errors.CodeInternal)

// ErrStaleDecision is returned when a guard decision is applied after the
// session generation it was computed against has moved on.
var ErrStaleDecision = errors.New("guard decision is stale", errors.CategoryConflict).
	WithTextCode(TextCodeStaleDecision).
	WithCode(errors.CodeConflict)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for decode failures
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
