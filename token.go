package session

import (
	"strings"

	"github.com/google/uuid"
)

// TokenKind tags the token variant at creation time so no reader ever has to
// sniff string contents to tell a mock token from a real one.
type TokenKind string

const (
	// KindBearer is a structured bearer token carrying decodable claims.
	KindBearer TokenKind = "bearer"
	// KindMock is a locally synthesized token with no embedded claims, paired
	// with an identity stored alongside it.
	KindMock TokenKind = "mock"
)

// Token is an opaque session credential. The zero value means "no session".
type Token struct {
	Kind  TokenKind
	Value string
}

// NewBearerToken wraps a raw bearer string issued by the authentication
// collaborator.
func NewBearerToken(raw string) Token {
	return Token{Kind: KindBearer, Value: raw}
}

// NewMockToken synthesizes a mock token for local testing.
func NewMockToken() Token {
	return Token{Kind: KindMock, Value: uuid.New().String()}
}

// IsZero reports whether the token represents the logged-out state.
func (t Token) IsZero() bool {
	return t.Value == ""
}

// IsMock reports whether the token is a locally synthesized mock token.
func (t Token) IsMock() bool {
	return t.Kind == KindMock
}

// Encode renders the token for durable storage as "kind:value".
func (t Token) Encode() string {
	if t.IsZero() {
		return ""
	}
	kind := t.Kind
	if kind == "" {
		kind = KindBearer
	}
	return string(kind) + ":" + t.Value
}

func (t Token) String() string {
	return t.Encode()
}

// DecodeToken parses a stored token back into its tagged form. Records
// persisted before tagging was introduced carried the raw bearer string, so
// an unrecognized prefix decodes as a bearer token. A recognized prefix
// always wins: legacy values were compact JWTs, whose alphabet has no ':',
// so none of them can start with a "kind:" tag.
func DecodeToken(s string) Token {
	if s == "" {
		return Token{}
	}
	if value, ok := strings.CutPrefix(s, string(KindMock)+":"); ok {
		return Token{Kind: KindMock, Value: value}
	}
	if value, ok := strings.CutPrefix(s, string(KindBearer)+":"); ok {
		return Token{Kind: KindBearer, Value: value}
	}
	return Token{Kind: KindBearer, Value: s}
}
