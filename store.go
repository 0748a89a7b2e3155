package session

import (
	"context"
	"encoding/json"
	"sync"
)

const (
	storeKeyToken = "token"
	storeKeyUser  = "user"
)

func encodeStoredUser(user *Identity) (string, error) {
	if user == nil {
		return "", nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeStoredUser returns nil for absent or unparsable records. A corrupt
// local record must never crash the app on startup; the caller sees a token
// without an identity and forces a logout.
func decodeStoredUser(raw string) *Identity {
	if raw == "" {
		return nil
	}
	var user Identity
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	return &user
}

// MemoryStore keeps the session pair in process memory. It is the default
// engine and the one tests use.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Save(_ context.Context, token Token, user *Identity) error {
	raw, err := encodeStoredUser(user)
	if err != nil {
		s.mu.Lock()
		delete(s.values, storeKeyToken)
		delete(s.values, storeKeyUser)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[storeKeyToken] = token.Encode()
	s.values[storeKeyUser] = raw
	return nil
}

func (s *MemoryStore) Read(_ context.Context) (StoredSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StoredSession{
		Token: DecodeToken(s.values[storeKeyToken]),
		User:  decodeStoredUser(s.values[storeKeyUser]),
	}, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, storeKeyToken)
	delete(s.values, storeKeyUser)
	return nil
}
