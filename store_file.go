package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the session pair as a single JSON document on disk, the
// durable-storage analogue of the browser's local storage. Writes go through
// a temp file and rename so an individual Save is atomic at the file level;
// cross-process writers still race (last writer wins).
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger Logger
}

var _ Store = (*FileStore)(nil)

type fileDocument struct {
	Token string `json:"token,omitempty"`
	User  string `json:"user,omitempty"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, logger: defLogger{}}
}

func (s *FileStore) WithLogger(logger Logger) *FileStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *FileStore) Save(_ context.Context, token Token, user *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := encodeStoredUser(user)
	if err != nil {
		if rmErr := s.remove(); rmErr != nil {
			s.logger.Warn("file store clear after failed save: %v", rmErr)
		}
		return err
	}

	doc := fileDocument{Token: token.Encode(), User: raw}
	payload, err := json.Marshal(doc)
	if err != nil {
		if rmErr := s.remove(); rmErr != nil {
			s.logger.Warn("file store clear after failed save: %v", rmErr)
		}
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Read(_ context.Context) (StoredSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return StoredSession{}, nil
		}
		return StoredSession{}, err
	}

	var doc fileDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		// corrupt document degrades to logged-out
		s.logger.Warn("file store unreadable, treating as empty: %v", err)
		return StoredSession{}, nil
	}

	return StoredSession{
		Token: DecodeToken(doc.Token),
		User:  decodeStoredUser(doc.User),
	}, nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove()
}

func (s *FileStore) remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
