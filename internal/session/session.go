// Package session holds the process-wide authentication session: the
// API token and the user profile returned by login or register. The
// session persists across invocations as a JSON file, the CLI analog
// of the browser's durable storage. Mutation is always a full
// overwrite; the writers are login, register, logout, and the global
// unauthorized handler.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/settlesavvy/settlemap-cli/internal/model"
)

// Session is the persisted authentication state.
type Session struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Valid reports whether the session carries a usable token.
func (s Session) Valid() bool {
	return s.Token != ""
}

// Store reads and writes the durable session file.
type Store struct {
	mu   sync.RWMutex
	path string
}

// NewStore creates a session store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Read returns the current session. A missing or unreadable file is
// reported as no session, not an error: an invalid session file should
// behave exactly like being logged out.
func (s *Store) Read() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return Session{}, false
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		zap.L().Warn("session: corrupt session file, treating as logged out", zap.Error(err))
		return Session{}, false
	}
	if !sess.Valid() {
		return Session{}, false
	}
	return sess, true
}

// Set overwrites the stored session.
func (s *Store) Set(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return eris.Wrap(err, "session: create state dir")
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return eris.Wrap(err, "session: marshal")
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return eris.Wrap(err, "session: write")
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is not
// an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return eris.Wrap(err, "session: clear")
	}
	return nil
}
