package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// UserInfo mirrors the user object returned by the auth endpoints.
type UserInfo struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// sessionState is the persisted form of a session: the bearer token, the
// logged-in user, and the locally-tracked set of completed task ids.
// Completion is a client-side concept; the backend does not persist it.
type sessionState struct {
	Token string        `json:"token"`
	User  UserInfo      `json:"user"`
	Done  map[uint]bool `json:"done,omitempty"`
}

// Session holds the credentials the client attaches to every request,
// persisted to a file the way the original client used browser storage.
// Clear notifies subscribers, which is how a 401 anywhere forces logout.
type Session struct {
	mu       sync.Mutex
	path     string
	state    sessionState
	onLogout []func()
}

// DefaultSessionPath returns the session file location under the user
// config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "taskboard", "session.json"), nil
}

// LoadSession reads the session file, returning an empty session if the
// file does not exist yet.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path, state: sessionState{Done: map[uint]bool{}}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		// Corrupt session file reads as logged out.
		s.state = sessionState{Done: map[uint]bool{}}
	}
	if s.state.Done == nil {
		s.state.Done = map[uint]bool{}
	}
	return s, nil
}

// OnLogout registers a hook invoked whenever the session is cleared.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Token returns the stored bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// User returns the stored user object.
func (s *Session) User() UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.User
}

// LoggedIn reports whether a token is present.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// Set stores the token and user and persists the session.
func (s *Session) Set(token string, user UserInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	s.state.User = user
	return s.save()
}

// Clear wipes credentials and completion state, persists, and notifies
// logout subscribers.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.state = sessionState{Done: map[uint]bool{}}
	err := s.save()
	hooks := make([]func(), len(s.onLogout))
	copy(hooks, s.onLogout)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return err
}

// ToggleDone flips local completion state for a task and persists it.
func (s *Session) ToggleDone(taskID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	done := !s.state.Done[taskID]
	if done {
		s.state.Done[taskID] = true
	} else {
		delete(s.state.Done, taskID)
	}
	return done, s.save()
}

// IsDone reports local completion state for a task.
func (s *Session) IsDone(taskID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Done[taskID]
}

// DoneIDs returns the ids currently marked completed.
func (s *Session) DoneIDs() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint, 0, len(s.state.Done))
	for id := range s.state.Done {
		ids = append(ids, id)
	}
	return ids
}

// PruneDone drops completion marks for tasks that no longer exist.
func (s *Session) PruneDone(existing map[uint]bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for id := range s.state.Done {
		if !existing[id] {
			delete(s.state.Done, id)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save()
}

// save persists the state; callers hold the mutex.
func (s *Session) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
