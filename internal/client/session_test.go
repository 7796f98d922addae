package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sessionFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestSession_PersistsAcrossLoads(t *testing.T) {
	path := sessionFile(t)

	s, err := LoadSession(path)
	assert.NoError(t, err)
	assert.False(t, s.LoggedIn())

	user := UserInfo{ID: 3, Name: "Test User", Email: "test@example.com"}
	assert.NoError(t, s.Set("some-token", user))

	reloaded, err := LoadSession(path)
	assert.NoError(t, err)
	assert.True(t, reloaded.LoggedIn())
	assert.Equal(t, "some-token", reloaded.Token())
	assert.Equal(t, user, reloaded.User())
}

func TestSession_ClearNotifiesSubscribers(t *testing.T) {
	s, err := LoadSession(sessionFile(t))
	assert.NoError(t, err)
	assert.NoError(t, s.Set("tok", UserInfo{ID: 1}))

	fired := 0
	s.OnLogout(func() { fired++ })

	assert.NoError(t, s.Clear())
	assert.Equal(t, 1, fired)
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.DoneIDs())
}

func TestSession_DoneState(t *testing.T) {
	path := sessionFile(t)
	s, err := LoadSession(path)
	assert.NoError(t, err)

	done, err := s.ToggleDone(7)
	assert.NoError(t, err)
	assert.True(t, done)
	assert.True(t, s.IsDone(7))

	// Completion marks survive a reload, like the rest of the session.
	reloaded, err := LoadSession(path)
	assert.NoError(t, err)
	assert.True(t, reloaded.IsDone(7))

	done, err = reloaded.ToggleDone(7)
	assert.NoError(t, err)
	assert.False(t, done)
	assert.False(t, reloaded.IsDone(7))
}

func TestSession_PruneDoneDropsDeletedTasks(t *testing.T) {
	s, err := LoadSession(sessionFile(t))
	assert.NoError(t, err)

	_, _ = s.ToggleDone(1)
	_, _ = s.ToggleDone(2)

	assert.NoError(t, s.PruneDone(map[uint]bool{1: true}))
	assert.True(t, s.IsDone(1))
	assert.False(t, s.IsDone(2))
}

func TestSession_CorruptFileReadsAsLoggedOut(t *testing.T) {
	path := sessionFile(t)
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := LoadSession(path)
	assert.NoError(t, err)
	assert.False(t, s.LoggedIn())
}
