package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	session, err := LoadSession(sessionFile(t))
	assert.NoError(t, err)
	return New(srv.URL, session), session
}

func TestClient_LoginStoresSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test@example.com", req["email"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"user":  UserInfo{ID: 3, Name: "Test User", Email: "test@example.com"},
			"token": "issued-token",
		})
	})

	c, session := newTestClient(t, mux)
	user, err := c.Login(context.Background(), "test@example.com", "password123")

	assert.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)
	assert.Equal(t, "issued-token", session.Token())
	assert.Equal(t, user, session.User())
}

func TestClient_AttachesBearerToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stored-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]interface{}{})
	})

	c, session := newTestClient(t, mux)
	assert.NoError(t, session.Set("stored-token", UserInfo{ID: 3}))

	_, err := c.Tasks(context.Background())
	assert.NoError(t, err)
}

func TestClient_401ForcesLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "missing or invalid token",
			"code":  "UNAUTHENTICATED",
		})
	})

	c, session := newTestClient(t, mux)
	assert.NoError(t, session.Set("expired-token", UserInfo{ID: 3}))

	fired := false
	session.OnLogout(func() { fired = true })

	_, err := c.Tasks(context.Background())

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.False(t, session.LoggedIn())
	assert.True(t, fired)
}

func TestClient_DecodesErrorEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tasks", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":  "validation failed",
			"code":   "VALIDATION_ERROR",
			"fields": map[string]string{"title": "title is required"},
		})
	})

	c, session := newTestClient(t, mux)
	assert.NoError(t, session.Set("tok", UserInfo{ID: 3}))

	_, err := c.CreateTask(context.Background(), "", "")

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "title is required", apiErr.Fields["title"])
	// A 400 is not a session problem.
	assert.True(t, session.LoggedIn())
}
