package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskboard/internal/model"
)

// ErrUnauthenticated is returned when the server answers 401. The session
// has already been cleared by the time callers see it.
var ErrUnauthenticated = errors.New("session invalid, please log in again")

// APIError carries the server's error envelope for non-401 failures.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Client is a typed wrapper over the REST API. It attaches the session's
// bearer token to every request and force-logs-out on any 401.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New creates a client for the API at baseURL, e.g. "http://localhost:5000/api".
func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
}

type authPayload struct {
	User  UserInfo `json:"user"`
	Token string   `json:"token"`
}

type profilePayload struct {
	User UserInfo `json:"user"`
}

type messagePayload struct {
	Message string `json:"message"`
}

// Register creates an account and stores the returned session.
func (c *Client) Register(ctx context.Context, name, email, password string) (UserInfo, error) {
	var out authPayload
	err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return UserInfo{}, err
	}
	if err := c.session.Set(out.Token, out.User); err != nil {
		return UserInfo{}, fmt.Errorf("save session: %w", err)
	}
	return out.User, nil
}

// Login authenticates and stores the returned session.
func (c *Client) Login(ctx context.Context, email, password string) (UserInfo, error) {
	var out authPayload
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return UserInfo{}, err
	}
	if err := c.session.Set(out.Token, out.User); err != nil {
		return UserInfo{}, fmt.Errorf("save session: %w", err)
	}
	return out.User, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (UserInfo, error) {
	var out profilePayload
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &out); err != nil {
		return UserInfo{}, err
	}
	return out.User, nil
}

// Tasks lists the authenticated user's tasks.
func (c *Client) Tasks(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTask adds a task and returns the stored row.
func (c *Client) CreateTask(ctx context.Context, title, description string) (*model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodPost, "/tasks", map[string]string{
		"title":       title,
		"description": description,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask replaces a task's title and description.
func (c *Client) UpdateTask(ctx context.Context, id uint, title, description string) (*model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), map[string]string{
		"title":       title,
		"description": description,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id uint) error {
	var out messagePayload
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, &out)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Any 401 means the session is invalid, whatever the request was.
		_ = c.session.Clear()
		return ErrUnauthenticated
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error  string            `json:"error"`
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
			apiErr.Message = envelope.Error
			apiErr.Code = envelope.Code
			apiErr.Fields = envelope.Fields
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
