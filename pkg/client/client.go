// Package client is a Go client for the social network HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Client calls the /api/users endpoints. After Register or Login it sends
// the issued token as a bearer token on every request.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is then ignored.
	HTTPClient *http.Client
}

// New creates a new Client.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: cfg.BaseURL, httpClient: hc}
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed: %d %s", e.StatusCode, e.Message)
}

// Message is an acknowledgement body.
type Message struct {
	Message string `json:"message"`
}

// Token returns the current bearer token, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the bearer token; "" stops sending one.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg Message
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &msg) != nil || msg.Message == "" {
			msg.Message = string(bytes.TrimSpace(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Register creates an account and keeps the issued token.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/users/register", in, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

// Login authenticates and keeps the issued token.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	var res AuthResult
	in := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/users/login", in, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

// Logout acknowledges the logout with the server and drops the token.
func (c *Client) Logout(ctx context.Context) (string, error) {
	var msg Message
	err := c.do(ctx, http.MethodPost, "/api/users/logout", nil, &msg)
	c.SetToken("")
	return msg.Message, err
}

// Dashboard fetches userID's profile view.
func (c *Client) Dashboard(ctx context.Context, userID string) (*ProfileView, error) {
	var view ProfileView
	if err := c.do(ctx, http.MethodPost, "/api/users/dashboard", map[string]string{"userId": userID}, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// UpdateProfile replaces userID's username, gender and DOB.
func (c *Client) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/api/users/update/"+url.PathEscape(userID), update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// TopUsers lists the most recently registered accounts.
func (c *Client) TopUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/api/users/top", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Search finds accounts whose username contains query.
func (c *Client) Search(ctx context.Context, query string) ([]UserSummary, error) {
	var users []UserSummary
	path := "/api/users/search?" + url.Values{"query": {query}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUserIDs returns the ids of accounts named exactly username.
func (c *Client) GetUserIDs(ctx context.Context, username string) ([]string, error) {
	var rows []struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/getuser/"+url.PathEscape(username), nil, &rows); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// SendFriendRequest sends a request from userID to friendID.
func (c *Client) SendFriendRequest(ctx context.Context, userID, friendID string) (string, error) {
	var msg Message
	in := friendRequest{UserID: userID, FriendID: friendID}
	if err := c.do(ctx, http.MethodPost, "/api/users/send-friend-request", in, &msg); err != nil {
		return "", err
	}
	return msg.Message, nil
}

// HandleFriendRequest accepts or rejects requesterID's request to userID.
func (c *Client) HandleFriendRequest(ctx context.Context, userID, requesterID string, accept bool) (*FriendDecisionResult, error) {
	var res FriendDecisionResult
	in := friendDecision{UserID: userID, RequesterID: requesterID, Accept: accept}
	if err := c.do(ctx, http.MethodPost, "/api/users/handle-friend-request", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Health checks the server's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
