package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotLoggedIn is returned by Session calls that need an account.
var ErrNotLoggedIn = errors.New("not logged in")

// Session is the logged-in view of one account. The dashboard is fetched on
// demand and reused for at most TTL; every mutating call drops it so the
// next read reflects the change.
type Session struct {
	Client *Client
	TTL    time.Duration

	mu        sync.Mutex
	userID    string
	view      *ProfileView
	fetchedAt time.Time
	// gen changes whenever the cached view must not be reused. A fetch
	// only stores its result if gen is unchanged since it started.
	gen uint64
	now func() time.Time
}

// NewSession creates a Session over c. A non-positive ttl disables reuse.
func NewSession(c *Client, ttl time.Duration) *Session {
	return &Session{Client: c, TTL: ttl, now: time.Now}
}

// UserID returns the logged-in account id, or "".
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// reset replaces the account and drops the cached view. Callers hold mu.
func (s *Session) reset(userID string) {
	s.userID = userID
	s.view = nil
	s.gen++
}

func (s *Session) start(res *AuthResult) {
	s.mu.Lock()
	s.reset(res.ID)
	s.mu.Unlock()
}

// Register creates an account and logs into it.
func (s *Session) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	res, err := s.Client.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	s.start(res)
	return res, nil
}

// Login authenticates and starts a fresh session.
func (s *Session) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	res, err := s.Client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	s.start(res)
	return res, nil
}

// Logout discards the token, the account and the cached dashboard.
func (s *Session) Logout(ctx context.Context) error {
	_, err := s.Client.Logout(ctx)
	s.mu.Lock()
	s.reset("")
	s.mu.Unlock()
	return err
}

// Invalidate drops the cached dashboard, including one still being fetched.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.view = nil
	s.gen++
	s.mu.Unlock()
}

// Dashboard returns the cached view while it is fresh, otherwise fetches it.
// The returned view is the caller's to modify.
func (s *Session) Dashboard(ctx context.Context) (*ProfileView, error) {
	s.mu.Lock()
	userID := s.userID
	if userID == "" {
		s.mu.Unlock()
		return nil, ErrNotLoggedIn
	}
	if s.view != nil && s.now().Sub(s.fetchedAt) < s.TTL {
		view := s.view.clone()
		s.mu.Unlock()
		return view, nil
	}
	gen := s.gen
	s.mu.Unlock()

	view, err := s.Client.Dashboard(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.gen == gen {
		s.view = view.clone()
		s.fetchedAt = s.now()
	}
	s.mu.Unlock()

	return view, nil
}

func (s *Session) requireUser() (string, error) {
	id := s.UserID()
	if id == "" {
		return "", ErrNotLoggedIn
	}
	return id, nil
}

// UpdateProfile edits the logged-in account.
func (s *Session) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	id, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	defer s.Invalidate()
	return s.Client.UpdateProfile(ctx, id, update)
}

// SendFriendRequest sends a request from the logged-in account to friendID.
func (s *Session) SendFriendRequest(ctx context.Context, friendID string) (string, error) {
	id, err := s.requireUser()
	if err != nil {
		return "", err
	}
	defer s.Invalidate()
	return s.Client.SendFriendRequest(ctx, id, friendID)
}

// HandleFriendRequest accepts or rejects a request to the logged-in account.
func (s *Session) HandleFriendRequest(ctx context.Context, requesterID string, accept bool) (*FriendDecisionResult, error) {
	id, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	defer s.Invalidate()
	return s.Client.HandleFriendRequest(ctx, id, requesterID, accept)
}
