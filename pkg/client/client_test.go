package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dias221467/Social_Network/internal/config"
	"github.com/Dias221467/Social_Network/internal/handlers"
	"github.com/Dias221467/Social_Network/internal/repository"
	"github.com/Dias221467/Social_Network/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newRouter())
	t.Cleanup(srv.Close)
	return srv
}

func newRouter() http.Handler {
	cfg := &config.Config{JWTSecret: "client-secret", TokenExpiry: time.Hour, AuthRequired: true}
	store := repository.NewMemoryStore()
	users := handlers.NewUserHandler(
		services.NewAuthService(store, cfg.JWTSecret, cfg.TokenExpiry),
		services.NewProfileService(store, nil),
		services.NewDirectoryService(store),
		cfg,
	)
	friends := handlers.NewFriendHandler(services.NewFriendService(store, store, nil), cfg)
	return handlers.NewRouter(cfg, users, friends)
}

// fakeClock is advanced by hand.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newSession(srv *httptest.Server, clock *fakeClock) *Session {
	s := NewSession(New(Config{BaseURL: srv.URL, HTTPClient: srv.Client()}), time.Minute)
	s.now = clock.now
	return s
}

func TestClient_PublicEndpoints(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := New(Config{BaseURL: srv.URL})

	require.NoError(t, c.Health(ctx))

	res, err := c.Register(ctx, RegisterInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, res.Token, c.Token())

	_, err = c.Register(ctx, RegisterInput{Username: "alice", Password: "pw"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "User already exists", apiErr.Message)

	_, err = c.Login(ctx, "alice", "wrong")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	top, err := c.TopUsers(ctx)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "alice", top[0].Username)

	found, err := c.Search(ctx, "LIC")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, res.ID, found[0].ID)

	ids, err := c.GetUserIDs(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{res.ID}, ids)

	msg, err := c.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "logged out", msg)
	assert.Empty(t, c.Token())
}

func TestSession_DashboardCaching(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	alice := newSession(srv, clock)
	bob := newSession(srv, clock)

	_, err := alice.Dashboard(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = alice.Register(ctx, RegisterInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	_, err = bob.Register(ctx, RegisterInput{Username: "bob", Password: "pw"})
	require.NoError(t, err)

	view, err := alice.Dashboard(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.FriendRequests)

	msg, err := bob.SendFriendRequest(ctx, alice.UserID())
	require.NoError(t, err)
	assert.Equal(t, "Friend request sent successfully", msg)

	// Another session's write is not seen until the cached view expires.
	view, err = alice.Dashboard(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.FriendRequests)

	clock.t = clock.t.Add(2 * time.Minute)
	view, err = alice.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, view.FriendRequests)

	// The session's own writes are visible immediately.
	res, err := alice.HandleFriendRequest(ctx, bob.UserID(), true)
	require.NoError(t, err)
	assert.Equal(t, "Friend request accepted", res.Message)

	view, err = alice.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, view.Friends)
	assert.Empty(t, view.FriendRequests)

	// Editing a returned view leaves the cached one alone.
	view.Friends[0] = "mallory"
	view, err = alice.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, view.Friends)

	_, err = alice.UpdateProfile(ctx, ProfileUpdate{Username: "alicia", Gender: "f"})
	require.NoError(t, err)
	view, err = alice.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alicia", view.Username)

	require.NoError(t, alice.Logout(ctx))
	assert.Empty(t, alice.UserID())
	assert.Empty(t, alice.Client.Token())
	_, err = alice.Dashboard(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = alice.SendFriendRequest(ctx, bob.UserID())
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = alice.Login(ctx, "alicia", "pw")
	require.NoError(t, err)
	view, err = alice.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, view.Friends)
}

func TestSession_RejectsOtherUsersWithoutToken(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := New(Config{BaseURL: srv.URL})

	res, err := c.Register(ctx, RegisterInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	c.SetToken("")

	_, err = c.Dashboard(ctx, res.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

// heldDashboard computes the next dashboard response, then waits for
// release before sending it.
type heldDashboard struct {
	next     http.Handler
	armed    atomic.Bool
	computed chan struct{}
	release  chan struct{}
}

func (h *heldDashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/users/dashboard" || !h.armed.CompareAndSwap(true, false) {
		h.next.ServeHTTP(w, r)
		return
	}
	rec := httptest.NewRecorder()
	h.next.ServeHTTP(rec, r)
	close(h.computed)
	<-h.release

	for k, v := range rec.Header() {
		w.Header()[k] = v
	}
	w.WriteHeader(rec.Code)
	_, _ = w.Write(rec.Body.Bytes())
}

func TestSession_WriteDuringFetchIsNotHidden(t *testing.T) {
	held := &heldDashboard{next: newRouter(), computed: make(chan struct{}), release: make(chan struct{})}
	srv := httptest.NewServer(held)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	alice := newSession(srv, clock)
	_, err := alice.Register(ctx, RegisterInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	held.armed.Store(true)
	inFlight := make(chan *ProfileView)
	go func() {
		view, err := alice.Dashboard(ctx)
		assert.NoError(t, err)
		inFlight <- view
	}()

	<-held.computed
	_, err = alice.UpdateProfile(ctx, ProfileUpdate{Username: "alicia"})
	require.NoError(t, err)
	close(held.release)

	old := <-inFlight
	require.NotNil(t, old)
	assert.Equal(t, "alice", old.Username)

	view, err := alice.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alicia", view.Username)
}
