package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Dias221467/Social_Network/internal/models"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newClockedStore returns a store whose clock advances one second per call.
func newClockedStore() *MemoryStore {
	s := NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func mustCreate(t *testing.T, s *MemoryStore, username string) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), &models.User{Username: username, HashedPassword: "h"})
	require.NoError(t, err)
	return u
}

func TestMemoryStore_CreateUser(t *testing.T) {
	s := newClockedStore()
	ctx := context.Background()

	u := mustCreate(t, s, "alice")
	require.False(t, u.ID.IsZero())
	require.NotNil(t, u.Friends)
	require.NotNil(t, u.FriendRequests)
	require.False(t, u.CreatedAt.IsZero())

	_, err := s.CreateUser(ctx, &models.User{Username: "alice"})
	require.ErrorIs(t, err, ErrDuplicateKey)

	// Case-sensitive uniqueness.
	mustCreate(t, s, "Alice")

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = s.GetUserByID(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := newClockedStore()
	ctx := context.Background()
	u := mustCreate(t, s, "alice")

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	got.Friends = append(got.Friends, primitive.NewObjectID())
	got.Username = "mallory"

	again, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, again.Friends)
	require.Equal(t, "alice", again.Username)
}

func TestMemoryStore_UpdateProfile(t *testing.T) {
	s := newClockedStore()
	ctx := context.Background()
	alice := mustCreate(t, s, "alice")
	mustCreate(t, s, "bob")

	dob, err := models.ParseDate("1990-01-02")
	require.NoError(t, err)

	updated, err := s.UpdateProfile(ctx, alice.ID, models.ProfileUpdate{Username: "alicia", Gender: "female", DOB: dob})
	require.NoError(t, err)
	require.Equal(t, "alicia", updated.Username)
	require.Equal(t, "female", updated.Gender)
	require.Equal(t, "1990-01-02", updated.DOB.String())
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = s.UpdateProfile(ctx, alice.ID, models.ProfileUpdate{Username: "bob"})
	require.ErrorIs(t, err, ErrDuplicateKey)

	// Keeping one's own username is not a conflict.
	_, err = s.UpdateProfile(ctx, alice.ID, models.ProfileUpdate{Username: "alicia"})
	require.NoError(t, err)

	_, err = s.UpdateProfile(ctx, primitive.NewObjectID(), models.ProfileUpdate{Username: "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ListRecentAndSearch(t *testing.T) {
	s := newClockedStore()
	ctx := context.Background()

	names := []string{"alice", "ALIstair", "bob", "carol", "dave", "erin", "frank", "grace", "heidi", "ivan", "judy", "mallory"}
	for _, n := range names {
		mustCreate(t, s, n)
	}

	recent, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	require.Equal(t, "mallory", recent[0].Username)
	for i := 1; i < len(recent); i++ {
		require.False(t, recent[i].CreatedAt.After(recent[i-1].CreatedAt))
	}

	found, err := s.SearchByUsername(ctx, "ali", 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, f := range found {
		require.Contains(t, []string{"alice", "ALIstair"}, f.Username)
	}

	all, err := s.SearchByUsername(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 10)

	ids, err := s.FindIDsByUsername(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, ids, 1)

	ids, err = s.FindIDsByUsername(ctx, "BOB")
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestMemoryStore_GetUsersByIDs(t *testing.T) {
	s := newClockedStore()
	a := mustCreate(t, s, "alice")
	b := mustCreate(t, s, "bob")

	users, err := s.GetUsersByIDs(context.Background(), []primitive.ObjectID{b.ID, primitive.NewObjectID(), a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestMemoryStore_FriendRequestLifecycle(t *testing.T) {
	s := newClockedStore()
	ctx := context.Background()
	alice := mustCreate(t, s, "alice")
	bob := mustCreate(t, s, "bob")

	require.NoError(t, s.PushFriendRequest(ctx, alice.ID, bob.ID))
	require.ErrorIs(t, s.PushFriendRequest(ctx, alice.ID, bob.ID), ErrAlreadyRequested)
	require.ErrorIs(t, s.PushFriendRequest(ctx, primitive.NewObjectID(), bob.ID), ErrNotFound)

	_, err := s.ResolveFriendRequest(ctx, bob.ID, alice.ID, true)
	require.ErrorIs(t, err, ErrRequestNotFound)

	updated, err := s.ResolveFriendRequest(ctx, alice.ID, bob.ID, true)
	require.NoError(t, err)
	require.Equal(t, []primitive.ObjectID{bob.ID}, updated.Friends)
	require.Empty(t, updated.FriendRequests)

	b, err := s.GetUserByID(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, []primitive.ObjectID{alice.ID}, b.Friends)
}

func TestMemoryStore_RejectLeavesFriendsUntouched(t *testing.T) {
	s := newClockedStore()
	ctx := context.Background()
	alice := mustCreate(t, s, "alice")
	bob := mustCreate(t, s, "bob")

	require.NoError(t, s.PushFriendRequest(ctx, alice.ID, bob.ID))

	updated, err := s.ResolveFriendRequest(ctx, alice.ID, bob.ID, false)
	require.NoError(t, err)
	require.Empty(t, updated.Friends)
	require.Empty(t, updated.FriendRequests)

	b, err := s.GetUserByID(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, b.Friends)
}

func TestMemoryStore_AddAndPull(t *testing.T) {
	s := newClockedStore()
	ctx := context.Background()
	alice := mustCreate(t, s, "alice")
	bob := mustCreate(t, s, "bob")

	require.NoError(t, s.AddFriend(ctx, alice.ID, bob.ID))
	require.NoError(t, s.AddFriend(ctx, alice.ID, bob.ID))
	require.ErrorIs(t, s.AddFriend(ctx, primitive.NewObjectID(), bob.ID), ErrNotFound)

	require.NoError(t, s.PushFriendRequest(ctx, alice.ID, bob.ID))
	require.NoError(t, s.PullFriendRequest(ctx, alice.ID, bob.ID))

	a, err := s.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, []primitive.ObjectID{bob.ID}, a.Friends)
	require.Empty(t, a.FriendRequests)
}
