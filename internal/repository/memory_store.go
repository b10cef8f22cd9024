package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dias221467/Social_Network/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process users collection with the same semantics as
// UserRepository and FriendRepository. Every operation holds one lock, so
// friend request resolution is atomic across both documents.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*models.User
	now   func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[primitive.ObjectID]*models.User),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Friends = append([]primitive.ObjectID{}, u.Friends...)
	c.FriendRequests = append([]primitive.ObjectID{}, u.FriendRequests...)
	return &c
}

func (s *MemoryStore) usernameTaken(username string, except primitive.ObjectID) bool {
	for id, u := range s.users {
		if id != except && u.Username == username {
			return true
		}
	}
	return false
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTaken(user.Username, primitive.NilObjectID) {
		return nil, ErrDuplicateKey
	}

	now := s.now()
	user.ID = primitive.NewObjectIDFromTimestamp(now)
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	if user.FriendRequests == nil {
		user.FriendRequests = []primitive.ObjectID{}
	}

	s.users[user.ID] = cloneUser(user)
	return user, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindIDsByUsername(_ context.Context, username string) ([]primitive.ObjectID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []primitive.ObjectID{}
	for id, u := range s.users {
		if u.Username == username {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *MemoryStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []models.User{}
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := s.users[id]; ok {
			users = append(users, *cloneUser(u))
		}
	}
	return users, nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.usernameTaken(update.Username, id) {
		return nil, ErrDuplicateKey
	}

	u.Username = update.Username
	u.Gender = update.Gender
	u.DOB = update.DOB
	u.UpdatedAt = s.now()
	return cloneUser(u), nil
}

// sorted returns all users newest first; ties are broken by id, descending.
func (s *MemoryStore) sorted() []*models.User {
	all := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.Hex() > all[j].ID.Hex()
	})
	return all
}

func (s *MemoryStore) ListRecent(_ context.Context, limit int) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []models.User{}
	for _, u := range s.sorted() {
		if len(users) == limit {
			break
		}
		users = append(users, *cloneUser(u))
	}
	return users, nil
}

func (s *MemoryStore) SearchByUsername(_ context.Context, query string, limit int) ([]models.UserSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	users := []models.UserSummary{}
	for _, u := range s.sorted() {
		if len(users) == limit {
			break
		}
		if strings.Contains(strings.ToLower(u.Username), q) {
			users = append(users, models.UserSummary{ID: u.ID, Username: u.Username})
		}
	}
	return users, nil
}

func (s *MemoryStore) GetAllUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.sorted() {
		users = append(users, *cloneUser(u))
	}
	return users, nil
}

func (s *MemoryStore) PushFriendRequest(_ context.Context, recipientID, requesterID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[recipientID]
	if !ok {
		return ErrNotFound
	}
	if u.HasRequestFrom(requesterID) {
		return ErrAlreadyRequested
	}
	u.FriendRequests = append(u.FriendRequests, requesterID)
	u.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) PullFriendRequest(_ context.Context, userID, requesterID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[userID]; ok {
		u.FriendRequests = removeID(u.FriendRequests, requesterID)
		u.UpdatedAt = s.now()
	}
	return nil
}

func (s *MemoryStore) AddFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	s.link(u, friendID)
	return nil
}

func (s *MemoryStore) ResolveFriendRequest(_ context.Context, userID, requesterID primitive.ObjectID, accept bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if !u.HasRequestFrom(requesterID) {
		return nil, ErrRequestNotFound
	}
	requester, ok := s.users[requesterID]
	if accept && !ok {
		return nil, ErrNotFound
	}

	u.FriendRequests = removeID(u.FriendRequests, requesterID)
	u.UpdatedAt = s.now()
	if accept {
		s.link(u, requesterID)
		s.link(requester, userID)
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) link(u *models.User, friendID primitive.ObjectID) {
	if !u.HasFriend(friendID) {
		u.Friends = append(u.Friends, friendID)
	}
	u.UpdatedAt = s.now()
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
