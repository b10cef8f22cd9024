package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dias221467/Social_Network/internal/cache"
	"github.com/Dias221467/Social_Network/internal/models"
	"github.com/Dias221467/Social_Network/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileService serves a user's own dashboard and profile edits.
type ProfileService struct {
	users UserStore
	cache cache.DashboardCache
}

// NewProfileService creates a ProfileService. A nil cache disables caching.
func NewProfileService(users UserStore, dashboards cache.DashboardCache) *ProfileService {
	if dashboards == nil {
		dashboards = cache.Noop{}
	}
	return &ProfileService{users: users, cache: dashboards}
}

// GetDashboard returns the account without its password, with friends and
// pending requests resolved to usernames in list order.
func (s *ProfileService) GetDashboard(ctx context.Context, userID string) (*models.ProfileView, error) {
	id, err := parseID("userId", userID)
	if err != nil {
		return nil, err
	}

	if view, ok := s.cache.Get(ctx, id); ok {
		return view, nil
	}

	// Taken before the read so a concurrent invalidation discards this view.
	version := s.cache.Version(ctx, id)

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	related := make([]primitive.ObjectID, 0, len(user.Friends)+len(user.FriendRequests))
	related = append(related, user.Friends...)
	related = append(related, user.FriendRequests...)

	others, err := s.users.GetUsersByIDs(ctx, related)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve usernames: %w", err)
	}
	names := make(map[primitive.ObjectID]string, len(others))
	for _, o := range others {
		names[o.ID] = o.Username
	}

	view := &models.ProfileView{
		ID:             user.ID,
		Username:       user.Username,
		Gender:         user.Gender,
		DOB:            user.DOB,
		Friends:        usernames(user.Friends, names),
		FriendRequests: usernames(user.FriendRequests, names),
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
	s.cache.Set(ctx, view, version)
	return view, nil
}

// usernames maps ids to names, skipping ids whose account no longer resolves.
func usernames(ids []primitive.ObjectID, names map[primitive.ObjectID]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			out = append(out, name)
		}
	}
	return out
}

// UpdateProfile replaces username, gender and DOB. Username uniqueness is
// enforced here as it is at registration.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.User, error) {
	logrus.WithField("userID", userID).Info("Updating user")

	id, err := parseID("userId", userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(update.Username) == "" {
		return nil, invalid("username is required")
	}

	owner, err := s.users.GetUserByUsername(ctx, update.Username)
	switch {
	case err == nil && owner.ID != id:
		return nil, ErrDuplicateUsername
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	user, err := s.users.UpdateProfile(ctx, id, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, ErrDuplicateUsername
		}
		logrus.WithError(err).Error("Failed to update user in service")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	// Friends' dashboards render this username.
	s.cache.Invalidate(ctx, append([]primitive.ObjectID{id}, user.Friends...)...)

	logrus.WithField("userID", user.ID.Hex()).Info("User updated successfully in service")
	return user, nil
}
