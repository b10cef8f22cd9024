package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/Social_Network/internal/cache"
	"github.com/Dias221467/Social_Network/internal/models"
	"github.com/Dias221467/Social_Network/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendService handles business logic for friend requests and friendships.
//
// A pending request from A to B is A's id in B.friendRequests. Resolving it
// removes the id; accepting also puts each id in the other's friends.
type FriendService struct {
	users   UserStore
	friends FriendStore
	cache   cache.DashboardCache
}

// NewFriendService creates a new FriendService. A nil cache disables caching.
func NewFriendService(users UserStore, friends FriendStore, dashboards cache.DashboardCache) *FriendService {
	if dashboards == nil {
		dashboards = cache.Noop{}
	}
	return &FriendService{users: users, friends: friends, cache: dashboards}
}

// loadPair fetches both accounts or reports ErrUserNotFound.
func (s *FriendService) loadPair(ctx context.Context, a, b primitive.ObjectID) (*models.User, *models.User, error) {
	first, err := s.users.GetUserByID(ctx, a)
	if err != nil {
		return nil, nil, s.notFound(err)
	}
	second, err := s.users.GetUserByID(ctx, b)
	if err != nil {
		return nil, nil, s.notFound(err)
	}
	return first, second, nil
}

func (s *FriendService) notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("failed to get user: %w", err)
}

// SendRequest queues userID as a pending requester on friendID.
//
// It fails with ErrAlreadyRequested when friendID already has a pending
// request to userID, or when userID is already queued on friendID.
func (s *FriendService) SendRequest(ctx context.Context, userID, friendID string) error {
	uid, err := parseID("userId", userID)
	if err != nil {
		return err
	}
	fid, err := parseID("friendId", friendID)
	if err != nil {
		return err
	}
	if uid == fid {
		return invalid("cannot send a friend request to yourself")
	}

	user, friend, err := s.loadPair(ctx, uid, fid)
	if err != nil {
		return err
	}

	if user.HasRequestFrom(fid) {
		return ErrAlreadyRequested
	}
	// An id is never in both friends and friendRequests of one account;
	// queuing a request between friends would break that.
	if user.HasFriend(fid) || friend.HasFriend(uid) {
		return ErrAlreadyFriends
	}

	if err := s.friends.PushFriendRequest(ctx, fid, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyRequested):
			return ErrAlreadyRequested
		case errors.Is(err, repository.ErrNotFound):
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to send friend request: %w", err)
	}

	s.cache.Invalidate(ctx, fid)
	logrus.WithFields(logrus.Fields{
		"userID":   userID,
		"friendID": friendID,
	}).Info("Friend request sent")
	return nil
}

// ResolveRequest accepts or rejects requesterID's pending request to userID
// and returns userID's updated account.
func (s *FriendService) ResolveRequest(ctx context.Context, userID, requesterID string, accept bool) (*models.User, error) {
	uid, err := parseID("userId", userID)
	if err != nil {
		return nil, err
	}
	rid, err := parseID("requesterId", requesterID)
	if err != nil {
		return nil, err
	}

	user, _, err := s.loadPair(ctx, uid, rid)
	if err != nil {
		return nil, err
	}
	if !user.HasRequestFrom(rid) {
		return nil, ErrRequestNotFound
	}

	updated, err := s.friends.ResolveFriendRequest(ctx, uid, rid, accept)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRequestNotFound):
			return nil, ErrRequestNotFound
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).Error("Failed to resolve friend request")
		return nil, fmt.Errorf("failed to resolve friend request: %w", err)
	}

	s.cache.Invalidate(ctx, uid, rid)
	logrus.WithFields(logrus.Fields{
		"userID":      userID,
		"requesterID": requesterID,
		"accepted":    accept,
	}).Info("Friend request resolved")
	return updated, nil
}

// Reconcile repairs state left behind by interrupted two-document writes:
// a one-sided friendship gets its missing back-edge, and a pending request
// from someone who is already a friend is dropped.
func (s *FriendService) Reconcile(ctx context.Context) (*models.ReconcileReport, error) {
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	byID := make(map[primitive.ObjectID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	report := &models.ReconcileReport{Scanned: len(users)}
	for i := range users {
		u := &users[i]

		for _, fid := range u.Friends {
			f, ok := byID[fid]
			if !ok || f.HasFriend(u.ID) {
				continue
			}
			if err := s.friends.AddFriend(ctx, fid, u.ID); err != nil {
				return report, fmt.Errorf("failed to add back-edge %s -> %s: %w", fid.Hex(), u.ID.Hex(), err)
			}
			f.Friends = append(f.Friends, u.ID)
			s.cache.Invalidate(ctx, fid)
			report.BackEdgesAdded++
		}

		for _, rid := range u.FriendRequests {
			if !u.HasFriend(rid) {
				continue
			}
			if err := s.friends.PullFriendRequest(ctx, u.ID, rid); err != nil {
				return report, fmt.Errorf("failed to clear request %s on %s: %w", rid.Hex(), u.ID.Hex(), err)
			}
			s.cache.Invalidate(ctx, u.ID)
			report.RequestsCleared++
		}
	}

	if report.BackEdgesAdded > 0 || report.RequestsCleared > 0 {
		logrus.WithFields(logrus.Fields{
			"scanned":         report.Scanned,
			"backEdgesAdded":  report.BackEdgesAdded,
			"requestsCleared": report.RequestsCleared,
		}).Warn("Reconciled inconsistent friendships")
	}
	return report, nil
}
