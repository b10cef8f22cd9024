package services

import (
	"context"

	"github.com/Dias221467/Social_Network/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the account persistence the services need. It is satisfied
// by repository.UserRepository and repository.MemoryStore.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindIDsByUsername(ctx context.Context, username string) ([]primitive.ObjectID, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error)
	ListRecent(ctx context.Context, limit int) ([]models.User, error)
	SearchByUsername(ctx context.Context, query string, limit int) ([]models.UserSummary, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

// FriendStore performs the friend-graph writes. It is satisfied by
// repository.FriendRepository and repository.MemoryStore.
type FriendStore interface {
	PushFriendRequest(ctx context.Context, recipientID, requesterID primitive.ObjectID) error
	PullFriendRequest(ctx context.Context, userID, requesterID primitive.ObjectID) error
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	ResolveFriendRequest(ctx context.Context, userID, requesterID primitive.ObjectID, accept bool) (*models.User, error)
}
