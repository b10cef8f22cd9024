package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Social_Network/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FriendRepository performs the friend-graph writes. Requests and
// friendships are embedded id lists on the users documents, so it shares
// the users collection with UserRepository.
type FriendRepository struct {
	collection   *mongo.Collection
	transactions bool
}

// NewFriendRepository creates a new FriendRepository. When useTransactions
// is set, resolving a request writes both documents inside one
// multi-document transaction (requires a replica set).
func NewFriendRepository(db *mongo.Database, useTransactions bool) *FriendRepository {
	return &FriendRepository{
		collection:   db.Collection("users"),
		transactions: useTransactions,
	}
}

// PushFriendRequest appends requesterID to the recipient's friendRequests
// unless it is already there. The check and the push are one atomic update.
func (r *FriendRepository) PushFriendRequest(ctx context.Context, recipientID, requesterID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": recipientID, "friendRequests": bson.M{"$ne": requesterID}},
		bson.M{
			"$push": bson.M{"friendRequests": requesterID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to push friend request: %w", err)
	}
	if res.MatchedCount == 0 {
		return missOrConflict(ctx, r.collection, recipientID, ErrAlreadyRequested)
	}

	logrus.WithFields(logrus.Fields{
		"recipientID": recipientID.Hex(),
		"requesterID": requesterID.Hex(),
	}).Info("Friend request queued")
	return nil
}

// PullFriendRequest removes requesterID from the user's friendRequests.
func (r *FriendRepository) PullFriendRequest(ctx context.Context, userID, requesterID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"friendRequests": requesterID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to pull friend request from user %s: %w", userID.Hex(), err)
	}
	return nil
}

// AddFriend adds friendID to the user's friends; duplicates are ignored.
func (r *FriendRepository) AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$addToSet": bson.M{"friends": friendID}, // avoid duplicates
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add friend to user %s: %w", userID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ResolveFriendRequest removes requesterID from the user's friendRequests
// and, when accept is set, links both accounts as friends. It returns the
// user's updated document.
func (r *FriendRepository) ResolveFriendRequest(ctx context.Context, userID, requesterID primitive.ObjectID, accept bool) (*models.User, error) {
	if !r.transactions {
		return r.resolveFriendRequest(ctx, userID, requesterID, accept)
	}

	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return r.resolveFriendRequest(sc, userID, requesterID, accept)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}

func (r *FriendRepository) resolveFriendRequest(ctx context.Context, userID, requesterID primitive.ObjectID, accept bool) (*models.User, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$pull": bson.M{"friendRequests": requesterID},
		"$set":  bson.M{"updatedAt": now},
	}
	if accept {
		update["$addToSet"] = bson.M{"friends": requesterID}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": userID, "friendRequests": requesterID},
		update, opts,
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, missOrConflict(ctx, r.collection, userID, ErrRequestNotFound)
		}
		return nil, fmt.Errorf("failed to resolve friend request on user %s: %w", userID.Hex(), err)
	}

	if accept {
		// Without a transaction a failure here leaves the friendship one-sided
		// until the reconciler adds the back-edge.
		if err := r.AddFriend(ctx, requesterID, userID); err != nil {
			logrus.WithFields(logrus.Fields{
				"userID":      userID.Hex(),
				"requesterID": requesterID.Hex(),
				"error":       err,
			}).Error("Failed to add back-edge for accepted friend request")
			return nil, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"userID":      userID.Hex(),
		"requesterID": requesterID.Hex(),
		"accepted":    accept,
	}).Info("Friend request resolved")
	return &user, nil
}

// missOrConflict explains a conditional update that matched nothing: either
// the document is gone or the condition did not hold.
func missOrConflict(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, conflict error) error {
	n, err := coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to check user %s: %w", id.Hex(), err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return conflict
}
