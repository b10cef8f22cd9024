package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account document in the users collection.
type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username       string               `bson:"username" json:"username"`
	HashedPassword string               `bson:"password" json:"-"`
	Gender         string               `bson:"gender" json:"gender"`
	DOB            Date                 `bson:"DOB" json:"DOB"`
	Friends        []primitive.ObjectID `bson:"friends" json:"friends"`
	FriendRequests []primitive.ObjectID `bson:"friendRequests" json:"friendRequests"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasFriend reports whether id is in the user's friends list.
func (u *User) HasFriend(id primitive.ObjectID) bool {
	return containsID(u.Friends, id)
}

// HasRequestFrom reports whether id has a pending request to this user.
func (u *User) HasRequestFrom(id primitive.ObjectID) bool {
	return containsID(u.FriendRequests, id)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// UserSummary is the id+username projection returned by search.
type UserSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
}

// ProfileView is the dashboard shape: friends and requests resolved to usernames.
type ProfileView struct {
	ID             primitive.ObjectID `json:"id"`
	Username       string             `json:"username"`
	Gender         string             `json:"gender"`
	DOB            Date               `json:"DOB"`
	Friends        []string           `json:"friends"`
	FriendRequests []string           `json:"friendRequests"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// ProfileUpdate carries the editable profile fields; all three are replaced.
type ProfileUpdate struct {
	Username string `json:"username"`
	Gender   string `json:"gender"`
	DOB      Date   `json:"DOB"`
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
	DOB      Date   `json:"DOB"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Token    string             `json:"token"`
}
