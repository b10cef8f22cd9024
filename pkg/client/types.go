package client

import "time"

// RegisterInput is the registration payload. DOB is "YYYY-MM-DD" or "".
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
	DOB      string `json:"DOB"`
}

// ProfileUpdate replaces all three editable fields.
type ProfileUpdate struct {
	Username string `json:"username"`
	Gender   string `json:"gender"`
	DOB      string `json:"DOB"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// User is an account as the API returns it. Friends and FriendRequests
// hold account ids.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Gender         string    `json:"gender"`
	DOB            string    `json:"DOB"`
	Friends        []string  `json:"friends"`
	FriendRequests []string  `json:"friendRequests"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProfileView is the dashboard. Friends and FriendRequests hold usernames.
type ProfileView struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Gender         string    `json:"gender"`
	DOB            string    `json:"DOB"`
	Friends        []string  `json:"friends"`
	FriendRequests []string  `json:"friendRequests"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (v *ProfileView) clone() *ProfileView {
	c := *v
	c.Friends = append([]string(nil), v.Friends...)
	c.FriendRequests = append([]string(nil), v.FriendRequests...)
	return &c
}

// UserSummary is a search hit.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// FriendDecisionResult is returned after a request is accepted or rejected.
type FriendDecisionResult struct {
	Message     string `json:"message"`
	UpdatedUser *User  `json:"updatedUser"`
}

type friendRequest struct {
	UserID   string `json:"userId"`
	FriendID string `json:"friendId"`
}

type friendDecision struct {
	UserID      string `json:"userId"`
	RequesterID string `json:"requesterId"`
	Accept      bool   `json:"accept"`
}
