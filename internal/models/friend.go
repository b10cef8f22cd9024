package models

// FriendRequest is the send-friend-request payload. Ids are hex ObjectIDs.
type FriendRequest struct {
	UserID   string `json:"userId"`
	FriendID string `json:"friendId"`
}

// FriendDecision is the handle-friend-request payload.
type FriendDecision struct {
	UserID      string `json:"userId"`
	RequesterID string `json:"requesterId"`
	Accept      bool   `json:"accept"`
}

// FriendDecisionResult is returned after a request is accepted or rejected.
type FriendDecisionResult struct {
	Message     string `json:"message"`
	UpdatedUser *User  `json:"updatedUser"`
}

// ReconcileReport summarises one pass of the friendship reconciler.
type ReconcileReport struct {
	Scanned         int `json:"scanned"`
	BackEdgesAdded  int `json:"backEdgesAdded"`
	RequestsCleared int `json:"requestsCleared"`
}
