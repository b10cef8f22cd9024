package handlers

import (
	"net/http"

	"github.com/Dias221467/Social_Network/internal/config"
	"github.com/Dias221467/Social_Network/internal/models"
	"github.com/Dias221467/Social_Network/internal/services"
	"github.com/Dias221467/Social_Network/pkg/logger"
)

// FriendHandler manages HTTP endpoints related to friend requests.
type FriendHandler struct {
	Service *services.FriendService
	Config  *config.Config
}

// NewFriendHandler initializes a new FriendHandler.
func NewFriendHandler(service *services.FriendService, cfg *config.Config) *FriendHandler {
	return &FriendHandler{Service: service, Config: cfg}
}

// SendFriendRequestHandler queues userId as a pending requester on friendId.
func (h *FriendHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	var req models.FriendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !authorizeActor(w, r, h.Config.AuthRequired, req.UserID) {
		return
	}

	if err := h.Service.SendRequest(r.Context(), req.UserID, req.FriendID); err != nil {
		logger.Log.Warnf("Failed to send friend request: %v", err)
		writeServiceError(w, r, err)
		return
	}

	logger.Log.Infof("User %s sent a friend request to %s", req.UserID, req.FriendID)
	writeMessage(w, http.StatusOK, "Friend request sent successfully")
}

// HandleFriendRequestHandler accepts or rejects a pending request.
func (h *FriendHandler) HandleFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	var decision models.FriendDecision
	if !decodeJSON(w, r, &decision) {
		return
	}
	if !authorizeActor(w, r, h.Config.AuthRequired, decision.UserID) {
		return
	}

	updated, err := h.Service.ResolveRequest(r.Context(), decision.UserID, decision.RequesterID, decision.Accept)
	if err != nil {
		logger.Log.Warnf("Failed to handle friend request: %v", err)
		writeServiceError(w, r, err)
		return
	}

	msg := "Friend request rejected"
	if decision.Accept {
		msg = "Friend request accepted"
	}
	writeJSON(w, http.StatusOK, models.FriendDecisionResult{Message: msg, UpdatedUser: updated})
}
