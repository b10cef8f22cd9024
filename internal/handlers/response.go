package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dias221467/Social_Network/internal/services"
	"github.com/Dias221467/Social_Network/pkg/logger"
	"github.com/Dias221467/Social_Network/pkg/middleware"
)

// messageResponse is the body of every acknowledgement and error.
type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Warn("Failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeServiceError maps service errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500 without details.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, services.ErrValidation):
		writeMessage(w, http.StatusBadRequest, "Invalid user data")
	case errors.Is(err, services.ErrDuplicateUsername):
		writeMessage(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, services.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrRequestNotFound):
		writeMessage(w, http.StatusBadRequest, "Friend request not found")
	case errors.Is(err, services.ErrAlreadyRequested):
		writeMessage(w, http.StatusBadRequest, "Friend request already sent")
	case errors.Is(err, services.ErrAlreadyFriends):
		writeMessage(w, http.StatusBadRequest, "Already friends")
	default:
		logger.Log.WithError(err).WithField("request_id", middleware.GetRequestID(r.Context())).
			Error("Unhandled service error")
		writeMessage(w, http.StatusInternalServerError, "Server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Log.WithError(err).Warn("Failed to decode request body")
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// authorizeActor checks that the authenticated caller is acting as userID.
// It is a no-op when authentication is disabled.
func authorizeActor(w http.ResponseWriter, r *http.Request, required bool, userID string) bool {
	if !required {
		return true
	}
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		logger.Log.WithField("path", r.URL.Path).Warn("Unauthorized access attempt")
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return false
	}
	if claims.UserID != userID {
		logger.Log.WithFields(map[string]interface{}{
			"requestedUserID": userID,
			"loggedInUserID":  claims.UserID,
		}).Warn("Forbidden access attempt")
		writeMessage(w, http.StatusForbidden, "Forbidden: you can only act as yourself")
		return false
	}
	return true
}
