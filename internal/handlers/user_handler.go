package handlers

import (
	"net/http"
	"strings"

	"github.com/Dias221467/Social_Network/internal/config"
	"github.com/Dias221467/Social_Network/internal/models"
	"github.com/Dias221467/Social_Network/internal/services"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles account, profile and directory endpoints.
type UserHandler struct {
	Auth      *services.AuthService
	Profiles  *services.ProfileService
	Directory *services.DirectoryService
	Config    *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(auth *services.AuthService, profiles *services.ProfileService, directory *services.DirectoryService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Auth:      auth,
		Profiles:  profiles,
		Directory: directory,
		Config:    cfg,
	}
}

// RegisterUserHandler handles user registration.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("RegisterUserHandler called")
	var in models.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}

	res, err := h.Auth.Register(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

// LoginUserHandler handles user login.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("LoginUserHandler called")
	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &credentials) {
		return
	}

	res, err := h.Auth.Login(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// LogoutHandler acknowledges a logout. Tokens are stateless, so nothing is revoked.
func (h *UserHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, h.Auth.Logout(r.Context()))
}

// DashboardHandler returns the caller's profile with usernames resolved.
func (h *UserHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if !authorizeActor(w, r, h.Config.AuthRequired, body.UserID) {
		return
	}

	view, err := h.Profiles.GetDashboard(r.Context(), body.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// UpdateUserHandler replaces username, gender and DOB.
func (h *UserHandler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("UpdateUserHandler called")
	userID := mux.Vars(r)["userId"]
	if !authorizeActor(w, r, h.Config.AuthRequired, userID) {
		return
	}

	var update models.ProfileUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	user, err := h.Profiles.UpdateProfile(r.Context(), userID, update)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User profile updated")
	writeJSON(w, http.StatusOK, user)
}

// TopUsersHandler lists the most recently registered accounts.
func (h *UserHandler) TopUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Directory.ListRecent(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// SearchUsersHandler matches usernames by substring. GET reads ?query= and
// falls back to a JSON body; POST reads the body.
func (h *UserHandler) SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	query, ok := r.URL.Query()["query"]
	var q string
	if ok && len(query) > 0 {
		q = query[0]
	} else if r.ContentLength != 0 {
		var body struct {
			Query string `json:"query"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		q = body.Query
	}

	users, err := h.Directory.Search(r.Context(), strings.TrimSpace(q))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUserByUsernameHandler returns [{"id": ...}] for an exact username match.
func (h *UserHandler) GetUserByUsernameHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	ids, err := h.Directory.LookupByUsername(r.Context(), username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type idOnly struct {
		ID string `json:"id"`
	}
	out := make([]idOnly, 0, len(ids))
	for _, id := range ids {
		out = append(out, idOnly{ID: id.Hex()})
	}
	writeJSON(w, http.StatusOK, out)
}
