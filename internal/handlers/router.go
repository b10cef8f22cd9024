package handlers

import (
	"net/http"

	"github.com/Dias221467/Social_Network/internal/config"
	"github.com/Dias221467/Social_Network/pkg/middleware"
	"github.com/gorilla/mux"
)

// NewRouter wires every endpoint under /api/users plus /health and /metrics.
func NewRouter(cfg *config.Config, users *UserHandler, friends *FriendHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.LoggingMiddleware, middleware.Metrics, middleware.Recover)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	router.Handle("/metrics", middleware.MetricsHandler()).Methods(http.MethodGet)

	// Public user routes
	api := router.PathPrefix("/api/users").Subrouter()
	api.HandleFunc("/register", users.RegisterUserHandler).Methods(http.MethodPost)
	api.HandleFunc("/login", users.LoginUserHandler).Methods(http.MethodPost)
	api.HandleFunc("/logout", users.LogoutHandler).Methods(http.MethodPost)
	api.HandleFunc("/top", users.TopUsersHandler).Methods(http.MethodGet)
	api.HandleFunc("/search", users.SearchUsersHandler).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/getuser/{username}", users.GetUserByUsernameHandler).Methods(http.MethodGet)

	// Routes acting on behalf of a user
	protected := router.PathPrefix("/api/users").Subrouter()
	if cfg.AuthRequired {
		protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	}
	protected.HandleFunc("/dashboard", users.DashboardHandler).Methods(http.MethodPost)
	protected.HandleFunc("/update/{userId}", users.UpdateUserHandler).Methods(http.MethodPut)
	protected.HandleFunc("/send-friend-request", friends.SendFriendRequestHandler).Methods(http.MethodPost)
	protected.HandleFunc("/handle-friend-request", friends.HandleFriendRequestHandler).Methods(http.MethodPost)

	return router
}
