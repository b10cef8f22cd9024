package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias221467/Social_Network/internal/cache"
	"github.com/Dias221467/Social_Network/internal/config"
	"github.com/Dias221467/Social_Network/internal/database"
	"github.com/Dias221467/Social_Network/internal/handlers"
	"github.com/Dias221467/Social_Network/internal/jobs"
	"github.com/Dias221467/Social_Network/internal/repository"
	cron "github.com/Dias221467/Social_Network/internal/scheduler"
	"github.com/Dias221467/Social_Network/internal/services"
	"github.com/Dias221467/Social_Network/pkg/logger"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	if err := cfg.Validate(); err != nil {
		logger.Log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	// --- Stores ---
	var (
		userStore   services.UserStore
		friendStore services.FriendStore
		db          *mongo.Database
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Log.Warn("Using in-memory store; data is lost on restart")
		mem := repository.NewMemoryStore()
		userStore, friendStore = mem, mem
	default:
		var err error
		db, err = database.ConnectDB(cfg)
		if err != nil {
			logger.Log.Fatalf("Database connection error: %v", err)
		}
		userStore = repository.NewUserRepository(db)
		friendStore = repository.NewFriendRepository(db, cfg.MongoTransactions)
	}

	// --- Dashboard cache ---
	var dashboards cache.DashboardCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Log.WithError(err).Warn("Redis unavailable, dashboard cache disabled")
		} else {
			defer rdb.Close()
			dashboards = cache.NewRedisDashboardCache(rdb, cfg.CacheTTL)
			logger.Log.WithField("addr", cfg.RedisAddr).Info("Dashboard cache enabled")
		}
	}

	// --- Services ---
	authService := services.NewAuthService(userStore, cfg.JWTSecret, cfg.TokenExpiry)
	profileService := services.NewProfileService(userStore, dashboards)
	directoryService := services.NewDirectoryService(userStore)
	friendService := services.NewFriendService(userStore, friendStore, dashboards)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(authService, profileService, directoryService, cfg)
	friendHandler := handlers.NewFriendHandler(friendService, cfg)
	router := handlers.NewRouter(cfg, userHandler, friendHandler)

	// --- Background jobs ---
	if cfg.ReconcileSchedule != "" {
		reconciler := jobs.NewFriendReconciler(friendService, 5*time.Minute)
		scheduler, err := cron.StartReconcileCronJobs(cfg.ReconcileSchedule, reconciler)
		if err != nil {
			logger.Log.Fatalf("Cron setup error: %v", err)
		}
		defer scheduler.Stop()
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Log.WithError(err).Error("Server shutdown failed")
	}
	if db != nil {
		if err := database.Disconnect(shutCtx, db); err != nil {
			logger.Log.WithError(err).Error("MongoDB disconnect failed")
		}
	}
}
