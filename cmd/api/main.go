// @title           Tally API
// @version         1.0
// @description     Bill splitting with exact cents settlement.
// @BasePath        /api/v1
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/tallyhq/tally/docs"
	"github.com/tallyhq/tally/internal/bill"
	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/database"
	"github.com/tallyhq/tally/internal/group"
	"github.com/tallyhq/tally/internal/settlement"
	"github.com/tallyhq/tally/internal/user"
	"github.com/tallyhq/tally/pkg/logging"
	"github.com/tallyhq/tally/pkg/metrics"
	mw "github.com/tallyhq/tally/pkg/middleware"
	"github.com/tallyhq/tally/pkg/response"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	logging.Setup()

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to database")

	// Session tokens
	auth := mw.NewAuthenticator(cfg.JWTSecret, cfg.TokenDuration)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo)
	groupHandler := group.NewHandler(groupService)

	// Bill feature
	billRepo := bill.NewRepository(db)
	billService := bill.NewService(billRepo, groupRepo)
	billHandler := bill.NewHandler(billService)

	// Settlement feature (computed, never persisted)
	settlementService := settlement.NewService(groupRepo, billRepo)
	settlementHandler := settlement.NewHandler(settlementService)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(metrics.Middleware)
	if cfg.DevMode {
		r.Use(mw.TestUserMiddleware)
	} else {
		r.Use(auth.Auth)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Mount feature routers
		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/bills", billHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("Server starting", "port", port, "dev_mode", cfg.DevMode)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
