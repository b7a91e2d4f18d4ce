package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mport/typeduel/internal/api/handler"
	apimiddleware "github.com/mport/typeduel/internal/api/middleware"
	"github.com/mport/typeduel/internal/api/response"
	"github.com/mport/typeduel/internal/middleware"
	"github.com/mport/typeduel/internal/registry"
	"github.com/mport/typeduel/internal/services/auth"
	"github.com/mport/typeduel/internal/services/passage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	PassageService *passage.Service
	Registry       *registry.Registry
	WSHandler      http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	passageHandler := handler.NewPassageHandler(cfg.PassageService)

	authMiddleware := apimiddleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Passage routes (no auth; guests fetch texts before logging in)
	api.HandleFunc("/text", passageHandler.GetRandom).Methods(http.MethodGet)
	api.HandleFunc("/text/{id}", passageHandler.Get).Methods(http.MethodGet)

	// Health and stats endpoints (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/stats", statsHandler(cfg.Registry)).Methods(http.MethodGet)

	// Realtime endpoint, mounted outside the API middleware chain; the
	// logging ResponseWriter wrapper does not support hijacking
	if cfg.WSHandler != nil {
		r.Handle("/ws", cfg.WSHandler).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func statsHandler(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.ServerStats{
			Sessions: reg.Len(),
			Waiting:  reg.WaitingCount(),
		})
	}
}
