package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mport/typeduel/internal/dependencies/clock"
	"github.com/mport/typeduel/internal/dependencies/random"
	"github.com/mport/typeduel/internal/registry"
	"github.com/mport/typeduel/internal/services/auth"
	"github.com/mport/typeduel/internal/services/game"
	"github.com/mport/typeduel/internal/services/matchmaking"
	"github.com/mport/typeduel/internal/services/passage"
	"github.com/mport/typeduel/internal/storage"
	"github.com/mport/typeduel/internal/storage/memory"
	redisstorage "github.com/mport/typeduel/internal/storage/redis"
	"github.com/mport/typeduel/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Realtime state
	Registry *registry.Registry

	// Services
	AuthService    *auth.Service
	PassageService *passage.Service
	Matchmaking    *matchmaking.Controller
	GameController *game.Controller

	// Transport
	Dispatcher *ws.Dispatcher
	Hub        *ws.Hub
	Sweeper    *matchmaking.Sweeper
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// GameConfig holds configuration for the game controller (optional)
	// If zero value, defaults to game.DefaultConfig()
	GameConfig game.Config
	// SweepInterval is how often the anonymous queue is drained (optional)
	// If zero, defaults to matchmaking.DefaultSweepInterval
	SweepInterval time.Duration
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}
	gameCfg := cfg.GameConfig
	if gameCfg.TargetScore == 0 {
		gameCfg = game.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, authCfg, gameCfg, cfg.SweepInterval, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	gameCfg game.Config,
	sweepInterval time.Duration,
	logger *slog.Logger,
) *App {
	reg := registry.New(clk, logger)

	authService := auth.New(store, clk, authCfg, logger)
	passageService := passage.New(store, rnd)
	mmController := matchmaking.NewController(reg, logger)
	gameController := game.NewController(reg, gameCfg, logger)

	dispatcher := ws.NewDispatcher(reg, mmController, gameController, authService, logger)
	hub := ws.NewHub(dispatcher, logger)
	sweeper := matchmaking.NewSweeper(mmController, sweepInterval, hub.AnnounceMatch, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Registry:       reg,
		AuthService:    authService,
		PassageService: passageService,
		Matchmaking:    mmController,
		GameController: gameController,
		Dispatcher:     dispatcher,
		Hub:            hub,
		Sweeper:        sweeper,
	}
}
