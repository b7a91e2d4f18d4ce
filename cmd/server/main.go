package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mport/typeduel/internal/api"
	"github.com/mport/typeduel/internal/factory"
	"github.com/mport/typeduel/internal/services/game"
	redisstorage "github.com/mport/typeduel/internal/storage/redis"
	"github.com/mport/typeduel/internal/ws"
)

func main() {
	cfg := &config{}
	if err := newCmd(cfg).Execute(); err != nil {
		slog.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config) error {
	// Set up logging with JSON output
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		Logger:        logger,
		StorageType:   cfg.storageType,
		GameConfig:    game.Config{TargetScore: cfg.targetScore},
		SweepInterval: cfg.sweepInterval,
	}
	if cfg.storageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.redisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return err
	}

	// Load passages; fall back to the bundled defaults
	if cfg.passagesFile != "" {
		count, err := app.PassageService.LoadFromFile(ctx, cfg.passagesFile)
		if err != nil {
			logger.Warn("could not load passages file", slog.String("error", err.Error()))
		} else {
			logger.Info("passages loaded", slog.Int("count", count))
		}
	}
	if err := app.PassageService.Seed(ctx); err != nil {
		return err
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		PassageService: app.PassageService,
		Registry:       app.Registry,
		WSHandler:      ws.NewHandler(app.Hub, logger),
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.bind
	serverConfig.Port = cfg.port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start the realtime hub and the matchmaking sweeper
	go app.Hub.Run(ctx)
	go app.Sweeper.Run(ctx)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
