package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/fooddash/api"
	"github.com/example/fooddash/pkg/config"
	"github.com/example/fooddash/pkg/gateway"
	"github.com/example/fooddash/pkg/repository"
	"github.com/example/fooddash/pkg/state"
	"go.uber.org/zap"
)

func main() {
	configPath := "config/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting server",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	defer redisRepo.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisRepo.Ping(pingCtx); err != nil {
		cancel()
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	cancel()

	gw, err := gateway.NewClient(cfg, logger.Named("gateway"), redisRepo)
	if err != nil {
		logger.Fatal("Failed to connect to data store", zap.Error(err))
	}

	// The audit trail is best-effort; the server runs without it.
	var mongoRepo *repository.MongoRepository
	mongoRepo, err = repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Warn("Failed to connect to MongoDB, continuing without audit log", zap.Error(err))
		mongoRepo = nil
	}

	opts := []state.Option{
		state.WithLogger(logger.Named("state")),
		state.WithFlags(redisRepo),
		state.WithCheckout(cfg.Checkout),
	}
	if mongoRepo != nil {
		opts = append(opts, state.WithAudit(mongoRepo))
	}
	manager := state.NewManager(gw, opts...)

	srv := api.NewServer(cfg, logger.Named("api"), manager, mongoRepo)
	srv.SetupRoutes()

	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			srvErr <- err
		}
	}()

	logger.Info("Server started successfully")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-srvErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	if mongoRepo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		mongoRepo.Close(ctx)
		cancel()
	}

	logger.Info("Server stopped")
}
