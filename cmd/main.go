package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rryowa/taskmanager/internal/api"
	"github.com/rryowa/taskmanager/internal/controller"
	"github.com/rryowa/taskmanager/internal/metrics"
	"github.com/rryowa/taskmanager/internal/migrations"
	"github.com/rryowa/taskmanager/internal/service"
	"github.com/rryowa/taskmanager/internal/storage"
	"github.com/rryowa/taskmanager/internal/storage/memory"
	"github.com/rryowa/taskmanager/internal/storage/mongo"
	"github.com/rryowa/taskmanager/internal/storage/postgres"
	"github.com/rryowa/taskmanager/internal/storage/redis"
	"github.com/rryowa/taskmanager/internal/util"
)

const connectTimeout = 10 * time.Second

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()

	cfg, err := util.NewConfig()
	if err != nil {
		logger.Fatal(zap.Error(err))
	}

	store, storeCleanup, err := newStorage(ctx, logger, cfg.Storage)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	cleanupFuncs := []func(){storeCleanup}

	tokenStorage, redisCleanup, err := newTokenStorage(ctx, logger, cfg.Redis)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	cleanupFuncs = append(cleanupFuncs, redisCleanup)

	m := metrics.New()

	tokenService := service.NewTokenService(cfg.Token, tokenStorage)
	authService := service.NewAuthService(tokenService, store, cfg.Token, logger)
	cascadeService := service.NewCascadeService(store, logger, m, cfg.Cascade.Timeout)
	listService := service.NewListService(store, cascadeService, logger)
	taskService := service.NewTaskService(store, store, logger)

	controller := controller.NewController(logger, authService, listService, taskService)

	apiServer := api.NewAPI(controller, tokenService, authService, cascadeService, m, &cfg.Server, logger, cleanupFuncs)
	apiServer.Run(ctx)
}

func newStorage(ctx context.Context, logger *zap.SugaredLogger, cfg util.StorageConfig) (storage.Storage, func(), error) {
	switch cfg.Driver {
	case util.StoragePostgres:
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		db, dbCleanup, err := util.NewDBConnection(connectCtx, logger, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunMigrations(db, logger); err != nil {
			dbCleanup()
			return nil, nil, err
		}
		return postgres.NewStorage(db), dbCleanup, nil

	case util.StorageMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		return memory.NewStorage(logger), func() {}, nil

	default:
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		s, err := mongo.New(connectCtx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Successfully connected to MongoDB!")

		cleanup := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
			defer cancel()
			if err := s.Close(closeCtx); err != nil {
				logger.Errorf("Failed to close MongoDB connection: %v", err)
			}
		}
		return s, cleanup, nil
	}
}

func newTokenStorage(ctx context.Context, logger *zap.SugaredLogger, cfg util.RedisConfig) (storage.TokenStorage, func(), error) {
	if cfg.Addr == "" {
		return memory.NewTokenStorage(), func() {}, nil
	}

	redisClient, redisCleanup, err := util.NewRedisClient(ctx, logger, cfg)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewTokenStorage(redisClient), redisCleanup, nil
}
