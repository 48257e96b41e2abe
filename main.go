package main

import (
	"context"
	"fmt"

	"sales_orders/api"
	"sales_orders/internal/catalog"
	"sales_orders/internal/config"
	"sales_orders/internal/logger"
	"sales_orders/internal/messaging"
	"sales_orders/internal/persistence"
	"sales_orders/internal/sales"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("error loading config: %v", err))
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic(fmt.Errorf("error creating logger: %v", err))
	}
	defer log.Sync()

	storage, err := newStorage(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}

	publisher, closeBus, err := newPublisher(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize event bus", zap.Error(err))
	}
	defer closeBus()

	cat := catalog.NewSeededCatalog()
	if cfg.Catalog.URL != "" {
		cat = catalog.NewHTTPCatalog(cfg.Catalog.URL, cfg.Catalog.Timeout)
	}

	salesService := sales.NewService(storage, cat, publisher, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	api.InitRoutes(r, salesService, log)

	log.Info("starting server",
		zap.String("port", cfg.App.Port),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("event_bus", cfg.Events.Bus),
	)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}

func newStorage(cfg *config.Config, log *zap.Logger) (sales.Storage, error) {
	if cfg.Storage.Driver == "memory" {
		return sales.NewLocalStorage(), nil
	}
	db, err := persistence.Open(cfg.Storage.Driver, cfg.Storage.DSN, log)
	if err != nil {
		return nil, err
	}
	return persistence.NewGormStorage(db), nil
}

func newPublisher(cfg *config.Config, log *zap.Logger) (sales.Publisher, func() error, error) {
	if cfg.Events.Bus != "redis" {
		return messaging.NewLoggingBus(log), func() error { return nil }, nil
	}
	bus, closeFn, err := messaging.NewRedisBus(context.Background(), messaging.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Channel:  cfg.Redis.Channel,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	return bus, closeFn, nil
}
