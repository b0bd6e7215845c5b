package app

import (
	"fmt"
	"log"

	"backoffice/internal/config"
	"backoffice/internal/database"
	"backoffice/internal/messaging"
	"backoffice/internal/messaging/kafka"
	"backoffice/internal/migrations"
	"backoffice/internal/redis"
	"backoffice/internal/repository"
	"backoffice/internal/services"
	"backoffice/internal/store"
	"backoffice/pkg/whatsapp"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// App holds the services shared by the HTTP server and the CLI.
type App struct {
	Config   *config.Config
	Store    *store.Store
	Data     *migrations.Data
	Notifier services.Notifier

	ProductService services.ProductService
	OrderService   services.OrderService
	UserService    services.UserService

	closers []func() error
}

// New connects the configured store backend and builds the services on
// top of it.
func New(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	data, err := migrations.DefaultData()
	if err != nil {
		return nil, err
	}
	a.Data = data

	var redisClient *redis.Client
	if cfg.RedisURL != "" || cfg.StoreDriver == DriverRedis {
		redisClient, err = redis.Initialize(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		a.closers = append(a.closers, redisClient.Close)
	}

	kv, err := a.openKV(redisClient)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store.New(kv)

	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers)
		stop := messaging.Forward(a.Store, publisher, cfg.KafkaTopic,
			repository.ProductsKey, repository.OrdersKey, repository.UsersKey)
		a.closers = append(a.closers, func() error {
			stop()
			return publisher.Close()
		})
		log.Printf("Publishing collection changes to %s on topic %s", cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	a.Notifier = services.NewNotifier(cfg.NotificationTTL)

	var temp services.TempStore
	if redisClient != nil {
		temp = redisClient
	} else {
		log.Println("Warning: REDIS_URL not set, password reset is disabled")
	}

	var whatsappService services.WhatsAppService
	if cfg.WhatsAppAPIURL != "" {
		client := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
		client.CountryCode = cfg.WhatsAppCountry
		whatsappService = services.NewWhatsAppService(client)
	}

	a.ProductService = services.NewProductService(
		repository.NewProductRepository(a.Store, data.Products), a.Notifier, cfg.PageSize)
	a.OrderService = services.NewOrderService(
		repository.NewOrderRepository(a.Store, data.Orders), a.Notifier, cfg.PageSize)
	a.UserService = services.NewUserService(
		repository.NewUserRepository(a.Store, data.Users), a.Notifier, temp, whatsappService, cfg.PageSize, cfg.ResetCodeTTL)

	return a, nil
}

func (a *App) openKV(redisClient *redis.Client) (store.KV, error) {
	switch a.Config.StoreDriver {
	case DriverMemory, "":
		log.Println("Using in-memory store, changes are lost on exit")
		return store.NewMemoryKV(), nil
	case DriverRedis:
		return redisClient, nil
	case database.DriverPostgres, database.DriverSQLite:
		dsn := a.Config.DatabaseURL
		if a.Config.StoreDriver == database.DriverSQLite {
			dsn = a.Config.SQLitePath
		}
		db, err := database.Initialize(a.Config.StoreDriver, dsn)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
		return database.NewDocumentKV(db), nil
	}
	return nil, fmt.Errorf("unsupported STORE_DRIVER %q", a.Config.StoreDriver)
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("Warning: error during shutdown: %v", err)
		}
	}
	a.closers = nil
}
