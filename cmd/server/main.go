package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/internal/app"
	"backoffice/internal/config"
	"backoffice/internal/handlers"
	"backoffice/internal/migrations"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect storage and build services
	a, err := app.New(cfg)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	// Seed missing collections and rewrite legacy records
	if err := migrations.RunMigrations(context.Background(), a.Store, a.Data, false); err != nil {
		log.Fatal("Failed to migrate collections: ", err)
	}

	// Initialize handlers
	h := &handlers.Handlers{
		Auth:          handlers.NewAuthHandler(a.UserService, cfg.JWTSecret, cfg.SessionTimeout),
		Products:      handlers.NewProductHandler(a.ProductService),
		Orders:        handlers.NewOrderHandler(a.OrderService),
		Users:         handlers.NewUserHandler(a.UserService),
		Notifications: handlers.NewNotificationHandler(a.Notifier),
	}

	// Setup routes
	router := gin.Default()
	h.RegisterRoutes(router)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           corsHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
