package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shahriakhansejan/core-bits-server/config"
	"github.com/shahriakhansejan/core-bits-server/database"
	"github.com/shahriakhansejan/core-bits-server/handlers"
	"github.com/shahriakhansejan/core-bits-server/logger"
	"github.com/shahriakhansejan/core-bits-server/routes"
	"github.com/shahriakhansejan/core-bits-server/service"
	"github.com/shahriakhansejan/core-bits-server/store"
	"github.com/shahriakhansejan/core-bits-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()
	sugar := zl.Sugar()

	// Database connection
	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		sugar.Fatalf("Failed to connect to database: %v", err)
	}

	stores := store.New(client.Database(cfg.Database))

	hub := websocket.NewHub(sugar)

	svc := service.New(stores, cfg, hub, sugar)
	h := handlers.New(svc, sugar)

	router := routes.New(h, svc.Auth, hub, client, sugar)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infof("CoreBits server listening on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	<-quit
	sugar.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Errorf("Server forced shutdown: %v", err)
	}

	if err := database.Disconnect(client); err != nil {
		sugar.Errorf("Database disconnect: %v", err)
	}
	sugar.Info("Server stopped gracefully")
}
