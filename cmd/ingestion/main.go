package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sena980909/AI-SIEM/internal/common/logging"
	"github.com/sena980909/AI-SIEM/internal/ingestion/config"
	"github.com/sena980909/AI-SIEM/internal/ingestion/handlers"
	"github.com/sena980909/AI-SIEM/internal/ingestion/server"
	"github.com/sena980909/AI-SIEM/internal/ingestion/service"
	"github.com/sena980909/AI-SIEM/internal/ingestion/store"
	"github.com/sena980909/AI-SIEM/internal/ingestion/stream"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	logging.SetDefault(logger)
	logger = logger.With(logging.Service("ingestion"))

	// Initialize log store
	logStore, err := store.New(store.Config{
		URL:      cfg.OpenSearch.URL,
		Username: cfg.OpenSearch.Username,
		Password: cfg.OpenSearch.Password,
		Insecure: cfg.OpenSearch.Insecure,
		Index:    cfg.OpenSearch.Index,
	})
	if err != nil {
		log.Fatalf("Failed to connect to OpenSearch: %v", err)
	}

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer bootCancel()
	if err := logStore.EnsureIndex(bootCtx); err != nil {
		log.Fatalf("Failed to initialize log index: %v", err)
	}

	// Initialize detection stream publisher
	publisher, err := stream.NewPublisher(cfg.Redis.URL, cfg.Redis.Stream)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer publisher.Close()

	svc := service.New(logStore, publisher, logger)
	handler := handlers.NewLogHandler(svc, logStore, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("ingestion service listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down ingestion service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
