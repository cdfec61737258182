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

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/sena980909/AI-SIEM/internal/common/logging"
	"github.com/sena980909/AI-SIEM/internal/dashboard/config"
	"github.com/sena980909/AI-SIEM/internal/dashboard/handlers"
	"github.com/sena980909/AI-SIEM/internal/dashboard/notify"
	"github.com/sena980909/AI-SIEM/internal/dashboard/poller"
	"github.com/sena980909/AI-SIEM/internal/dashboard/repository"
	"github.com/sena980909/AI-SIEM/internal/dashboard/server"
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
	logger = logger.With(logging.Service("dashboard"))

	connString := cfg.Database.Postgres.ConnString()

	// Run database migrations
	log.Println("Running database migrations...")
	m, err := migrate.New("file://migrations", connString)
	if err != nil {
		log.Fatalf("Failed to initialize migrations: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Initialize repository
	repo, err := repository.NewPostgresRepository(context.Background(), connString)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer repo.Close()

	// Initialize notification channels
	webhook := notify.NewWebhookSender(cfg.Alert.WebhookURL, logger)
	email := notify.NewEmailSender(cfg.Alert.Email.APIKey, cfg.Alert.Email.From, logger)

	broadcaster, err := notify.NewBroadcaster(cfg.NATS.URL, cfg.NATS.Subject, logger)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer broadcaster.Close()

	dispatcher := notify.NewDispatcher(repo, webhook, broadcaster, email, cfg.Alert.Email.Recipient, logger)

	// Start the event poller in background
	pollCtx, pollCancel := context.WithCancel(context.Background())
	defer pollCancel()
	p := poller.New(repo, dispatcher, logger)
	go p.Run(pollCtx, cfg.Alert.PollInterval)

	handler := handlers.NewHandler(repo, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("dashboard service listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down dashboard service")
	pollCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
