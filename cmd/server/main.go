package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brandpulse/mentions-dashboard/internal/accounts"
	"github.com/brandpulse/mentions-dashboard/internal/api"
	"github.com/brandpulse/mentions-dashboard/internal/config"
	"github.com/brandpulse/mentions-dashboard/internal/mentions"
	"github.com/brandpulse/mentions-dashboard/internal/notifications"
	"github.com/brandpulse/mentions-dashboard/internal/scheduler"
	"github.com/brandpulse/mentions-dashboard/internal/sources"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting mentions dashboard")

	// Account link store doubles as the Instagram user id resolver
	linkStore := accounts.NewStore(cfg.IGUserID)
	accountService := accounts.NewService(cfg, linkStore)

	// Initialize mention sources
	srcs := []sources.Source{
		sources.NewFacebookSource(cfg.GraphAPIBase, cfg.FBPageID, cfg.FBPageAccessToken, cfg.FetchTimeout),
		sources.NewInstagramSource(cfg.GraphAPIBase, linkStore, cfg.FBPageAccessToken, cfg.FetchTimeout),
	}

	// Initialize the mention pipeline
	mentionService := mentions.NewService(srcs, cfg.FetchLimit, cfg.FetchTimeout)

	// Initialize the digest scheduler
	notificationService := notifications.NewService(cfg)
	schedulerService := scheduler.NewService(cfg, mentionService, notificationService)

	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	// Set up HTTP server
	handler := api.NewHandler(mentionService)

	router := mux.NewRouter()
	router.HandleFunc("/api/mentions", handler.Mentions).Methods("GET")
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.HandleFunc("/metrics", metricsHandler(mentionService)).Methods("GET")
	router.HandleFunc("/", statusHandler(cfg, linkStore)).Methods("GET")

	// Instagram account linking flow
	router.HandleFunc("/instagram/connect", accountService.Connect).Methods("GET")
	router.HandleFunc("/instagram/callback", accountService.Callback).Methods("GET")
	router.HandleFunc("/instagram/disconnect", accountService.Disconnect).Methods("GET")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

func metricsHandler(mentionService *mentions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(mentionService.GetMetrics()))
	}
}

func statusHandler(cfg *config.Config, linkStore *accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{
			"page_name": cfg.FBPageName,
			"page_id":   cfg.FBPageID,
		}
		if profile := linkStore.Profile(); profile != nil {
			status["ig_profile"] = profile
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			logrus.Errorf("Failed to encode status: %v", err)
		}
	}
}
