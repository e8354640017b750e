package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joshua-takyi/tower15/internal/app"
	"github.com/joshua-takyi/tower15/internal/routes"
)

func main() {
	appContainer, cleanup, err := app.Bootstrap(context.Background())
	if err != nil {
		slog.Error("Failed to start", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	cfg := appContainer.Config
	logger := appContainer.Logger
	logger.Info("Starting Tower 15 API server", "environment", cfg.Environment)

	// Setup routes
	router := routes.SetupRoutes(appContainer)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background reconciliation of reservations Hosthub did not accept
	reconcileCtx, stopReconcile := context.WithCancel(context.Background())
	reconcileDone := make(chan struct{})
	go func() {
		defer close(reconcileDone)
		if err := appContainer.Reconciler.Run(reconcileCtx); err != nil && err != context.Canceled {
			logger.Error("Reconciler stopped", "error", err)
		}
	}()

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	stopReconcile()
	<-reconcileDone

	logger.Info("Server exited")
}
