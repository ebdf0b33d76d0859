package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paylink-hq/paylink/pkg/config"
	"github.com/paylink-hq/paylink/pkg/ledger"
	"github.com/paylink-hq/paylink/pkg/logger"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg := logger.NewStdLogger(cfg.LoggerConfig.Coloring, cfg.LoggerConfig.Level)

	// Create the intent ledger and its API server
	store, err := ledger.NewStore(cfg.LedgerDataFile, lg)
	if err != nil {
		log.Fatalf("Failed to open ledger store: %v", err)
	}
	server := ledger.NewServer(cfg.LedgerPort, store, lg)

	// Set up signal handling for graceful shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Println("Received termination signal, shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// Start the server
	log.Println("Starting the intent ledger service...")
	if err := server.Start(); err != nil {
		log.Fatalf("Ledger server error: %v", err)
	}
}
