package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"epark/cmd/consumers/jobs"
	"epark/internal/config"
	"epark/internal/consumers"
	"epark/internal/logger"
)

func main() {
	log.Println("Starting consumers service...")

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Consumers need their own NATS client id
	cfg.NATS.ClientID = "epark-consumers"

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		log.Fatalf("Failed to create consumer service: %v", err)
	}

	if err := consumerService.Start(); err != nil {
		log.Fatalf("Failed to start consumers: %v", err)
	}

	// The reservation expiration job shares this process
	expirationJob := jobs.NewReservationExpirationJob(
		consumerService.Repositories().Sessions,
		consumerService.NATS(),
	)
	expirationJob.Start(context.Background())

	log.Println("Consumers service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down consumers service...")

	expirationJob.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Consumers service stopped")
}
