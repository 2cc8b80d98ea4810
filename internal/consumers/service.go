package consumers

import (
	"context"
	"log/slog"

	"epark/internal/config"
	"epark/internal/database"
	"epark/internal/messaging"
	"epark/internal/models"
	"epark/internal/repository"
)

// ConsumerService fans session lifecycle events out into notifications and
// operator wallet credits. It runs as its own binary so a burst of events
// never slows the API down.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	handlers := NewHandlers(repos)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	if _, err := cs.nats.SubscribeQueue(models.EventSessionReserved, "consumers", cs.handlers.HandleSessionReserved); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.EventSessionCheckedIn, "consumers", cs.handlers.HandleSessionCheckedIn); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.EventSessionPaused, "consumers", cs.handlers.HandleSessionPaused); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.EventSessionResumed, "consumers", cs.handlers.HandleSessionResumed); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.EventSessionCompleted, "consumers", cs.handlers.HandleSessionCompleted); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.EventSessionCancelled, "consumers", cs.handlers.HandleSessionCancelled); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.EventWalletCredited, "consumers", cs.handlers.HandleWalletCredited); err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

// Repositories exposes the repos for the background jobs sharing this
// process
func (cs *ConsumerService) Repositories() *repository.Repositories {
	return cs.repos
}

// NATS exposes the messaging client for the background jobs
func (cs *ConsumerService) NATS() *messaging.NATSClient {
	return cs.nats
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
