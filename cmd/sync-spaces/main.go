package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"epark/internal/config"
	"epark/internal/database"
	"epark/internal/logger"
	"epark/internal/repository"
	"epark/internal/search"
)

// sync-spaces rebuilds the Elasticsearch index from the database and
// repairs availability counters from the open sessions. Run it after an
// index outage or mapping change; indexing during normal writes is
// best-effort and can lag behind, and a slot release that fails mid-flight
// leaves the counter stale until reconciled.
func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	slog.Info("Starting parking space index sync")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		log.Fatalf("Failed to connect to Elasticsearch: %v", err)
	}

	spaceRepo := repository.NewSpaceRepository(db)

	if err := syncSpaces(context.Background(), spaceRepo, esClient); err != nil {
		log.Fatalf("Space synchronization failed: %v", err)
	}

	slog.Info("Space synchronization completed successfully")
}

func syncSpaces(ctx context.Context, spaceRepo *repository.SpaceRepository, esClient *search.ElasticsearchClient) error {
	start := time.Now()

	spaces, err := spaceRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list parking spaces: %w", err)
	}

	slog.Info("Loaded parking spaces from database", "count", len(spaces))

	indexed := 0
	removed := 0
	for i := range spaces {
		if spaces[i].Status != "active" {
			if err := esClient.DeleteSpace(ctx, spaces[i].ID); err != nil {
				slog.Error("Failed to remove space from index",
					"error", err, "space_id", spaces[i].ID)
				continue
			}
			removed++
			continue
		}

		if err := spaceRepo.ReconcileAvailability(ctx, spaces[i].ID); err != nil {
			slog.Error("Failed to reconcile space availability",
				"error", err, "space_id", spaces[i].ID)
		} else if fresh, err := spaceRepo.GetByID(ctx, spaces[i].ID); err == nil && fresh != nil {
			spaces[i] = *fresh
		}

		if err := esClient.IndexSpace(ctx, &spaces[i]); err != nil {
			slog.Error("Failed to index space",
				"error", err, "space_id", spaces[i].ID, "name", spaces[i].Name)
			continue
		}
		indexed++
	}

	slog.Info("Index sync finished",
		"indexed", indexed,
		"removed", removed,
		"duration", time.Since(start).String())

	return nil
}
