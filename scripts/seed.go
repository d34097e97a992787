package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/agrievents/internal/adapters/database"
	"github.com/zatekoja/agrievents/internal/adapters/filestore"
	"github.com/zatekoja/agrievents/internal/application/services"
	"github.com/zatekoja/agrievents/internal/domain/entities"
	"github.com/zatekoja/agrievents/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/agrievents/pkg/config"
)

// Replays a fixed set of searches against the events file and stores them as
// search analytics, so the zero-result report has data in a fresh environment.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	if err := pgClient.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating search_analytics before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE search_analytics`); err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	repo := filestore.NewCSVEventAdapter(cfg.Data.EventsPath, cfg.Data.DelimiterRune())
	events, err := repo.List(ctx)
	if err != nil {
		log.Fatalf("Failed to load events from %s: %v", cfg.Data.EventsPath, err)
	}

	analytics := database.NewSearchAnalyticsAdapter(pgClient)

	queries := []string{
		"maaperä",
		"vilja",
		"luomu",
		"webinaari",
		"kalastus",
		"mehiläiset",
		"Vesiensuojelu",
		"porotalous",
	}

	now := time.Now().UTC()
	for i, query := range queries {
		start := time.Now()
		matches := services.FilterEvents(events, query)

		event := &entities.SearchEvent{
			ID:              uuid.New().String(),
			Query:           query,
			NormalizedQuery: services.NormalizeQuery(query),
			ResultCount:     len(matches),
			LatencyMs:       int(time.Since(start).Milliseconds()),
			CreatedAt:       now.Add(-time.Duration(len(queries)-i) * time.Minute),
		}
		if err := analytics.LogEvent(ctx, event); err != nil {
			log.Printf("Failed to store search %q: %v", query, err)
			continue
		}
		log.Printf("Seeded search %q (%d results)", query, len(matches))
	}

	log.Println("Seeding completed successfully")
}
