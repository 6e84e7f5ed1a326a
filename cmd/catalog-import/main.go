// Package main implements the activity catalog importer. It reads a
// JSON file of activities and inserts them in a single transaction, so
// a failed import leaves the catalog untouched.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/bambini-app/bambini-api/internal/config"
	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/platform/logger"
	"github.com/bambini-app/bambini-api/internal/platform/postgres"
	"github.com/bambini-app/bambini-api/internal/store"
)

// catalogEntry is the JSON shape of one activity in the import file.
type catalogEntry struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Domain       string   `json:"domain"`
	AgeBand      string   `json:"age_band"`
	Instructions []string `json:"instructions"`
	Materials    []string `json:"materials"`
	MinAgeMonths int      `json:"min_age_months"`
	MaxAgeMonths int      `json:"max_age_months"`
}

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "path to the activity catalog JSON file")
	flag.Parse()

	if filePath == "" {
		log.Fatal("usage: catalog-import -file <catalog.json>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	appLogger := logger.Setup(cfg.Server)

	if err := run(context.Background(), cfg, appLogger, filePath); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *slog.Logger, filePath string) error {
	activities, err := loadCatalog(filePath)
	if err != nil {
		return err
	}
	appLogger.Info("catalog loaded",
		slog.String("file", filePath),
		slog.Int("activities", len(activities)))

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Error closing database connection", "error", err)
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	activityStore := postgres.NewPostgresActivityStore(db, appLogger)

	// The whole batch lands atomically or not at all.
	err = store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := activityStore.WithTx(tx)
		for i := range activities {
			if err := txStore.Create(ctx, &activities[i]); err != nil {
				return fmt.Errorf("failed to insert %q: %w", activities[i].Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	appLogger.Info("catalog imported", slog.Int("activities", len(activities)))
	return nil
}

// loadCatalog parses and validates the import file. Every entry must be
// valid before anything is written.
func loadCatalog(filePath string) ([]domain.Activity, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var entries []catalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog file contains no activities")
	}

	activities := make([]domain.Activity, 0, len(entries))
	for i, e := range entries {
		activity := domain.Activity{
			ID:           uuid.New(),
			Title:        e.Title,
			Description:  e.Description,
			Domain:       domain.DevelopmentalDomain(e.Domain),
			AgeBand:      e.AgeBand,
			Instructions: e.Instructions,
			Materials:    e.Materials,
			MinAgeMonths: e.MinAgeMonths,
			MaxAgeMonths: e.MaxAgeMonths,
			CreatedAt:    time.Now().UTC(),
		}
		if err := activity.Validate(); err != nil {
			return nil, fmt.Errorf("invalid activity at index %d (%q): %w", i, e.Title, err)
		}
		activities = append(activities, activity)
	}

	return activities, nil
}
