package main

import (
	"context"
	"log"
	"os"

	"covid-trends/internal/config"
	"covid-trends/internal/refresh"
	"covid-trends/internal/store"

	"github.com/google/uuid"
)

// One-shot refresh job. Cron invokes this once per day; a non-zero exit
// tells the scheduler the run failed and the previous data is still live.
func main() {
	cfg := config.Load()

	if err := store.InitDB(cfg.RunDBPath); err != nil {
		log.Fatalf("failed to open run database: %v", err)
	}

	runID := uuid.New().String()
	if err := store.SaveRun(runID, cfg.SourceURL); err != nil {
		log.Fatalf("failed to record run: %v", err)
	}

	if err := refresh.Run(context.Background(), runID, cfg); err != nil {
		log.Printf("❌ Refresh failed: %v", err)
		os.Exit(1)
	}
}
