package refresh

import (
	"context"
	"covid-trends/internal/config"
	"covid-trends/internal/dataset"
	"covid-trends/internal/model"
	"covid-trends/internal/store"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

// ErrEmpty is returned when the upstream snapshot yields no usable rows.
var ErrEmpty = errors.New("upstream returned no usable rows")

// ------------------- Refresh Runner -------------------

// Run executes one full refresh: fetch → validate → clean → aggregate →
// atomic store replace. Any failure before the replace leaves the previous
// processed data intact; the scheduler's next invocation is the retry.
func Run(ctx context.Context, runID string, cfg *config.Config) (err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting refresh run: %s\n", runID)

	store.UpdateRunStatus(runID, model.RunRunning)
	defer func() {
		if err != nil {
			store.UpdateRunStatus(runID, model.RunFailed)
			store.SaveRunError(runID, err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.FetchTimeout)*time.Second)
	defer cancel()

	rawCh := make(chan model.RawRecord, 256)
	validCh := make(chan model.RawRecord, 256)
	cleanCh := make(chan model.CountryDay, 256)
	errCh := make(chan error, 256)

	// --- ERROR LOGGER ---
	// Stage workers report per-row drops here; none of them are fatal.
	logDone := make(chan struct{})
	go func() {
		defer close(logDone)
		for e := range errCh {
			log.Printf("⚠️ run %s: %v", runID, e)
		}
	}()

	var stages sync.WaitGroup

	// --- FETCH STAGE ---
	var rowsFetched int
	var fetchErr error
	stages.Add(1)
	go func() {
		defer stages.Done()
		stageStart := time.Now()
		store.SaveRunLog(runID, "fetch", "info", "Starting fetch", map[string]interface{}{
			"url": cfg.SourceURL,
		})

		client := &http.Client{}
		rowsFetched, fetchErr = Ingest(ctx, client, cfg.SourceURL, rawCh)
		close(rawCh) // safe: only this goroutine closes rawCh

		store.SaveRunLog(runID, "fetch", "info", "Fetch finished", map[string]interface{}{
			"rows":        rowsFetched,
			"duration_ms": time.Since(stageStart).Milliseconds(),
		})
	}()

	// --- VALIDATION STAGE ---
	stages.Add(1)
	go func() {
		defer stages.Done()
		fmt.Println("🔍 Starting validation stage...")
		Validate(ctx, rawCh, validCh, errCh, cfg.ValidateWorkers)
	}()

	// --- CLEAN STAGE ---
	stages.Add(1)
	go func() {
		defer stages.Done()
		fmt.Println("🔄 Starting clean stage...")
		Clean(ctx, validCh, cleanCh, errCh, cfg.CleanWorkers)
	}()

	// --- COLLECT ---
	var rows []model.CountryDay
	stages.Add(1)
	go func() {
		defer stages.Done()
		for day := range cleanCh {
			rows = append(rows, day)
		}
	}()

	stages.Wait()
	close(errCh)
	<-logDone

	if fetchErr != nil {
		return fmt.Errorf("fetch failed: %w", fetchErr)
	}
	if len(rows) == 0 {
		return ErrEmpty
	}

	// --- AGGREGATION ---
	fmt.Println("📊 Starting aggregation stage...")
	tables := Aggregate(rows, cfg.RollingWindow)
	countries := len(tables.Comparison)
	store.SaveRunLog(runID, "aggregate", "info", "Aggregation finished", map[string]interface{}{
		"rows":      len(tables.Series),
		"countries": countries,
	})

	// --- EXPORT ---
	fmt.Println("💾 Replacing processed-data store...")
	ds := dataset.NewFileStore(cfg.DataDir)
	if err := ds.WriteTables(tables); err != nil {
		return fmt.Errorf("store write failed: %w", err)
	}
	if err := ds.WriteLastUpdated(time.Now()); err != nil {
		return fmt.Errorf("store write failed: %w", err)
	}

	store.UpdateRunCounts(runID, rowsFetched, len(rows), countries)
	store.UpdateRunStatus(runID, model.RunCompleted)

	fmt.Printf("🏁 Refresh completed for run %s in %v: %d rows, %d countries\n",
		runID, time.Since(start), len(rows), countries)
	return nil
}
