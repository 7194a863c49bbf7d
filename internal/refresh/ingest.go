package refresh

import (
	"context"
	"covid-trends/internal/model"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// ------------------- Ingestion -------------------

// requiredColumns must all be present in the upstream header. A header
// missing any of them is a schema failure and aborts the run.
var requiredColumns = []string{"iso_code", "location", "date"}

// ErrSchema marks an upstream header that no longer matches the expected shape.
var ErrSchema = errors.New("upstream schema mismatch")

// Ingest streams the upstream CSV row by row onto out. Each row becomes a
// RawRecord keyed by header name; columns we don't know about ride along and
// are dropped later by the clean stage. Returns the number of rows read.
func Ingest(ctx context.Context, client *http.Client, url string, out chan<- model.RawRecord) (int, error) {
	fmt.Printf("➡️ Fetching dataset: %s\n", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to GET dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %q from upstream", resp.Status)
	}

	csvReader := csv.NewReader(resp.Body)
	csvReader.LazyQuotes = true
	headers, err := csvReader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
	}
	if err := checkHeader(headers); err != nil {
		return 0, err
	}

	recordCount := 0
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			fmt.Printf("📄 Fetch done: %d rows read from %s\n", recordCount, url)
			return recordCount, nil
		}
		if err != nil {
			// A single malformed row is dropped; the run goes on.
			continue
		}

		rec := make(model.RawRecord, len(headers))
		for i, h := range headers {
			if i < len(record) {
				rec[h] = parseValue(record[i])
			}
		}

		select {
		case <-ctx.Done():
			return recordCount, ctx.Err()
		case out <- rec:
			recordCount++
			if recordCount%50000 == 0 {
				fmt.Printf("📄 Fetch: %d rows read\n", recordCount)
			}
		}
	}
}

// checkHeader verifies every required column is present, naming the ones
// that are not.
func checkHeader(headers []string) error {
	have := make(map[string]bool, len(headers))
	for _, h := range headers {
		have[h] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %s", ErrSchema, strings.Join(missing, ", "))
	}
	return nil
}

// parseValue converts a CSV cell into int, float or string. Empty cells
// become nil so downstream stages can tell "missing" from zero.
func parseValue(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
