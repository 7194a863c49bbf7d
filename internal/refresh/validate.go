package refresh

import (
	"context"
	"covid-trends/internal/model"
	"fmt"
	"sync"
)

// criticalFields must carry a value on every row; rows without them cannot
// be keyed by (region, date) and are dropped.
var criticalFields = []string{"iso_code", "location", "date"}

// Validate filters raw rows in parallel. Rows missing a critical field are
// dropped and reported on errs; everything else passes through unchanged.
func Validate(
	ctx context.Context,
	in <-chan model.RawRecord,
	out chan<- model.RawRecord,
	errs chan<- error,
	workerCount int,
) {
	if workerCount <= 0 {
		workerCount = 3 // default
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)

	var validCount, droppedCount int64
	var mu sync.Mutex

	for i := 0; i < workerCount; i++ {
		go func(workerID int) {
			defer wg.Done()
			workerValid := 0
			workerDropped := 0

			for rec := range in {
				select {
				case <-ctx.Done():
					return
				default:
					if field, ok := missingCritical(rec); !ok {
						workerDropped++
						if workerDropped <= 5 {
							errs <- fmt.Errorf("row dropped: missing critical field %s", field)
						}
						continue
					}
					select {
					case <-ctx.Done():
						return
					case out <- rec:
						workerValid++
					}
				}
			}

			mu.Lock()
			validCount += int64(workerValid)
			droppedCount += int64(workerDropped)
			mu.Unlock()
		}(i)
	}

	// Close the output channel only AFTER all workers finish
	go func() {
		wg.Wait()
		mu.Lock()
		fmt.Printf("🔍 Validation Summary: %d valid rows, %d dropped\n", validCount, droppedCount)
		mu.Unlock()
		close(out)
	}()
}

// missingCritical returns the first critical field with no value, if any.
func missingCritical(rec model.RawRecord) (string, bool) {
	for _, field := range criticalFields {
		v, ok := rec[field]
		if !ok || v == nil {
			return field, false
		}
		if s, isStr := v.(string); isStr && s == "" {
			return field, false
		}
	}
	return "", true
}
