package refresh

import (
	"context"
	"covid-trends/internal/model"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Clean projects validated raw rows onto the typed column subset in
// parallel. Columns outside the kept set are dropped silently, so additive
// upstream schema changes never break a run.
func Clean(
	ctx context.Context,
	in <-chan model.RawRecord,
	out chan<- model.CountryDay,
	errs chan<- error,
	workerCount int,
) {
	if workerCount <= 0 {
		workerCount = 2 // default
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)

	var cleanCount, errorCount int64
	var mu sync.Mutex

	for i := 0; i < workerCount; i++ {
		go func(workerID int) {
			defer wg.Done()
			workerClean := 0
			workerErrors := 0

			for rec := range in {
				select {
				case <-ctx.Done():
					return
				default:
					day, err := cleanRecord(rec)
					if err != nil {
						workerErrors++
						if workerErrors <= 3 {
							errs <- fmt.Errorf("row dropped: %w", err)
						}
						continue
					}
					select {
					case <-ctx.Done():
						return
					case out <- day:
						workerClean++
					}
				}
			}

			mu.Lock()
			cleanCount += int64(workerClean)
			errorCount += int64(workerErrors)
			mu.Unlock()
		}(i)
	}

	// Close the output channel only AFTER all workers finish
	go func() {
		wg.Wait()
		mu.Lock()
		fmt.Printf("🔄 Clean Summary: %d rows kept, %d dropped\n", cleanCount, errorCount)
		mu.Unlock()
		close(out)
	}()
}

// cleanRecord builds a CountryDay from a raw row. The upstream "location"
// column becomes Country.
func cleanRecord(rec model.RawRecord) (model.CountryDay, error) {
	iso, _ := rec["iso_code"].(string)
	country, _ := rec["location"].(string)
	continent, _ := rec["continent"].(string)

	dateStr, _ := rec["date"].(string)
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return model.CountryDay{}, fmt.Errorf("unparseable date %q: %w", dateStr, err)
	}

	return model.CountryDay{
		ISOCode:               iso,
		Continent:             continent,
		Country:               country,
		Date:                  date,
		NewCases:              numeric(rec["new_cases"]),
		TotalCases:            numeric(rec["total_cases"]),
		NewDeaths:             numeric(rec["new_deaths"]),
		TotalDeaths:           numeric(rec["total_deaths"]),
		NewTests:              numeric(rec["new_tests"]),
		TotalTests:            numeric(rec["total_tests"]),
		NewVaccinations:       numeric(rec["new_vaccinations"]),
		TotalVaccinations:     numeric(rec["total_vaccinations"]),
		PeopleVaccinated:      numeric(rec["people_vaccinated"]),
		PeopleFullyVaccinated: numeric(rec["people_fully_vaccinated"]),
		Population:            numeric(rec["population"]),
	}, nil
}

// numeric converts the loosely typed cell values the ingest stage produces.
// Missing cells (nil) and anything non-numeric come out as 0.
func numeric(v interface{}) float64 {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case float64:
		return val
	case float32:
		return float64(val)
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}
