package dashboard

import (
	"covid-trends/internal/dataset"
	"covid-trends/internal/model"
	"sort"
	"sync"
	"time"
)

// Snapshot is one read-only load of the processed-data store. Sessions share
// it but never mutate it; filtering happens on copies per request.
type Snapshot struct {
	Series      []model.SeriesRow
	Vaccination []model.VaccinationRow
	Countries   []string
	MinDate     time.Time
	MaxDate     time.Time
	LastUpdated string
}

// Loader caches the store between reads so each request does not re-parse
// the tables. The store only changes when the refresh job replaces it, so a
// TTL is enough.
type Loader struct {
	store dataset.Store
	ttl   time.Duration

	mu       sync.Mutex
	snap     *Snapshot
	loadedAt time.Time
}

// NewLoader creates a Loader over the given store.
func NewLoader(store dataset.Store, ttl time.Duration) *Loader {
	return &Loader{store: store, ttl: ttl}
}

// Snapshot returns the cached snapshot, reloading from disk when stale.
// A missing store surfaces as dataset.ErrNoData.
func (l *Loader) Snapshot() (*Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.snap != nil && time.Since(l.loadedAt) < l.ttl {
		return l.snap, nil
	}

	series, err := l.store.LoadSeries()
	if err != nil {
		return nil, err
	}
	vax, err := l.store.LoadVaccination()
	if err != nil && err != dataset.ErrNoData {
		return nil, err
	}
	lastUpdated, err := l.store.LastUpdated()
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Series:      series,
		Vaccination: vax,
		LastUpdated: lastUpdated,
	}
	seen := make(map[string]bool)
	for _, r := range series {
		if !seen[r.Country] {
			seen[r.Country] = true
			snap.Countries = append(snap.Countries, r.Country)
		}
		if snap.MinDate.IsZero() || r.Date.Before(snap.MinDate) {
			snap.MinDate = r.Date
		}
		if snap.MaxDate.IsZero() || r.Date.After(snap.MaxDate) {
			snap.MaxDate = r.Date
		}
	}
	sort.Strings(snap.Countries)

	l.snap = snap
	l.loadedAt = time.Now()
	return snap, nil
}

// Invalidate drops the cached snapshot so the next request re-reads the
// store.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.snap = nil
	l.mu.Unlock()
}
