package model

import "time"

// Filter is the transient, session-scoped view selection: which countries,
// which date range, which metric. It is never persisted.
type Filter struct {
	Countries []string  `json:"countries"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Metric    string    `json:"metric"`
	Window    int       `json:"window"` // moving-average window in days
}

// Clamp bounds the filter's date range to the available data bounds.
// A zero From/To means "use the bound". An inverted range collapses to
// the clamped endpoints rather than erroring.
func (f Filter) Clamp(min, max time.Time) Filter {
	if f.From.IsZero() || f.From.Before(min) {
		f.From = min
	}
	if f.To.IsZero() || f.To.After(max) {
		f.To = max
	}
	if f.From.After(f.To) {
		f.From, f.To = f.To, f.From
	}
	return f
}

// WantsCountry reports whether the filter selects the given country.
// An empty selection matches nothing; views surface that as an explicit
// empty state.
func (f Filter) WantsCountry(country string) bool {
	for _, c := range f.Countries {
		if c == country {
			return true
		}
	}
	return false
}

// InRange reports whether a date falls inside the (inclusive) filter range.
func (f Filter) InRange(d time.Time) bool {
	return !d.Before(f.From) && !d.After(f.To)
}
