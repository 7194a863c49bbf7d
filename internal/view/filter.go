package view

import (
	"covid-trends/internal/model"
	"time"
)

// FilterSeries returns the rows matching the filter's country and date
// selection, preserving input order.
func FilterSeries(rows []model.SeriesRow, f model.Filter) []model.SeriesRow {
	var out []model.SeriesRow
	for _, r := range rows {
		if f.WantsCountry(r.Country) && f.InRange(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// FilterVaccination is FilterSeries for the vaccination table.
func FilterVaccination(rows []model.VaccinationRow, f model.Filter) []model.VaccinationRow {
	var out []model.VaccinationRow
	for _, r := range rows {
		if f.WantsCountry(r.Country) && f.InRange(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// SeriesBounds returns the earliest and latest dates present in rows.
func SeriesBounds(rows []model.SeriesRow) (min, max time.Time) {
	for _, r := range rows {
		if min.IsZero() || r.Date.Before(min) {
			min = r.Date
		}
		if max.IsZero() || r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max
}
