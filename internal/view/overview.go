package view

import (
	"covid-trends/internal/model"
	"sort"
)

// OverviewCountry is one row of the overview top-countries table.
type OverviewCountry struct {
	Country               string  `json:"country"`
	TotalCases            float64 `json:"total_cases"`
	TotalDeaths           float64 `json:"total_deaths"`
	PeopleFullyVaccinated float64 `json:"people_fully_vaccinated"`
}

// Overview summarizes the filtered data at its latest date.
type Overview struct {
	NoData        bool              `json:"no_data"`
	LatestDate    string            `json:"latest_date,omitempty"`
	TotalCases    float64           `json:"total_cases"`
	TotalDeaths   float64           `json:"total_deaths"`
	MortalityRate float64           `json:"mortality_rate"` // percent
	Map           *ChartSpec        `json:"map,omitempty"`
	TopCountries  []OverviewCountry `json:"top_countries,omitempty"`
}

// BuildOverview computes the overview for already-filtered rows.
func BuildOverview(rows []model.SeriesRow) Overview {
	if len(rows) == 0 {
		return Overview{NoData: true}
	}

	_, latest := SeriesBounds(rows)
	var latestRows []model.SeriesRow
	for _, r := range rows {
		if r.Date.Equal(latest) {
			latestRows = append(latestRows, r)
		}
	}

	var o Overview
	o.LatestDate = latest.Format("2006-01-02")
	for _, r := range latestRows {
		o.TotalCases += r.TotalCases
		o.TotalDeaths += r.TotalDeaths
	}
	if o.TotalCases > 0 {
		o.MortalityRate = o.TotalDeaths / o.TotalCases * 100
	}

	sort.Slice(latestRows, func(i, j int) bool {
		if latestRows[i].TotalCases != latestRows[j].TotalCases {
			return latestRows[i].TotalCases > latestRows[j].TotalCases
		}
		return latestRows[i].Country < latestRows[j].Country
	})

	mapSeries := Series{Name: "total_cases"}
	for _, r := range latestRows {
		mapSeries.Labels = append(mapSeries.Labels, r.ISOCode)
		mapSeries.Values = append(mapSeries.Values, r.TotalCases)
	}
	o.Map = &ChartSpec{
		Type:   "choropleth",
		Title:  "Total Confirmed Cases by Country",
		Series: []Series{mapSeries},
	}

	top := latestRows
	if len(top) > 10 {
		top = top[:10]
	}
	for _, r := range top {
		o.TopCountries = append(o.TopCountries, OverviewCountry{
			Country:               r.Country,
			TotalCases:            r.TotalCases,
			TotalDeaths:           r.TotalDeaths,
			PeopleFullyVaccinated: r.PeopleFullyVaccinated,
		})
	}
	return o
}
