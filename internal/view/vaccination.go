package view

import (
	"covid-trends/internal/model"
	"sort"
)

// Vaccination is the vaccination-progress view.
type Vaccination struct {
	NoData               bool      `json:"no_data"`
	LatestDate           string    `json:"latest_date,omitempty"`
	TotalFullyVaccinated float64   `json:"total_fully_vaccinated"`
	Rate                 float64   `json:"rate"` // % of the selected population
	RateChart            ChartSpec `json:"rate_chart,omitempty"`
	TrendChart           ChartSpec `json:"trend_chart,omitempty"`
}

// BuildVaccination computes the vaccination view for already-filtered rows.
func BuildVaccination(rows []model.VaccinationRow) Vaccination {
	if len(rows) == 0 {
		return Vaccination{NoData: true}
	}

	var latest model.VaccinationRow
	for _, r := range rows {
		if r.Date.After(latest.Date) {
			latest = r
		}
	}

	var latestRows []model.VaccinationRow
	for _, r := range rows {
		if r.Date.Equal(latest.Date) {
			latestRows = append(latestRows, r)
		}
	}

	var v Vaccination
	v.LatestDate = latest.Date.Format("2006-01-02")

	var population float64
	for _, r := range latestRows {
		v.TotalFullyVaccinated += r.PeopleFullyVaccinated
		population += r.Population
	}
	if population > 0 {
		v.Rate = v.TotalFullyVaccinated / population * 100
	}

	// Top countries by share of population fully vaccinated.
	ranked := make([]model.VaccinationRow, len(latestRows))
	copy(ranked, latestRows)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].PeopleFullyVaccinatedPerHundred != ranked[j].PeopleFullyVaccinatedPerHundred {
			return ranked[i].PeopleFullyVaccinatedPerHundred > ranked[j].PeopleFullyVaccinatedPerHundred
		}
		return ranked[i].Country < ranked[j].Country
	})
	if len(ranked) > 20 {
		ranked = ranked[:20]
	}

	rateSeries := Series{Name: "vaccination_rate"}
	for _, r := range ranked {
		rateSeries.Labels = append(rateSeries.Labels, r.Country)
		rateSeries.Values = append(rateSeries.Values, r.PeopleFullyVaccinatedPerHundred)
	}
	v.RateChart = ChartSpec{
		Type:   "bar",
		Title:  "Top Countries by Vaccination Rate (%)",
		XLabel: "Country",
		YLabel: "Vaccination Rate (%)",
		Series: []Series{rateSeries},
	}

	// Per-country progress over time.
	byCountry := make(map[string][]model.VaccinationRow)
	var countries []string
	for _, r := range rows {
		if _, seen := byCountry[r.Country]; !seen {
			countries = append(countries, r.Country)
		}
		byCountry[r.Country] = append(byCountry[r.Country], r)
	}
	sort.Strings(countries)

	v.TrendChart = ChartSpec{
		Type:   "line",
		Title:  "Vaccination Rate Over Time (% of Population)",
		XLabel: "Date",
		YLabel: "Fully Vaccinated (%)",
	}
	for _, country := range countries {
		days := byCountry[country]
		sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

		s := Series{Name: country}
		for _, d := range days {
			s.Labels = append(s.Labels, d.Date.Format("2006-01-02"))
			s.Values = append(s.Values, d.PeopleFullyVaccinatedPerHundred)
		}
		v.TrendChart.Series = append(v.TrendChart.Series, s)
	}
	return v
}
