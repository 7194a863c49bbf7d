package refresh

import (
	"covid-trends/internal/dataset"
	"covid-trends/internal/model"
	"fmt"
	"sort"
)

const perMillion = 1_000_000

// Aggregate derives the processed tables from the cleaned rows. Every output
// row keeps the (country, date) key of an input row; nothing is fabricated.
// Rows are sorted by (country, date, iso_code) up front so repeated runs on
// identical input produce identical tables.
func Aggregate(rows []model.CountryDay, window int) dataset.Tables {
	if window <= 0 {
		window = 7
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Country != rows[j].Country {
			return rows[i].Country < rows[j].Country
		}
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].ISOCode < rows[j].ISOCode
	})

	var tables dataset.Tables
	tables.Clean = rows

	countryCount := 0
	for start := 0; start < len(rows); {
		end := start
		for end < len(rows) && rows[end].Country == rows[start].Country {
			end++
		}
		countryCount++

		series := buildCountrySeries(rows[start:end], window)
		tables.Series = append(tables.Series, series...)

		latest := series[len(series)-1]
		tables.Comparison = append(tables.Comparison, snapshotOf(latest))

		for _, r := range series {
			tables.Vaccination = append(tables.Vaccination, vaccinationOf(r))
		}

		start = end
	}

	fmt.Printf("📊 Aggregation Summary: %d series rows across %d countries\n",
		len(tables.Series), countryCount)
	return tables
}

// buildCountrySeries derives the per-country time series: cumulative columns
// forward-filled, rolling means over the window, per-capita rates, and
// cumulative sums recomputed from the dailies. days is one country's rows in
// date order.
func buildCountrySeries(days []model.CountryDay, window int) []model.SeriesRow {
	series := make([]model.SeriesRow, 0, len(days))

	var lastTotalCases, lastTotalDeaths, lastTotalTests, lastTotalVax float64
	var lastPeopleVax, lastPeopleFullyVax float64
	var cumCases, cumDeaths float64

	for i, d := range days {
		// Upstream leaves gaps in cumulative columns on days with no
		// report; carry the last reported value forward.
		lastTotalCases = forwardFill(d.TotalCases, lastTotalCases)
		lastTotalDeaths = forwardFill(d.TotalDeaths, lastTotalDeaths)
		lastTotalTests = forwardFill(d.TotalTests, lastTotalTests)
		lastTotalVax = forwardFill(d.TotalVaccinations, lastTotalVax)
		lastPeopleVax = forwardFill(d.PeopleVaccinated, lastPeopleVax)
		lastPeopleFullyVax = forwardFill(d.PeopleFullyVaccinated, lastPeopleFullyVax)

		d.TotalCases = lastTotalCases
		d.TotalDeaths = lastTotalDeaths
		d.TotalTests = lastTotalTests
		d.TotalVaccinations = lastTotalVax
		d.PeopleVaccinated = lastPeopleVax
		d.PeopleFullyVaccinated = lastPeopleFullyVax

		cumCases += d.NewCases
		cumDeaths += d.NewDeaths

		row := model.SeriesRow{
			CountryDay:        d,
			NewCasesSmoothed:  rollingMean(days, i, window, func(x model.CountryDay) float64 { return x.NewCases }),
			NewDeathsSmoothed: rollingMean(days, i, window, func(x model.CountryDay) float64 { return x.NewDeaths }),
			CumulativeCases:   cumCases,
			CumulativeDeaths:  cumDeaths,
		}
		if d.Population > 0 {
			row.NewCasesPerMillion = d.NewCases / d.Population * perMillion
			row.TotalCasesPerMillion = d.TotalCases / d.Population * perMillion
			row.NewDeathsPerMillion = d.NewDeaths / d.Population * perMillion
			row.TotalDeathsPerMillion = d.TotalDeaths / d.Population * perMillion
		}
		series = append(series, row)
	}
	return series
}

// forwardFill keeps the previous cumulative value when today's is missing.
// Cumulative columns never decrease upstream, so a zero after a positive
// value means "not reported today".
func forwardFill(today, prev float64) float64 {
	if today == 0 && prev > 0 {
		return prev
	}
	return today
}

// rollingMean averages the last `window` values ending at index i.
func rollingMean(days []model.CountryDay, i, window int, value func(model.CountryDay) float64) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	var sum float64
	for j := start; j <= i; j++ {
		sum += value(days[j])
	}
	return sum / float64(i-start+1)
}

func snapshotOf(r model.SeriesRow) model.CountrySnapshot {
	snap := model.CountrySnapshot{
		ISOCode:               r.ISOCode,
		Continent:             r.Continent,
		Country:               r.Country,
		Date:                  r.Date,
		TotalCases:            r.TotalCases,
		TotalDeaths:           r.TotalDeaths,
		TotalCasesPerMillion:  r.TotalCasesPerMillion,
		TotalDeathsPerMillion: r.TotalDeathsPerMillion,
		TotalVaccinations:     r.TotalVaccinations,
		PeopleVaccinated:      r.PeopleVaccinated,
		PeopleFullyVaccinated: r.PeopleFullyVaccinated,
		Population:            r.Population,
	}
	if snap.Population > 0 {
		snap.VaccinationRate = snap.PeopleFullyVaccinated / snap.Population * 100
	}
	return snap
}

func vaccinationOf(r model.SeriesRow) model.VaccinationRow {
	row := model.VaccinationRow{
		ISOCode:               r.ISOCode,
		Country:               r.Country,
		Date:                  r.Date,
		NewVaccinations:       r.NewVaccinations,
		TotalVaccinations:     r.TotalVaccinations,
		PeopleVaccinated:      r.PeopleVaccinated,
		PeopleFullyVaccinated: r.PeopleFullyVaccinated,
		Population:            r.Population,
	}
	if row.Population > 0 {
		row.PeopleFullyVaccinatedPerHundred = row.PeopleFullyVaccinated / row.Population * 100
	}
	return row
}
