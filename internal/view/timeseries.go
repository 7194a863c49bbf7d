package view

import (
	"covid-trends/internal/model"
	"fmt"
	"sort"
)

// TimeSeries is the time-series view: one line per country for the selected
// metric, plus the moving-average companion chart.
type TimeSeries struct {
	NoData        bool      `json:"no_data"`
	Metric        string    `json:"metric,omitempty"`
	Window        int       `json:"window,omitempty"`
	Chart         ChartSpec `json:"chart,omitempty"`
	MovingAverage ChartSpec `json:"moving_average,omitempty"`
}

// BuildTimeSeries computes the time-series view for already-filtered rows.
func BuildTimeSeries(rows []model.SeriesRow, metric string, window int) TimeSeries {
	if len(rows) == 0 {
		return TimeSeries{NoData: true}
	}
	if window <= 0 {
		window = 7
	}

	byCountry := make(map[string][]model.SeriesRow)
	var countries []string
	for _, r := range rows {
		if _, seen := byCountry[r.Country]; !seen {
			countries = append(countries, r.Country)
		}
		byCountry[r.Country] = append(byCountry[r.Country], r)
	}
	sort.Strings(countries)

	ts := TimeSeries{Metric: metric, Window: window}
	ts.Chart = ChartSpec{
		Type:   "line",
		Title:  fmt.Sprintf("%s Over Time", titleize(metric)),
		XLabel: "Date",
		YLabel: titleize(metric),
	}
	ts.MovingAverage = ChartSpec{
		Type:   "line",
		Title:  fmt.Sprintf("%d-Day Moving Average of %s", window, titleize(metric)),
		XLabel: "Date",
		YLabel: fmt.Sprintf("%s (Moving Average)", titleize(metric)),
	}

	for _, country := range countries {
		days := byCountry[country]
		sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

		s := Series{Name: country}
		for _, d := range days {
			s.Labels = append(s.Labels, d.Date.Format("2006-01-02"))
			s.Values = append(s.Values, model.MetricValue(d, metric))
		}
		ts.Chart.Series = append(ts.Chart.Series, s)

		ma := Series{
			Name:   fmt.Sprintf("%s (%d-day MA)", country, window),
			Labels: s.Labels,
			Values: movingAverage(s.Values, window),
		}
		ts.MovingAverage.Series = append(ts.MovingAverage.Series, ma)
	}
	return ts
}

// movingAverage computes a trailing mean over the window, shrinking it at
// the start of the series.
func movingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}
